package domain

import "time"

// GlobalConfig is the protocol-wide configuration singleton. Created once by
// the admin and mutated only by the admin; every operation that needs a
// config value is handed the loaded record, never ambient state.
type GlobalConfig struct {
	Address                Address
	Admin                  Address
	ProtocolFeeBps         uint16
	DefaultPriceCapBps     uint16
	MinListingDuration     time.Duration
	MaxListingDuration     time.Duration
	AllowAgentCoordination bool
	RequireVerification    bool
	Treasury               Address
	Bump                   uint8
}

// ValidateListingDurationBounds checks the configured window ordering.
func ValidateListingDurationBounds(min, max time.Duration) error {
	if min <= 0 {
		return ErrInvalidDuration
	}
	if max <= min {
		return ErrInvalidDuration
	}
	return nil
}
