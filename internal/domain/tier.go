package domain

const (
	MaxTierIDLen          = 20
	MaxTierNameLen        = 50
	MaxTierDescriptionLen = 100
)

// TicketTier is a priced inventory bucket within an event. Supply only ever
// moves up, and never past MaxSupply.
type TicketTier struct {
	Address       Address
	Event         Address
	TierID        string
	Name          string
	Description   string
	Price         uint64
	MaxSupply     uint64
	CurrentSupply uint64
	IsActive      bool
	Bump          uint8
}

// SoldOut reports whether the tier has no remaining supply.
func (t *TicketTier) SoldOut() bool {
	return t.CurrentSupply >= t.MaxSupply
}

func ValidateTierFields(tierID, name, description string) error {
	if tierID == "" || len(tierID) > MaxTierIDLen {
		return ErrInvalidInput
	}
	if len(name) > MaxTierNameLen {
		return ErrInvalidInput
	}
	if len(description) > MaxTierDescriptionLen {
		return ErrInvalidInput
	}
	return nil
}
