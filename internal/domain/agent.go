package domain

import "time"

const (
	MaxAgentIDLen        = 30
	MaxAgentNameLen      = 50
	MaxPreferredGenres   = 10
	MaxPreferredVenues   = 5
	MaxAllowedLocations  = 5
	MaxMinutesOfDay      = 1439 // 23:59
	AllDaysMask          = 0x7f // bit 0 = Monday ... bit 6 = Sunday
	DefaultMaxDistanceKm = 100
)

// AIAgent is an autonomous buyer owned by a wallet. The budget invariant
// spent_budget <= total_budget holds across every purchase and budget
// adjustment.
type AIAgent struct {
	Address Address
	Owner   Address
	AgentID string
	Name    string

	IsActive bool

	MaxBudgetPerTicket uint64
	TotalBudget        uint64
	SpentBudget        uint64

	PreferenceFlags  uint64
	PreferredGenres  []byte
	PreferredVenues  []Address
	MinEventDuration uint32
	MaxEventDuration uint32
	AllowedLocations []Address
	MaxDistanceKm    uint32

	PreferredDays      uint8  // day-of-week bitmask, bit 0 = Monday
	PreferredTimeStart uint32 // minutes from midnight UTC
	PreferredTimeEnd   uint32

	AutoPurchaseEnabled   bool
	AutoPurchaseThreshold uint16 // minimum deal quality in bps
	MaxTicketsPerEvent    uint8
	RequireVerification   bool

	AllowCoordination   bool
	CoordinationGroupID string // empty when not in a group

	TicketsPurchased uint64
	MoneySaved       uint64

	CreatedAt  time.Time
	LastActive time.Time
	Bump       uint8
}

// RemainingBudget is total minus spent; the invariant makes underflow a
// protocol error rather than a business mismatch.
func (a *AIAgent) RemainingBudget() (uint64, error) {
	return SafeSub(a.TotalBudget, a.SpentBudget)
}

// PreferencesMatch reports whether the agent would autonomously buy a ticket
// at the given price and deal quality right now. A mismatch is a business
// signal, never an error: protocol-level failures are checked separately by
// the purchase operations.
func (a *AIAgent) PreferencesMatch(price uint64, dealBps uint16, now time.Time) bool {
	if !a.IsActive || !a.AutoPurchaseEnabled {
		return false
	}

	remaining, err := a.RemainingBudget()
	if err != nil {
		return false
	}
	if price > remaining || price > a.MaxBudgetPerTicket {
		return false
	}

	utc := now.UTC()
	minutes := uint32(utc.Hour()*60 + utc.Minute())
	if minutes < a.PreferredTimeStart || minutes > a.PreferredTimeEnd {
		return false
	}

	dayBit := uint8(1) << mondayIndexed(utc.Weekday())
	if a.PreferredDays&dayBit == 0 {
		return false
	}

	return dealBps >= a.AutoPurchaseThreshold
}

func mondayIndexed(d time.Weekday) uint {
	return uint((int(d) + 6) % 7)
}

func ValidateAgentFields(agentID, name string) error {
	if agentID == "" || len(agentID) > MaxAgentIDLen {
		return ErrInvalidInput
	}
	if len(name) > MaxAgentNameLen {
		return ErrInvalidInput
	}
	return nil
}

// ValidateMinutesOfDay bounds a time-of-day preference to [0, 1439].
func ValidateMinutesOfDay(m uint32) error {
	if m > MaxMinutesOfDay {
		return ErrInvalidInput
	}
	return nil
}
