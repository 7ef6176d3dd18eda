package domain

const (
	MaxUsernameLen = 30
	MaxEmailLen    = 100
)

// User is the on-ledger profile for a wallet, one per owner. Verification is
// set by the protocol admin only.
type User struct {
	Address          Address
	Owner            Address
	Username         string
	Email            string
	TicketsOwned     uint64
	TotalSpent       uint64
	TicketsPurchased uint64
	IsVerified       bool
	Bump             uint8
}

func ValidateUserFields(username, email string) error {
	if len(username) > MaxUsernameLen {
		return ErrInvalidInput
	}
	if len(email) > MaxEmailLen {
		return ErrInvalidInput
	}
	return nil
}

// UserTicketCounter tracks tickets bought by one user for one event across
// all tiers, backing the event's per-user cap.
type UserTicketCounter struct {
	Address     Address
	User        Address
	Event       Address
	TicketCount uint32
	Bump        uint8
}
