package domain

import "time"

const MaxSeatInfoLen = 50

type TicketStatus string

const (
	TicketStatusActive    TicketStatus = "active"
	TicketStatusConsumed  TicketStatus = "consumed"
	TicketStatusCancelled TicketStatus = "cancelled"
)

// Ticket is one purchased admission unit, tied to a unique mint identity.
// Status is a one-way machine: active -> consumed (validation at the door)
// or active -> cancelled (organizer action); no transition leaves consumed
// or cancelled. OriginalPrice never changes after purchase; it is the basis
// for every later resale price cap.
type Ticket struct {
	Address       Address
	Mint          Address
	Event         Address
	TierID        string
	Owner         Address
	OriginalPrice uint64
	Status        TicketStatus
	PurchasedAt   time.Time
	ValidatedAt   *time.Time
	SeatInfo      string
	CancelReason  string
	Bump          uint8
}
