package domain

import "time"

// Field length bounds, fixed at record creation time.
const (
	MaxEventIDLen          = 50
	MaxEventNameLen        = 100
	MaxEventDescriptionLen = 200
	MaxEventImageURLLen    = 100
	MaxEventVenueLen       = 100
)

// Event is a ticketed event owned by its organizer. The sale window must
// close strictly before the event starts; cancellation is one-way and
// forces the event inactive.
type Event struct {
	Address           Address
	Organizer         Address
	EventID           string
	Name              string
	Description       string
	ImageURL          string
	Venue             string
	EventStartTime    time.Time
	EventEndTime      time.Time
	SaleStartTime     time.Time
	SaleEndTime       time.Time
	IsActive          bool
	IsCancelled       bool
	MaxTicketsPerUser uint32
	RoyaltyBps        uint16
	TotalTicketsSold  uint64
	TotalRevenue      uint64
	CreatedAt         time.Time
	Bump              uint8
}

// ValidateEventTiming enforces 0 < sale_start < sale_end < event_start <
// event_end. The sale window closing before the event begins is the
// at-the-door anti-scalping guard.
func ValidateEventTiming(eventStart, eventEnd, saleStart, saleEnd time.Time) error {
	if eventStart.IsZero() {
		return ErrInvalidEventTiming
	}
	if !eventEnd.After(eventStart) {
		return ErrInvalidEventTiming
	}
	if saleStart.IsZero() {
		return ErrInvalidEventTiming
	}
	if !saleEnd.After(saleStart) {
		return ErrInvalidEventTiming
	}
	if !saleEnd.Before(eventStart) {
		return ErrInvalidEventTiming
	}
	return nil
}

// IsActiveAt reports whether primary sales are open at the given instant.
// Both window boundaries are inclusive.
func (e *Event) IsActiveAt(now time.Time) bool {
	return e.IsActive &&
		!e.IsCancelled &&
		!now.Before(e.SaleStartTime) &&
		!now.After(e.SaleEndTime)
}

// IsOngoingAt reports whether the event itself is in progress (the window in
// which tickets can be validated at the door).
func (e *Event) IsOngoingAt(now time.Time) bool {
	return !e.IsCancelled &&
		!now.Before(e.EventStartTime) &&
		!now.After(e.EventEndTime)
}

// ValidateEventFields checks the variable-length field bounds declared for
// the record.
func ValidateEventFields(eventID, name, description, imageURL, venue string) error {
	if eventID == "" || len(eventID) > MaxEventIDLen {
		return ErrInvalidInput
	}
	if len(name) > MaxEventNameLen {
		return ErrInvalidInput
	}
	if len(description) > MaxEventDescriptionLen {
		return ErrInvalidInput
	}
	if len(imageURL) > MaxEventImageURLLen {
		return ErrInvalidInput
	}
	if len(venue) > MaxEventVenueLen {
		return ErrInvalidInput
	}
	return nil
}
