package app

import (
	"context"
	"time"

	"github.com/riyqnn/pulsee/internal/clock"
	"github.com/riyqnn/pulsee/internal/domain"
)

type EventRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateEvent(ctx context.Context, event domain.Event) error
	GetEventForUpdate(ctx context.Context, address domain.Address) (domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) error
	CreateTier(ctx context.Context, tier domain.TicketTier) error
	GetTierForUpdate(ctx context.Context, address domain.Address) (domain.TicketTier, error)
	UpdateTier(ctx context.Context, tier domain.TicketTier) error
}

// EventService owns the event and tier lifecycle: creation, pre-sale
// mutation, and terminal cancellation.
type EventService struct {
	repo  EventRepository
	clock clock.Clock
}

func NewEventService(repo EventRepository, clk clock.Clock) *EventService {
	return &EventService{repo: repo, clock: clk}
}

type CreateEventInput struct {
	Organizer         domain.Address
	EventID           string
	Name              string
	Description       string
	ImageURL          string
	Venue             string
	EventStartTime    time.Time
	EventEndTime      time.Time
	SaleStartTime     time.Time
	SaleEndTime       time.Time
	MaxTicketsPerUser uint32
	RoyaltyBps        uint16
}

func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	if err := domain.ValidateEventFields(in.EventID, in.Name, in.Description, in.ImageURL, in.Venue); err != nil {
		return domain.Event{}, err
	}
	if in.MaxTicketsPerUser == 0 {
		return domain.Event{}, domain.ErrInvalidInput
	}
	if err := domain.ValidateEventTiming(in.EventStartTime, in.EventEndTime, in.SaleStartTime, in.SaleEndTime); err != nil {
		return domain.Event{}, err
	}
	if err := domain.ValidateBps(in.RoyaltyBps); err != nil {
		return domain.Event{}, domain.ErrInvalidBps
	}

	address, bump := domain.EventAddress(in.Organizer, in.EventID)
	event := domain.Event{
		Address:           address,
		Organizer:         in.Organizer,
		EventID:           in.EventID,
		Name:              in.Name,
		Description:       in.Description,
		ImageURL:          in.ImageURL,
		Venue:             in.Venue,
		EventStartTime:    in.EventStartTime,
		EventEndTime:      in.EventEndTime,
		SaleStartTime:     in.SaleStartTime,
		SaleEndTime:       in.SaleEndTime,
		IsActive:          true,
		MaxTicketsPerUser: in.MaxTicketsPerUser,
		RoyaltyBps:        in.RoyaltyBps,
		CreatedAt:         s.clock.Now(),
		Bump:              bump,
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

type UpdateEventInput struct {
	Caller            domain.Address
	Organizer         domain.Address
	EventID           string
	Name              *string
	Description       *string
	ImageURL          *string
	Venue             *string
	EventStartTime    *time.Time
	EventEndTime      *time.Time
	SaleStartTime     *time.Time
	SaleEndTime       *time.Time
	MaxTicketsPerUser *uint32
	RoyaltyBps        *uint16
}

// UpdateEvent applies only the supplied fields. It is blocked once the sale
// window opens, and the timing tuple is re-validated as a whole after all
// edits land so shifting one boundary cannot produce an inconsistent window.
func (s *EventService) UpdateEvent(ctx context.Context, in UpdateEventInput) (domain.Event, error) {
	now := s.clock.Now()
	var result domain.Event

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		address, _ := domain.EventAddress(in.Organizer, in.EventID)
		event, err := s.repo.GetEventForUpdate(txCtx, address)
		if err != nil {
			return err
		}
		if event.Organizer != in.Caller {
			return domain.ErrUnauthorized
		}
		if !now.Before(event.SaleStartTime) {
			return domain.ErrSaleAlreadyStarted
		}

		if in.Name != nil {
			if len(*in.Name) > domain.MaxEventNameLen {
				return domain.ErrInvalidInput
			}
			event.Name = *in.Name
		}
		if in.Description != nil {
			if len(*in.Description) > domain.MaxEventDescriptionLen {
				return domain.ErrInvalidInput
			}
			event.Description = *in.Description
		}
		if in.ImageURL != nil {
			if len(*in.ImageURL) > domain.MaxEventImageURLLen {
				return domain.ErrInvalidInput
			}
			event.ImageURL = *in.ImageURL
		}
		if in.Venue != nil {
			if len(*in.Venue) > domain.MaxEventVenueLen {
				return domain.ErrInvalidInput
			}
			event.Venue = *in.Venue
		}
		if in.EventStartTime != nil {
			event.EventStartTime = *in.EventStartTime
		}
		if in.EventEndTime != nil {
			event.EventEndTime = *in.EventEndTime
		}
		if in.SaleStartTime != nil {
			event.SaleStartTime = *in.SaleStartTime
		}
		if in.SaleEndTime != nil {
			event.SaleEndTime = *in.SaleEndTime
		}
		if in.MaxTicketsPerUser != nil {
			if *in.MaxTicketsPerUser == 0 {
				return domain.ErrInvalidInput
			}
			event.MaxTicketsPerUser = *in.MaxTicketsPerUser
		}
		if in.RoyaltyBps != nil {
			if err := domain.ValidateBps(*in.RoyaltyBps); err != nil {
				return domain.ErrInvalidBps
			}
			event.RoyaltyBps = *in.RoyaltyBps
		}

		if err := domain.ValidateEventTiming(
			event.EventStartTime, event.EventEndTime,
			event.SaleStartTime, event.SaleEndTime,
		); err != nil {
			return err
		}

		if err := s.repo.UpdateEvent(txCtx, event); err != nil {
			return err
		}
		result = event
		return nil
	})
	if err != nil {
		return domain.Event{}, err
	}
	return result, nil
}

type CancelEventInput struct {
	Caller    domain.Address
	Organizer domain.Address
	EventID   string
}

// CancelEvent is terminal: it sets the cancelled flag and forces the event
// inactive. There is no way back.
func (s *EventService) CancelEvent(ctx context.Context, in CancelEventInput) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		address, _ := domain.EventAddress(in.Organizer, in.EventID)
		event, err := s.repo.GetEventForUpdate(txCtx, address)
		if err != nil {
			return err
		}
		if event.Organizer != in.Caller {
			return domain.ErrUnauthorized
		}
		if event.IsCancelled {
			return domain.ErrEventAlreadyCancelled
		}

		event.IsCancelled = true
		event.IsActive = false
		return s.repo.UpdateEvent(txCtx, event)
	})
}

type CreateTierInput struct {
	Caller      domain.Address
	Organizer   domain.Address
	EventID     string
	TierID      string
	Name        string
	Description string
	Price       uint64
	MaxSupply   uint64
}

func (s *EventService) CreateTier(ctx context.Context, in CreateTierInput) (domain.TicketTier, error) {
	if err := domain.ValidateTierFields(in.TierID, in.Name, in.Description); err != nil {
		return domain.TicketTier{}, err
	}
	if in.Price == 0 {
		return domain.TicketTier{}, domain.ErrInvalidPrice
	}
	if in.MaxSupply == 0 {
		return domain.TicketTier{}, domain.ErrInvalidSupply
	}

	now := s.clock.Now()
	var result domain.TicketTier

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		eventAddr, _ := domain.EventAddress(in.Organizer, in.EventID)
		event, err := s.repo.GetEventForUpdate(txCtx, eventAddr)
		if err != nil {
			return err
		}
		if event.Organizer != in.Caller {
			return domain.ErrUnauthorized
		}
		if !event.IsActive || event.IsCancelled {
			return domain.ErrEventNotActive
		}
		if !now.Before(event.SaleStartTime) {
			return domain.ErrSaleAlreadyStarted
		}

		address, bump := domain.TierAddress(event.Address, in.TierID)
		tier := domain.TicketTier{
			Address:     address,
			Event:       event.Address,
			TierID:      in.TierID,
			Name:        in.Name,
			Description: in.Description,
			Price:       in.Price,
			MaxSupply:   in.MaxSupply,
			IsActive:    true,
			Bump:        bump,
		}

		if err := s.repo.CreateTier(txCtx, tier); err != nil {
			return err
		}
		result = tier
		return nil
	})
	if err != nil {
		return domain.TicketTier{}, err
	}
	return result, nil
}

type UpdateTierInput struct {
	Caller      domain.Address
	Organizer   domain.Address
	EventID     string
	TierID      string
	Name        *string
	Description *string
	Price       *uint64
	MaxSupply   *uint64
}

// UpdateTier is blocked once the sale window opens. MaxSupply can only move
// to a value that still covers everything already sold.
func (s *EventService) UpdateTier(ctx context.Context, in UpdateTierInput) (domain.TicketTier, error) {
	now := s.clock.Now()
	var result domain.TicketTier

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		eventAddr, _ := domain.EventAddress(in.Organizer, in.EventID)
		event, err := s.repo.GetEventForUpdate(txCtx, eventAddr)
		if err != nil {
			return err
		}
		if event.Organizer != in.Caller {
			return domain.ErrUnauthorized
		}
		if !now.Before(event.SaleStartTime) {
			return domain.ErrSaleAlreadyStarted
		}

		tierAddr, _ := domain.TierAddress(event.Address, in.TierID)
		tier, err := s.repo.GetTierForUpdate(txCtx, tierAddr)
		if err != nil {
			return err
		}

		if in.MaxSupply != nil {
			if *in.MaxSupply == 0 || *in.MaxSupply < tier.CurrentSupply {
				return domain.ErrInvalidSupply
			}
			tier.MaxSupply = *in.MaxSupply
		}
		if in.Name != nil {
			if len(*in.Name) > domain.MaxTierNameLen {
				return domain.ErrInvalidInput
			}
			tier.Name = *in.Name
		}
		if in.Description != nil {
			if len(*in.Description) > domain.MaxTierDescriptionLen {
				return domain.ErrInvalidInput
			}
			tier.Description = *in.Description
		}
		if in.Price != nil {
			if *in.Price == 0 {
				return domain.ErrInvalidPrice
			}
			tier.Price = *in.Price
		}

		if err := s.repo.UpdateTier(txCtx, tier); err != nil {
			return err
		}
		result = tier
		return nil
	})
	if err != nil {
		return domain.TicketTier{}, err
	}
	return result, nil
}

type DisableTierInput struct {
	Caller    domain.Address
	Organizer domain.Address
	EventID   string
	TierID    string
}

// DisableTier is one-way. Already-issued tickets stay valid and resellable.
func (s *EventService) DisableTier(ctx context.Context, in DisableTierInput) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		eventAddr, _ := domain.EventAddress(in.Organizer, in.EventID)
		event, err := s.repo.GetEventForUpdate(txCtx, eventAddr)
		if err != nil {
			return err
		}
		if event.Organizer != in.Caller {
			return domain.ErrUnauthorized
		}

		tierAddr, _ := domain.TierAddress(event.Address, in.TierID)
		tier, err := s.repo.GetTierForUpdate(txCtx, tierAddr)
		if err != nil {
			return err
		}
		tier.IsActive = false
		return s.repo.UpdateTier(txCtx, tier)
	})
}
