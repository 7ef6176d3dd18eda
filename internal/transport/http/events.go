package http

import (
	"context"
	"net/http"
	"time"

	"github.com/riyqnn/pulsee/internal/app"
	"github.com/riyqnn/pulsee/internal/domain"
)

// EventService is the slice of the event service the event and tier
// handlers need.
type EventService interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	UpdateEvent(ctx context.Context, in app.UpdateEventInput) (domain.Event, error)
	CancelEvent(ctx context.Context, in app.CancelEventInput) error
	CreateTier(ctx context.Context, in app.CreateTierInput) (domain.TicketTier, error)
	UpdateTier(ctx context.Context, in app.UpdateTierInput) (domain.TicketTier, error)
	DisableTier(ctx context.Context, in app.DisableTierInput) error
}

// HandleCreateEvent creates an event owned by the signer.
func HandleCreateEvent(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req createEventRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		event, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
			Organizer:         signer,
			EventID:           req.EventID,
			Name:              req.Name,
			Description:       req.Description,
			ImageURL:          req.ImageURL,
			Venue:             req.Venue,
			EventStartTime:    req.EventStartTime,
			EventEndTime:      req.EventEndTime,
			SaleStartTime:     req.SaleStartTime,
			SaleEndTime:       req.SaleEndTime,
			MaxTicketsPerUser: req.MaxTicketsPerUser,
			RoyaltyBps:        req.RoyaltyBps,
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newEventResponse(event))
	}
}

// HandleUpdateEvent applies a partial update before the sale window opens.
func HandleUpdateEvent(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req updateEventRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		event, err := svc.UpdateEvent(r.Context(), app.UpdateEventInput{
			Caller:            signer,
			Organizer:         domain.Address(r.PathValue("organizer")),
			EventID:           r.PathValue("eventID"),
			Name:              req.Name,
			Description:       req.Description,
			ImageURL:          req.ImageURL,
			Venue:             req.Venue,
			EventStartTime:    req.EventStartTime,
			EventEndTime:      req.EventEndTime,
			SaleStartTime:     req.SaleStartTime,
			SaleEndTime:       req.SaleEndTime,
			MaxTicketsPerUser: req.MaxTicketsPerUser,
			RoyaltyBps:        req.RoyaltyBps,
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newEventResponse(event))
	}
}

// HandleCancelEvent cancels an event permanently.
func HandleCancelEvent(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		err := svc.CancelEvent(r.Context(), app.CancelEventInput{
			Caller:    signer,
			Organizer: domain.Address(r.PathValue("organizer")),
			EventID:   r.PathValue("eventID"),
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleCreateTier adds a ticket tier to an event.
func HandleCreateTier(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req createTierRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		tier, err := svc.CreateTier(r.Context(), app.CreateTierInput{
			Caller:      signer,
			Organizer:   domain.Address(r.PathValue("organizer")),
			EventID:     r.PathValue("eventID"),
			TierID:      req.TierID,
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			MaxSupply:   req.MaxSupply,
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newTierResponse(tier))
	}
}

// HandleUpdateTier applies a partial tier update before the sale opens.
func HandleUpdateTier(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req updateTierRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		tier, err := svc.UpdateTier(r.Context(), app.UpdateTierInput{
			Caller:      signer,
			Organizer:   domain.Address(r.PathValue("organizer")),
			EventID:     r.PathValue("eventID"),
			TierID:      r.PathValue("tierID"),
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			MaxSupply:   req.MaxSupply,
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newTierResponse(tier))
	}
}

// HandleDisableTier takes a tier off sale permanently.
func HandleDisableTier(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		err := svc.DisableTier(r.Context(), app.DisableTierInput{
			Caller:    signer,
			Organizer: domain.Address(r.PathValue("organizer")),
			EventID:   r.PathValue("eventID"),
			TierID:    r.PathValue("tierID"),
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type createEventRequest struct {
	EventID           string    `json:"event_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	ImageURL          string    `json:"image_url"`
	Venue             string    `json:"venue"`
	EventStartTime    time.Time `json:"event_start_time"`
	EventEndTime      time.Time `json:"event_end_time"`
	SaleStartTime     time.Time `json:"sale_start_time"`
	SaleEndTime       time.Time `json:"sale_end_time"`
	MaxTicketsPerUser uint32    `json:"max_tickets_per_user"`
	RoyaltyBps        uint16    `json:"royalty_bps"`
}

type updateEventRequest struct {
	Name              *string    `json:"name"`
	Description       *string    `json:"description"`
	ImageURL          *string    `json:"image_url"`
	Venue             *string    `json:"venue"`
	EventStartTime    *time.Time `json:"event_start_time"`
	EventEndTime      *time.Time `json:"event_end_time"`
	SaleStartTime     *time.Time `json:"sale_start_time"`
	SaleEndTime       *time.Time `json:"sale_end_time"`
	MaxTicketsPerUser *uint32    `json:"max_tickets_per_user"`
	RoyaltyBps        *uint16    `json:"royalty_bps"`
}

type createTierRequest struct {
	TierID      string `json:"tier_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       uint64 `json:"price"`
	MaxSupply   uint64 `json:"max_supply"`
}

type updateTierRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *uint64 `json:"price"`
	MaxSupply   *uint64 `json:"max_supply"`
}
