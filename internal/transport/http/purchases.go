package http

import (
	"context"
	"net/http"

	"github.com/riyqnn/pulsee/internal/app"
	"github.com/riyqnn/pulsee/internal/domain"
)

type PrimaryService interface {
	BuyTicket(ctx context.Context, in app.BuyTicketInput) (domain.Ticket, error)
	BuyTicketWithAgent(ctx context.Context, in app.BuyTicketWithAgentInput) (domain.Ticket, error)
	BuyTicketWithEscrow(ctx context.Context, in app.BuyTicketWithEscrowInput) (domain.Ticket, error)
	ValidateTicket(ctx context.Context, mint domain.Address) (domain.Ticket, error)
	CancelTicketByAdmin(ctx context.Context, in app.CancelTicketInput) (domain.Ticket, error)
}

// HandleBuyTicket sells a primary-market ticket to the signer.
func HandleBuyTicket(svc PrimaryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req buyTicketRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		ticket, err := svc.BuyTicket(r.Context(), app.BuyTicketInput{
			Buyer:     signer,
			Organizer: domain.Address(req.Organizer),
			EventID:   req.EventID,
			TierID:    req.TierID,
			SeatInfo:  req.SeatInfo,
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newTicketResponse(ticket))
	}
}

// HandleBuyTicketWithAgent buys a ticket for the signer through their agent,
// paying from the signer's wallet against the agent's budget.
func HandleBuyTicketWithAgent(svc PrimaryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req agentPurchaseRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		ticket, err := svc.BuyTicketWithAgent(r.Context(), app.BuyTicketWithAgentInput{
			Caller:    signer,
			AgentID:   req.AgentID,
			Organizer: domain.Address(req.Organizer),
			EventID:   req.EventID,
			TierID:    req.TierID,
			DealBps:   req.DealBps,
			SeatInfo:  req.SeatInfo,
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newTicketResponse(ticket))
	}
}

// HandleBuyTicketWithEscrow triggers an escrow-funded purchase for the named
// owner's agent. Any caller may trigger it; the escrow can only ever pay the
// organizer at tier price, so the trigger grants no authority.
func HandleBuyTicketWithEscrow(svc PrimaryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req escrowPurchaseRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		ticket, err := svc.BuyTicketWithEscrow(r.Context(), app.BuyTicketWithEscrowInput{
			Owner:     domain.Address(req.Owner),
			AgentID:   req.AgentID,
			Organizer: domain.Address(req.Organizer),
			EventID:   req.EventID,
			TierID:    req.TierID,
			DealBps:   req.DealBps,
			SeatInfo:  req.SeatInfo,
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newTicketResponse(ticket))
	}
}

// HandleValidateTicket consumes a ticket at the venue door.
func HandleValidateTicket(svc PrimaryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticket, err := svc.ValidateTicket(r.Context(), domain.Address(r.PathValue("mint")))
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newTicketResponse(ticket))
	}
}

// HandleCancelTicket voids a ticket; only the event organizer may call it.
func HandleCancelTicket(svc PrimaryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req cancelTicketRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		ticket, err := svc.CancelTicketByAdmin(r.Context(), app.CancelTicketInput{
			Caller: signer,
			Mint:   domain.Address(r.PathValue("mint")),
			Reason: req.Reason,
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newTicketResponse(ticket))
	}
}

type buyTicketRequest struct {
	Organizer string `json:"organizer"`
	EventID   string `json:"event_id"`
	TierID    string `json:"tier_id"`
	SeatInfo  string `json:"seat_info"`
}

type agentPurchaseRequest struct {
	AgentID   string `json:"agent_id"`
	Organizer string `json:"organizer"`
	EventID   string `json:"event_id"`
	TierID    string `json:"tier_id"`
	DealBps   uint16 `json:"deal_bps"`
	SeatInfo  string `json:"seat_info"`
}

type escrowPurchaseRequest struct {
	Owner     string `json:"owner"`
	AgentID   string `json:"agent_id"`
	Organizer string `json:"organizer"`
	EventID   string `json:"event_id"`
	TierID    string `json:"tier_id"`
	DealBps   uint16 `json:"deal_bps"`
	SeatInfo  string `json:"seat_info"`
}

type cancelTicketRequest struct {
	Reason string `json:"reason"`
}
