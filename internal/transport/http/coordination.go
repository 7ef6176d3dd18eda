package http

import (
	"context"
	"net/http"
	"time"

	"github.com/riyqnn/pulsee/internal/app"
	"github.com/riyqnn/pulsee/internal/domain"
)

type CoordinationService interface {
	CreateCoordinationGroup(ctx context.Context, in app.CreateGroupInput) (domain.AgentCoordination, error)
	JoinCoordinationGroup(ctx context.Context, in app.JoinGroupInput) (domain.AgentCoordination, error)
	CancelCoordinationGroup(ctx context.Context, in app.CancelGroupInput) error
}

// HandleCreateCoordinationGroup opens a buying group coordinated by the
// signer's agent.
func HandleCreateCoordinationGroup(svc CoordinationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req createGroupRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		group, err := svc.CreateCoordinationGroup(r.Context(), app.CreateGroupInput{
			Caller:             signer,
			AgentID:            req.AgentID,
			Organizer:          domain.Address(req.Organizer),
			EventID:            req.EventID,
			TierID:             req.TierID,
			GroupID:            req.GroupID,
			TargetTicketCount:  req.TargetTicketCount,
			MaxBudgetPerTicket: req.MaxBudgetPerTicket,
			Duration:           time.Duration(req.DurationSecs) * time.Second,
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newGroupResponse(group))
	}
}

// HandleJoinCoordinationGroup adds the signer's agent to an open group.
func HandleJoinCoordinationGroup(svc CoordinationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req joinGroupRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		group, err := svc.JoinCoordinationGroup(r.Context(), app.JoinGroupInput{
			Caller:    signer,
			AgentID:   req.AgentID,
			Organizer: domain.Address(req.Organizer),
			EventID:   req.EventID,
			GroupID:   req.GroupID,
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newGroupResponse(group))
	}
}

// HandleCancelCoordinationGroup shuts a group down; only the owner of the
// coordinating agent may call it.
func HandleCancelCoordinationGroup(svc CoordinationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req cancelGroupRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		err := svc.CancelCoordinationGroup(r.Context(), app.CancelGroupInput{
			Caller:    signer,
			Organizer: domain.Address(req.Organizer),
			EventID:   req.EventID,
			GroupID:   req.GroupID,
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type createGroupRequest struct {
	AgentID            string `json:"agent_id"`
	Organizer          string `json:"organizer"`
	EventID            string `json:"event_id"`
	TierID             string `json:"tier_id"`
	GroupID            string `json:"group_id"`
	TargetTicketCount  uint32 `json:"target_ticket_count"`
	MaxBudgetPerTicket uint64 `json:"max_budget_per_ticket"`
	DurationSecs       int64  `json:"duration_secs"`
}

type joinGroupRequest struct {
	AgentID   string `json:"agent_id"`
	Organizer string `json:"organizer"`
	EventID   string `json:"event_id"`
	GroupID   string `json:"group_id"`
}

type cancelGroupRequest struct {
	Organizer string `json:"organizer"`
	EventID   string `json:"event_id"`
	GroupID   string `json:"group_id"`
}
