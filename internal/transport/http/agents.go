package http

import (
	"context"
	"net/http"

	"github.com/riyqnn/pulsee/internal/app"
	"github.com/riyqnn/pulsee/internal/domain"
)

type AgentService interface {
	CreateAgent(ctx context.Context, in app.CreateAgentInput) (domain.AIAgent, error)
	UpdateAgent(ctx context.Context, in app.UpdateAgentInput) (domain.AIAgent, error)
	SetAgentActive(ctx context.Context, caller domain.Address, agentID string, active bool) error
	ToggleAutoPurchase(ctx context.Context, caller domain.Address, agentID string, enabled bool) error
	AddAgentBudget(ctx context.Context, caller domain.Address, agentID string, amount uint64) (domain.AIAgent, error)
	DecreaseAgentBudget(ctx context.Context, caller domain.Address, agentID string, amount uint64) (domain.AIAgent, error)
}

// HandleCreateAgent registers a purchasing agent owned by the signer.
func HandleCreateAgent(svc AgentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req createAgentRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		agent, err := svc.CreateAgent(r.Context(), app.CreateAgentInput{
			Owner:                 signer,
			AgentID:               req.AgentID,
			Name:                  req.Name,
			MaxBudgetPerTicket:    req.MaxBudgetPerTicket,
			TotalBudget:           req.TotalBudget,
			PreferenceFlags:       req.PreferenceFlags,
			PreferredGenres:       req.PreferredGenres,
			PreferredVenues:       toAddresses(req.PreferredVenues),
			MinEventDuration:      req.MinEventDuration,
			MaxEventDuration:      req.MaxEventDuration,
			AllowedLocations:      toAddresses(req.AllowedLocations),
			MaxDistanceKm:         req.MaxDistanceKm,
			PreferredDays:         req.PreferredDays,
			PreferredTimeStart:    req.PreferredTimeStart,
			PreferredTimeEnd:      req.PreferredTimeEnd,
			AutoPurchaseEnabled:   req.AutoPurchaseEnabled,
			AutoPurchaseThreshold: req.AutoPurchaseThreshold,
			MaxTicketsPerEvent:    req.MaxTicketsPerEvent,
			RequireVerification:   req.RequireVerification,
			AllowCoordination:     req.AllowCoordination,
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newAgentResponse(agent))
	}
}

// HandleUpdateAgent applies a partial update to the signer's agent.
func HandleUpdateAgent(svc AgentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req updateAgentRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		agent, err := svc.UpdateAgent(r.Context(), app.UpdateAgentInput{
			Caller:                signer,
			AgentID:               r.PathValue("agentID"),
			Name:                  req.Name,
			MaxBudgetPerTicket:    req.MaxBudgetPerTicket,
			PreferenceFlags:       req.PreferenceFlags,
			PreferredGenres:       req.PreferredGenres,
			PreferredVenues:       toAddresses(req.PreferredVenues),
			MinEventDuration:      req.MinEventDuration,
			MaxEventDuration:      req.MaxEventDuration,
			AllowedLocations:      toAddresses(req.AllowedLocations),
			MaxDistanceKm:         req.MaxDistanceKm,
			PreferredDays:         req.PreferredDays,
			PreferredTimeStart:    req.PreferredTimeStart,
			PreferredTimeEnd:      req.PreferredTimeEnd,
			AutoPurchaseThreshold: req.AutoPurchaseThreshold,
			MaxTicketsPerEvent:    req.MaxTicketsPerEvent,
			RequireVerification:   req.RequireVerification,
			AllowCoordination:     req.AllowCoordination,
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newAgentResponse(agent))
	}
}

// HandleSetAgentActive turns the signer's agent on or off.
func HandleSetAgentActive(svc AgentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req setAgentActiveRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := svc.SetAgentActive(r.Context(), signer, r.PathValue("agentID"), req.Active); err != nil {
			respondDomainError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleToggleAutoPurchase enables or disables agent auto-purchasing.
func HandleToggleAutoPurchase(svc AgentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req toggleAutoPurchaseRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := svc.ToggleAutoPurchase(r.Context(), signer, r.PathValue("agentID"), req.Enabled); err != nil {
			respondDomainError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleAddAgentBudget raises the agent's total budget.
func HandleAddAgentBudget(svc AgentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req budgetRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		agent, err := svc.AddAgentBudget(r.Context(), signer, r.PathValue("agentID"), req.Amount)
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newAgentResponse(agent))
	}
}

// HandleDecreaseAgentBudget lowers the agent's total budget. The new total
// can never undercut what the agent has already spent.
func HandleDecreaseAgentBudget(svc AgentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req budgetRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		agent, err := svc.DecreaseAgentBudget(r.Context(), signer, r.PathValue("agentID"), req.Amount)
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newAgentResponse(agent))
	}
}

type createAgentRequest struct {
	AgentID            string `json:"agent_id"`
	Name               string `json:"name"`
	MaxBudgetPerTicket uint64 `json:"max_budget_per_ticket"`
	TotalBudget        uint64 `json:"total_budget"`

	PreferenceFlags  uint64   `json:"preference_flags"`
	PreferredGenres  []byte   `json:"preferred_genres"`
	PreferredVenues  []string `json:"preferred_venues"`
	MinEventDuration uint32   `json:"min_event_duration"`
	MaxEventDuration uint32   `json:"max_event_duration"`
	AllowedLocations []string `json:"allowed_locations"`
	MaxDistanceKm    uint32   `json:"max_distance_km"`

	PreferredDays      uint8  `json:"preferred_days"`
	PreferredTimeStart uint32 `json:"preferred_time_start"`
	PreferredTimeEnd   uint32 `json:"preferred_time_end"`

	AutoPurchaseEnabled   bool   `json:"auto_purchase_enabled"`
	AutoPurchaseThreshold uint16 `json:"auto_purchase_threshold"`
	MaxTicketsPerEvent    uint8  `json:"max_tickets_per_event"`
	RequireVerification   bool   `json:"require_verification"`
	AllowCoordination     bool   `json:"allow_coordination"`
}

type updateAgentRequest struct {
	Name               *string  `json:"name"`
	MaxBudgetPerTicket *uint64  `json:"max_budget_per_ticket"`
	PreferenceFlags    *uint64  `json:"preference_flags"`
	PreferredGenres    []byte   `json:"preferred_genres"`
	PreferredVenues    []string `json:"preferred_venues"`
	MinEventDuration   *uint32  `json:"min_event_duration"`
	MaxEventDuration   *uint32  `json:"max_event_duration"`
	AllowedLocations   []string `json:"allowed_locations"`
	MaxDistanceKm      *uint32  `json:"max_distance_km"`

	PreferredDays      *uint8  `json:"preferred_days"`
	PreferredTimeStart *uint32 `json:"preferred_time_start"`
	PreferredTimeEnd   *uint32 `json:"preferred_time_end"`

	AutoPurchaseThreshold *uint16 `json:"auto_purchase_threshold"`
	MaxTicketsPerEvent    *uint8  `json:"max_tickets_per_event"`
	RequireVerification   *bool   `json:"require_verification"`
	AllowCoordination     *bool   `json:"allow_coordination"`
}

type setAgentActiveRequest struct {
	Active bool `json:"active"`
}

type toggleAutoPurchaseRequest struct {
	Enabled bool `json:"enabled"`
}

type budgetRequest struct {
	Amount uint64 `json:"amount"`
}

func toAddresses(strs []string) []domain.Address {
	if len(strs) == 0 {
		return nil
	}
	out := make([]domain.Address, len(strs))
	for i, s := range strs {
		out[i] = domain.Address(s)
	}
	return out
}
