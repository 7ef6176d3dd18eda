package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/riyqnn/pulsee/internal/domain"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeSignerRequired     = "signer_required"
	codeForbidden          = "forbidden"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// errorMappings routes every domain sentinel to an HTTP status and a stable
// machine code. Unknown errors fall through to 500.
var errorMappings = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrUnauthorized, http.StatusForbidden, "unauthorized"},

	{domain.ErrInvalidEventTiming, http.StatusBadRequest, "invalid_event_timing"},
	{domain.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{domain.ErrInvalidPrice, http.StatusBadRequest, "invalid_price"},
	{domain.ErrInvalidSupply, http.StatusBadRequest, "invalid_supply"},
	{domain.ErrInvalidBudget, http.StatusBadRequest, "invalid_budget"},
	{domain.ErrInvalidBps, http.StatusBadRequest, "invalid_bps"},
	{domain.ErrInvalidDuration, http.StatusBadRequest, "invalid_duration"},
	{domain.ErrInvalidSaleType, http.StatusBadRequest, "invalid_sale_type"},
	{domain.ErrPriceCapExceeded, http.StatusBadRequest, "price_cap_exceeded"},

	{domain.ErrEventNotActive, http.StatusConflict, "event_not_active"},
	{domain.ErrEventNotOngoing, http.StatusConflict, "event_not_ongoing"},
	{domain.ErrEventCancelled, http.StatusConflict, "event_cancelled"},
	{domain.ErrEventAlreadyCancelled, http.StatusConflict, "event_already_cancelled"},
	{domain.ErrSaleAlreadyStarted, http.StatusConflict, "sale_already_started"},
	{domain.ErrTierNotActive, http.StatusConflict, "tier_not_active"},
	{domain.ErrTicketNotActive, http.StatusConflict, "ticket_not_active"},
	{domain.ErrAgentInactive, http.StatusConflict, "agent_inactive"},
	{domain.ErrAutoPurchaseDisabled, http.StatusConflict, "auto_purchase_disabled"},
	{domain.ErrPreferenceMismatch, http.StatusConflict, "preference_mismatch"},
	{domain.ErrCannotListAfterEventStart, http.StatusConflict, "cannot_list_after_event_start"},
	{domain.ErrListingNotActive, http.StatusConflict, "listing_not_active"},
	{domain.ErrListingExpired, http.StatusConflict, "listing_expired"},
	{domain.ErrListingNotExpired, http.StatusConflict, "listing_not_expired"},
	{domain.ErrOfferNotActive, http.StatusConflict, "offer_not_active"},
	{domain.ErrOfferExpired, http.StatusConflict, "offer_expired"},
	{domain.ErrOffersNotAccepted, http.StatusConflict, "offers_not_accepted"},
	{domain.ErrGroupNotActive, http.StatusConflict, "group_not_active"},
	{domain.ErrGroupExpired, http.StatusConflict, "group_expired"},
	{domain.ErrCoordinationDisabled, http.StatusConflict, "coordination_disabled"},
	{domain.ErrVerificationRequired, http.StatusForbidden, "verification_required"},

	{domain.ErrTierSoldOut, http.StatusConflict, "tier_sold_out"},
	{domain.ErrMaxTicketsPerUserExceeded, http.StatusConflict, "max_tickets_per_user_exceeded"},
	{domain.ErrInsufficientAgentBudget, http.StatusConflict, "insufficient_agent_budget"},
	{domain.ErrInsufficientEscrowBalance, http.StatusConflict, "insufficient_escrow_balance"},
	{domain.ErrInsufficientFunds, http.StatusConflict, "insufficient_funds"},
	{domain.ErrGroupFull, http.StatusConflict, "group_full"},

	{domain.ErrMathOverflow, http.StatusBadRequest, "math_overflow"},
	{domain.ErrMathUnderflow, http.StatusBadRequest, "math_underflow"},

	{domain.ErrConfigNotFound, http.StatusNotFound, "config_not_found"},
	{domain.ErrConfigExists, http.StatusConflict, "config_exists"},
	{domain.ErrEventNotFound, http.StatusNotFound, "event_not_found"},
	{domain.ErrEventExists, http.StatusConflict, "event_exists"},
	{domain.ErrTierNotFound, http.StatusNotFound, "tier_not_found"},
	{domain.ErrTierExists, http.StatusConflict, "tier_exists"},
	{domain.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{domain.ErrUserExists, http.StatusConflict, "user_exists"},
	{domain.ErrAgentNotFound, http.StatusNotFound, "agent_not_found"},
	{domain.ErrAgentExists, http.StatusConflict, "agent_exists"},
	{domain.ErrEscrowNotFound, http.StatusNotFound, "escrow_not_found"},
	{domain.ErrEscrowExists, http.StatusConflict, "escrow_exists"},
	{domain.ErrTicketNotFound, http.StatusNotFound, "ticket_not_found"},
	{domain.ErrListingNotFound, http.StatusNotFound, "listing_not_found"},
	{domain.ErrListingExists, http.StatusConflict, "listing_exists"},
	{domain.ErrOfferNotFound, http.StatusNotFound, "offer_not_found"},
	{domain.ErrOfferExists, http.StatusConflict, "offer_exists"},
	{domain.ErrGroupNotFound, http.StatusNotFound, "group_not_found"},
	{domain.ErrGroupExists, http.StatusConflict, "group_exists"},
	{domain.ErrAlreadyInGroup, http.StatusConflict, "already_in_group"},
	{domain.ErrWalletNotFound, http.StatusNotFound, "wallet_not_found"},
}

func respondDomainError(w http.ResponseWriter, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.code, m.err.Error())
			return
		}
	}
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
