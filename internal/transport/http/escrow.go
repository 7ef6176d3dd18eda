package http

import (
	"context"
	"net/http"

	"github.com/riyqnn/pulsee/internal/domain"
)

type EscrowService interface {
	CreateEscrow(ctx context.Context, caller domain.Address, agentID string) (domain.AgentEscrow, error)
	DepositToEscrow(ctx context.Context, caller domain.Address, agentID string, amount uint64) (domain.AgentEscrow, error)
	WithdrawFromEscrow(ctx context.Context, caller domain.Address, agentID string, amount uint64) (domain.AgentEscrow, error)
}

// HandleCreateEscrow opens an empty escrow for the signer's agent.
func HandleCreateEscrow(svc EscrowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		escrow, err := svc.CreateEscrow(r.Context(), signer, r.PathValue("agentID"))
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newEscrowResponse(escrow))
	}
}

// HandleDepositToEscrow moves funds from the signer's wallet into the escrow.
func HandleDepositToEscrow(svc EscrowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req escrowAmountRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		escrow, err := svc.DepositToEscrow(r.Context(), signer, r.PathValue("agentID"), req.Amount)
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newEscrowResponse(escrow))
	}
}

// HandleWithdrawFromEscrow moves funds back to the signer's wallet.
func HandleWithdrawFromEscrow(svc EscrowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req escrowAmountRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		escrow, err := svc.WithdrawFromEscrow(r.Context(), signer, r.PathValue("agentID"), req.Amount)
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newEscrowResponse(escrow))
	}
}

type escrowAmountRequest struct {
	Amount uint64 `json:"amount"`
}
