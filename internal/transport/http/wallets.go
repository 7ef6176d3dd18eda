package http

import (
	"context"
	"net/http"

	"github.com/riyqnn/pulsee/internal/domain"
)

type WalletService interface {
	Fund(ctx context.Context, address domain.Address, amount uint64) error
	Balance(ctx context.Context, address domain.Address) (domain.Wallet, error)
}

// HandleFundWallet credits an address. This stands in for on-ramp settlement
// and requires no signer.
func HandleFundWallet(svc WalletService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req fundWalletRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := svc.Fund(r.Context(), domain.Address(req.Address), req.Amount); err != nil {
			respondDomainError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleWalletBalance reads a wallet balance.
func HandleWalletBalance(svc WalletService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, err := svc.Balance(r.Context(), domain.Address(r.PathValue("address")))
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, walletResponse{
			Address: string(wallet.Address),
			Balance: wallet.Balance,
		})
	}
}

type fundWalletRequest struct {
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
}
