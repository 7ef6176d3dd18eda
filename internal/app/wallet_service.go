package app

import (
	"context"

	"github.com/riyqnn/pulsee/internal/domain"
)

type WalletRepository interface {
	Credit(ctx context.Context, address domain.Address, amount uint64) error
	GetWallet(ctx context.Context, address domain.Address) (domain.Wallet, error)
}

// WalletService funds and reads balance accounts. Funding stands in for
// on-ramping value into the system; everything else moves money through
// the purchase and escrow flows.
type WalletService struct {
	repo WalletRepository
}

func NewWalletService(repo WalletRepository) *WalletService {
	return &WalletService{repo: repo}
}

func (s *WalletService) Fund(ctx context.Context, address domain.Address, amount uint64) error {
	if address == "" || amount == 0 {
		return domain.ErrInvalidInput
	}
	return s.repo.Credit(ctx, address, amount)
}

func (s *WalletService) Balance(ctx context.Context, address domain.Address) (domain.Wallet, error) {
	return s.repo.GetWallet(ctx, address)
}
