package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riyqnn/pulsee/internal/domain"
)

type WalletRepository struct {
	store
}

func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{store{pool: pool}}
}

func (r *WalletRepository) Credit(ctx context.Context, address domain.Address, amount uint64) error {
	return creditWallet(ctx, r.q(ctx), address, amount)
}

func (r *WalletRepository) GetWallet(ctx context.Context, address domain.Address) (domain.Wallet, error) {
	const query = `SELECT address, balance FROM wallets WHERE address = $1`
	var (
		w       domain.Wallet
		balance int64
	)
	err := r.q(ctx).QueryRow(ctx, query, address).Scan(&w.Address, &balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Wallet{}, domain.ErrWalletNotFound
		}
		return domain.Wallet{}, fmt.Errorf("get wallet: %w", err)
	}
	w.Balance = uint64(balance)
	return w, nil
}

// transfer moves value between two wallets inside the caller's transaction.
// The debit is conditional on sufficient balance; a zero-row update means
// the sender either does not exist or cannot cover the amount.
func transfer(ctx context.Context, q querier, from, to domain.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if err := debitWallet(ctx, q, from, amount); err != nil {
		return err
	}
	return creditWallet(ctx, q, to, amount)
}

func debitWallet(ctx context.Context, q querier, address domain.Address, amount uint64) error {
	const stmt = `UPDATE wallets SET balance = balance - $2 WHERE address = $1 AND balance >= $2`
	tag, err := q.Exec(ctx, stmt, address, int64(amount))
	if err != nil {
		return fmt.Errorf("debit wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientFunds
	}
	return nil
}

func creditWallet(ctx context.Context, q querier, address domain.Address, amount uint64) error {
	const stmt = `
INSERT INTO wallets (address, balance) VALUES ($1, $2)
ON CONFLICT (address) DO UPDATE SET balance = wallets.balance + EXCLUDED.balance`
	if _, err := q.Exec(ctx, stmt, address, int64(amount)); err != nil {
		return fmt.Errorf("credit wallet: %w", err)
	}
	return nil
}
