package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riyqnn/pulsee/internal/domain"
)

type EscrowRepository struct {
	store
}

func NewEscrowRepository(pool *pgxpool.Pool) *EscrowRepository {
	return &EscrowRepository{store{pool: pool}}
}

func (r *EscrowRepository) GetAgentForUpdate(ctx context.Context, address domain.Address) (domain.AIAgent, error) {
	return getAgentForUpdate(ctx, r.q(ctx), address)
}

func (r *EscrowRepository) CreateEscrow(ctx context.Context, escrow domain.AgentEscrow) error {
	const stmt = `
INSERT INTO escrows (address, agent, owner, balance, total_deposited, total_withdrawn, total_spent, created_at, last_activity, bump)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.q(ctx).Exec(ctx, stmt,
		escrow.Address,
		escrow.Agent,
		escrow.Owner,
		int64(escrow.Balance),
		int64(escrow.TotalDeposited),
		int64(escrow.TotalWithdrawn),
		int64(escrow.TotalSpent),
		escrow.CreatedAt,
		escrow.LastActivity,
		int16(escrow.Bump),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEscrowExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrAgentNotFound
		}
		return fmt.Errorf("create escrow: %w", err)
	}
	return nil
}

func (r *EscrowRepository) GetEscrowForUpdate(ctx context.Context, address domain.Address) (domain.AgentEscrow, error) {
	return getEscrowForUpdate(ctx, r.q(ctx), address)
}

func (r *EscrowRepository) UpdateEscrow(ctx context.Context, escrow domain.AgentEscrow) error {
	return updateEscrow(ctx, r.q(ctx), escrow)
}

func (r *EscrowRepository) Transfer(ctx context.Context, from, to domain.Address, amount uint64) error {
	return transfer(ctx, r.q(ctx), from, to, amount)
}

func getEscrowForUpdate(ctx context.Context, q querier, address domain.Address) (domain.AgentEscrow, error) {
	const query = `
SELECT address, agent, owner, balance, total_deposited, total_withdrawn, total_spent, created_at, last_activity, bump
FROM escrows WHERE address = $1 FOR UPDATE`

	var (
		e         domain.AgentEscrow
		balance   int64
		deposited int64
		withdrawn int64
		spent     int64
		bump      int16
	)
	err := q.QueryRow(ctx, query, address).Scan(
		&e.Address, &e.Agent, &e.Owner,
		&balance, &deposited, &withdrawn, &spent,
		&e.CreatedAt, &e.LastActivity, &bump,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.AgentEscrow{}, domain.ErrEscrowNotFound
		}
		return domain.AgentEscrow{}, fmt.Errorf("get escrow: %w", err)
	}
	e.Balance = uint64(balance)
	e.TotalDeposited = uint64(deposited)
	e.TotalWithdrawn = uint64(withdrawn)
	e.TotalSpent = uint64(spent)
	e.Bump = uint8(bump)
	return e, nil
}

func updateEscrow(ctx context.Context, q querier, escrow domain.AgentEscrow) error {
	const stmt = `
UPDATE escrows SET balance = $2, total_deposited = $3, total_withdrawn = $4, total_spent = $5, last_activity = $6
WHERE address = $1`

	tag, err := q.Exec(ctx, stmt,
		escrow.Address,
		int64(escrow.Balance),
		int64(escrow.TotalDeposited),
		int64(escrow.TotalWithdrawn),
		int64(escrow.TotalSpent),
		escrow.LastActivity,
	)
	if err != nil {
		return fmt.Errorf("update escrow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEscrowNotFound
	}
	return nil
}
