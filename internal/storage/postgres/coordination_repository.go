package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riyqnn/pulsee/internal/domain"
)

type CoordinationRepository struct {
	store
}

func NewCoordinationRepository(pool *pgxpool.Pool) *CoordinationRepository {
	return &CoordinationRepository{store{pool: pool}}
}

func (r *CoordinationRepository) GetConfig(ctx context.Context) (domain.GlobalConfig, error) {
	return getConfig(ctx, r.q(ctx), false)
}

func (r *CoordinationRepository) GetEventForUpdate(ctx context.Context, address domain.Address) (domain.Event, error) {
	return getEventForUpdate(ctx, r.q(ctx), address)
}

func (r *CoordinationRepository) GetTierForUpdate(ctx context.Context, address domain.Address) (domain.TicketTier, error) {
	return getTierForUpdate(ctx, r.q(ctx), address)
}

func (r *CoordinationRepository) GetAgentForUpdate(ctx context.Context, address domain.Address) (domain.AIAgent, error) {
	return getAgentForUpdate(ctx, r.q(ctx), address)
}

func (r *CoordinationRepository) UpdateAgent(ctx context.Context, agent domain.AIAgent) error {
	return updateAgent(ctx, r.q(ctx), agent)
}

func (r *CoordinationRepository) CreateGroup(ctx context.Context, group domain.AgentCoordination) error {
	const stmt = `
INSERT INTO coordination_groups (
	address, group_id, coordinator, event, tier_id,
	target_ticket_count, current_ticket_count, max_budget_per_ticket, total_budget_committed,
	participants, expires_at, is_active, is_completed, bump
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.q(ctx).Exec(ctx, stmt,
		group.Address,
		group.GroupID,
		group.Coordinator,
		group.Event,
		group.TierID,
		int32(group.TargetTicketCount),
		int32(group.CurrentTicketCount),
		int64(group.MaxBudgetPerTicket),
		int64(group.TotalBudgetCommitted),
		addressesToStrings(group.Participants),
		group.ExpiresAt,
		group.IsActive,
		group.IsCompleted,
		int16(group.Bump),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrGroupExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("create group: %w", err)
	}
	return nil
}

func (r *CoordinationRepository) GetGroupForUpdate(ctx context.Context, address domain.Address) (domain.AgentCoordination, error) {
	return getGroupForUpdate(ctx, r.q(ctx), address)
}

func (r *CoordinationRepository) UpdateGroup(ctx context.Context, group domain.AgentCoordination) error {
	return updateGroup(ctx, r.q(ctx), group)
}

func getGroupForUpdate(ctx context.Context, q querier, address domain.Address) (domain.AgentCoordination, error) {
	const query = `
SELECT address, group_id, coordinator, event, tier_id,
	target_ticket_count, current_ticket_count, max_budget_per_ticket, total_budget_committed,
	participants, expires_at, is_active, is_completed, bump
FROM coordination_groups WHERE address = $1 FOR UPDATE`

	var (
		g            domain.AgentCoordination
		target       int32
		current      int32
		maxBudget    int64
		committed    int64
		participants []string
		bump         int16
	)
	err := q.QueryRow(ctx, query, address).Scan(
		&g.Address, &g.GroupID, &g.Coordinator, &g.Event, &g.TierID,
		&target, &current, &maxBudget, &committed,
		&participants, &g.ExpiresAt, &g.IsActive, &g.IsCompleted, &bump,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.AgentCoordination{}, domain.ErrGroupNotFound
		}
		return domain.AgentCoordination{}, fmt.Errorf("get group: %w", err)
	}
	g.TargetTicketCount = uint32(target)
	g.CurrentTicketCount = uint32(current)
	g.MaxBudgetPerTicket = uint64(maxBudget)
	g.TotalBudgetCommitted = uint64(committed)
	g.Participants = stringsToAddresses(participants)
	g.Bump = uint8(bump)
	return g, nil
}

func updateGroup(ctx context.Context, q querier, group domain.AgentCoordination) error {
	const stmt = `
UPDATE coordination_groups SET
	current_ticket_count = $2, total_budget_committed = $3, participants = $4,
	is_active = $5, is_completed = $6
WHERE address = $1`

	tag, err := q.Exec(ctx, stmt,
		group.Address,
		int32(group.CurrentTicketCount),
		int64(group.TotalBudgetCommitted),
		addressesToStrings(group.Participants),
		group.IsActive,
		group.IsCompleted,
	)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}
