package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riyqnn/pulsee/internal/domain"
)

type AgentRepository struct {
	store
}

func NewAgentRepository(pool *pgxpool.Pool) *AgentRepository {
	return &AgentRepository{store{pool: pool}}
}

func (r *AgentRepository) CreateAgent(ctx context.Context, agent domain.AIAgent) error {
	const stmt = `
INSERT INTO agents (
	address, owner, agent_id, name, is_active,
	max_budget_per_ticket, total_budget, spent_budget,
	preference_flags, preferred_genres, preferred_venues,
	min_event_duration, max_event_duration, allowed_locations, max_distance_km,
	preferred_days, preferred_time_start, preferred_time_end,
	auto_purchase_enabled, auto_purchase_threshold, max_tickets_per_event,
	require_verification, allow_coordination, coordination_group_id,
	tickets_purchased, money_saved, created_at, last_active, bump
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
	$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29
)`

	_, err := r.q(ctx).Exec(ctx, stmt,
		agent.Address,
		agent.Owner,
		agent.AgentID,
		agent.Name,
		agent.IsActive,
		int64(agent.MaxBudgetPerTicket),
		int64(agent.TotalBudget),
		int64(agent.SpentBudget),
		int64(agent.PreferenceFlags),
		agent.PreferredGenres,
		addressesToStrings(agent.PreferredVenues),
		int32(agent.MinEventDuration),
		int32(agent.MaxEventDuration),
		addressesToStrings(agent.AllowedLocations),
		int32(agent.MaxDistanceKm),
		int16(agent.PreferredDays),
		int32(agent.PreferredTimeStart),
		int32(agent.PreferredTimeEnd),
		agent.AutoPurchaseEnabled,
		int32(agent.AutoPurchaseThreshold),
		int16(agent.MaxTicketsPerEvent),
		agent.RequireVerification,
		agent.AllowCoordination,
		agent.CoordinationGroupID,
		int64(agent.TicketsPurchased),
		int64(agent.MoneySaved),
		agent.CreatedAt,
		agent.LastActive,
		int16(agent.Bump),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAgentExists
		}
		return fmt.Errorf("create agent: %w", err)
	}
	return nil
}

func (r *AgentRepository) GetAgentForUpdate(ctx context.Context, address domain.Address) (domain.AIAgent, error) {
	return getAgentForUpdate(ctx, r.q(ctx), address)
}

func (r *AgentRepository) UpdateAgent(ctx context.Context, agent domain.AIAgent) error {
	return updateAgent(ctx, r.q(ctx), agent)
}

func getAgentForUpdate(ctx context.Context, q querier, address domain.Address) (domain.AIAgent, error) {
	const query = `
SELECT address, owner, agent_id, name, is_active,
	max_budget_per_ticket, total_budget, spent_budget,
	preference_flags, preferred_genres, preferred_venues,
	min_event_duration, max_event_duration, allowed_locations, max_distance_km,
	preferred_days, preferred_time_start, preferred_time_end,
	auto_purchase_enabled, auto_purchase_threshold, max_tickets_per_event,
	require_verification, allow_coordination, coordination_group_id,
	tickets_purchased, money_saved, created_at, last_active, bump
FROM agents WHERE address = $1 FOR UPDATE`

	var (
		a          domain.AIAgent
		maxBudget  int64
		total      int64
		spent      int64
		flags      int64
		venues     []string
		minDur     int32
		maxDur     int32
		locations  []string
		distance   int32
		days       int16
		timeStart  int32
		timeEnd    int32
		threshold  int32
		maxTickets int16
		purchased  int64
		saved      int64
		bump       int16
	)
	err := q.QueryRow(ctx, query, address).Scan(
		&a.Address, &a.Owner, &a.AgentID, &a.Name, &a.IsActive,
		&maxBudget, &total, &spent,
		&flags, &a.PreferredGenres, &venues,
		&minDur, &maxDur, &locations, &distance,
		&days, &timeStart, &timeEnd,
		&a.AutoPurchaseEnabled, &threshold, &maxTickets,
		&a.RequireVerification, &a.AllowCoordination, &a.CoordinationGroupID,
		&purchased, &saved, &a.CreatedAt, &a.LastActive, &bump,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.AIAgent{}, domain.ErrAgentNotFound
		}
		return domain.AIAgent{}, fmt.Errorf("get agent: %w", err)
	}
	a.MaxBudgetPerTicket = uint64(maxBudget)
	a.TotalBudget = uint64(total)
	a.SpentBudget = uint64(spent)
	a.PreferenceFlags = uint64(flags)
	a.PreferredVenues = stringsToAddresses(venues)
	a.MinEventDuration = uint32(minDur)
	a.MaxEventDuration = uint32(maxDur)
	a.AllowedLocations = stringsToAddresses(locations)
	a.MaxDistanceKm = uint32(distance)
	a.PreferredDays = uint8(days)
	a.PreferredTimeStart = uint32(timeStart)
	a.PreferredTimeEnd = uint32(timeEnd)
	a.AutoPurchaseThreshold = uint16(threshold)
	a.MaxTicketsPerEvent = uint8(maxTickets)
	a.TicketsPurchased = uint64(purchased)
	a.MoneySaved = uint64(saved)
	a.Bump = uint8(bump)
	return a, nil
}

func updateAgent(ctx context.Context, q querier, agent domain.AIAgent) error {
	const stmt = `
UPDATE agents SET
	name = $2, is_active = $3,
	max_budget_per_ticket = $4, total_budget = $5, spent_budget = $6,
	preference_flags = $7, preferred_genres = $8, preferred_venues = $9,
	min_event_duration = $10, max_event_duration = $11, allowed_locations = $12, max_distance_km = $13,
	preferred_days = $14, preferred_time_start = $15, preferred_time_end = $16,
	auto_purchase_enabled = $17, auto_purchase_threshold = $18, max_tickets_per_event = $19,
	require_verification = $20, allow_coordination = $21, coordination_group_id = $22,
	tickets_purchased = $23, money_saved = $24, last_active = $25
WHERE address = $1`

	tag, err := q.Exec(ctx, stmt,
		agent.Address,
		agent.Name,
		agent.IsActive,
		int64(agent.MaxBudgetPerTicket),
		int64(agent.TotalBudget),
		int64(agent.SpentBudget),
		int64(agent.PreferenceFlags),
		agent.PreferredGenres,
		addressesToStrings(agent.PreferredVenues),
		int32(agent.MinEventDuration),
		int32(agent.MaxEventDuration),
		addressesToStrings(agent.AllowedLocations),
		int32(agent.MaxDistanceKm),
		int16(agent.PreferredDays),
		int32(agent.PreferredTimeStart),
		int32(agent.PreferredTimeEnd),
		agent.AutoPurchaseEnabled,
		int32(agent.AutoPurchaseThreshold),
		int16(agent.MaxTicketsPerEvent),
		agent.RequireVerification,
		agent.AllowCoordination,
		agent.CoordinationGroupID,
		int64(agent.TicketsPurchased),
		int64(agent.MoneySaved),
		agent.LastActive,
	)
	if err != nil {
		return fmt.Errorf("update agent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAgentNotFound
	}
	return nil
}

func addressesToStrings(addrs []domain.Address) []string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = string(a)
	}
	return out
}

func stringsToAddresses(ss []string) []domain.Address {
	if len(ss) == 0 {
		return nil
	}
	out := make([]domain.Address, len(ss))
	for i, s := range ss {
		out[i] = domain.Address(s)
	}
	return out
}
