package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riyqnn/pulsee/internal/domain"
)

// PrimaryRepository backs the primary market: it touches most of the schema
// because one purchase settles money, inventory, tallies, and the ticket
// record in a single transaction.
type PrimaryRepository struct {
	store
}

func NewPrimaryRepository(pool *pgxpool.Pool) *PrimaryRepository {
	return &PrimaryRepository{store{pool: pool}}
}

func (r *PrimaryRepository) GetConfig(ctx context.Context) (domain.GlobalConfig, error) {
	return getConfig(ctx, r.q(ctx), false)
}

func (r *PrimaryRepository) GetEventForUpdate(ctx context.Context, address domain.Address) (domain.Event, error) {
	return getEventForUpdate(ctx, r.q(ctx), address)
}

func (r *PrimaryRepository) UpdateEvent(ctx context.Context, event domain.Event) error {
	return updateEvent(ctx, r.q(ctx), event)
}

func (r *PrimaryRepository) GetTierForUpdate(ctx context.Context, address domain.Address) (domain.TicketTier, error) {
	return getTierForUpdate(ctx, r.q(ctx), address)
}

func (r *PrimaryRepository) UpdateTier(ctx context.Context, tier domain.TicketTier) error {
	return updateTier(ctx, r.q(ctx), tier)
}

func (r *PrimaryRepository) GetUserForUpdate(ctx context.Context, address domain.Address) (domain.User, error) {
	return getUserForUpdate(ctx, r.q(ctx), address)
}

func (r *PrimaryRepository) UpdateUser(ctx context.Context, user domain.User) error {
	return updateUser(ctx, r.q(ctx), user)
}

func (r *PrimaryRepository) GetAgentForUpdate(ctx context.Context, address domain.Address) (domain.AIAgent, error) {
	return getAgentForUpdate(ctx, r.q(ctx), address)
}

func (r *PrimaryRepository) UpdateAgent(ctx context.Context, agent domain.AIAgent) error {
	return updateAgent(ctx, r.q(ctx), agent)
}

func (r *PrimaryRepository) GetEscrowForUpdate(ctx context.Context, address domain.Address) (domain.AgentEscrow, error) {
	return getEscrowForUpdate(ctx, r.q(ctx), address)
}

func (r *PrimaryRepository) UpdateEscrow(ctx context.Context, escrow domain.AgentEscrow) error {
	return updateEscrow(ctx, r.q(ctx), escrow)
}

func (r *PrimaryRepository) GetGroupForUpdate(ctx context.Context, address domain.Address) (domain.AgentCoordination, error) {
	return getGroupForUpdate(ctx, r.q(ctx), address)
}

func (r *PrimaryRepository) UpdateGroup(ctx context.Context, group domain.AgentCoordination) error {
	return updateGroup(ctx, r.q(ctx), group)
}

func (r *PrimaryRepository) Transfer(ctx context.Context, from, to domain.Address, amount uint64) error {
	return transfer(ctx, r.q(ctx), from, to, amount)
}

// GetCounterForUpdate reports absence with a false flag rather than an
// error: a missing counter is the normal first-purchase case.
func (r *PrimaryRepository) GetCounterForUpdate(ctx context.Context, address domain.Address) (domain.UserTicketCounter, bool, error) {
	const query = `
SELECT address, user_address, event, ticket_count, bump
FROM user_ticket_counters WHERE address = $1 FOR UPDATE`

	var (
		c     domain.UserTicketCounter
		count int32
		bump  int16
	)
	err := r.q(ctx).QueryRow(ctx, query, address).Scan(&c.Address, &c.User, &c.Event, &count, &bump)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.UserTicketCounter{}, false, nil
		}
		return domain.UserTicketCounter{}, false, fmt.Errorf("get counter: %w", err)
	}
	c.TicketCount = uint32(count)
	c.Bump = uint8(bump)
	return c, true, nil
}

func (r *PrimaryRepository) CreateCounter(ctx context.Context, counter domain.UserTicketCounter) error {
	const stmt = `
INSERT INTO user_ticket_counters (address, user_address, event, ticket_count, bump)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.q(ctx).Exec(ctx, stmt,
		counter.Address,
		counter.User,
		counter.Event,
		int32(counter.TicketCount),
		int16(counter.Bump),
	)
	if err != nil {
		return fmt.Errorf("create counter: %w", err)
	}
	return nil
}

func (r *PrimaryRepository) UpdateCounter(ctx context.Context, counter domain.UserTicketCounter) error {
	const stmt = `UPDATE user_ticket_counters SET ticket_count = $2 WHERE address = $1`
	tag, err := r.q(ctx).Exec(ctx, stmt, counter.Address, int32(counter.TicketCount))
	if err != nil {
		return fmt.Errorf("update counter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update counter: %s not found", counter.Address)
	}
	return nil
}

func (r *PrimaryRepository) CreateTicket(ctx context.Context, ticket domain.Ticket) error {
	return createTicket(ctx, r.q(ctx), ticket)
}

func (r *PrimaryRepository) GetTicketForUpdate(ctx context.Context, address domain.Address) (domain.Ticket, error) {
	return getTicketForUpdate(ctx, r.q(ctx), address)
}

func (r *PrimaryRepository) UpdateTicket(ctx context.Context, ticket domain.Ticket) error {
	return updateTicket(ctx, r.q(ctx), ticket)
}

func createTicket(ctx context.Context, q querier, ticket domain.Ticket) error {
	const stmt = `
INSERT INTO tickets (address, mint, event, tier_id, owner, original_price, status, purchased_at, validated_at, seat_info, cancel_reason, bump)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := q.Exec(ctx, stmt,
		ticket.Address,
		ticket.Mint,
		ticket.Event,
		ticket.TierID,
		ticket.Owner,
		int64(ticket.OriginalPrice),
		ticket.Status,
		ticket.PurchasedAt,
		ticket.ValidatedAt,
		ticket.SeatInfo,
		ticket.CancelReason,
		int16(ticket.Bump),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

func getTicketForUpdate(ctx context.Context, q querier, address domain.Address) (domain.Ticket, error) {
	const query = `
SELECT address, mint, event, tier_id, owner, original_price, status, purchased_at, validated_at, seat_info, cancel_reason, bump
FROM tickets WHERE address = $1 FOR UPDATE`

	var (
		t     domain.Ticket
		price int64
		bump  int16
	)
	err := q.QueryRow(ctx, query, address).Scan(
		&t.Address, &t.Mint, &t.Event, &t.TierID, &t.Owner,
		&price, &t.Status, &t.PurchasedAt, &t.ValidatedAt, &t.SeatInfo, &t.CancelReason, &bump,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Ticket{}, domain.ErrTicketNotFound
		}
		return domain.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	t.OriginalPrice = uint64(price)
	t.Bump = uint8(bump)
	return t, nil
}

func updateTicket(ctx context.Context, q querier, ticket domain.Ticket) error {
	const stmt = `
UPDATE tickets SET owner = $2, status = $3, validated_at = $4, seat_info = $5, cancel_reason = $6
WHERE address = $1`

	tag, err := q.Exec(ctx, stmt,
		ticket.Address,
		ticket.Owner,
		ticket.Status,
		ticket.ValidatedAt,
		ticket.SeatInfo,
		ticket.CancelReason,
	)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}
