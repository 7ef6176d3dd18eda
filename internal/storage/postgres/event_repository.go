package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riyqnn/pulsee/internal/domain"
)

type EventRepository struct {
	store
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{store{pool: pool}}
}

func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (
	address, organizer, event_id, name, description, image_url, venue,
	event_start_time, event_end_time, sale_start_time, sale_end_time,
	is_active, is_cancelled, max_tickets_per_user, royalty_bps,
	total_tickets_sold, total_revenue, created_at, bump
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	_, err := r.q(ctx).Exec(ctx, stmt,
		event.Address,
		event.Organizer,
		event.EventID,
		event.Name,
		event.Description,
		event.ImageURL,
		event.Venue,
		event.EventStartTime,
		event.EventEndTime,
		event.SaleStartTime,
		event.SaleEndTime,
		event.IsActive,
		event.IsCancelled,
		int32(event.MaxTicketsPerUser),
		int32(event.RoyaltyBps),
		int64(event.TotalTicketsSold),
		int64(event.TotalRevenue),
		event.CreatedAt,
		int16(event.Bump),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEventExists
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetEventForUpdate(ctx context.Context, address domain.Address) (domain.Event, error) {
	return getEventForUpdate(ctx, r.q(ctx), address)
}

func (r *EventRepository) UpdateEvent(ctx context.Context, event domain.Event) error {
	return updateEvent(ctx, r.q(ctx), event)
}

func (r *EventRepository) CreateTier(ctx context.Context, tier domain.TicketTier) error {
	const stmt = `
INSERT INTO tiers (address, event, tier_id, name, description, price, max_supply, current_supply, is_active, bump)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.q(ctx).Exec(ctx, stmt,
		tier.Address,
		tier.Event,
		tier.TierID,
		tier.Name,
		tier.Description,
		int64(tier.Price),
		int64(tier.MaxSupply),
		int64(tier.CurrentSupply),
		tier.IsActive,
		int16(tier.Bump),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTierExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("create tier: %w", err)
	}
	return nil
}

func (r *EventRepository) GetTierForUpdate(ctx context.Context, address domain.Address) (domain.TicketTier, error) {
	return getTierForUpdate(ctx, r.q(ctx), address)
}

func (r *EventRepository) UpdateTier(ctx context.Context, tier domain.TicketTier) error {
	return updateTier(ctx, r.q(ctx), tier)
}

func getEventForUpdate(ctx context.Context, q querier, address domain.Address) (domain.Event, error) {
	const query = `
SELECT address, organizer, event_id, name, description, image_url, venue,
	event_start_time, event_end_time, sale_start_time, sale_end_time,
	is_active, is_cancelled, max_tickets_per_user, royalty_bps,
	total_tickets_sold, total_revenue, created_at, bump
FROM events WHERE address = $1 FOR UPDATE`

	var (
		e          domain.Event
		maxPerUser int32
		royalty    int32
		sold       int64
		revenue    int64
		bump       int16
	)
	err := q.QueryRow(ctx, query, address).Scan(
		&e.Address, &e.Organizer, &e.EventID, &e.Name, &e.Description, &e.ImageURL, &e.Venue,
		&e.EventStartTime, &e.EventEndTime, &e.SaleStartTime, &e.SaleEndTime,
		&e.IsActive, &e.IsCancelled, &maxPerUser, &royalty,
		&sold, &revenue, &e.CreatedAt, &bump,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	e.MaxTicketsPerUser = uint32(maxPerUser)
	e.RoyaltyBps = uint16(royalty)
	e.TotalTicketsSold = uint64(sold)
	e.TotalRevenue = uint64(revenue)
	e.Bump = uint8(bump)
	return e, nil
}

func updateEvent(ctx context.Context, q querier, event domain.Event) error {
	const stmt = `
UPDATE events SET
	name = $2, description = $3, image_url = $4, venue = $5,
	event_start_time = $6, event_end_time = $7, sale_start_time = $8, sale_end_time = $9,
	is_active = $10, is_cancelled = $11, max_tickets_per_user = $12, royalty_bps = $13,
	total_tickets_sold = $14, total_revenue = $15
WHERE address = $1`

	tag, err := q.Exec(ctx, stmt,
		event.Address,
		event.Name,
		event.Description,
		event.ImageURL,
		event.Venue,
		event.EventStartTime,
		event.EventEndTime,
		event.SaleStartTime,
		event.SaleEndTime,
		event.IsActive,
		event.IsCancelled,
		int32(event.MaxTicketsPerUser),
		int32(event.RoyaltyBps),
		int64(event.TotalTicketsSold),
		int64(event.TotalRevenue),
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func getTierForUpdate(ctx context.Context, q querier, address domain.Address) (domain.TicketTier, error) {
	const query = `
SELECT address, event, tier_id, name, description, price, max_supply, current_supply, is_active, bump
FROM tiers WHERE address = $1 FOR UPDATE`

	var (
		t      domain.TicketTier
		price  int64
		maxSup int64
		curSup int64
		bump   int16
	)
	err := q.QueryRow(ctx, query, address).Scan(
		&t.Address, &t.Event, &t.TierID, &t.Name, &t.Description,
		&price, &maxSup, &curSup, &t.IsActive, &bump,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.TicketTier{}, domain.ErrTierNotFound
		}
		return domain.TicketTier{}, fmt.Errorf("get tier: %w", err)
	}
	t.Price = uint64(price)
	t.MaxSupply = uint64(maxSup)
	t.CurrentSupply = uint64(curSup)
	t.Bump = uint8(bump)
	return t, nil
}

func updateTier(ctx context.Context, q querier, tier domain.TicketTier) error {
	const stmt = `
UPDATE tiers SET name = $2, description = $3, price = $4, max_supply = $5, current_supply = $6, is_active = $7
WHERE address = $1`

	tag, err := q.Exec(ctx, stmt,
		tier.Address,
		tier.Name,
		tier.Description,
		int64(tier.Price),
		int64(tier.MaxSupply),
		int64(tier.CurrentSupply),
		tier.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update tier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTierNotFound
	}
	return nil
}
