package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riyqnn/pulsee/internal/domain"
)

type AdminRepository struct {
	store
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{store{pool: pool}}
}

func (r *AdminRepository) CreateConfig(ctx context.Context, cfg domain.GlobalConfig) error {
	const stmt = `
INSERT INTO config (
	address, admin, protocol_fee_bps, default_price_cap_bps,
	min_listing_duration_secs, max_listing_duration_secs,
	allow_agent_coordination, require_verification, treasury, bump
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.q(ctx).Exec(ctx, stmt,
		cfg.Address,
		cfg.Admin,
		int32(cfg.ProtocolFeeBps),
		int32(cfg.DefaultPriceCapBps),
		int64(cfg.MinListingDuration/time.Second),
		int64(cfg.MaxListingDuration/time.Second),
		cfg.AllowAgentCoordination,
		cfg.RequireVerification,
		cfg.Treasury,
		int16(cfg.Bump),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConfigExists
		}
		return fmt.Errorf("create config: %w", err)
	}
	return nil
}

func (r *AdminRepository) GetConfigForUpdate(ctx context.Context) (domain.GlobalConfig, error) {
	return getConfig(ctx, r.q(ctx), true)
}

func (r *AdminRepository) UpdateConfig(ctx context.Context, cfg domain.GlobalConfig) error {
	const stmt = `
UPDATE config SET
	admin = $2, protocol_fee_bps = $3, default_price_cap_bps = $4,
	min_listing_duration_secs = $5, max_listing_duration_secs = $6,
	allow_agent_coordination = $7, require_verification = $8, treasury = $9
WHERE address = $1`

	tag, err := r.q(ctx).Exec(ctx, stmt,
		cfg.Address,
		cfg.Admin,
		int32(cfg.ProtocolFeeBps),
		int32(cfg.DefaultPriceCapBps),
		int64(cfg.MinListingDuration/time.Second),
		int64(cfg.MaxListingDuration/time.Second),
		cfg.AllowAgentCoordination,
		cfg.RequireVerification,
		cfg.Treasury,
	)
	if err != nil {
		return fmt.Errorf("update config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConfigNotFound
	}
	return nil
}

func (r *AdminRepository) GetUserForUpdate(ctx context.Context, address domain.Address) (domain.User, error) {
	return getUserForUpdate(ctx, r.q(ctx), address)
}

func (r *AdminRepository) UpdateUser(ctx context.Context, user domain.User) error {
	return updateUser(ctx, r.q(ctx), user)
}

func getConfig(ctx context.Context, q querier, forUpdate bool) (domain.GlobalConfig, error) {
	query := `
SELECT address, admin, protocol_fee_bps, default_price_cap_bps,
	min_listing_duration_secs, max_listing_duration_secs,
	allow_agent_coordination, require_verification, treasury, bump
FROM config`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var (
		cfg     domain.GlobalConfig
		feeBps  int32
		capBps  int32
		minSecs int64
		maxSecs int64
		bump    int16
	)
	err := q.QueryRow(ctx, query).Scan(
		&cfg.Address,
		&cfg.Admin,
		&feeBps,
		&capBps,
		&minSecs,
		&maxSecs,
		&cfg.AllowAgentCoordination,
		&cfg.RequireVerification,
		&cfg.Treasury,
		&bump,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.GlobalConfig{}, domain.ErrConfigNotFound
		}
		return domain.GlobalConfig{}, fmt.Errorf("get config: %w", err)
	}
	cfg.ProtocolFeeBps = uint16(feeBps)
	cfg.DefaultPriceCapBps = uint16(capBps)
	cfg.MinListingDuration = time.Duration(minSecs) * time.Second
	cfg.MaxListingDuration = time.Duration(maxSecs) * time.Second
	cfg.Bump = uint8(bump)
	return cfg, nil
}
