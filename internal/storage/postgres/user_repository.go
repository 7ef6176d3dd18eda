package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riyqnn/pulsee/internal/domain"
)

type UserRepository struct {
	store
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{store{pool: pool}}
}

func (r *UserRepository) CreateUser(ctx context.Context, user domain.User) error {
	const stmt = `
INSERT INTO users (address, owner, username, email, tickets_owned, total_spent, tickets_purchased, is_verified, bump)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.q(ctx).Exec(ctx, stmt,
		user.Address,
		user.Owner,
		user.Username,
		user.Email,
		int64(user.TicketsOwned),
		int64(user.TotalSpent),
		int64(user.TicketsPurchased),
		user.IsVerified,
		int16(user.Bump),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetUserForUpdate(ctx context.Context, address domain.Address) (domain.User, error) {
	return getUserForUpdate(ctx, r.q(ctx), address)
}

func (r *UserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	return updateUser(ctx, r.q(ctx), user)
}

func getUserForUpdate(ctx context.Context, q querier, address domain.Address) (domain.User, error) {
	const query = `
SELECT address, owner, username, email, tickets_owned, total_spent, tickets_purchased, is_verified, bump
FROM users WHERE address = $1 FOR UPDATE`

	var (
		u         domain.User
		owned     int64
		spent     int64
		purchased int64
		bump      int16
	)
	err := q.QueryRow(ctx, query, address).Scan(
		&u.Address, &u.Owner, &u.Username, &u.Email,
		&owned, &spent, &purchased, &u.IsVerified, &bump,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	u.TicketsOwned = uint64(owned)
	u.TotalSpent = uint64(spent)
	u.TicketsPurchased = uint64(purchased)
	u.Bump = uint8(bump)
	return u, nil
}

func updateUser(ctx context.Context, q querier, user domain.User) error {
	const stmt = `
UPDATE users SET username = $2, email = $3, tickets_owned = $4, total_spent = $5, tickets_purchased = $6, is_verified = $7
WHERE address = $1`

	tag, err := q.Exec(ctx, stmt,
		user.Address,
		user.Username,
		user.Email,
		int64(user.TicketsOwned),
		int64(user.TotalSpent),
		int64(user.TicketsPurchased),
		user.IsVerified,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
