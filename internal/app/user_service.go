package app

import (
	"context"

	"github.com/riyqnn/pulsee/internal/clock"
	"github.com/riyqnn/pulsee/internal/domain"
)

type UserRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateUser(ctx context.Context, user domain.User) error
	GetUserForUpdate(ctx context.Context, address domain.Address) (domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
}

// UserService manages on-ledger user profiles, one per owner identity.
type UserService struct {
	repo  UserRepository
	clock clock.Clock
}

func NewUserService(repo UserRepository, clk clock.Clock) *UserService {
	return &UserService{repo: repo, clock: clk}
}

type CreateUserInput struct {
	Owner    domain.Address
	Username string
	Email    string
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (domain.User, error) {
	if err := domain.ValidateUserFields(in.Username, in.Email); err != nil {
		return domain.User{}, err
	}

	address, bump := domain.UserAddress(in.Owner)
	user := domain.User{
		Address:  address,
		Owner:    in.Owner,
		Username: in.Username,
		Email:    in.Email,
		Bump:     bump,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

type UpdateUserProfileInput struct {
	Caller   domain.Address
	Username *string
	Email    *string
}

// UpdateUserProfile applies only the supplied fields. The verification flag
// is deliberately not touchable here; that belongs to the admin service.
func (s *UserService) UpdateUserProfile(ctx context.Context, in UpdateUserProfileInput) (domain.User, error) {
	var result domain.User

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		address, _ := domain.UserAddress(in.Caller)
		user, err := s.repo.GetUserForUpdate(txCtx, address)
		if err != nil {
			return err
		}
		if user.Owner != in.Caller {
			return domain.ErrUnauthorized
		}

		if in.Username != nil {
			if len(*in.Username) > domain.MaxUsernameLen {
				return domain.ErrInvalidInput
			}
			user.Username = *in.Username
		}
		if in.Email != nil {
			if len(*in.Email) > domain.MaxEmailLen {
				return domain.ErrInvalidInput
			}
			user.Email = *in.Email
		}

		if err := s.repo.UpdateUser(txCtx, user); err != nil {
			return err
		}
		result = user
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return result, nil
}
