package app

import (
	"context"
	"time"

	"github.com/riyqnn/pulsee/internal/clock"
	"github.com/riyqnn/pulsee/internal/domain"
)

type AdminRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateConfig(ctx context.Context, cfg domain.GlobalConfig) error
	GetConfigForUpdate(ctx context.Context) (domain.GlobalConfig, error)
	UpdateConfig(ctx context.Context, cfg domain.GlobalConfig) error
	GetUserForUpdate(ctx context.Context, address domain.Address) (domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
}

// AdminService owns the global configuration lifecycle and the admin-only
// user verification flag.
type AdminService struct {
	repo  AdminRepository
	clock clock.Clock
}

func NewAdminService(repo AdminRepository, clk clock.Clock) *AdminService {
	return &AdminService{repo: repo, clock: clk}
}

type InitializeConfigInput struct {
	Admin                  domain.Address
	ProtocolFeeBps         uint16
	DefaultPriceCapBps     uint16
	MinListingDuration     time.Duration
	MaxListingDuration     time.Duration
	AllowAgentCoordination bool
	RequireVerification    bool
	Treasury               domain.Address
}

// InitializeConfig creates the configuration singleton. The treasury
// defaults to the admin identity when not supplied.
func (s *AdminService) InitializeConfig(ctx context.Context, in InitializeConfigInput) (domain.GlobalConfig, error) {
	if err := domain.ValidateBps(in.ProtocolFeeBps); err != nil {
		return domain.GlobalConfig{}, err
	}
	if err := domain.ValidateBps(in.DefaultPriceCapBps); err != nil {
		return domain.GlobalConfig{}, err
	}
	if err := domain.ValidateListingDurationBounds(in.MinListingDuration, in.MaxListingDuration); err != nil {
		return domain.GlobalConfig{}, err
	}

	treasury := in.Treasury
	if treasury == "" {
		treasury = in.Admin
	}

	address, bump := domain.ConfigAddress()
	cfg := domain.GlobalConfig{
		Address:                address,
		Admin:                  in.Admin,
		ProtocolFeeBps:         in.ProtocolFeeBps,
		DefaultPriceCapBps:     in.DefaultPriceCapBps,
		MinListingDuration:     in.MinListingDuration,
		MaxListingDuration:     in.MaxListingDuration,
		AllowAgentCoordination: in.AllowAgentCoordination,
		RequireVerification:    in.RequireVerification,
		Treasury:               treasury,
		Bump:                   bump,
	}

	if err := s.repo.CreateConfig(ctx, cfg); err != nil {
		return domain.GlobalConfig{}, err
	}
	return cfg, nil
}

type UpdateConfigInput struct {
	Caller                 domain.Address
	ProtocolFeeBps         *uint16
	DefaultPriceCapBps     *uint16
	MinListingDuration     *time.Duration
	MaxListingDuration     *time.Duration
	AllowAgentCoordination *bool
	RequireVerification    *bool
	Treasury               *domain.Address
}

// UpdateConfig applies only the supplied fields, then re-checks the listing
// duration bounds holistically so a single-field edit cannot leave the
// window inverted.
func (s *AdminService) UpdateConfig(ctx context.Context, in UpdateConfigInput) (domain.GlobalConfig, error) {
	var result domain.GlobalConfig

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		cfg, err := s.repo.GetConfigForUpdate(txCtx)
		if err != nil {
			return err
		}
		if cfg.Admin != in.Caller {
			return domain.ErrUnauthorized
		}

		if in.ProtocolFeeBps != nil {
			if err := domain.ValidateBps(*in.ProtocolFeeBps); err != nil {
				return err
			}
			cfg.ProtocolFeeBps = *in.ProtocolFeeBps
		}
		if in.DefaultPriceCapBps != nil {
			if err := domain.ValidateBps(*in.DefaultPriceCapBps); err != nil {
				return err
			}
			cfg.DefaultPriceCapBps = *in.DefaultPriceCapBps
		}
		if in.MinListingDuration != nil {
			cfg.MinListingDuration = *in.MinListingDuration
		}
		if in.MaxListingDuration != nil {
			cfg.MaxListingDuration = *in.MaxListingDuration
		}
		if err := domain.ValidateListingDurationBounds(cfg.MinListingDuration, cfg.MaxListingDuration); err != nil {
			return err
		}

		if in.AllowAgentCoordination != nil {
			cfg.AllowAgentCoordination = *in.AllowAgentCoordination
		}
		if in.RequireVerification != nil {
			cfg.RequireVerification = *in.RequireVerification
		}
		if in.Treasury != nil && *in.Treasury != "" {
			cfg.Treasury = *in.Treasury
		}

		if err := s.repo.UpdateConfig(txCtx, cfg); err != nil {
			return err
		}
		result = cfg
		return nil
	})
	if err != nil {
		return domain.GlobalConfig{}, err
	}
	return result, nil
}

type SetUserVerifiedInput struct {
	Caller   domain.Address
	Owner    domain.Address
	Verified bool
}

// SetUserVerified flips a user's verification flag; admin only.
func (s *AdminService) SetUserVerified(ctx context.Context, in SetUserVerifiedInput) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		cfg, err := s.repo.GetConfigForUpdate(txCtx)
		if err != nil {
			return err
		}
		if cfg.Admin != in.Caller {
			return domain.ErrUnauthorized
		}

		userAddr, _ := domain.UserAddress(in.Owner)
		user, err := s.repo.GetUserForUpdate(txCtx, userAddr)
		if err != nil {
			return err
		}
		user.IsVerified = in.Verified
		return s.repo.UpdateUser(txCtx, user)
	})
}
