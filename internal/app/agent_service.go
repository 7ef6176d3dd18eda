package app

import (
	"context"

	"github.com/riyqnn/pulsee/internal/clock"
	"github.com/riyqnn/pulsee/internal/domain"
)

type AgentRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateAgent(ctx context.Context, agent domain.AIAgent) error
	GetAgentForUpdate(ctx context.Context, address domain.Address) (domain.AIAgent, error)
	UpdateAgent(ctx context.Context, agent domain.AIAgent) error
}

// AgentService manages autonomous buyer configuration: budgets, preference
// windows, and the activation / auto-purchase switches.
type AgentService struct {
	repo  AgentRepository
	clock clock.Clock
}

func NewAgentService(repo AgentRepository, clk clock.Clock) *AgentService {
	return &AgentService{repo: repo, clock: clk}
}

type CreateAgentInput struct {
	Owner              domain.Address
	AgentID            string
	Name               string
	MaxBudgetPerTicket uint64
	TotalBudget        uint64

	PreferenceFlags  uint64
	PreferredGenres  []byte
	PreferredVenues  []domain.Address
	MinEventDuration uint32
	MaxEventDuration uint32
	AllowedLocations []domain.Address
	MaxDistanceKm    uint32

	PreferredDays      uint8
	PreferredTimeStart uint32
	PreferredTimeEnd   uint32

	AutoPurchaseEnabled   bool
	AutoPurchaseThreshold uint16
	MaxTicketsPerEvent    uint8
	RequireVerification   bool
	AllowCoordination     bool
}

// CreateAgent seeds an agent with the full preference surface. Unset window
// preferences default to "always": all days, the whole day, 100km. An unset
// auto-purchase threshold defaults to 10000, so a fresh agent only buys
// perfect matches until its owner loosens the bar.
func (s *AgentService) CreateAgent(ctx context.Context, in CreateAgentInput) (domain.AIAgent, error) {
	if err := domain.ValidateAgentFields(in.AgentID, in.Name); err != nil {
		return domain.AIAgent{}, err
	}
	if in.MaxBudgetPerTicket == 0 || in.TotalBudget == 0 {
		return domain.AIAgent{}, domain.ErrInvalidBudget
	}
	if err := domain.ValidateMinutesOfDay(in.PreferredTimeStart); err != nil {
		return domain.AIAgent{}, err
	}
	if err := domain.ValidateMinutesOfDay(in.PreferredTimeEnd); err != nil {
		return domain.AIAgent{}, err
	}
	if err := domain.ValidateBps(in.AutoPurchaseThreshold); err != nil {
		return domain.AIAgent{}, err
	}
	if len(in.PreferredGenres) > domain.MaxPreferredGenres ||
		len(in.PreferredVenues) > domain.MaxPreferredVenues ||
		len(in.AllowedLocations) > domain.MaxAllowedLocations {
		return domain.AIAgent{}, domain.ErrInvalidInput
	}

	days := in.PreferredDays
	if days == 0 {
		days = domain.AllDaysMask
	}
	timeEnd := in.PreferredTimeEnd
	if timeEnd == 0 {
		timeEnd = domain.MaxMinutesOfDay
	}
	distance := in.MaxDistanceKm
	if distance == 0 {
		distance = domain.DefaultMaxDistanceKm
	}
	threshold := in.AutoPurchaseThreshold
	if threshold == 0 {
		threshold = domain.BpsDenominator
	}

	now := s.clock.Now()
	address, bump := domain.AgentAddress(in.Owner, in.AgentID)
	agent := domain.AIAgent{
		Address:               address,
		Owner:                 in.Owner,
		AgentID:               in.AgentID,
		Name:                  in.Name,
		IsActive:              true,
		MaxBudgetPerTicket:    in.MaxBudgetPerTicket,
		TotalBudget:           in.TotalBudget,
		PreferenceFlags:       in.PreferenceFlags,
		PreferredGenres:       in.PreferredGenres,
		PreferredVenues:       in.PreferredVenues,
		MinEventDuration:      in.MinEventDuration,
		MaxEventDuration:      in.MaxEventDuration,
		AllowedLocations:      in.AllowedLocations,
		MaxDistanceKm:         distance,
		PreferredDays:         days,
		PreferredTimeStart:    in.PreferredTimeStart,
		PreferredTimeEnd:      timeEnd,
		AutoPurchaseEnabled:   in.AutoPurchaseEnabled,
		AutoPurchaseThreshold: threshold,
		MaxTicketsPerEvent:    in.MaxTicketsPerEvent,
		RequireVerification:   in.RequireVerification,
		AllowCoordination:     in.AllowCoordination,
		CreatedAt:             now,
		LastActive:            now,
		Bump:                  bump,
	}

	if err := s.repo.CreateAgent(ctx, agent); err != nil {
		return domain.AIAgent{}, err
	}
	return agent, nil
}

type UpdateAgentInput struct {
	Caller  domain.Address
	AgentID string

	Name               *string
	MaxBudgetPerTicket *uint64
	PreferenceFlags    *uint64
	PreferredGenres    []byte
	PreferredVenues    []domain.Address
	MinEventDuration   *uint32
	MaxEventDuration   *uint32
	AllowedLocations   []domain.Address
	MaxDistanceKm      *uint32

	PreferredDays      *uint8
	PreferredTimeStart *uint32
	PreferredTimeEnd   *uint32

	AutoPurchaseThreshold *uint16
	MaxTicketsPerEvent    *uint8
	RequireVerification   *bool
	AllowCoordination     *bool
}

// UpdateAgent applies partial-update semantics: unset fields are untouched,
// and every bounded field is re-validated on write.
func (s *AgentService) UpdateAgent(ctx context.Context, in UpdateAgentInput) (domain.AIAgent, error) {
	var result domain.AIAgent

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		agent, err := s.loadOwned(txCtx, in.Caller, in.AgentID)
		if err != nil {
			return err
		}

		if in.Name != nil {
			if len(*in.Name) > domain.MaxAgentNameLen {
				return domain.ErrInvalidInput
			}
			agent.Name = *in.Name
		}
		if in.MaxBudgetPerTicket != nil {
			if *in.MaxBudgetPerTicket == 0 {
				return domain.ErrInvalidBudget
			}
			agent.MaxBudgetPerTicket = *in.MaxBudgetPerTicket
		}
		if in.PreferenceFlags != nil {
			agent.PreferenceFlags = *in.PreferenceFlags
		}
		if in.PreferredGenres != nil {
			if len(in.PreferredGenres) > domain.MaxPreferredGenres {
				return domain.ErrInvalidInput
			}
			agent.PreferredGenres = in.PreferredGenres
		}
		if in.PreferredVenues != nil {
			if len(in.PreferredVenues) > domain.MaxPreferredVenues {
				return domain.ErrInvalidInput
			}
			agent.PreferredVenues = in.PreferredVenues
		}
		if in.MinEventDuration != nil {
			agent.MinEventDuration = *in.MinEventDuration
		}
		if in.MaxEventDuration != nil {
			agent.MaxEventDuration = *in.MaxEventDuration
		}
		if in.AllowedLocations != nil {
			if len(in.AllowedLocations) > domain.MaxAllowedLocations {
				return domain.ErrInvalidInput
			}
			agent.AllowedLocations = in.AllowedLocations
		}
		if in.MaxDistanceKm != nil {
			agent.MaxDistanceKm = *in.MaxDistanceKm
		}
		if in.PreferredDays != nil {
			agent.PreferredDays = *in.PreferredDays
		}
		if in.PreferredTimeStart != nil {
			if err := domain.ValidateMinutesOfDay(*in.PreferredTimeStart); err != nil {
				return err
			}
			agent.PreferredTimeStart = *in.PreferredTimeStart
		}
		if in.PreferredTimeEnd != nil {
			if err := domain.ValidateMinutesOfDay(*in.PreferredTimeEnd); err != nil {
				return err
			}
			agent.PreferredTimeEnd = *in.PreferredTimeEnd
		}
		if in.AutoPurchaseThreshold != nil {
			if err := domain.ValidateBps(*in.AutoPurchaseThreshold); err != nil {
				return err
			}
			agent.AutoPurchaseThreshold = *in.AutoPurchaseThreshold
		}
		if in.MaxTicketsPerEvent != nil {
			agent.MaxTicketsPerEvent = *in.MaxTicketsPerEvent
		}
		if in.RequireVerification != nil {
			agent.RequireVerification = *in.RequireVerification
		}
		if in.AllowCoordination != nil {
			agent.AllowCoordination = *in.AllowCoordination
		}

		if err := s.repo.UpdateAgent(txCtx, agent); err != nil {
			return err
		}
		result = agent
		return nil
	})
	if err != nil {
		return domain.AIAgent{}, err
	}
	return result, nil
}

// SetAgentActive flips the activation switch; no side effects elsewhere.
func (s *AgentService) SetAgentActive(ctx context.Context, caller domain.Address, agentID string, active bool) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		agent, err := s.loadOwned(txCtx, caller, agentID)
		if err != nil {
			return err
		}
		agent.IsActive = active
		return s.repo.UpdateAgent(txCtx, agent)
	})
}

// ToggleAutoPurchase flips the autonomous-buying switch.
func (s *AgentService) ToggleAutoPurchase(ctx context.Context, caller domain.Address, agentID string, enabled bool) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		agent, err := s.loadOwned(txCtx, caller, agentID)
		if err != nil {
			return err
		}
		agent.AutoPurchaseEnabled = enabled
		return s.repo.UpdateAgent(txCtx, agent)
	})
}

// AddAgentBudget raises the total budget with a checked addition.
func (s *AgentService) AddAgentBudget(ctx context.Context, caller domain.Address, agentID string, amount uint64) (domain.AIAgent, error) {
	if amount == 0 {
		return domain.AIAgent{}, domain.ErrInvalidBudget
	}
	var result domain.AIAgent
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		agent, err := s.loadOwned(txCtx, caller, agentID)
		if err != nil {
			return err
		}
		total, err := domain.SafeAdd(agent.TotalBudget, amount)
		if err != nil {
			return err
		}
		agent.TotalBudget = total
		if err := s.repo.UpdateAgent(txCtx, agent); err != nil {
			return err
		}
		result = agent
		return nil
	})
	if err != nil {
		return domain.AIAgent{}, err
	}
	return result, nil
}

// DecreaseAgentBudget lowers the total budget. The result must still cover
// everything already spent, keeping spent_budget <= total_budget intact.
func (s *AgentService) DecreaseAgentBudget(ctx context.Context, caller domain.Address, agentID string, amount uint64) (domain.AIAgent, error) {
	if amount == 0 {
		return domain.AIAgent{}, domain.ErrInvalidBudget
	}
	var result domain.AIAgent
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		agent, err := s.loadOwned(txCtx, caller, agentID)
		if err != nil {
			return err
		}
		total, err := domain.SafeSub(agent.TotalBudget, amount)
		if err != nil {
			return err
		}
		if total < agent.SpentBudget {
			return domain.ErrInvalidBudget
		}
		agent.TotalBudget = total
		if err := s.repo.UpdateAgent(txCtx, agent); err != nil {
			return err
		}
		result = agent
		return nil
	})
	if err != nil {
		return domain.AIAgent{}, err
	}
	return result, nil
}

func (s *AgentService) loadOwned(ctx context.Context, caller domain.Address, agentID string) (domain.AIAgent, error) {
	address, _ := domain.AgentAddress(caller, agentID)
	agent, err := s.repo.GetAgentForUpdate(ctx, address)
	if err != nil {
		return domain.AIAgent{}, err
	}
	if agent.Owner != caller {
		return domain.AIAgent{}, domain.ErrUnauthorized
	}
	return agent, nil
}
