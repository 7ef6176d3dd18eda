package app

import (
	"context"
	"time"

	"github.com/riyqnn/pulsee/internal/clock"
	"github.com/riyqnn/pulsee/internal/domain"
)

type CoordinationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetConfig(ctx context.Context) (domain.GlobalConfig, error)
	GetEventForUpdate(ctx context.Context, address domain.Address) (domain.Event, error)
	GetTierForUpdate(ctx context.Context, address domain.Address) (domain.TicketTier, error)
	GetAgentForUpdate(ctx context.Context, address domain.Address) (domain.AIAgent, error)
	UpdateAgent(ctx context.Context, agent domain.AIAgent) error
	CreateGroup(ctx context.Context, group domain.AgentCoordination) error
	GetGroupForUpdate(ctx context.Context, address domain.Address) (domain.AgentCoordination, error)
	UpdateGroup(ctx context.Context, group domain.AgentCoordination) error
}

// CoordinationService manages buying pools: groups of agents committing
// budget toward a shared ticket target for one event tier. Progress itself
// is recorded by the escrow purchase path; this service only manages group
// membership and lifecycle.
type CoordinationService struct {
	repo  CoordinationRepository
	clock clock.Clock
}

func NewCoordinationService(repo CoordinationRepository, clk clock.Clock) *CoordinationService {
	return &CoordinationService{repo: repo, clock: clk}
}

type CreateGroupInput struct {
	Caller             domain.Address
	AgentID            string
	Organizer          domain.Address
	EventID            string
	TierID             string
	GroupID            string
	TargetTicketCount  uint32
	MaxBudgetPerTicket uint64
	Duration           time.Duration
}

// CreateCoordinationGroup opens a group with the caller's agent as
// coordinator and first participant. Coordination must be enabled both
// globally and on the agent, and an agent belongs to at most one group.
func (s *CoordinationService) CreateCoordinationGroup(ctx context.Context, in CreateGroupInput) (domain.AgentCoordination, error) {
	if in.GroupID == "" || len(in.GroupID) > domain.MaxGroupIDLen {
		return domain.AgentCoordination{}, domain.ErrInvalidInput
	}
	if in.TargetTicketCount == 0 {
		return domain.AgentCoordination{}, domain.ErrInvalidInput
	}
	if in.MaxBudgetPerTicket == 0 {
		return domain.AgentCoordination{}, domain.ErrInvalidBudget
	}
	if in.Duration <= 0 {
		return domain.AgentCoordination{}, domain.ErrInvalidDuration
	}

	now := s.clock.Now()
	var result domain.AgentCoordination

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		cfg, err := s.repo.GetConfig(txCtx)
		if err != nil {
			return err
		}
		if !cfg.AllowAgentCoordination {
			return domain.ErrCoordinationDisabled
		}

		agent, err := s.loadCoordinatingAgent(txCtx, in.Caller, in.AgentID)
		if err != nil {
			return err
		}

		eventAddr, _ := domain.EventAddress(in.Organizer, in.EventID)
		event, err := s.repo.GetEventForUpdate(txCtx, eventAddr)
		if err != nil {
			return err
		}
		if event.IsCancelled || !event.IsActive {
			return domain.ErrEventNotActive
		}
		tierAddr, _ := domain.TierAddress(event.Address, in.TierID)
		tier, err := s.repo.GetTierForUpdate(txCtx, tierAddr)
		if err != nil {
			return err
		}
		if !tier.IsActive {
			return domain.ErrTierNotActive
		}

		address, bump := domain.CoordinationAddress(event.Address, in.GroupID)
		group := domain.AgentCoordination{
			Address:              address,
			GroupID:              in.GroupID,
			Coordinator:          agent.Address,
			Event:                event.Address,
			TierID:               tier.TierID,
			TargetTicketCount:    in.TargetTicketCount,
			MaxBudgetPerTicket:   in.MaxBudgetPerTicket,
			TotalBudgetCommitted: in.MaxBudgetPerTicket,
			Participants:         []domain.Address{agent.Address},
			ExpiresAt:            now.Add(in.Duration),
			IsActive:             true,
			Bump:                 bump,
		}
		if err := s.repo.CreateGroup(txCtx, group); err != nil {
			return err
		}

		agent.CoordinationGroupID = in.GroupID
		if err := s.repo.UpdateAgent(txCtx, agent); err != nil {
			return err
		}
		result = group
		return nil
	})
	if err != nil {
		return domain.AgentCoordination{}, err
	}
	return result, nil
}

type JoinGroupInput struct {
	Caller    domain.Address
	AgentID   string
	Organizer domain.Address
	EventID   string
	GroupID   string
}

// JoinCoordinationGroup adds the caller's agent to a live group, committing
// the group's per-ticket budget on its behalf.
func (s *CoordinationService) JoinCoordinationGroup(ctx context.Context, in JoinGroupInput) (domain.AgentCoordination, error) {
	now := s.clock.Now()
	var result domain.AgentCoordination

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		cfg, err := s.repo.GetConfig(txCtx)
		if err != nil {
			return err
		}
		if !cfg.AllowAgentCoordination {
			return domain.ErrCoordinationDisabled
		}

		agent, err := s.loadCoordinatingAgent(txCtx, in.Caller, in.AgentID)
		if err != nil {
			return err
		}

		eventAddr, _ := domain.EventAddress(in.Organizer, in.EventID)
		groupAddr, _ := domain.CoordinationAddress(eventAddr, in.GroupID)
		group, err := s.repo.GetGroupForUpdate(txCtx, groupAddr)
		if err != nil {
			return err
		}
		if !group.IsActive || group.IsCompleted {
			return domain.ErrGroupNotActive
		}
		if group.ExpiredAt(now) {
			return domain.ErrGroupExpired
		}
		if group.Full() {
			return domain.ErrGroupFull
		}
		if group.HasParticipant(agent.Address) {
			return domain.ErrAlreadyInGroup
		}

		committed, err := domain.SafeAdd(group.TotalBudgetCommitted, group.MaxBudgetPerTicket)
		if err != nil {
			return err
		}
		group.TotalBudgetCommitted = committed
		group.Participants = append(group.Participants, agent.Address)
		if err := s.repo.UpdateGroup(txCtx, group); err != nil {
			return err
		}

		agent.CoordinationGroupID = in.GroupID
		if err := s.repo.UpdateAgent(txCtx, agent); err != nil {
			return err
		}
		result = group
		return nil
	})
	if err != nil {
		return domain.AgentCoordination{}, err
	}
	return result, nil
}

type CancelGroupInput struct {
	Caller    domain.Address
	Organizer domain.Address
	EventID   string
	GroupID   string
}

// CancelCoordinationGroup shuts a group down. Only the owner of the
// coordinator agent may cancel; the flip is one-way.
func (s *CoordinationService) CancelCoordinationGroup(ctx context.Context, in CancelGroupInput) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		eventAddr, _ := domain.EventAddress(in.Organizer, in.EventID)
		groupAddr, _ := domain.CoordinationAddress(eventAddr, in.GroupID)
		group, err := s.repo.GetGroupForUpdate(txCtx, groupAddr)
		if err != nil {
			return err
		}
		if !group.IsActive {
			return domain.ErrGroupNotActive
		}

		coordinator, err := s.repo.GetAgentForUpdate(txCtx, group.Coordinator)
		if err != nil {
			return err
		}
		if coordinator.Owner != in.Caller {
			return domain.ErrUnauthorized
		}

		group.IsActive = false
		return s.repo.UpdateGroup(txCtx, group)
	})
}

// loadCoordinatingAgent locks the caller's agent and checks it can take part
// in a group: coordination allowed, not already a member elsewhere.
func (s *CoordinationService) loadCoordinatingAgent(ctx context.Context, caller domain.Address, agentID string) (domain.AIAgent, error) {
	address, _ := domain.AgentAddress(caller, agentID)
	agent, err := s.repo.GetAgentForUpdate(ctx, address)
	if err != nil {
		return domain.AIAgent{}, err
	}
	if agent.Owner != caller {
		return domain.AIAgent{}, domain.ErrUnauthorized
	}
	if !agent.AllowCoordination {
		return domain.AIAgent{}, domain.ErrCoordinationDisabled
	}
	if agent.CoordinationGroupID != "" {
		return domain.AIAgent{}, domain.ErrAlreadyInGroup
	}
	return agent, nil
}
