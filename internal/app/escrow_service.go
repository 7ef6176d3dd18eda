package app

import (
	"context"

	"github.com/riyqnn/pulsee/internal/clock"
	"github.com/riyqnn/pulsee/internal/domain"
)

type EscrowRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetAgentForUpdate(ctx context.Context, address domain.Address) (domain.AIAgent, error)
	CreateEscrow(ctx context.Context, escrow domain.AgentEscrow) error
	GetEscrowForUpdate(ctx context.Context, address domain.Address) (domain.AgentEscrow, error)
	UpdateEscrow(ctx context.Context, escrow domain.AgentEscrow) error
	Transfer(ctx context.Context, from, to domain.Address, amount uint64) error
}

// EscrowService manages the pre-funded spending balances agents draw from.
// Every balance change keeps the identity
// balance == total_deposited - total_withdrawn - total_spent.
type EscrowService struct {
	repo  EscrowRepository
	clock clock.Clock
}

func NewEscrowService(repo EscrowRepository, clk clock.Clock) *EscrowService {
	return &EscrowService{repo: repo, clock: clk}
}

// CreateEscrow opens the single escrow account for an agent, empty.
func (s *EscrowService) CreateEscrow(ctx context.Context, caller domain.Address, agentID string) (domain.AgentEscrow, error) {
	now := s.clock.Now()
	var result domain.AgentEscrow

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		agent, err := s.loadOwnedAgent(txCtx, caller, agentID)
		if err != nil {
			return err
		}

		address, bump := domain.EscrowAddress(agent.Address, caller)
		escrow := domain.AgentEscrow{
			Address:      address,
			Agent:        agent.Address,
			Owner:        caller,
			CreatedAt:    now,
			LastActivity: now,
			Bump:         bump,
		}
		if err := s.repo.CreateEscrow(txCtx, escrow); err != nil {
			return err
		}
		result = escrow
		return nil
	})
	if err != nil {
		return domain.AgentEscrow{}, err
	}
	return result, nil
}

// DepositToEscrow moves funds from the owner's wallet into the escrow. The
// wallet debit and the escrow bookkeeping land in the same transaction.
func (s *EscrowService) DepositToEscrow(ctx context.Context, caller domain.Address, agentID string, amount uint64) (domain.AgentEscrow, error) {
	if amount == 0 {
		return domain.AgentEscrow{}, domain.ErrInvalidInput
	}
	now := s.clock.Now()
	var result domain.AgentEscrow

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		escrow, err := s.loadOwnedEscrow(txCtx, caller, agentID)
		if err != nil {
			return err
		}

		balance, err := domain.SafeAdd(escrow.Balance, amount)
		if err != nil {
			return err
		}
		deposited, err := domain.SafeAdd(escrow.TotalDeposited, amount)
		if err != nil {
			return err
		}

		if err := s.repo.Transfer(txCtx, caller, escrow.Address, amount); err != nil {
			return err
		}

		escrow.Balance = balance
		escrow.TotalDeposited = deposited
		escrow.LastActivity = now
		if err := s.repo.UpdateEscrow(txCtx, escrow); err != nil {
			return err
		}
		result = escrow
		return nil
	})
	if err != nil {
		return domain.AgentEscrow{}, err
	}
	return result, nil
}

// WithdrawFromEscrow moves unspent escrow funds back to the owner's wallet.
func (s *EscrowService) WithdrawFromEscrow(ctx context.Context, caller domain.Address, agentID string, amount uint64) (domain.AgentEscrow, error) {
	if amount == 0 {
		return domain.AgentEscrow{}, domain.ErrInvalidInput
	}
	now := s.clock.Now()
	var result domain.AgentEscrow

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		escrow, err := s.loadOwnedEscrow(txCtx, caller, agentID)
		if err != nil {
			return err
		}
		if escrow.Balance < amount {
			return domain.ErrInsufficientEscrowBalance
		}

		balance, err := domain.SafeSub(escrow.Balance, amount)
		if err != nil {
			return err
		}
		withdrawn, err := domain.SafeAdd(escrow.TotalWithdrawn, amount)
		if err != nil {
			return err
		}

		if err := s.repo.Transfer(txCtx, escrow.Address, caller, amount); err != nil {
			return err
		}

		escrow.Balance = balance
		escrow.TotalWithdrawn = withdrawn
		escrow.LastActivity = now
		if err := s.repo.UpdateEscrow(txCtx, escrow); err != nil {
			return err
		}
		result = escrow
		return nil
	})
	if err != nil {
		return domain.AgentEscrow{}, err
	}
	return result, nil
}

func (s *EscrowService) loadOwnedAgent(ctx context.Context, caller domain.Address, agentID string) (domain.AIAgent, error) {
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

func (s *EscrowService) loadOwnedEscrow(ctx context.Context, caller domain.Address, agentID string) (domain.AgentEscrow, error) {
	agentAddr, _ := domain.AgentAddress(caller, agentID)
	escrowAddr, _ := domain.EscrowAddress(agentAddr, caller)
	escrow, err := s.repo.GetEscrowForUpdate(ctx, escrowAddr)
	if err != nil {
		return domain.AgentEscrow{}, err
	}
	if escrow.Owner != caller {
		return domain.AgentEscrow{}, domain.ErrUnauthorized
	}
	return escrow, nil
}
