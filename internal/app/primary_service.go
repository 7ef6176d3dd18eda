package app

import (
	"context"
	"errors"
	"time"

	"github.com/riyqnn/pulsee/internal/clock"
	"github.com/riyqnn/pulsee/internal/domain"
)

type PrimaryRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetConfig(ctx context.Context) (domain.GlobalConfig, error)
	GetEventForUpdate(ctx context.Context, address domain.Address) (domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) error
	GetTierForUpdate(ctx context.Context, address domain.Address) (domain.TicketTier, error)
	UpdateTier(ctx context.Context, tier domain.TicketTier) error
	GetUserForUpdate(ctx context.Context, address domain.Address) (domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
	GetCounterForUpdate(ctx context.Context, address domain.Address) (domain.UserTicketCounter, bool, error)
	CreateCounter(ctx context.Context, counter domain.UserTicketCounter) error
	UpdateCounter(ctx context.Context, counter domain.UserTicketCounter) error
	GetAgentForUpdate(ctx context.Context, address domain.Address) (domain.AIAgent, error)
	UpdateAgent(ctx context.Context, agent domain.AIAgent) error
	GetEscrowForUpdate(ctx context.Context, address domain.Address) (domain.AgentEscrow, error)
	UpdateEscrow(ctx context.Context, escrow domain.AgentEscrow) error
	GetGroupForUpdate(ctx context.Context, address domain.Address) (domain.AgentCoordination, error)
	UpdateGroup(ctx context.Context, group domain.AgentCoordination) error
	CreateTicket(ctx context.Context, ticket domain.Ticket) error
	GetTicketForUpdate(ctx context.Context, address domain.Address) (domain.Ticket, error)
	UpdateTicket(ctx context.Context, ticket domain.Ticket) error
	Transfer(ctx context.Context, from, to domain.Address, amount uint64) error
}

// PrimaryService sells tickets straight from tier inventory: direct wallet
// purchases, agent-budgeted purchases, and escrow-funded purchases. Every
// purchase is one transaction; a failed check leaves nothing mutated.
type PrimaryService struct {
	repo  PrimaryRepository
	clock clock.Clock
}

func NewPrimaryService(repo PrimaryRepository, clk clock.Clock) *PrimaryService {
	return &PrimaryService{repo: repo, clock: clk}
}

type BuyTicketInput struct {
	Buyer     domain.Address
	Organizer domain.Address
	EventID   string
	TierID    string
	SeatInfo  string
}

// BuyTicket is the direct purchase path: buyer wallet pays the organizer at
// the tier price. The buyer needs a user profile; when the global config
// requires verification, an unverified profile is rejected. The sale window
// is inclusive on both ends, so a purchase at exactly sale_end succeeds.
func (s *PrimaryService) BuyTicket(ctx context.Context, in BuyTicketInput) (domain.Ticket, error) {
	if len(in.SeatInfo) > domain.MaxSeatInfoLen {
		return domain.Ticket{}, domain.ErrInvalidInput
	}
	now := s.clock.Now()
	var result domain.Ticket

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, tier, err := s.loadOpenSale(txCtx, in.Organizer, in.EventID, in.TierID, now)
		if err != nil {
			return err
		}

		userAddr, _ := domain.UserAddress(in.Buyer)
		user, err := s.repo.GetUserForUpdate(txCtx, userAddr)
		if err != nil {
			return err
		}

		cfg, err := s.repo.GetConfig(txCtx)
		switch {
		case err == nil:
			if cfg.RequireVerification && !user.IsVerified {
				return domain.ErrVerificationRequired
			}
		case errors.Is(err, domain.ErrConfigNotFound):
			// no config yet: verification cannot be required
		default:
			return err
		}

		if err := s.chargeCounter(txCtx, in.Buyer, event.Address, event.MaxTicketsPerUser); err != nil {
			return err
		}
		if err := s.repo.Transfer(txCtx, in.Buyer, event.Organizer, tier.Price); err != nil {
			return err
		}

		owned, err := domain.SafeAdd(user.TicketsOwned, 1)
		if err != nil {
			return err
		}
		purchased, err := domain.SafeAdd(user.TicketsPurchased, 1)
		if err != nil {
			return err
		}
		spent, err := domain.SafeAdd(user.TotalSpent, tier.Price)
		if err != nil {
			return err
		}
		user.TicketsOwned = owned
		user.TicketsPurchased = purchased
		user.TotalSpent = spent
		if err := s.repo.UpdateUser(txCtx, user); err != nil {
			return err
		}

		ticket, err := s.issueTicket(txCtx, event, tier, in.Buyer, in.SeatInfo, now)
		if err != nil {
			return err
		}
		result = ticket
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	return result, nil
}

type BuyTicketWithAgentInput struct {
	Caller    domain.Address
	AgentID   string
	Organizer domain.Address
	EventID   string
	TierID    string
	DealBps   uint16
	SeatInfo  string
}

// BuyTicketWithAgent buys on behalf of an agent from its owner's wallet. The
// agent must be active with auto-purchase enabled and the full preference
// check must pass; the caller supplies the deal quality it observed, which
// also drives the money-saved accrual.
func (s *PrimaryService) BuyTicketWithAgent(ctx context.Context, in BuyTicketWithAgentInput) (domain.Ticket, error) {
	if len(in.SeatInfo) > domain.MaxSeatInfoLen {
		return domain.Ticket{}, domain.ErrInvalidInput
	}
	if err := domain.ValidateBps(in.DealBps); err != nil {
		return domain.Ticket{}, err
	}
	now := s.clock.Now()
	var result domain.Ticket

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		agentAddr, _ := domain.AgentAddress(in.Caller, in.AgentID)
		agent, err := s.repo.GetAgentForUpdate(txCtx, agentAddr)
		if err != nil {
			return err
		}
		if agent.Owner != in.Caller {
			return domain.ErrUnauthorized
		}

		event, tier, err := s.loadOpenSale(txCtx, in.Organizer, in.EventID, in.TierID, now)
		if err != nil {
			return err
		}

		if err := checkAgentPurchase(&agent, tier.Price, in.DealBps, now); err != nil {
			return err
		}
		if err := s.chargeCounter(txCtx, agent.Owner, event.Address, agentCap(&agent, event.MaxTicketsPerUser)); err != nil {
			return err
		}
		if err := s.repo.Transfer(txCtx, agent.Owner, event.Organizer, tier.Price); err != nil {
			return err
		}
		if err := s.settleAgentSpend(txCtx, &agent, tier.Price, in.DealBps, now); err != nil {
			return err
		}

		ticket, err := s.issueTicket(txCtx, event, tier, agent.Owner, in.SeatInfo, now)
		if err != nil {
			return err
		}
		result = ticket
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	return result, nil
}

type BuyTicketWithEscrowInput struct {
	Owner     domain.Address
	AgentID   string
	Organizer domain.Address
	EventID   string
	TierID    string
	DealBps   uint16
	SeatInfo  string
}

// BuyTicketWithEscrow spends pre-deposited escrow funds. Any caller may
// trigger it: the escrow can only pay the event organizer at the tier price,
// so holding the trigger grants no spending authority. When the agent
// belongs to an active coordination group for this event and tier, the
// group's progress is advanced inside the same transaction.
func (s *PrimaryService) BuyTicketWithEscrow(ctx context.Context, in BuyTicketWithEscrowInput) (domain.Ticket, error) {
	if len(in.SeatInfo) > domain.MaxSeatInfoLen {
		return domain.Ticket{}, domain.ErrInvalidInput
	}
	if err := domain.ValidateBps(in.DealBps); err != nil {
		return domain.Ticket{}, err
	}
	now := s.clock.Now()
	var result domain.Ticket

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		agentAddr, _ := domain.AgentAddress(in.Owner, in.AgentID)
		agent, err := s.repo.GetAgentForUpdate(txCtx, agentAddr)
		if err != nil {
			return err
		}

		event, tier, err := s.loadOpenSale(txCtx, in.Organizer, in.EventID, in.TierID, now)
		if err != nil {
			return err
		}

		if err := checkAgentPurchase(&agent, tier.Price, in.DealBps, now); err != nil {
			return err
		}

		escrowAddr, _ := domain.EscrowAddress(agent.Address, agent.Owner)
		escrow, err := s.repo.GetEscrowForUpdate(txCtx, escrowAddr)
		if err != nil {
			return err
		}
		if escrow.Balance < tier.Price {
			return domain.ErrInsufficientEscrowBalance
		}

		if err := s.chargeCounter(txCtx, agent.Owner, event.Address, agentCap(&agent, event.MaxTicketsPerUser)); err != nil {
			return err
		}
		if err := s.repo.Transfer(txCtx, escrow.Address, event.Organizer, tier.Price); err != nil {
			return err
		}

		balance, err := domain.SafeSub(escrow.Balance, tier.Price)
		if err != nil {
			return err
		}
		spentTotal, err := domain.SafeAdd(escrow.TotalSpent, tier.Price)
		if err != nil {
			return err
		}
		escrow.Balance = balance
		escrow.TotalSpent = spentTotal
		escrow.LastActivity = now
		if err := s.repo.UpdateEscrow(txCtx, escrow); err != nil {
			return err
		}

		if err := s.settleAgentSpend(txCtx, &agent, tier.Price, in.DealBps, now); err != nil {
			return err
		}
		if err := s.advanceCoordination(txCtx, &agent, event.Address, tier.TierID, now); err != nil {
			return err
		}

		ticket, err := s.issueTicket(txCtx, event, tier, agent.Owner, in.SeatInfo, now)
		if err != nil {
			return err
		}
		result = ticket
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	return result, nil
}

// ValidateTicket consumes an active ticket at the door. It only works while
// the event is ongoing and never works twice: consumed is terminal.
func (s *PrimaryService) ValidateTicket(ctx context.Context, mint domain.Address) (domain.Ticket, error) {
	now := s.clock.Now()
	var result domain.Ticket

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		ticketAddr, _ := domain.TicketAddress(mint)
		ticket, err := s.repo.GetTicketForUpdate(txCtx, ticketAddr)
		if err != nil {
			return err
		}
		if ticket.Status != domain.TicketStatusActive {
			return domain.ErrTicketNotActive
		}

		event, err := s.repo.GetEventForUpdate(txCtx, ticket.Event)
		if err != nil {
			return err
		}
		if event.IsCancelled {
			return domain.ErrEventCancelled
		}
		if !event.IsOngoingAt(now) {
			return domain.ErrEventNotOngoing
		}

		validatedAt := now
		ticket.Status = domain.TicketStatusConsumed
		ticket.ValidatedAt = &validatedAt
		if err := s.repo.UpdateTicket(txCtx, ticket); err != nil {
			return err
		}
		result = ticket
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	return result, nil
}

type CancelTicketInput struct {
	Caller domain.Address
	Mint   domain.Address
	Reason string
}

// CancelTicketByAdmin lets the event organizer void an active ticket. The
// reason is stored with the ticket for audit.
func (s *PrimaryService) CancelTicketByAdmin(ctx context.Context, in CancelTicketInput) (domain.Ticket, error) {
	var result domain.Ticket

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		ticketAddr, _ := domain.TicketAddress(in.Mint)
		ticket, err := s.repo.GetTicketForUpdate(txCtx, ticketAddr)
		if err != nil {
			return err
		}

		event, err := s.repo.GetEventForUpdate(txCtx, ticket.Event)
		if err != nil {
			return err
		}
		if event.Organizer != in.Caller {
			return domain.ErrUnauthorized
		}
		if ticket.Status != domain.TicketStatusActive {
			return domain.ErrTicketNotActive
		}

		ticket.Status = domain.TicketStatusCancelled
		ticket.CancelReason = in.Reason
		if err := s.repo.UpdateTicket(txCtx, ticket); err != nil {
			return err
		}
		result = ticket
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	return result, nil
}

// loadOpenSale locks the event and tier and checks the sale can proceed:
// event active inside its sale window, tier active with remaining supply.
func (s *PrimaryService) loadOpenSale(ctx context.Context, organizer domain.Address, eventID, tierID string, now time.Time) (domain.Event, domain.TicketTier, error) {
	eventAddr, _ := domain.EventAddress(organizer, eventID)
	event, err := s.repo.GetEventForUpdate(ctx, eventAddr)
	if err != nil {
		return domain.Event{}, domain.TicketTier{}, err
	}
	if event.IsCancelled {
		return domain.Event{}, domain.TicketTier{}, domain.ErrEventCancelled
	}
	if !event.IsActiveAt(now) {
		return domain.Event{}, domain.TicketTier{}, domain.ErrEventNotActive
	}

	tierAddr, _ := domain.TierAddress(event.Address, tierID)
	tier, err := s.repo.GetTierForUpdate(ctx, tierAddr)
	if err != nil {
		return domain.Event{}, domain.TicketTier{}, err
	}
	if !tier.IsActive {
		return domain.Event{}, domain.TicketTier{}, domain.ErrTierNotActive
	}
	if tier.SoldOut() {
		return domain.Event{}, domain.TicketTier{}, domain.ErrTierSoldOut
	}
	return event, tier, nil
}

// chargeCounter enforces the per-user ticket cap for an event. A missing
// counter means this is the owner's first purchase: it is created at one.
func (s *PrimaryService) chargeCounter(ctx context.Context, owner, event domain.Address, limit uint32) error {
	addr, bump := domain.TicketCounterAddress(owner, event)
	counter, found, err := s.repo.GetCounterForUpdate(ctx, addr)
	if err != nil {
		return err
	}
	if !found {
		return s.repo.CreateCounter(ctx, domain.UserTicketCounter{
			Address:     addr,
			User:        owner,
			Event:       event,
			TicketCount: 1,
			Bump:        bump,
		})
	}
	if counter.TicketCount >= limit {
		return domain.ErrMaxTicketsPerUserExceeded
	}
	count, err := domain.SafeAddU32(counter.TicketCount, 1)
	if err != nil {
		return err
	}
	counter.TicketCount = count
	return s.repo.UpdateCounter(ctx, counter)
}

// issueTicket mints the ticket record and bumps the tier and event tallies.
func (s *PrimaryService) issueTicket(ctx context.Context, event domain.Event, tier domain.TicketTier, owner domain.Address, seatInfo string, now time.Time) (domain.Ticket, error) {
	supply, err := domain.SafeAdd(tier.CurrentSupply, 1)
	if err != nil {
		return domain.Ticket{}, err
	}
	tier.CurrentSupply = supply
	if err := s.repo.UpdateTier(ctx, tier); err != nil {
		return domain.Ticket{}, err
	}

	sold, err := domain.SafeAdd(event.TotalTicketsSold, 1)
	if err != nil {
		return domain.Ticket{}, err
	}
	revenue, err := domain.SafeAdd(event.TotalRevenue, tier.Price)
	if err != nil {
		return domain.Ticket{}, err
	}
	event.TotalTicketsSold = sold
	event.TotalRevenue = revenue
	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return domain.Ticket{}, err
	}

	mint := newMintAddress()
	address, bump := domain.TicketAddress(mint)
	ticket := domain.Ticket{
		Address:       address,
		Mint:          mint,
		Event:         event.Address,
		TierID:        tier.TierID,
		Owner:         owner,
		OriginalPrice: tier.Price,
		Status:        domain.TicketStatusActive,
		PurchasedAt:   now,
		SeatInfo:      seatInfo,
		Bump:          bump,
	}
	if err := s.repo.CreateTicket(ctx, ticket); err != nil {
		return domain.Ticket{}, err
	}
	return ticket, nil
}

// settleAgentSpend books a purchase against the agent: spent budget, ticket
// tally, money-saved accrual, and the activity timestamp.
func (s *PrimaryService) settleAgentSpend(ctx context.Context, agent *domain.AIAgent, price uint64, dealBps uint16, now time.Time) error {
	spent, err := domain.SafeAdd(agent.SpentBudget, price)
	if err != nil {
		return err
	}
	purchased, err := domain.SafeAdd(agent.TicketsPurchased, 1)
	if err != nil {
		return err
	}
	agent.SpentBudget = spent
	agent.TicketsPurchased = purchased
	agent.LastActive = now

	if dealBps > 0 {
		market, err := domain.PriceWithMarkup(price, dealBps)
		if err != nil {
			return err
		}
		delta, err := domain.SafeSub(market, price)
		if err != nil {
			return err
		}
		saved, err := domain.SafeAdd(agent.MoneySaved, delta)
		if err != nil {
			return err
		}
		agent.MoneySaved = saved
	}
	return s.repo.UpdateAgent(ctx, *agent)
}

// advanceCoordination records group progress for an escrow purchase. Groups
// that are missing, inactive, completed, expired, or bound to another tier
// are skipped silently: coordination never blocks a settled purchase.
func (s *PrimaryService) advanceCoordination(ctx context.Context, agent *domain.AIAgent, event domain.Address, tierID string, now time.Time) error {
	if agent.CoordinationGroupID == "" {
		return nil
	}
	groupAddr, _ := domain.CoordinationAddress(event, agent.CoordinationGroupID)
	group, err := s.repo.GetGroupForUpdate(ctx, groupAddr)
	if errors.Is(err, domain.ErrGroupNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !group.IsActive || group.IsCompleted || group.ExpiredAt(now) || group.TierID != tierID {
		return nil
	}
	if !group.HasParticipant(agent.Address) {
		return nil
	}

	count, err := domain.SafeAddU32(group.CurrentTicketCount, 1)
	if err != nil {
		return err
	}
	group.CurrentTicketCount = count
	if count >= group.TargetTicketCount {
		group.IsCompleted = true
	}
	return s.repo.UpdateGroup(ctx, group)
}

// checkAgentPurchase runs the protocol-level gates, then the preference
// match. Protocol failures get specific errors; a preference mismatch is the
// catch-all business signal.
func checkAgentPurchase(agent *domain.AIAgent, price uint64, dealBps uint16, now time.Time) error {
	if !agent.IsActive {
		return domain.ErrAgentInactive
	}
	if !agent.AutoPurchaseEnabled {
		return domain.ErrAutoPurchaseDisabled
	}
	if price > agent.MaxBudgetPerTicket {
		return domain.ErrInsufficientAgentBudget
	}
	remaining, err := agent.RemainingBudget()
	if err != nil {
		return err
	}
	if price > remaining {
		return domain.ErrInsufficientAgentBudget
	}
	if !agent.PreferencesMatch(price, dealBps, now) {
		return domain.ErrPreferenceMismatch
	}
	return nil
}

// agentCap is the effective per-event ticket limit for agent purchases: the
// event cap, tightened by the agent's own per-event limit when set.
func agentCap(agent *domain.AIAgent, eventCap uint32) uint32 {
	if agent.MaxTicketsPerEvent > 0 && uint32(agent.MaxTicketsPerEvent) < eventCap {
		return uint32(agent.MaxTicketsPerEvent)
	}
	return eventCap
}
