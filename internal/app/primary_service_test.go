package app

import (
	"context"
	"testing"
	"time"

	"github.com/riyqnn/pulsee/internal/clock"
	"github.com/riyqnn/pulsee/internal/domain"
)

// Monday 2025-06-02, noon UTC: inside every open-preference agent window.
var saleNow = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func openSaleEvent(organizer domain.Address, eventID string, maxPerUser uint32) domain.Event {
	address, bump := domain.EventAddress(organizer, eventID)
	return domain.Event{
		Address:           address,
		Organizer:         organizer,
		EventID:           eventID,
		Name:              "Test Event",
		EventStartTime:    saleNow.Add(48 * time.Hour),
		EventEndTime:      saleNow.Add(52 * time.Hour),
		SaleStartTime:     saleNow.Add(-time.Hour),
		SaleEndTime:       saleNow.Add(24 * time.Hour),
		IsActive:          true,
		MaxTicketsPerUser: maxPerUser,
		Bump:              bump,
	}
}

func openTier(event domain.Address, tierID string, price, maxSupply uint64) domain.TicketTier {
	address, bump := domain.TierAddress(event, tierID)
	return domain.TicketTier{
		Address:   address,
		Event:     event,
		TierID:    tierID,
		Name:      "General",
		Price:     price,
		MaxSupply: maxSupply,
		IsActive:  true,
		Bump:      bump,
	}
}

func profileFor(owner domain.Address) domain.User {
	address, bump := domain.UserAddress(owner)
	return domain.User{Address: address, Owner: owner, Username: "buyer", Bump: bump}
}

func readyAgent(owner domain.Address, agentID string, perTicket, total uint64) domain.AIAgent {
	address, bump := domain.AgentAddress(owner, agentID)
	return domain.AIAgent{
		Address:             address,
		Owner:               owner,
		AgentID:             agentID,
		Name:                "bot",
		IsActive:            true,
		MaxBudgetPerTicket:  perTicket,
		TotalBudget:         total,
		PreferredDays:       domain.AllDaysMask,
		PreferredTimeEnd:    domain.MaxMinutesOfDay,
		AutoPurchaseEnabled: true,
		Bump:                bump,
	}
}

func TestPrimaryService_BuyTicket(t *testing.T) {
	t.Parallel()

	organizer := domain.Address("organizer-1")
	buyer := domain.Address("buyer-1")

	setup := func(maxPerUser uint32) (*PrimaryService, *fakePrimaryRepo) {
		repo := newFakePrimaryRepo()
		event := openSaleEvent(organizer, "concert", maxPerUser)
		repo.events[event.Address] = event
		tier := openTier(event.Address, "ga", 100_000, 2)
		repo.tiers[tier.Address] = tier
		user := profileFor(buyer)
		repo.users[user.Address] = user
		repo.wallets[buyer] = 1_000_000
		svc := NewPrimaryService(repo, clock.NewFixed(saleNow))
		return svc, repo
	}

	buy := func(svc *PrimaryService) (domain.Ticket, error) {
		return svc.BuyTicket(context.Background(), BuyTicketInput{
			Buyer:     buyer,
			Organizer: organizer,
			EventID:   "concert",
			TierID:    "ga",
		})
	}

	t.Run("moves funds and issues an active ticket", func(t *testing.T) {
		svc, repo := setup(4)

		ticket, err := buy(svc)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ticket.Status != domain.TicketStatusActive {
			t.Fatalf("expected active ticket, got %s", ticket.Status)
		}
		if ticket.Owner != buyer {
			t.Fatalf("expected owner %s, got %s", buyer, ticket.Owner)
		}
		if ticket.OriginalPrice != 100_000 {
			t.Fatalf("expected original price 100000, got %d", ticket.OriginalPrice)
		}

		if repo.wallets[buyer] != 900_000 {
			t.Fatalf("expected buyer balance 900000, got %d", repo.wallets[buyer])
		}
		if repo.wallets[organizer] != 100_000 {
			t.Fatalf("expected organizer balance 100000, got %d", repo.wallets[organizer])
		}

		eventAddr, _ := domain.EventAddress(organizer, "concert")
		event := repo.events[eventAddr]
		if event.TotalTicketsSold != 1 || event.TotalRevenue != 100_000 {
			t.Fatalf("expected event tallies updated, got sold=%d revenue=%d", event.TotalTicketsSold, event.TotalRevenue)
		}

		userAddr, _ := domain.UserAddress(buyer)
		user := repo.users[userAddr]
		if user.TicketsOwned != 1 || user.TotalSpent != 100_000 {
			t.Fatalf("expected user stats updated, got owned=%d spent=%d", user.TicketsOwned, user.TotalSpent)
		}
	})

	t.Run("succeeds at exactly sale end", func(t *testing.T) {
		_, repo := setup(4)
		eventAddr, _ := domain.EventAddress(organizer, "concert")
		event := repo.events[eventAddr]
		svcAtEnd := NewPrimaryService(repo, clock.NewFixed(event.SaleEndTime))

		if _, err := buy(svcAtEnd); err != nil {
			t.Fatalf("expected purchase at sale end to succeed, got %v", err)
		}
	})

	t.Run("fails one second after sale end", func(t *testing.T) {
		_, repo := setup(4)
		eventAddr, _ := domain.EventAddress(organizer, "concert")
		event := repo.events[eventAddr]
		svcLate := NewPrimaryService(repo, clock.NewFixed(event.SaleEndTime.Add(time.Second)))

		if _, err := buy(svcLate); err != domain.ErrEventNotActive {
			t.Fatalf("expected ErrEventNotActive, got %v", err)
		}
	})

	t.Run("sold out tier leaves state unchanged", func(t *testing.T) {
		svc, repo := setup(4)
		tierAddr, _ := domain.TierAddress(mustEventAddr(organizer, "concert"), "ga")
		tier := repo.tiers[tierAddr]
		tier.CurrentSupply = tier.MaxSupply
		repo.tiers[tierAddr] = tier

		if _, err := buy(svc); err != domain.ErrTierSoldOut {
			t.Fatalf("expected ErrTierSoldOut, got %v", err)
		}
		if repo.wallets[buyer] != 1_000_000 {
			t.Fatalf("expected buyer balance unchanged, got %d", repo.wallets[buyer])
		}
		if len(repo.tickets) != 0 {
			t.Fatalf("expected no tickets issued, got %d", len(repo.tickets))
		}
	})

	t.Run("per-user cap of one blocks second purchase", func(t *testing.T) {
		svc, _ := setup(1)

		if _, err := buy(svc); err != nil {
			t.Fatalf("expected first purchase to succeed, got %v", err)
		}
		if _, err := buy(svc); err != domain.ErrMaxTicketsPerUserExceeded {
			t.Fatalf("expected ErrMaxTicketsPerUserExceeded, got %v", err)
		}
	})

	t.Run("requires a user profile", func(t *testing.T) {
		svc, repo := setup(4)
		userAddr, _ := domain.UserAddress(buyer)
		delete(repo.users, userAddr)

		if _, err := buy(svc); err != domain.ErrUserNotFound {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("verification gate follows config", func(t *testing.T) {
		svc, repo := setup(4)
		cfgAddr, _ := domain.ConfigAddress()
		repo.config = &domain.GlobalConfig{Address: cfgAddr, RequireVerification: true}

		if _, err := buy(svc); err != domain.ErrVerificationRequired {
			t.Fatalf("expected ErrVerificationRequired, got %v", err)
		}

		userAddr, _ := domain.UserAddress(buyer)
		user := repo.users[userAddr]
		user.IsVerified = true
		repo.users[userAddr] = user

		if _, err := buy(svc); err != nil {
			t.Fatalf("expected verified purchase to succeed, got %v", err)
		}
	})

	t.Run("missing config skips verification", func(t *testing.T) {
		svc, repo := setup(4)
		repo.config = nil

		if _, err := buy(svc); err != nil {
			t.Fatalf("expected purchase without config to succeed, got %v", err)
		}
	})
}

func TestPrimaryService_BuyTicketWithAgent(t *testing.T) {
	t.Parallel()

	organizer := domain.Address("organizer-1")
	owner := domain.Address("owner-1")

	setup := func() (*PrimaryService, *fakePrimaryRepo) {
		repo := newFakePrimaryRepo()
		event := openSaleEvent(organizer, "concert", 4)
		repo.events[event.Address] = event
		tier := openTier(event.Address, "ga", 100_000, 10)
		repo.tiers[tier.Address] = tier
		agent := readyAgent(owner, "bot-1", 150_000, 500_000)
		repo.agents[agent.Address] = agent
		repo.wallets[owner] = 1_000_000
		return NewPrimaryService(repo, clock.NewFixed(saleNow)), repo
	}

	t.Run("books the spend and money saved on the agent", func(t *testing.T) {
		svc, repo := setup()

		ticket, err := svc.BuyTicketWithAgent(context.Background(), BuyTicketWithAgentInput{
			Caller:    owner,
			AgentID:   "bot-1",
			Organizer: organizer,
			EventID:   "concert",
			TierID:    "ga",
			DealBps:   1_000,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ticket.Owner != owner {
			t.Fatalf("expected ticket owned by agent owner, got %s", ticket.Owner)
		}

		agentAddr, _ := domain.AgentAddress(owner, "bot-1")
		agent := repo.agents[agentAddr]
		if agent.SpentBudget != 100_000 {
			t.Fatalf("expected spent budget 100000, got %d", agent.SpentBudget)
		}
		if agent.TicketsPurchased != 1 {
			t.Fatalf("expected 1 ticket purchased, got %d", agent.TicketsPurchased)
		}
		// 10% deal on 100000 saves 10000.
		if agent.MoneySaved != 10_000 {
			t.Fatalf("expected money saved 10000, got %d", agent.MoneySaved)
		}
		if repo.wallets[owner] != 900_000 {
			t.Fatalf("expected owner wallet debited, got %d", repo.wallets[owner])
		}
	})

	t.Run("rejects a caller that does not own the agent", func(t *testing.T) {
		svc, repo := setup()
		// Someone else's agent with the same ID.
		agent := readyAgent("other-owner", "bot-1", 150_000, 500_000)
		repo.agents[agent.Address] = agent

		_, err := svc.BuyTicketWithAgent(context.Background(), BuyTicketWithAgentInput{
			Caller:    "intruder",
			AgentID:   "bot-1",
			Organizer: organizer,
			EventID:   "concert",
			TierID:    "ga",
		})
		if err != domain.ErrAgentNotFound {
			t.Fatalf("expected ErrAgentNotFound for underived address, got %v", err)
		}
	})

	t.Run("agent per-event limit tightens the event cap", func(t *testing.T) {
		svc, repo := setup()
		agentAddr, _ := domain.AgentAddress(owner, "bot-1")
		agent := repo.agents[agentAddr]
		agent.MaxTicketsPerEvent = 1
		repo.agents[agentAddr] = agent

		in := BuyTicketWithAgentInput{
			Caller:    owner,
			AgentID:   "bot-1",
			Organizer: organizer,
			EventID:   "concert",
			TierID:    "ga",
		}
		if _, err := svc.BuyTicketWithAgent(context.Background(), in); err != nil {
			t.Fatalf("expected first purchase to succeed, got %v", err)
		}
		if _, err := svc.BuyTicketWithAgent(context.Background(), in); err != domain.ErrMaxTicketsPerUserExceeded {
			t.Fatalf("expected ErrMaxTicketsPerUserExceeded, got %v", err)
		}
	})

	t.Run("inactive agent is rejected", func(t *testing.T) {
		svc, repo := setup()
		agentAddr, _ := domain.AgentAddress(owner, "bot-1")
		agent := repo.agents[agentAddr]
		agent.IsActive = false
		repo.agents[agentAddr] = agent

		_, err := svc.BuyTicketWithAgent(context.Background(), BuyTicketWithAgentInput{
			Caller:    owner,
			AgentID:   "bot-1",
			Organizer: organizer,
			EventID:   "concert",
			TierID:    "ga",
		})
		if err != domain.ErrAgentInactive {
			t.Fatalf("expected ErrAgentInactive, got %v", err)
		}
	})
}

func TestPrimaryService_BuyTicketWithEscrow(t *testing.T) {
	t.Parallel()

	organizer := domain.Address("organizer-1")
	owner := domain.Address("owner-1")

	setup := func(escrowBalance uint64) (*PrimaryService, *fakePrimaryRepo) {
		repo := newFakePrimaryRepo()
		event := openSaleEvent(organizer, "concert", 4)
		repo.events[event.Address] = event
		tier := openTier(event.Address, "ga", 100_000, 10)
		repo.tiers[tier.Address] = tier
		agent := readyAgent(owner, "bot-1", 150_000, 500_000)
		repo.agents[agent.Address] = agent

		escrowAddr, bump := domain.EscrowAddress(agent.Address, owner)
		repo.escrows[escrowAddr] = domain.AgentEscrow{
			Address:        escrowAddr,
			Agent:          agent.Address,
			Owner:          owner,
			Balance:        escrowBalance,
			TotalDeposited: escrowBalance,
			Bump:           bump,
		}
		repo.wallets[escrowAddr] = escrowBalance
		return NewPrimaryService(repo, clock.NewFixed(saleNow)), repo
	}

	input := BuyTicketWithEscrowInput{
		Owner:     owner,
		AgentID:   "bot-1",
		Organizer: organizer,
		EventID:   "concert",
		TierID:    "ga",
	}

	t.Run("spends escrow and keeps the balance identity", func(t *testing.T) {
		svc, repo := setup(300_000)

		ticket, err := svc.BuyTicketWithEscrow(context.Background(), input)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ticket.Owner != owner {
			t.Fatalf("expected ticket owned by agent owner, got %s", ticket.Owner)
		}

		agentAddr, _ := domain.AgentAddress(owner, "bot-1")
		escrowAddr, _ := domain.EscrowAddress(agentAddr, owner)
		escrow := repo.escrows[escrowAddr]
		if escrow.Balance != 200_000 || escrow.TotalSpent != 100_000 {
			t.Fatalf("expected balance 200000 spent 100000, got %d/%d", escrow.Balance, escrow.TotalSpent)
		}
		if escrow.Balance != escrow.TotalDeposited-escrow.TotalWithdrawn-escrow.TotalSpent {
			t.Fatalf("escrow balance identity broken")
		}
		if repo.wallets[organizer] != 100_000 {
			t.Fatalf("expected organizer credited, got %d", repo.wallets[organizer])
		}
	})

	t.Run("price above per-ticket cap mutates nothing", func(t *testing.T) {
		svc, repo := setup(300_000)
		agentAddr, _ := domain.AgentAddress(owner, "bot-1")
		agent := repo.agents[agentAddr]
		agent.MaxBudgetPerTicket = 99_999
		repo.agents[agentAddr] = agent

		if _, err := svc.BuyTicketWithEscrow(context.Background(), input); err != domain.ErrInsufficientAgentBudget {
			t.Fatalf("expected ErrInsufficientAgentBudget, got %v", err)
		}

		escrowAddr, _ := domain.EscrowAddress(agentAddr, owner)
		if repo.escrows[escrowAddr].Balance != 300_000 {
			t.Fatalf("expected escrow untouched, got %d", repo.escrows[escrowAddr].Balance)
		}
		if len(repo.tickets) != 0 {
			t.Fatalf("expected no tickets issued")
		}
	})

	t.Run("insufficient escrow balance", func(t *testing.T) {
		svc, _ := setup(99_999)

		if _, err := svc.BuyTicketWithEscrow(context.Background(), input); err != domain.ErrInsufficientEscrowBalance {
			t.Fatalf("expected ErrInsufficientEscrowBalance, got %v", err)
		}
	})

	t.Run("advances an active coordination group", func(t *testing.T) {
		svc, repo := setup(300_000)

		agentAddr, _ := domain.AgentAddress(owner, "bot-1")
		agent := repo.agents[agentAddr]
		agent.CoordinationGroupID = "group-1"
		repo.agents[agentAddr] = agent

		eventAddr, _ := domain.EventAddress(organizer, "concert")
		groupAddr, bump := domain.CoordinationAddress(eventAddr, "group-1")
		repo.groups[groupAddr] = domain.AgentCoordination{
			Address:            groupAddr,
			GroupID:            "group-1",
			Coordinator:        agent.Address,
			Event:              eventAddr,
			TierID:             "ga",
			TargetTicketCount:  1,
			Participants:       []domain.Address{agent.Address},
			ExpiresAt:          saleNow.Add(time.Hour),
			IsActive:           true,
			Bump:               bump,
		}

		if _, err := svc.BuyTicketWithEscrow(context.Background(), input); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		group := repo.groups[groupAddr]
		if group.CurrentTicketCount != 1 {
			t.Fatalf("expected group progress 1, got %d", group.CurrentTicketCount)
		}
		if !group.IsCompleted {
			t.Fatalf("expected group completed at target")
		}
	})

	t.Run("stale group id is skipped silently", func(t *testing.T) {
		svc, repo := setup(300_000)

		agentAddr, _ := domain.AgentAddress(owner, "bot-1")
		agent := repo.agents[agentAddr]
		agent.CoordinationGroupID = "gone"
		repo.agents[agentAddr] = agent

		if _, err := svc.BuyTicketWithEscrow(context.Background(), input); err != nil {
			t.Fatalf("expected purchase to succeed despite stale group, got %v", err)
		}
	})
}

func TestPrimaryService_ValidateTicket(t *testing.T) {
	t.Parallel()

	organizer := domain.Address("organizer-1")

	setup := func(now time.Time) (*PrimaryService, *fakePrimaryRepo, domain.Address) {
		repo := newFakePrimaryRepo()
		event := openSaleEvent(organizer, "concert", 4)
		repo.events[event.Address] = event

		mint := domain.Address("mint-1")
		ticketAddr, bump := domain.TicketAddress(mint)
		repo.tickets[ticketAddr] = domain.Ticket{
			Address: ticketAddr,
			Mint:    mint,
			Event:   event.Address,
			TierID:  "ga",
			Owner:   "buyer-1",
			Status:  domain.TicketStatusActive,
			Bump:    bump,
		}
		return NewPrimaryService(repo, clock.NewFixed(now)), repo, mint
	}

	doorTime := saleNow.Add(49 * time.Hour) // inside the event window

	t.Run("consumes once and never twice", func(t *testing.T) {
		svc, _, mint := setup(doorTime)

		ticket, err := svc.ValidateTicket(context.Background(), mint)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ticket.Status != domain.TicketStatusConsumed {
			t.Fatalf("expected consumed, got %s", ticket.Status)
		}
		if ticket.ValidatedAt == nil || !ticket.ValidatedAt.Equal(doorTime) {
			t.Fatalf("expected validated_at %v, got %v", doorTime, ticket.ValidatedAt)
		}

		if _, err := svc.ValidateTicket(context.Background(), mint); err != domain.ErrTicketNotActive {
			t.Fatalf("expected ErrTicketNotActive on second validation, got %v", err)
		}
	})

	t.Run("rejected outside the event window", func(t *testing.T) {
		svc, _, mint := setup(saleNow)

		if _, err := svc.ValidateTicket(context.Background(), mint); err != domain.ErrEventNotOngoing {
			t.Fatalf("expected ErrEventNotOngoing, got %v", err)
		}
	})

	t.Run("rejected for a cancelled event", func(t *testing.T) {
		svc, repo, mint := setup(doorTime)
		eventAddr, _ := domain.EventAddress(organizer, "concert")
		event := repo.events[eventAddr]
		event.IsCancelled = true
		repo.events[eventAddr] = event

		if _, err := svc.ValidateTicket(context.Background(), mint); err != domain.ErrEventCancelled {
			t.Fatalf("expected ErrEventCancelled, got %v", err)
		}
	})
}

func TestPrimaryService_CancelTicketByAdmin(t *testing.T) {
	t.Parallel()

	organizer := domain.Address("organizer-1")

	setup := func() (*PrimaryService, *fakePrimaryRepo, domain.Address) {
		repo := newFakePrimaryRepo()
		event := openSaleEvent(organizer, "concert", 4)
		repo.events[event.Address] = event

		mint := domain.Address("mint-1")
		ticketAddr, bump := domain.TicketAddress(mint)
		repo.tickets[ticketAddr] = domain.Ticket{
			Address: ticketAddr,
			Mint:    mint,
			Event:   event.Address,
			Status:  domain.TicketStatusActive,
			Bump:    bump,
		}
		return NewPrimaryService(repo, clock.NewFixed(saleNow)), repo, mint
	}

	t.Run("organizer voids with a stored reason", func(t *testing.T) {
		svc, _, mint := setup()

		ticket, err := svc.CancelTicketByAdmin(context.Background(), CancelTicketInput{
			Caller: organizer,
			Mint:   mint,
			Reason: "fraud",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ticket.Status != domain.TicketStatusCancelled || ticket.CancelReason != "fraud" {
			t.Fatalf("expected cancelled with reason, got %s/%q", ticket.Status, ticket.CancelReason)
		}
	})

	t.Run("non-organizer is rejected", func(t *testing.T) {
		svc, _, mint := setup()

		_, err := svc.CancelTicketByAdmin(context.Background(), CancelTicketInput{
			Caller: "someone-else",
			Mint:   mint,
		})
		if err != domain.ErrUnauthorized {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func mustEventAddr(organizer domain.Address, eventID string) domain.Address {
	addr, _ := domain.EventAddress(organizer, eventID)
	return addr
}

type fakePrimaryRepo struct {
	config   *domain.GlobalConfig
	events   map[domain.Address]domain.Event
	tiers    map[domain.Address]domain.TicketTier
	users    map[domain.Address]domain.User
	agents   map[domain.Address]domain.AIAgent
	escrows  map[domain.Address]domain.AgentEscrow
	groups   map[domain.Address]domain.AgentCoordination
	counters map[domain.Address]domain.UserTicketCounter
	tickets  map[domain.Address]domain.Ticket
	wallets  map[domain.Address]uint64
}

func newFakePrimaryRepo() *fakePrimaryRepo {
	return &fakePrimaryRepo{
		events:   make(map[domain.Address]domain.Event),
		tiers:    make(map[domain.Address]domain.TicketTier),
		users:    make(map[domain.Address]domain.User),
		agents:   make(map[domain.Address]domain.AIAgent),
		escrows:  make(map[domain.Address]domain.AgentEscrow),
		groups:   make(map[domain.Address]domain.AgentCoordination),
		counters: make(map[domain.Address]domain.UserTicketCounter),
		tickets:  make(map[domain.Address]domain.Ticket),
		wallets:  make(map[domain.Address]uint64),
	}
}

func (f *fakePrimaryRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakePrimaryRepo) GetConfig(context.Context) (domain.GlobalConfig, error) {
	if f.config == nil {
		return domain.GlobalConfig{}, domain.ErrConfigNotFound
	}
	return *f.config, nil
}

func (f *fakePrimaryRepo) GetEventForUpdate(_ context.Context, address domain.Address) (domain.Event, error) {
	event, ok := f.events[address]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return event, nil
}

func (f *fakePrimaryRepo) UpdateEvent(_ context.Context, event domain.Event) error {
	f.events[event.Address] = event
	return nil
}

func (f *fakePrimaryRepo) GetTierForUpdate(_ context.Context, address domain.Address) (domain.TicketTier, error) {
	tier, ok := f.tiers[address]
	if !ok {
		return domain.TicketTier{}, domain.ErrTierNotFound
	}
	return tier, nil
}

func (f *fakePrimaryRepo) UpdateTier(_ context.Context, tier domain.TicketTier) error {
	f.tiers[tier.Address] = tier
	return nil
}

func (f *fakePrimaryRepo) GetUserForUpdate(_ context.Context, address domain.Address) (domain.User, error) {
	user, ok := f.users[address]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (f *fakePrimaryRepo) UpdateUser(_ context.Context, user domain.User) error {
	f.users[user.Address] = user
	return nil
}

func (f *fakePrimaryRepo) GetCounterForUpdate(_ context.Context, address domain.Address) (domain.UserTicketCounter, bool, error) {
	counter, ok := f.counters[address]
	if !ok {
		return domain.UserTicketCounter{}, false, nil
	}
	return counter, true, nil
}

func (f *fakePrimaryRepo) CreateCounter(_ context.Context, counter domain.UserTicketCounter) error {
	f.counters[counter.Address] = counter
	return nil
}

func (f *fakePrimaryRepo) UpdateCounter(_ context.Context, counter domain.UserTicketCounter) error {
	f.counters[counter.Address] = counter
	return nil
}

func (f *fakePrimaryRepo) GetAgentForUpdate(_ context.Context, address domain.Address) (domain.AIAgent, error) {
	agent, ok := f.agents[address]
	if !ok {
		return domain.AIAgent{}, domain.ErrAgentNotFound
	}
	return agent, nil
}

func (f *fakePrimaryRepo) UpdateAgent(_ context.Context, agent domain.AIAgent) error {
	f.agents[agent.Address] = agent
	return nil
}

func (f *fakePrimaryRepo) GetEscrowForUpdate(_ context.Context, address domain.Address) (domain.AgentEscrow, error) {
	escrow, ok := f.escrows[address]
	if !ok {
		return domain.AgentEscrow{}, domain.ErrEscrowNotFound
	}
	return escrow, nil
}

func (f *fakePrimaryRepo) UpdateEscrow(_ context.Context, escrow domain.AgentEscrow) error {
	f.escrows[escrow.Address] = escrow
	return nil
}

func (f *fakePrimaryRepo) GetGroupForUpdate(_ context.Context, address domain.Address) (domain.AgentCoordination, error) {
	group, ok := f.groups[address]
	if !ok {
		return domain.AgentCoordination{}, domain.ErrGroupNotFound
	}
	return group, nil
}

func (f *fakePrimaryRepo) UpdateGroup(_ context.Context, group domain.AgentCoordination) error {
	f.groups[group.Address] = group
	return nil
}

func (f *fakePrimaryRepo) CreateTicket(_ context.Context, ticket domain.Ticket) error {
	f.tickets[ticket.Address] = ticket
	return nil
}

func (f *fakePrimaryRepo) GetTicketForUpdate(_ context.Context, address domain.Address) (domain.Ticket, error) {
	ticket, ok := f.tickets[address]
	if !ok {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	return ticket, nil
}

func (f *fakePrimaryRepo) UpdateTicket(_ context.Context, ticket domain.Ticket) error {
	f.tickets[ticket.Address] = ticket
	return nil
}

func (f *fakePrimaryRepo) Transfer(_ context.Context, from, to domain.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if f.wallets[from] < amount {
		return domain.ErrInsufficientFunds
	}
	f.wallets[from] -= amount
	f.wallets[to] += amount
	return nil
}
