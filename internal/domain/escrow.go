package domain

import "time"

// AgentEscrow is the pre-funded balance an agent spends from, one per agent.
// It exists so a scheduler that is not the owner can trigger purchases
// without ever holding the owner's spending authority: escrow funds can only
// move to a pre-validated organizer at a pre-validated price.
//
// Invariant: Balance == TotalDeposited - TotalWithdrawn - TotalSpent.
type AgentEscrow struct {
	Address        Address
	Agent          Address
	Owner          Address
	Balance        uint64
	TotalDeposited uint64
	TotalWithdrawn uint64
	TotalSpent     uint64
	CreatedAt      time.Time
	LastActivity   time.Time
	Bump           uint8
}
