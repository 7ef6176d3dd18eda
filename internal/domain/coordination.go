package domain

import "time"

const (
	MaxGroupIDLen        = 30
	MaxGroupParticipants = 10
)

// AgentCoordination pools multiple agents' budgets toward a shared ticket
// target for one event tier. Completion is latched when the current count
// reaches the target.
type AgentCoordination struct {
	Address              Address
	GroupID              string
	Coordinator          Address
	Event                Address
	TierID               string
	TargetTicketCount    uint32
	CurrentTicketCount   uint32
	MaxBudgetPerTicket   uint64
	TotalBudgetCommitted uint64
	Participants         []Address
	ExpiresAt            time.Time
	IsActive             bool
	IsCompleted          bool
	Bump                 uint8
}

// Full reports whether the participant list is at capacity.
func (g *AgentCoordination) Full() bool {
	return len(g.Participants) >= MaxGroupParticipants
}

// HasParticipant reports membership by agent address.
func (g *AgentCoordination) HasParticipant(agent Address) bool {
	for _, p := range g.Participants {
		if p == agent {
			return true
		}
	}
	return false
}

// ExpiredAt reports whether the group window has closed.
func (g *AgentCoordination) ExpiredAt(now time.Time) bool {
	return now.After(g.ExpiresAt)
}
