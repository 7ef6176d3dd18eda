package http

import (
	"time"

	"github.com/riyqnn/pulsee/internal/domain"
)

// Response DTOs shared across handlers. Monetary amounts are integers in the
// smallest currency unit; durations are rendered as whole seconds.

type configResponse struct {
	Address                string `json:"address"`
	Admin                  string `json:"admin"`
	ProtocolFeeBps         uint16 `json:"protocol_fee_bps"`
	DefaultPriceCapBps     uint16 `json:"default_price_cap_bps"`
	MinListingDurationSecs int64  `json:"min_listing_duration_secs"`
	MaxListingDurationSecs int64  `json:"max_listing_duration_secs"`
	AllowAgentCoordination bool   `json:"allow_agent_coordination"`
	RequireVerification    bool   `json:"require_verification"`
	Treasury               string `json:"treasury"`
}

func newConfigResponse(cfg domain.GlobalConfig) configResponse {
	return configResponse{
		Address:                string(cfg.Address),
		Admin:                  string(cfg.Admin),
		ProtocolFeeBps:         cfg.ProtocolFeeBps,
		DefaultPriceCapBps:     cfg.DefaultPriceCapBps,
		MinListingDurationSecs: int64(cfg.MinListingDuration / time.Second),
		MaxListingDurationSecs: int64(cfg.MaxListingDuration / time.Second),
		AllowAgentCoordination: cfg.AllowAgentCoordination,
		RequireVerification:    cfg.RequireVerification,
		Treasury:               string(cfg.Treasury),
	}
}

type eventResponse struct {
	Address           string    `json:"address"`
	Organizer         string    `json:"organizer"`
	EventID           string    `json:"event_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	ImageURL          string    `json:"image_url"`
	Venue             string    `json:"venue"`
	EventStartTime    time.Time `json:"event_start_time"`
	EventEndTime      time.Time `json:"event_end_time"`
	SaleStartTime     time.Time `json:"sale_start_time"`
	SaleEndTime       time.Time `json:"sale_end_time"`
	IsActive          bool      `json:"is_active"`
	IsCancelled       bool      `json:"is_cancelled"`
	MaxTicketsPerUser uint32    `json:"max_tickets_per_user"`
	RoyaltyBps        uint16    `json:"royalty_bps"`
	TotalTicketsSold  uint64    `json:"total_tickets_sold"`
	TotalRevenue      uint64    `json:"total_revenue"`
	CreatedAt         time.Time `json:"created_at"`
}

func newEventResponse(event domain.Event) eventResponse {
	return eventResponse{
		Address:           string(event.Address),
		Organizer:         string(event.Organizer),
		EventID:           event.EventID,
		Name:              event.Name,
		Description:       event.Description,
		ImageURL:          event.ImageURL,
		Venue:             event.Venue,
		EventStartTime:    event.EventStartTime,
		EventEndTime:      event.EventEndTime,
		SaleStartTime:     event.SaleStartTime,
		SaleEndTime:       event.SaleEndTime,
		IsActive:          event.IsActive,
		IsCancelled:       event.IsCancelled,
		MaxTicketsPerUser: event.MaxTicketsPerUser,
		RoyaltyBps:        event.RoyaltyBps,
		TotalTicketsSold:  event.TotalTicketsSold,
		TotalRevenue:      event.TotalRevenue,
		CreatedAt:         event.CreatedAt,
	}
}

type tierResponse struct {
	Address       string `json:"address"`
	Event         string `json:"event"`
	TierID        string `json:"tier_id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         uint64 `json:"price"`
	MaxSupply     uint64 `json:"max_supply"`
	CurrentSupply uint64 `json:"current_supply"`
	IsActive      bool   `json:"is_active"`
}

func newTierResponse(tier domain.TicketTier) tierResponse {
	return tierResponse{
		Address:       string(tier.Address),
		Event:         string(tier.Event),
		TierID:        tier.TierID,
		Name:          tier.Name,
		Description:   tier.Description,
		Price:         tier.Price,
		MaxSupply:     tier.MaxSupply,
		CurrentSupply: tier.CurrentSupply,
		IsActive:      tier.IsActive,
	}
}

type userResponse struct {
	Address          string `json:"address"`
	Owner            string `json:"owner"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	TicketsOwned     uint64 `json:"tickets_owned"`
	TotalSpent       uint64 `json:"total_spent"`
	TicketsPurchased uint64 `json:"tickets_purchased"`
	IsVerified       bool   `json:"is_verified"`
}

func newUserResponse(user domain.User) userResponse {
	return userResponse{
		Address:          string(user.Address),
		Owner:            string(user.Owner),
		Username:         user.Username,
		Email:            user.Email,
		TicketsOwned:     user.TicketsOwned,
		TotalSpent:       user.TotalSpent,
		TicketsPurchased: user.TicketsPurchased,
		IsVerified:       user.IsVerified,
	}
}

type agentResponse struct {
	Address string `json:"address"`
	Owner   string `json:"owner"`
	AgentID string `json:"agent_id"`
	Name    string `json:"name"`

	IsActive bool `json:"is_active"`

	MaxBudgetPerTicket uint64 `json:"max_budget_per_ticket"`
	TotalBudget        uint64 `json:"total_budget"`
	SpentBudget        uint64 `json:"spent_budget"`

	PreferenceFlags  uint64   `json:"preference_flags"`
	PreferredGenres  []byte   `json:"preferred_genres,omitempty"`
	PreferredVenues  []string `json:"preferred_venues,omitempty"`
	MinEventDuration uint32   `json:"min_event_duration"`
	MaxEventDuration uint32   `json:"max_event_duration"`
	AllowedLocations []string `json:"allowed_locations,omitempty"`
	MaxDistanceKm    uint32   `json:"max_distance_km"`

	PreferredDays      uint8  `json:"preferred_days"`
	PreferredTimeStart uint32 `json:"preferred_time_start"`
	PreferredTimeEnd   uint32 `json:"preferred_time_end"`

	AutoPurchaseEnabled   bool   `json:"auto_purchase_enabled"`
	AutoPurchaseThreshold uint16 `json:"auto_purchase_threshold"`
	MaxTicketsPerEvent    uint8  `json:"max_tickets_per_event"`
	RequireVerification   bool   `json:"require_verification"`

	AllowCoordination   bool   `json:"allow_coordination"`
	CoordinationGroupID string `json:"coordination_group_id,omitempty"`

	TicketsPurchased uint64 `json:"tickets_purchased"`
	MoneySaved       uint64 `json:"money_saved"`

	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

func newAgentResponse(agent domain.AIAgent) agentResponse {
	return agentResponse{
		Address:               string(agent.Address),
		Owner:                 string(agent.Owner),
		AgentID:               agent.AgentID,
		Name:                  agent.Name,
		IsActive:              agent.IsActive,
		MaxBudgetPerTicket:    agent.MaxBudgetPerTicket,
		TotalBudget:           agent.TotalBudget,
		SpentBudget:           agent.SpentBudget,
		PreferenceFlags:       agent.PreferenceFlags,
		PreferredGenres:       agent.PreferredGenres,
		PreferredVenues:       addressStrings(agent.PreferredVenues),
		MinEventDuration:      agent.MinEventDuration,
		MaxEventDuration:      agent.MaxEventDuration,
		AllowedLocations:      addressStrings(agent.AllowedLocations),
		MaxDistanceKm:         agent.MaxDistanceKm,
		PreferredDays:         agent.PreferredDays,
		PreferredTimeStart:    agent.PreferredTimeStart,
		PreferredTimeEnd:      agent.PreferredTimeEnd,
		AutoPurchaseEnabled:   agent.AutoPurchaseEnabled,
		AutoPurchaseThreshold: agent.AutoPurchaseThreshold,
		MaxTicketsPerEvent:    agent.MaxTicketsPerEvent,
		RequireVerification:   agent.RequireVerification,
		AllowCoordination:     agent.AllowCoordination,
		CoordinationGroupID:   agent.CoordinationGroupID,
		TicketsPurchased:      agent.TicketsPurchased,
		MoneySaved:            agent.MoneySaved,
		CreatedAt:             agent.CreatedAt,
		LastActive:            agent.LastActive,
	}
}

type escrowResponse struct {
	Address        string    `json:"address"`
	Agent          string    `json:"agent"`
	Owner          string    `json:"owner"`
	Balance        uint64    `json:"balance"`
	TotalDeposited uint64    `json:"total_deposited"`
	TotalWithdrawn uint64    `json:"total_withdrawn"`
	TotalSpent     uint64    `json:"total_spent"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivity   time.Time `json:"last_activity"`
}

func newEscrowResponse(escrow domain.AgentEscrow) escrowResponse {
	return escrowResponse{
		Address:        string(escrow.Address),
		Agent:          string(escrow.Agent),
		Owner:          string(escrow.Owner),
		Balance:        escrow.Balance,
		TotalDeposited: escrow.TotalDeposited,
		TotalWithdrawn: escrow.TotalWithdrawn,
		TotalSpent:     escrow.TotalSpent,
		CreatedAt:      escrow.CreatedAt,
		LastActivity:   escrow.LastActivity,
	}
}

type ticketResponse struct {
	Address       string     `json:"address"`
	Mint          string     `json:"mint"`
	Event         string     `json:"event"`
	TierID        string     `json:"tier_id"`
	Owner         string     `json:"owner"`
	OriginalPrice uint64     `json:"original_price"`
	Status        string     `json:"status"`
	PurchasedAt   time.Time  `json:"purchased_at"`
	ValidatedAt   *time.Time `json:"validated_at,omitempty"`
	SeatInfo      string     `json:"seat_info,omitempty"`
	CancelReason  string     `json:"cancel_reason,omitempty"`
}

func newTicketResponse(ticket domain.Ticket) ticketResponse {
	return ticketResponse{
		Address:       string(ticket.Address),
		Mint:          string(ticket.Mint),
		Event:         string(ticket.Event),
		TierID:        ticket.TierID,
		Owner:         string(ticket.Owner),
		OriginalPrice: ticket.OriginalPrice,
		Status:        string(ticket.Status),
		PurchasedAt:   ticket.PurchasedAt,
		ValidatedAt:   ticket.ValidatedAt,
		SeatInfo:      ticket.SeatInfo,
		CancelReason:  ticket.CancelReason,
	}
}

type listingResponse struct {
	Address    string `json:"address"`
	ListingID  string `json:"listing_id"`
	Seller     string `json:"seller"`
	TicketMint string `json:"ticket_mint"`
	Event      string `json:"event"`
	TierID     string `json:"tier_id"`

	ListPrice    uint64 `json:"list_price"`
	MinimumOffer uint64 `json:"minimum_offer"`
	AcceptOffers bool   `json:"accept_offers"`

	OriginalPurchasePrice uint64    `json:"original_purchase_price"`
	PriceAdjustmentRate   uint16    `json:"price_adjustment_rate"`
	LastPriceAdjustment   time.Time `json:"last_price_adjustment"`
	MinPrice              uint64    `json:"min_price"`
	MaxPrice              uint64    `json:"max_price"`

	IsActive  bool      `json:"is_active"`
	SaleType  string    `json:"sale_type"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	ViewCount  uint32 `json:"view_count"`
	OfferCount uint32 `json:"offer_count"`
}

func newListingResponse(listing domain.MarketListing) listingResponse {
	return listingResponse{
		Address:               string(listing.Address),
		ListingID:             listing.ListingID,
		Seller:                string(listing.Seller),
		TicketMint:            string(listing.TicketMint),
		Event:                 string(listing.Event),
		TierID:                listing.TierID,
		ListPrice:             listing.ListPrice,
		MinimumOffer:          listing.MinimumOffer,
		AcceptOffers:          listing.AcceptOffers,
		OriginalPurchasePrice: listing.OriginalPurchasePrice,
		PriceAdjustmentRate:   listing.PriceAdjustmentRate,
		LastPriceAdjustment:   listing.LastPriceAdjustment,
		MinPrice:              listing.MinPrice,
		MaxPrice:              listing.MaxPrice,
		IsActive:              listing.IsActive,
		SaleType:              string(listing.SaleType),
		CreatedAt:             listing.CreatedAt,
		ExpiresAt:             listing.ExpiresAt,
		ViewCount:             listing.ViewCount,
		OfferCount:            listing.OfferCount,
	}
}

type offerResponse struct {
	Address     string    `json:"address"`
	Listing     string    `json:"listing"`
	Buyer       string    `json:"buyer"`
	OfferAmount uint64    `json:"offer_amount"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	IsActive    bool      `json:"is_active"`
}

func newOfferResponse(offer domain.Offer) offerResponse {
	return offerResponse{
		Address:     string(offer.Address),
		Listing:     string(offer.Listing),
		Buyer:       string(offer.Buyer),
		OfferAmount: offer.OfferAmount,
		CreatedAt:   offer.CreatedAt,
		ExpiresAt:   offer.ExpiresAt,
		IsActive:    offer.IsActive,
	}
}

type groupResponse struct {
	Address              string    `json:"address"`
	GroupID              string    `json:"group_id"`
	Coordinator          string    `json:"coordinator"`
	Event                string    `json:"event"`
	TierID               string    `json:"tier_id"`
	TargetTicketCount    uint32    `json:"target_ticket_count"`
	CurrentTicketCount   uint32    `json:"current_ticket_count"`
	MaxBudgetPerTicket   uint64    `json:"max_budget_per_ticket"`
	TotalBudgetCommitted uint64    `json:"total_budget_committed"`
	Participants         []string  `json:"participants"`
	ExpiresAt            time.Time `json:"expires_at"`
	IsActive             bool      `json:"is_active"`
	IsCompleted          bool      `json:"is_completed"`
}

func newGroupResponse(group domain.AgentCoordination) groupResponse {
	return groupResponse{
		Address:              string(group.Address),
		GroupID:              group.GroupID,
		Coordinator:          string(group.Coordinator),
		Event:                string(group.Event),
		TierID:               group.TierID,
		TargetTicketCount:    group.TargetTicketCount,
		CurrentTicketCount:   group.CurrentTicketCount,
		MaxBudgetPerTicket:   group.MaxBudgetPerTicket,
		TotalBudgetCommitted: group.TotalBudgetCommitted,
		Participants:         addressStrings(group.Participants),
		ExpiresAt:            group.ExpiresAt,
		IsActive:             group.IsActive,
		IsCompleted:          group.IsCompleted,
	}
}

type walletResponse struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}

func addressStrings(addrs []domain.Address) []string {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = string(a)
	}
	return out
}
