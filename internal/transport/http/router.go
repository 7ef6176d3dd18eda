package http

import "net/http"

// Services bundles everything the router needs.
type Services struct {
	Config       ConfigService
	Events       EventService
	Users        UserService
	Agents       AgentService
	Escrow       EscrowService
	Primary      PrimaryService
	Market       MarketService
	Coordination CoordinationService
	Wallets      WalletService
}

// NewMux registers every route. Method-and-path patterns keep dispatch in
// the standard mux; unknown routes fall through to a JSON 404.
func NewMux(svcs Services) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", HealthHandler)

	mux.Handle("POST /config", HandleInitializeConfig(svcs.Config))
	mux.Handle("PATCH /config", HandleUpdateConfig(svcs.Config))

	mux.Handle("POST /users", HandleCreateUser(svcs.Users))
	mux.Handle("PATCH /users/me", HandleUpdateUserProfile(svcs.Users))
	mux.Handle("POST /users/{owner}/verify", HandleSetUserVerified(svcs.Config))

	mux.Handle("POST /events", HandleCreateEvent(svcs.Events))
	mux.Handle("PATCH /events/{organizer}/{eventID}", HandleUpdateEvent(svcs.Events))
	mux.Handle("POST /events/{organizer}/{eventID}/cancel", HandleCancelEvent(svcs.Events))
	mux.Handle("POST /events/{organizer}/{eventID}/tiers", HandleCreateTier(svcs.Events))
	mux.Handle("PATCH /events/{organizer}/{eventID}/tiers/{tierID}", HandleUpdateTier(svcs.Events))
	mux.Handle("POST /events/{organizer}/{eventID}/tiers/{tierID}/disable", HandleDisableTier(svcs.Events))

	mux.Handle("POST /agents", HandleCreateAgent(svcs.Agents))
	mux.Handle("PATCH /agents/{agentID}", HandleUpdateAgent(svcs.Agents))
	mux.Handle("POST /agents/{agentID}/active", HandleSetAgentActive(svcs.Agents))
	mux.Handle("POST /agents/{agentID}/auto-purchase", HandleToggleAutoPurchase(svcs.Agents))
	mux.Handle("POST /agents/{agentID}/budget/add", HandleAddAgentBudget(svcs.Agents))
	mux.Handle("POST /agents/{agentID}/budget/decrease", HandleDecreaseAgentBudget(svcs.Agents))

	mux.Handle("POST /agents/{agentID}/escrow", HandleCreateEscrow(svcs.Escrow))
	mux.Handle("POST /agents/{agentID}/escrow/deposit", HandleDepositToEscrow(svcs.Escrow))
	mux.Handle("POST /agents/{agentID}/escrow/withdraw", HandleWithdrawFromEscrow(svcs.Escrow))

	mux.Handle("POST /purchases", HandleBuyTicket(svcs.Primary))
	mux.Handle("POST /purchases/agent", HandleBuyTicketWithAgent(svcs.Primary))
	mux.Handle("POST /purchases/escrow", HandleBuyTicketWithEscrow(svcs.Primary))
	mux.Handle("POST /tickets/{mint}/validate", HandleValidateTicket(svcs.Primary))
	mux.Handle("POST /tickets/{mint}/cancel", HandleCancelTicket(svcs.Primary))

	mux.Handle("POST /listings", HandleListTicket(svcs.Market))
	mux.Handle("PATCH /listings/{mint}/{listingID}", HandleUpdateListing(svcs.Market))
	mux.Handle("POST /listings/{mint}/{listingID}/cancel", HandleCancelListing(svcs.Market))
	mux.Handle("POST /listings/{mint}/{listingID}/claim", HandleClaimExpiredListing(svcs.Market))
	mux.Handle("POST /listings/{mint}/{listingID}/buy", HandleBuyListedTicket(svcs.Market))
	mux.Handle("POST /listings/{mint}/{listingID}/offers", HandleMakeOffer(svcs.Market))
	mux.Handle("POST /listings/{mint}/{listingID}/offers/accept", HandleAcceptOffer(svcs.Market))
	mux.Handle("POST /listings/{mint}/{listingID}/dutch-buy", HandleDutchPurchase(svcs.Market))
	mux.Handle("POST /listings/{mint}/{listingID}/views", HandleRecordListingView(svcs.Market))

	mux.Handle("POST /coordination-groups", HandleCreateCoordinationGroup(svcs.Coordination))
	mux.Handle("POST /coordination-groups/join", HandleJoinCoordinationGroup(svcs.Coordination))
	mux.Handle("POST /coordination-groups/cancel", HandleCancelCoordinationGroup(svcs.Coordination))

	mux.Handle("POST /wallets/fund", HandleFundWallet(svcs.Wallets))
	mux.Handle("GET /wallets/{address}", HandleWalletBalance(svcs.Wallets))

	mux.Handle("/", NotFoundHandler())

	return mux
}
