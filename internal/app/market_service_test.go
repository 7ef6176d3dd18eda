package app

import (
	"context"
	"testing"
	"time"

	"github.com/riyqnn/pulsee/internal/clock"
	"github.com/riyqnn/pulsee/internal/domain"
)

var (
	marketNow      = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	marketTreasury = domain.Address("treasury-1")
)

func marketConfig() domain.GlobalConfig {
	address, bump := domain.ConfigAddress()
	return domain.GlobalConfig{
		Address:            address,
		Admin:              "admin-1",
		ProtocolFeeBps:     250,
		DefaultPriceCapBps: 2_000,
		MinListingDuration: time.Hour,
		MaxListingDuration: 30 * 24 * time.Hour,
		Treasury:           marketTreasury,
		Bump:               bump,
	}
}

// newMarketWorld builds an event with an upcoming start, one active ticket
// owned by seller-1 at an original price of 100000, and a funded buyer.
func newMarketWorld() *fakeMarketRepo {
	repo := newFakeMarketRepo()
	cfg := marketConfig()
	repo.config = &cfg

	organizer := domain.Address("organizer-1")
	eventAddr, bump := domain.EventAddress(organizer, "concert")
	repo.events[eventAddr] = domain.Event{
		Address:        eventAddr,
		Organizer:      organizer,
		EventID:        "concert",
		EventStartTime: marketNow.Add(72 * time.Hour),
		EventEndTime:   marketNow.Add(76 * time.Hour),
		SaleStartTime:  marketNow.Add(-48 * time.Hour),
		SaleEndTime:    marketNow.Add(-time.Hour),
		IsActive:       true,
		RoyaltyBps:     500,
		Bump:           bump,
	}

	mint := domain.Address("mint-1")
	ticketAddr, tbump := domain.TicketAddress(mint)
	repo.tickets[ticketAddr] = domain.Ticket{
		Address:       ticketAddr,
		Mint:          mint,
		Event:         eventAddr,
		TierID:        "ga",
		Owner:         "seller-1",
		OriginalPrice: 100_000,
		Status:        domain.TicketStatusActive,
		Bump:          tbump,
	}

	repo.wallets["buyer-1"] = 10_000_000
	return repo
}

func listInput() ListTicketInput {
	return ListTicketInput{
		Caller:    "seller-1",
		Mint:      "mint-1",
		ListingID: "lst-1",
		ListPrice: 110_000,
		SaleType:  domain.SaleTypeFixed,
		Duration:  48 * time.Hour,
	}
}

func TestMarketService_ListTicketForSale(t *testing.T) {
	t.Parallel()

	t.Run("creates an active listing with expiry", func(t *testing.T) {
		repo := newMarketWorld()
		svc := NewMarketService(repo, clock.NewFixed(marketNow))

		listing, err := svc.ListTicketForSale(context.Background(), listInput())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !listing.IsActive {
			t.Fatalf("expected active listing")
		}
		if listing.OriginalPurchasePrice != 100_000 {
			t.Fatalf("expected original purchase price carried, got %d", listing.OriginalPurchasePrice)
		}
		if !listing.ExpiresAt.Equal(marketNow.Add(48 * time.Hour)) {
			t.Fatalf("expected expiry 48h out, got %v", listing.ExpiresAt)
		}
	})

	t.Run("list price above cap rejected", func(t *testing.T) {
		repo := newMarketWorld()
		svc := NewMarketService(repo, clock.NewFixed(marketNow))

		in := listInput()
		in.ListPrice = 120_001 // cap is 20% over 100000
		if _, err := svc.ListTicketForSale(context.Background(), in); err != domain.ErrPriceCapExceeded {
			t.Fatalf("expected ErrPriceCapExceeded, got %v", err)
		}
	})

	t.Run("duration outside configured bounds", func(t *testing.T) {
		repo := newMarketWorld()
		svc := NewMarketService(repo, clock.NewFixed(marketNow))

		in := listInput()
		in.Duration = 30 * time.Minute
		if _, err := svc.ListTicketForSale(context.Background(), in); err != domain.ErrInvalidDuration {
			t.Fatalf("expected ErrInvalidDuration, got %v", err)
		}
	})

	t.Run("only the ticket owner may list", func(t *testing.T) {
		repo := newMarketWorld()
		svc := NewMarketService(repo, clock.NewFixed(marketNow))

		in := listInput()
		in.Caller = "someone-else"
		if _, err := svc.ListTicketForSale(context.Background(), in); err != domain.ErrUnauthorized {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("listing closes at event start", func(t *testing.T) {
		repo := newMarketWorld()
		eventAddr, _ := domain.EventAddress("organizer-1", "concert")
		svc := NewMarketService(repo, clock.NewFixed(repo.events[eventAddr].EventStartTime))

		if _, err := svc.ListTicketForSale(context.Background(), listInput()); err != domain.ErrCannotListAfterEventStart {
			t.Fatalf("expected ErrCannotListAfterEventStart, got %v", err)
		}
	})

	t.Run("dutch listing validates pricing shape", func(t *testing.T) {
		repo := newMarketWorld()
		svc := NewMarketService(repo, clock.NewFixed(marketNow))

		in := listInput()
		in.SaleType = domain.SaleTypeDutch
		in.PriceAdjustmentRate = 500
		in.MinPrice = 0
		in.MaxPrice = 110_000
		if _, err := svc.ListTicketForSale(context.Background(), in); err != domain.ErrInvalidPrice {
			t.Fatalf("expected ErrInvalidPrice for zero floor, got %v", err)
		}
	})
}

func TestMarketService_CancelListing(t *testing.T) {
	t.Parallel()

	repo := newMarketWorld()
	svc := NewMarketService(repo, clock.NewFixed(marketNow))

	if _, err := svc.ListTicketForSale(context.Background(), listInput()); err != nil {
		t.Fatalf("expected listing to succeed, got %v", err)
	}
	if err := svc.CancelListing(context.Background(), "seller-1", "mint-1", "lst-1"); err != nil {
		t.Fatalf("expected cancel to succeed, got %v", err)
	}

	addr, _ := domain.ListingAddress("mint-1", "lst-1")
	if repo.listings[addr].IsActive {
		t.Fatalf("expected listing deactivated")
	}

	// The ticket is untouched and can be re-listed under a new id.
	in := listInput()
	in.ListingID = "lst-2"
	if _, err := svc.ListTicketForSale(context.Background(), in); err != nil {
		t.Fatalf("expected re-list to succeed, got %v", err)
	}

	if err := svc.CancelListing(context.Background(), "seller-1", "mint-1", "lst-1"); err != domain.ErrListingNotActive {
		t.Fatalf("expected ErrListingNotActive on double cancel, got %v", err)
	}
}

func TestMarketService_ClaimExpiredListing(t *testing.T) {
	t.Parallel()

	repo := newMarketWorld()
	svc := NewMarketService(repo, clock.NewFixed(marketNow))
	if _, err := svc.ListTicketForSale(context.Background(), listInput()); err != nil {
		t.Fatalf("expected listing to succeed, got %v", err)
	}

	if err := svc.ClaimExpiredListing(context.Background(), "seller-1", "mint-1", "lst-1"); err != domain.ErrListingNotExpired {
		t.Fatalf("expected ErrListingNotExpired before expiry, got %v", err)
	}

	late := NewMarketService(repo, clock.NewFixed(marketNow.Add(49*time.Hour)))
	if err := late.ClaimExpiredListing(context.Background(), "seller-1", "mint-1", "lst-1"); err != nil {
		t.Fatalf("expected claim after expiry to succeed, got %v", err)
	}
}

func TestMarketService_BuyListedTicket(t *testing.T) {
	t.Parallel()

	t.Run("splits the price exactly", func(t *testing.T) {
		repo := newMarketWorld()
		svc := NewMarketService(repo, clock.NewFixed(marketNow))

		in := listInput()
		in.ListPrice = 100_000
		if _, err := svc.ListTicketForSale(context.Background(), in); err != nil {
			t.Fatalf("expected listing to succeed, got %v", err)
		}

		listing, err := svc.BuyListedTicket(context.Background(), BuyListedTicketInput{
			Buyer:     "buyer-1",
			Mint:      "mint-1",
			ListingID: "lst-1",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if listing.IsActive {
			t.Fatalf("expected listing deactivated on sale")
		}

		// fee 2.5% = 2500, royalty 5% = 5000, payout = 92500.
		if repo.wallets[marketTreasury] != 2_500 {
			t.Fatalf("expected treasury 2500, got %d", repo.wallets[marketTreasury])
		}
		if repo.wallets["organizer-1"] != 5_000 {
			t.Fatalf("expected organizer 5000, got %d", repo.wallets["organizer-1"])
		}
		if repo.wallets["seller-1"] != 92_500 {
			t.Fatalf("expected seller 92500, got %d", repo.wallets["seller-1"])
		}
		if repo.wallets["buyer-1"] != 9_900_000 {
			t.Fatalf("expected buyer debited exactly 100000, got %d", repo.wallets["buyer-1"])
		}

		ticketAddr, _ := domain.TicketAddress("mint-1")
		if repo.tickets[ticketAddr].Owner != "buyer-1" {
			t.Fatalf("expected ticket ownership moved to buyer")
		}
	})

	t.Run("dutch listing rejected on the fixed path", func(t *testing.T) {
		repo := newMarketWorld()
		svc := NewMarketService(repo, clock.NewFixed(marketNow))

		in := listInput()
		in.SaleType = domain.SaleTypeDutch
		in.PriceAdjustmentRate = 500
		in.MinPrice = 50_000
		in.MaxPrice = 110_000
		if _, err := svc.ListTicketForSale(context.Background(), in); err != nil {
			t.Fatalf("expected dutch listing to succeed, got %v", err)
		}

		_, err := svc.BuyListedTicket(context.Background(), BuyListedTicketInput{
			Buyer:     "buyer-1",
			Mint:      "mint-1",
			ListingID: "lst-1",
		})
		if err != domain.ErrInvalidSaleType {
			t.Fatalf("expected ErrInvalidSaleType, got %v", err)
		}
	})

	t.Run("expired listing cannot be bought", func(t *testing.T) {
		repo := newMarketWorld()
		svc := NewMarketService(repo, clock.NewFixed(marketNow))
		if _, err := svc.ListTicketForSale(context.Background(), listInput()); err != nil {
			t.Fatalf("expected listing to succeed, got %v", err)
		}

		late := NewMarketService(repo, clock.NewFixed(marketNow.Add(49*time.Hour)))
		_, err := late.BuyListedTicket(context.Background(), BuyListedTicketInput{
			Buyer:     "buyer-1",
			Mint:      "mint-1",
			ListingID: "lst-1",
		})
		if err != domain.ErrListingExpired {
			t.Fatalf("expected ErrListingExpired, got %v", err)
		}
	})
}

func TestMarketService_Offers(t *testing.T) {
	t.Parallel()

	setup := func() (*MarketService, *fakeMarketRepo) {
		repo := newMarketWorld()
		svc := NewMarketService(repo, clock.NewFixed(marketNow))

		in := listInput()
		in.AcceptOffers = true
		in.MinimumOffer = 80_000
		if _, err := svc.ListTicketForSale(context.Background(), in); err != nil {
			t.Fatalf("expected listing to succeed, got %v", err)
		}
		return svc, repo
	}

	t.Run("offer below minimum rejected", func(t *testing.T) {
		svc, _ := setup()

		_, err := svc.MakeOffer(context.Background(), MakeOfferInput{
			Buyer:     "buyer-1",
			Mint:      "mint-1",
			ListingID: "lst-1",
			Amount:    79_999,
			Duration:  time.Hour,
		})
		if err != domain.ErrInvalidPrice {
			t.Fatalf("expected ErrInvalidPrice, got %v", err)
		}
	})

	t.Run("accept settles at the offer amount", func(t *testing.T) {
		svc, repo := setup()

		offer, err := svc.MakeOffer(context.Background(), MakeOfferInput{
			Buyer:     "buyer-1",
			Mint:      "mint-1",
			ListingID: "lst-1",
			Amount:    90_000,
			Duration:  time.Hour,
		})
		if err != nil {
			t.Fatalf("expected offer to succeed, got %v", err)
		}
		if !offer.IsActive {
			t.Fatalf("expected live offer")
		}

		listing, err := svc.AcceptOffer(context.Background(), AcceptOfferInput{
			Caller:    "seller-1",
			Mint:      "mint-1",
			ListingID: "lst-1",
			Buyer:     "buyer-1",
		})
		if err != nil {
			t.Fatalf("expected accept to succeed, got %v", err)
		}
		if listing.IsActive {
			t.Fatalf("expected listing deactivated")
		}

		// fee 2250 + royalty 4500 + payout 83250 = 90000.
		if repo.wallets[marketTreasury] != 2_250 {
			t.Fatalf("expected treasury 2250, got %d", repo.wallets[marketTreasury])
		}
		if repo.wallets["seller-1"] != 83_250 {
			t.Fatalf("expected seller 83250, got %d", repo.wallets["seller-1"])
		}

		offerAddr, _ := domain.OfferAddress(listing.Address, "buyer-1")
		if repo.offers[offerAddr].IsActive {
			t.Fatalf("expected offer deactivated on settlement")
		}
	})

	t.Run("only the seller accepts", func(t *testing.T) {
		svc, _ := setup()

		if _, err := svc.MakeOffer(context.Background(), MakeOfferInput{
			Buyer:     "buyer-1",
			Mint:      "mint-1",
			ListingID: "lst-1",
			Amount:    90_000,
			Duration:  time.Hour,
		}); err != nil {
			t.Fatalf("expected offer to succeed, got %v", err)
		}

		_, err := svc.AcceptOffer(context.Background(), AcceptOfferInput{
			Caller:    "buyer-1",
			Mint:      "mint-1",
			ListingID: "lst-1",
			Buyer:     "buyer-1",
		})
		if err != domain.ErrUnauthorized {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("expired offer cannot be accepted", func(t *testing.T) {
		svc, repo := setup()

		if _, err := svc.MakeOffer(context.Background(), MakeOfferInput{
			Buyer:     "buyer-1",
			Mint:      "mint-1",
			ListingID: "lst-1",
			Amount:    90_000,
			Duration:  time.Hour,
		}); err != nil {
			t.Fatalf("expected offer to succeed, got %v", err)
		}

		late := NewMarketService(repo, clock.NewFixed(marketNow.Add(2*time.Hour)))
		_, err := late.AcceptOffer(context.Background(), AcceptOfferInput{
			Caller:    "seller-1",
			Mint:      "mint-1",
			ListingID: "lst-1",
			Buyer:     "buyer-1",
		})
		if err != domain.ErrOfferExpired {
			t.Fatalf("expected ErrOfferExpired, got %v", err)
		}
	})

	t.Run("listing without offers rejects bids", func(t *testing.T) {
		repo := newMarketWorld()
		svc := NewMarketService(repo, clock.NewFixed(marketNow))
		if _, err := svc.ListTicketForSale(context.Background(), listInput()); err != nil {
			t.Fatalf("expected listing to succeed, got %v", err)
		}

		_, err := svc.MakeOffer(context.Background(), MakeOfferInput{
			Buyer:     "buyer-1",
			Mint:      "mint-1",
			ListingID: "lst-1",
			Amount:    90_000,
			Duration:  time.Hour,
		})
		if err != domain.ErrOffersNotAccepted {
			t.Fatalf("expected ErrOffersNotAccepted, got %v", err)
		}
	})
}

func TestMarketService_ExecuteDutchAuctionPurchase(t *testing.T) {
	t.Parallel()

	repo := newMarketWorld()
	svc := NewMarketService(repo, clock.NewFixed(marketNow))

	in := listInput()
	in.SaleType = domain.SaleTypeDutch
	in.ListPrice = 100_000
	in.PriceAdjustmentRate = 500
	in.MinPrice = 50_000
	in.MaxPrice = 100_000
	if _, err := svc.ListTicketForSale(context.Background(), in); err != nil {
		t.Fatalf("expected dutch listing to succeed, got %v", err)
	}

	// Three whole hours of 5% decay: 100000 -> 85000.
	threeHours := NewMarketService(repo, clock.NewFixed(marketNow.Add(3*time.Hour)))
	listing, paid, err := threeHours.ExecuteDutchAuctionPurchase(context.Background(), DutchPurchaseInput{
		Buyer:     "buyer-1",
		Mint:      "mint-1",
		ListingID: "lst-1",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if paid != 85_000 {
		t.Fatalf("expected price paid 85000, got %d", paid)
	}
	if listing.IsActive {
		t.Fatalf("expected listing deactivated")
	}
	if repo.wallets["buyer-1"] != 10_000_000-85_000 {
		t.Fatalf("expected buyer debited 85000, got %d", repo.wallets["buyer-1"])
	}
}

func TestMarketService_RecordListingView(t *testing.T) {
	t.Parallel()

	repo := newMarketWorld()
	svc := NewMarketService(repo, clock.NewFixed(marketNow))
	if _, err := svc.ListTicketForSale(context.Background(), listInput()); err != nil {
		t.Fatalf("expected listing to succeed, got %v", err)
	}

	if err := svc.RecordListingView(context.Background(), "mint-1", "lst-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := svc.RecordListingView(context.Background(), "mint-1", "lst-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	addr, _ := domain.ListingAddress("mint-1", "lst-1")
	if repo.listings[addr].ViewCount != 2 {
		t.Fatalf("expected 2 views, got %d", repo.listings[addr].ViewCount)
	}
}

type fakeMarketRepo struct {
	config   *domain.GlobalConfig
	events   map[domain.Address]domain.Event
	tickets  map[domain.Address]domain.Ticket
	listings map[domain.Address]domain.MarketListing
	offers   map[domain.Address]domain.Offer
	wallets  map[domain.Address]uint64
}

func newFakeMarketRepo() *fakeMarketRepo {
	return &fakeMarketRepo{
		events:   make(map[domain.Address]domain.Event),
		tickets:  make(map[domain.Address]domain.Ticket),
		listings: make(map[domain.Address]domain.MarketListing),
		offers:   make(map[domain.Address]domain.Offer),
		wallets:  make(map[domain.Address]uint64),
	}
}

func (f *fakeMarketRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeMarketRepo) GetConfig(context.Context) (domain.GlobalConfig, error) {
	if f.config == nil {
		return domain.GlobalConfig{}, domain.ErrConfigNotFound
	}
	return *f.config, nil
}

func (f *fakeMarketRepo) GetEventForUpdate(_ context.Context, address domain.Address) (domain.Event, error) {
	event, ok := f.events[address]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return event, nil
}

func (f *fakeMarketRepo) GetTicketForUpdate(_ context.Context, address domain.Address) (domain.Ticket, error) {
	ticket, ok := f.tickets[address]
	if !ok {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	return ticket, nil
}

func (f *fakeMarketRepo) UpdateTicket(_ context.Context, ticket domain.Ticket) error {
	f.tickets[ticket.Address] = ticket
	return nil
}

func (f *fakeMarketRepo) CreateListing(_ context.Context, listing domain.MarketListing) error {
	if _, exists := f.listings[listing.Address]; exists {
		return domain.ErrListingExists
	}
	f.listings[listing.Address] = listing
	return nil
}

func (f *fakeMarketRepo) GetListingForUpdate(_ context.Context, address domain.Address) (domain.MarketListing, error) {
	listing, ok := f.listings[address]
	if !ok {
		return domain.MarketListing{}, domain.ErrListingNotFound
	}
	return listing, nil
}

func (f *fakeMarketRepo) UpdateListing(_ context.Context, listing domain.MarketListing) error {
	f.listings[listing.Address] = listing
	return nil
}

func (f *fakeMarketRepo) CreateOffer(_ context.Context, offer domain.Offer) error {
	if _, exists := f.offers[offer.Address]; exists {
		return domain.ErrOfferExists
	}
	f.offers[offer.Address] = offer
	return nil
}

func (f *fakeMarketRepo) GetOfferForUpdate(_ context.Context, address domain.Address) (domain.Offer, error) {
	offer, ok := f.offers[address]
	if !ok {
		return domain.Offer{}, domain.ErrOfferNotFound
	}
	return offer, nil
}

func (f *fakeMarketRepo) UpdateOffer(_ context.Context, offer domain.Offer) error {
	f.offers[offer.Address] = offer
	return nil
}

func (f *fakeMarketRepo) Transfer(_ context.Context, from, to domain.Address, amount uint64) error {
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
