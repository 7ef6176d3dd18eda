package app

import (
	"context"
	"time"

	"github.com/riyqnn/pulsee/internal/clock"
	"github.com/riyqnn/pulsee/internal/domain"
)

type MarketRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetConfig(ctx context.Context) (domain.GlobalConfig, error)
	GetEventForUpdate(ctx context.Context, address domain.Address) (domain.Event, error)
	GetTicketForUpdate(ctx context.Context, address domain.Address) (domain.Ticket, error)
	UpdateTicket(ctx context.Context, ticket domain.Ticket) error
	CreateListing(ctx context.Context, listing domain.MarketListing) error
	GetListingForUpdate(ctx context.Context, address domain.Address) (domain.MarketListing, error)
	UpdateListing(ctx context.Context, listing domain.MarketListing) error
	CreateOffer(ctx context.Context, offer domain.Offer) error
	GetOfferForUpdate(ctx context.Context, address domain.Address) (domain.Offer, error)
	UpdateOffer(ctx context.Context, offer domain.Offer) error
	Transfer(ctx context.Context, from, to domain.Address, amount uint64) error
}

// MarketService runs the resale market: listings, offers, and Dutch
// auctions. Every sale settles with the same three-way split of the sale
// price into protocol fee, organizer royalty, and seller payout, summing
// exactly to the price paid.
type MarketService struct {
	repo  MarketRepository
	clock clock.Clock
}

func NewMarketService(repo MarketRepository, clk clock.Clock) *MarketService {
	return &MarketService{repo: repo, clock: clk}
}

type ListTicketInput struct {
	Caller    domain.Address
	Mint      domain.Address
	ListingID string

	ListPrice    uint64
	MinimumOffer uint64
	AcceptOffers bool
	SaleType     domain.SaleType
	Duration     time.Duration

	PriceAdjustmentRate uint16
	MinPrice            uint64
	MaxPrice            uint64
}

// ListTicketForSale puts an owned, active ticket on the resale market. The
// list price is capped relative to the original purchase price, the listing
// duration must sit inside the configured bounds, and listing closes once
// the event starts.
func (s *MarketService) ListTicketForSale(ctx context.Context, in ListTicketInput) (domain.MarketListing, error) {
	if in.ListingID == "" || len(in.ListingID) > domain.MaxListingIDLen {
		return domain.MarketListing{}, domain.ErrInvalidInput
	}
	if in.ListPrice == 0 {
		return domain.MarketListing{}, domain.ErrInvalidPrice
	}
	if _, err := domain.ParseSaleType(string(in.SaleType)); err != nil {
		return domain.MarketListing{}, err
	}
	if in.SaleType == domain.SaleTypeDutch {
		if err := domain.ValidateBps(in.PriceAdjustmentRate); err != nil {
			return domain.MarketListing{}, err
		}
		if err := domain.ValidateDutchPricing(in.ListPrice, in.MinPrice, in.MaxPrice); err != nil {
			return domain.MarketListing{}, err
		}
	}

	now := s.clock.Now()
	var result domain.MarketListing

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		cfg, err := s.repo.GetConfig(txCtx)
		if err != nil {
			return err
		}
		if in.Duration < cfg.MinListingDuration || in.Duration > cfg.MaxListingDuration {
			return domain.ErrInvalidDuration
		}

		ticketAddr, _ := domain.TicketAddress(in.Mint)
		ticket, err := s.repo.GetTicketForUpdate(txCtx, ticketAddr)
		if err != nil {
			return err
		}
		if ticket.Owner != in.Caller {
			return domain.ErrUnauthorized
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
		if !now.Before(event.EventStartTime) {
			return domain.ErrCannotListAfterEventStart
		}

		if err := domain.ValidatePriceCap(in.ListPrice, ticket.OriginalPrice, cfg.DefaultPriceCapBps); err != nil {
			return err
		}

		address, bump := domain.ListingAddress(in.Mint, in.ListingID)
		listing := domain.MarketListing{
			Address:               address,
			ListingID:             in.ListingID,
			Seller:                in.Caller,
			TicketMint:            in.Mint,
			Event:                 ticket.Event,
			TierID:                ticket.TierID,
			ListPrice:             in.ListPrice,
			MinimumOffer:          in.MinimumOffer,
			AcceptOffers:          in.AcceptOffers,
			OriginalPurchasePrice: ticket.OriginalPrice,
			PriceAdjustmentRate:   in.PriceAdjustmentRate,
			LastPriceAdjustment:   now,
			MinPrice:              in.MinPrice,
			MaxPrice:              in.MaxPrice,
			IsActive:              true,
			SaleType:              in.SaleType,
			CreatedAt:             now,
			ExpiresAt:             now.Add(in.Duration),
			Bump:                  bump,
		}
		if err := s.repo.CreateListing(txCtx, listing); err != nil {
			return err
		}
		result = listing
		return nil
	})
	if err != nil {
		return domain.MarketListing{}, err
	}
	return result, nil
}

type UpdateListingInput struct {
	Caller    domain.Address
	Mint      domain.Address
	ListingID string

	ListPrice    *uint64
	MinimumOffer *uint64
	AcceptOffers *bool
}

// UpdateListing edits the negotiable fields of an active listing. The sale
// type and the ticket binding are immutable; a new list price is re-checked
// against the price cap.
func (s *MarketService) UpdateListing(ctx context.Context, in UpdateListingInput) (domain.MarketListing, error) {
	var result domain.MarketListing

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		listing, err := s.loadSellerListing(txCtx, in.Caller, in.Mint, in.ListingID)
		if err != nil {
			return err
		}
		if !listing.IsActive {
			return domain.ErrListingNotActive
		}

		if in.ListPrice != nil {
			if *in.ListPrice == 0 {
				return domain.ErrInvalidPrice
			}
			cfg, err := s.repo.GetConfig(txCtx)
			if err != nil {
				return err
			}
			if err := domain.ValidatePriceCap(*in.ListPrice, listing.OriginalPurchasePrice, cfg.DefaultPriceCapBps); err != nil {
				return err
			}
			if listing.SaleType == domain.SaleTypeDutch {
				if err := domain.ValidateDutchPricing(*in.ListPrice, listing.MinPrice, listing.MaxPrice); err != nil {
					return err
				}
			}
			listing.ListPrice = *in.ListPrice
			listing.LastPriceAdjustment = s.clock.Now()
		}
		if in.MinimumOffer != nil {
			listing.MinimumOffer = *in.MinimumOffer
		}
		if in.AcceptOffers != nil {
			listing.AcceptOffers = *in.AcceptOffers
		}

		if err := s.repo.UpdateListing(txCtx, listing); err != nil {
			return err
		}
		result = listing
		return nil
	})
	if err != nil {
		return domain.MarketListing{}, err
	}
	return result, nil
}

// CancelListing takes an active listing off the market. The ticket itself is
// untouched and can be re-listed under a new listing id.
func (s *MarketService) CancelListing(ctx context.Context, caller, mint domain.Address, listingID string) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		listing, err := s.loadSellerListing(txCtx, caller, mint, listingID)
		if err != nil {
			return err
		}
		if !listing.IsActive {
			return domain.ErrListingNotActive
		}
		listing.IsActive = false
		return s.repo.UpdateListing(txCtx, listing)
	})
}

// ClaimExpiredListing closes out a listing whose window has passed. Unlike
// CancelListing it only works after expiry.
func (s *MarketService) ClaimExpiredListing(ctx context.Context, caller, mint domain.Address, listingID string) error {
	now := s.clock.Now()
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		listing, err := s.loadSellerListing(txCtx, caller, mint, listingID)
		if err != nil {
			return err
		}
		if !listing.IsActive {
			return domain.ErrListingNotActive
		}
		if !listing.ExpiredAt(now) {
			return domain.ErrListingNotExpired
		}
		listing.IsActive = false
		return s.repo.UpdateListing(txCtx, listing)
	})
}

type BuyListedTicketInput struct {
	Buyer     domain.Address
	Mint      domain.Address
	ListingID string
}

// BuyListedTicket settles a fixed-price listing: buyer pays the list price,
// the split goes out, ticket ownership moves, and the listing deactivates.
// Dutch listings must go through ExecuteDutchAuctionPurchase.
func (s *MarketService) BuyListedTicket(ctx context.Context, in BuyListedTicketInput) (domain.MarketListing, error) {
	now := s.clock.Now()
	var result domain.MarketListing

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		listing, err := s.loadLiveListing(txCtx, in.Mint, in.ListingID, now)
		if err != nil {
			return err
		}
		if listing.SaleType != domain.SaleTypeFixed {
			return domain.ErrInvalidSaleType
		}

		if err := s.settleSale(txCtx, &listing, in.Buyer, listing.ListPrice); err != nil {
			return err
		}
		result = listing
		return nil
	})
	if err != nil {
		return domain.MarketListing{}, err
	}
	return result, nil
}

type MakeOfferInput struct {
	Buyer     domain.Address
	Mint      domain.Address
	ListingID string
	Amount    uint64
	Duration  time.Duration
}

// MakeOffer places a bid on a listing that accepts offers. One live offer
// per buyer per listing.
func (s *MarketService) MakeOffer(ctx context.Context, in MakeOfferInput) (domain.Offer, error) {
	if in.Amount == 0 {
		return domain.Offer{}, domain.ErrInvalidPrice
	}
	if in.Duration <= 0 {
		return domain.Offer{}, domain.ErrInvalidDuration
	}
	now := s.clock.Now()
	var result domain.Offer

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		listing, err := s.loadLiveListing(txCtx, in.Mint, in.ListingID, now)
		if err != nil {
			return err
		}
		if !listing.AcceptOffers {
			return domain.ErrOffersNotAccepted
		}
		if in.Amount < listing.MinimumOffer {
			return domain.ErrInvalidPrice
		}

		address, bump := domain.OfferAddress(listing.Address, in.Buyer)
		offer := domain.Offer{
			Address:     address,
			Listing:     listing.Address,
			Buyer:       in.Buyer,
			OfferAmount: in.Amount,
			CreatedAt:   now,
			ExpiresAt:   now.Add(in.Duration),
			IsActive:    true,
			Bump:        bump,
		}
		if err := s.repo.CreateOffer(txCtx, offer); err != nil {
			return err
		}

		count, err := domain.SafeAddU32(listing.OfferCount, 1)
		if err != nil {
			return err
		}
		listing.OfferCount = count
		if err := s.repo.UpdateListing(txCtx, listing); err != nil {
			return err
		}
		result = offer
		return nil
	})
	if err != nil {
		return domain.Offer{}, err
	}
	return result, nil
}

type AcceptOfferInput struct {
	Caller    domain.Address
	Mint      domain.Address
	ListingID string
	Buyer     domain.Address
}

// AcceptOffer settles a listing at the offered amount. Both the listing and
// the offer must be live; both deactivate on settlement.
func (s *MarketService) AcceptOffer(ctx context.Context, in AcceptOfferInput) (domain.MarketListing, error) {
	now := s.clock.Now()
	var result domain.MarketListing

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		listing, err := s.loadLiveListing(txCtx, in.Mint, in.ListingID, now)
		if err != nil {
			return err
		}
		if listing.Seller != in.Caller {
			return domain.ErrUnauthorized
		}

		offerAddr, _ := domain.OfferAddress(listing.Address, in.Buyer)
		offer, err := s.repo.GetOfferForUpdate(txCtx, offerAddr)
		if err != nil {
			return err
		}
		if !offer.IsActive {
			return domain.ErrOfferNotActive
		}
		if offer.ExpiredAt(now) {
			return domain.ErrOfferExpired
		}

		if err := s.settleSale(txCtx, &listing, offer.Buyer, offer.OfferAmount); err != nil {
			return err
		}

		offer.IsActive = false
		if err := s.repo.UpdateOffer(txCtx, offer); err != nil {
			return err
		}
		result = listing
		return nil
	})
	if err != nil {
		return domain.MarketListing{}, err
	}
	return result, nil
}

type DutchPurchaseInput struct {
	Buyer     domain.Address
	Mint      domain.Address
	ListingID string
}

// ExecuteDutchAuctionPurchase settles a Dutch listing at the price computed
// for this instant: discount per whole elapsed hour, floored at the minimum
// price. The price is evaluated lazily; nothing updates it in between.
func (s *MarketService) ExecuteDutchAuctionPurchase(ctx context.Context, in DutchPurchaseInput) (domain.MarketListing, uint64, error) {
	now := s.clock.Now()
	var (
		result domain.MarketListing
		paid   uint64
	)

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		listing, err := s.loadLiveListing(txCtx, in.Mint, in.ListingID, now)
		if err != nil {
			return err
		}
		if listing.SaleType != domain.SaleTypeDutch {
			return domain.ErrInvalidSaleType
		}

		price, err := listing.DutchAuctionPrice(now)
		if err != nil {
			return err
		}
		if err := s.settleSale(txCtx, &listing, in.Buyer, price); err != nil {
			return err
		}
		result = listing
		paid = price
		return nil
	})
	if err != nil {
		return domain.MarketListing{}, 0, err
	}
	return result, paid, nil
}

// RecordListingView bumps the listing view counter.
func (s *MarketService) RecordListingView(ctx context.Context, mint domain.Address, listingID string) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		addr, _ := domain.ListingAddress(mint, listingID)
		listing, err := s.repo.GetListingForUpdate(txCtx, addr)
		if err != nil {
			return err
		}
		if !listing.IsActive {
			return domain.ErrListingNotActive
		}
		views, err := domain.SafeAddU32(listing.ViewCount, 1)
		if err != nil {
			return err
		}
		listing.ViewCount = views
		return s.repo.UpdateListing(txCtx, listing)
	})
}

// settleSale moves the money and the ticket for a resale at the given price.
// The price splits into protocol fee, organizer royalty, and seller payout;
// the remainder arithmetic guarantees the three parts sum exactly to price.
func (s *MarketService) settleSale(ctx context.Context, listing *domain.MarketListing, buyer domain.Address, price uint64) error {
	cfg, err := s.repo.GetConfig(ctx)
	if err != nil {
		return err
	}

	ticketAddr, _ := domain.TicketAddress(listing.TicketMint)
	ticket, err := s.repo.GetTicketForUpdate(ctx, ticketAddr)
	if err != nil {
		return err
	}
	if ticket.Status != domain.TicketStatusActive {
		return domain.ErrTicketNotActive
	}

	event, err := s.repo.GetEventForUpdate(ctx, listing.Event)
	if err != nil {
		return err
	}
	if event.IsCancelled {
		return domain.ErrEventCancelled
	}

	fee, err := domain.Percentage(price, cfg.ProtocolFeeBps)
	if err != nil {
		return err
	}
	royalty, err := domain.Percentage(price, event.RoyaltyBps)
	if err != nil {
		return err
	}
	payout, err := domain.SafeSub(price, fee)
	if err != nil {
		return err
	}
	payout, err = domain.SafeSub(payout, royalty)
	if err != nil {
		return err
	}

	if fee > 0 {
		if err := s.repo.Transfer(ctx, buyer, cfg.Treasury, fee); err != nil {
			return err
		}
	}
	if royalty > 0 {
		if err := s.repo.Transfer(ctx, buyer, event.Organizer, royalty); err != nil {
			return err
		}
	}
	if payout > 0 {
		if err := s.repo.Transfer(ctx, buyer, listing.Seller, payout); err != nil {
			return err
		}
	}

	ticket.Owner = buyer
	if err := s.repo.UpdateTicket(ctx, ticket); err != nil {
		return err
	}

	listing.IsActive = false
	return s.repo.UpdateListing(ctx, *listing)
}

func (s *MarketService) loadSellerListing(ctx context.Context, caller, mint domain.Address, listingID string) (domain.MarketListing, error) {
	addr, _ := domain.ListingAddress(mint, listingID)
	listing, err := s.repo.GetListingForUpdate(ctx, addr)
	if err != nil {
		return domain.MarketListing{}, err
	}
	if listing.Seller != caller {
		return domain.MarketListing{}, domain.ErrUnauthorized
	}
	return listing, nil
}

func (s *MarketService) loadLiveListing(ctx context.Context, mint domain.Address, listingID string, now time.Time) (domain.MarketListing, error) {
	addr, _ := domain.ListingAddress(mint, listingID)
	listing, err := s.repo.GetListingForUpdate(ctx, addr)
	if err != nil {
		return domain.MarketListing{}, err
	}
	if !listing.IsActive {
		return domain.MarketListing{}, domain.ErrListingNotActive
	}
	if listing.ExpiredAt(now) {
		return domain.MarketListing{}, domain.ErrListingExpired
	}
	return listing, nil
}
