package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riyqnn/pulsee/internal/domain"
)

type MarketRepository struct {
	store
}

func NewMarketRepository(pool *pgxpool.Pool) *MarketRepository {
	return &MarketRepository{store{pool: pool}}
}

func (r *MarketRepository) GetConfig(ctx context.Context) (domain.GlobalConfig, error) {
	return getConfig(ctx, r.q(ctx), false)
}

func (r *MarketRepository) GetEventForUpdate(ctx context.Context, address domain.Address) (domain.Event, error) {
	return getEventForUpdate(ctx, r.q(ctx), address)
}

func (r *MarketRepository) GetTicketForUpdate(ctx context.Context, address domain.Address) (domain.Ticket, error) {
	return getTicketForUpdate(ctx, r.q(ctx), address)
}

func (r *MarketRepository) UpdateTicket(ctx context.Context, ticket domain.Ticket) error {
	return updateTicket(ctx, r.q(ctx), ticket)
}

func (r *MarketRepository) Transfer(ctx context.Context, from, to domain.Address, amount uint64) error {
	return transfer(ctx, r.q(ctx), from, to, amount)
}

func (r *MarketRepository) CreateListing(ctx context.Context, listing domain.MarketListing) error {
	const stmt = `
INSERT INTO listings (
	address, listing_id, seller, ticket_mint, event, tier_id,
	list_price, minimum_offer, accept_offers,
	original_purchase_price, price_adjustment_rate, last_price_adjustment, min_price, max_price,
	is_active, sale_type, created_at, expires_at, view_count, offer_count, bump
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	_, err := r.q(ctx).Exec(ctx, stmt,
		listing.Address,
		listing.ListingID,
		listing.Seller,
		listing.TicketMint,
		listing.Event,
		listing.TierID,
		int64(listing.ListPrice),
		int64(listing.MinimumOffer),
		listing.AcceptOffers,
		int64(listing.OriginalPurchasePrice),
		int32(listing.PriceAdjustmentRate),
		listing.LastPriceAdjustment,
		int64(listing.MinPrice),
		int64(listing.MaxPrice),
		listing.IsActive,
		listing.SaleType,
		listing.CreatedAt,
		listing.ExpiresAt,
		int32(listing.ViewCount),
		int32(listing.OfferCount),
		int16(listing.Bump),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrListingExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrTicketNotFound
		}
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

func (r *MarketRepository) GetListingForUpdate(ctx context.Context, address domain.Address) (domain.MarketListing, error) {
	return getListingForUpdate(ctx, r.q(ctx), address)
}

func (r *MarketRepository) UpdateListing(ctx context.Context, listing domain.MarketListing) error {
	return updateListing(ctx, r.q(ctx), listing)
}

func (r *MarketRepository) CreateOffer(ctx context.Context, offer domain.Offer) error {
	const stmt = `
INSERT INTO offers (address, listing, buyer, offer_amount, created_at, expires_at, is_active, bump)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.q(ctx).Exec(ctx, stmt,
		offer.Address,
		offer.Listing,
		offer.Buyer,
		int64(offer.OfferAmount),
		offer.CreatedAt,
		offer.ExpiresAt,
		offer.IsActive,
		int16(offer.Bump),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOfferExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrListingNotFound
		}
		return fmt.Errorf("create offer: %w", err)
	}
	return nil
}

func (r *MarketRepository) GetOfferForUpdate(ctx context.Context, address domain.Address) (domain.Offer, error) {
	const query = `
SELECT address, listing, buyer, offer_amount, created_at, expires_at, is_active, bump
FROM offers WHERE address = $1 FOR UPDATE`

	var (
		o      domain.Offer
		amount int64
		bump   int16
	)
	err := r.q(ctx).QueryRow(ctx, query, address).Scan(
		&o.Address, &o.Listing, &o.Buyer, &amount,
		&o.CreatedAt, &o.ExpiresAt, &o.IsActive, &bump,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Offer{}, domain.ErrOfferNotFound
		}
		return domain.Offer{}, fmt.Errorf("get offer: %w", err)
	}
	o.OfferAmount = uint64(amount)
	o.Bump = uint8(bump)
	return o, nil
}

func (r *MarketRepository) UpdateOffer(ctx context.Context, offer domain.Offer) error {
	const stmt = `UPDATE offers SET offer_amount = $2, expires_at = $3, is_active = $4 WHERE address = $1`
	tag, err := r.q(ctx).Exec(ctx, stmt,
		offer.Address,
		int64(offer.OfferAmount),
		offer.ExpiresAt,
		offer.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update offer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOfferNotFound
	}
	return nil
}

func getListingForUpdate(ctx context.Context, q querier, address domain.Address) (domain.MarketListing, error) {
	const query = `
SELECT address, listing_id, seller, ticket_mint, event, tier_id,
	list_price, minimum_offer, accept_offers,
	original_purchase_price, price_adjustment_rate, last_price_adjustment, min_price, max_price,
	is_active, sale_type, created_at, expires_at, view_count, offer_count, bump
FROM listings WHERE address = $1 FOR UPDATE`

	var (
		l         domain.MarketListing
		listPrice int64
		minOffer  int64
		origPrice int64
		rate      int32
		minPrice  int64
		maxPrice  int64
		views     int32
		offers    int32
		bump      int16
	)
	err := q.QueryRow(ctx, query, address).Scan(
		&l.Address, &l.ListingID, &l.Seller, &l.TicketMint, &l.Event, &l.TierID,
		&listPrice, &minOffer, &l.AcceptOffers,
		&origPrice, &rate, &l.LastPriceAdjustment, &minPrice, &maxPrice,
		&l.IsActive, &l.SaleType, &l.CreatedAt, &l.ExpiresAt, &views, &offers, &bump,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.MarketListing{}, domain.ErrListingNotFound
		}
		return domain.MarketListing{}, fmt.Errorf("get listing: %w", err)
	}
	l.ListPrice = uint64(listPrice)
	l.MinimumOffer = uint64(minOffer)
	l.OriginalPurchasePrice = uint64(origPrice)
	l.PriceAdjustmentRate = uint16(rate)
	l.MinPrice = uint64(minPrice)
	l.MaxPrice = uint64(maxPrice)
	l.ViewCount = uint32(views)
	l.OfferCount = uint32(offers)
	l.Bump = uint8(bump)
	return l, nil
}

func updateListing(ctx context.Context, q querier, listing domain.MarketListing) error {
	const stmt = `
UPDATE listings SET
	list_price = $2, minimum_offer = $3, accept_offers = $4,
	price_adjustment_rate = $5, last_price_adjustment = $6, min_price = $7, max_price = $8,
	is_active = $9, expires_at = $10, view_count = $11, offer_count = $12
WHERE address = $1`

	tag, err := q.Exec(ctx, stmt,
		listing.Address,
		int64(listing.ListPrice),
		int64(listing.MinimumOffer),
		listing.AcceptOffers,
		int32(listing.PriceAdjustmentRate),
		listing.LastPriceAdjustment,
		int64(listing.MinPrice),
		int64(listing.MaxPrice),
		listing.IsActive,
		listing.ExpiresAt,
		int32(listing.ViewCount),
		int32(listing.OfferCount),
	)
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}
