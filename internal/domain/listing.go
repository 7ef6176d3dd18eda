package domain

import (
	"time"

	"github.com/holiman/uint256"
)

const MaxListingIDLen = 30

type SaleType string

const (
	SaleTypeFixed   SaleType = "fixed"
	SaleTypeAuction SaleType = "auction"
	SaleTypeDutch   SaleType = "dutch"
)

// ParseSaleType validates a wire value for the listing sale mechanism.
func ParseSaleType(s string) (SaleType, error) {
	switch SaleType(s) {
	case SaleTypeFixed, SaleTypeAuction, SaleTypeDutch:
		return SaleType(s), nil
	default:
		return "", ErrInvalidSaleType
	}
}

// MarketListing is a resale offer for one ticket. IsActive flips false
// exactly once, on sale, cancellation, or expiry claim. SaleType and the
// ticket reference are immutable after creation.
type MarketListing struct {
	Address    Address
	ListingID  string
	Seller     Address
	TicketMint Address
	Event      Address
	TierID     string

	ListPrice    uint64
	MinimumOffer uint64
	AcceptOffers bool

	OriginalPurchasePrice uint64
	PriceAdjustmentRate   uint16 // bps discount per hour (Dutch)
	LastPriceAdjustment   time.Time
	MinPrice              uint64
	MaxPrice              uint64

	IsActive  bool
	SaleType  SaleType
	CreatedAt time.Time
	ExpiresAt time.Time

	ViewCount  uint32
	OfferCount uint32
	Bump       uint8
}

// ExpiredAt reports whether the listing is past its expiry. The boundary
// instant itself is still live.
func (l *MarketListing) ExpiredAt(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// DutchAuctionPrice computes the decayed price at the given instant. The
// discount accrues per whole elapsed hour and the result never drops below
// MinPrice nor rises above ListPrice. Price is evaluated lazily on each
// read; nothing updates the listing in the background.
func (l *MarketListing) DutchAuctionPrice(now time.Time) (uint64, error) {
	elapsed := now.Unix() - l.CreatedAt.Unix()
	if elapsed < 0 {
		return 0, ErrMathUnderflow
	}
	hours := uint64(elapsed) / 3600

	discountBps, err := SafeMul(hours, uint64(l.PriceAdjustmentRate))
	if err != nil {
		return 0, err
	}

	discount := new(uint256.Int).Mul(uint256.NewInt(l.ListPrice), uint256.NewInt(discountBps))
	discount.Div(discount, uint256.NewInt(BpsDenominator))

	price := uint64(0)
	if discount.IsUint64() && discount.Uint64() < l.ListPrice {
		price = l.ListPrice - discount.Uint64()
	}
	if price < l.MinPrice {
		price = l.MinPrice
	}
	return price, nil
}

// ValidatePriceCap rejects a list price above original*(10000+capBps)/10000.
func ValidatePriceCap(listPrice, originalPrice uint64, capBps uint16) error {
	maxPrice, err := PriceWithMarkup(originalPrice, capBps)
	if err != nil {
		return err
	}
	if listPrice > maxPrice {
		return ErrPriceCapExceeded
	}
	return nil
}

// ValidateDutchPricing checks 0 < min_price < list_price <= max_price.
func ValidateDutchPricing(listPrice, minPrice, maxPrice uint64) error {
	if minPrice == 0 {
		return ErrInvalidPrice
	}
	if minPrice >= listPrice {
		return ErrInvalidPrice
	}
	if maxPrice < listPrice {
		return ErrInvalidPrice
	}
	return nil
}
