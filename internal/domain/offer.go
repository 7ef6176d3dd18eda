package domain

import "time"

const MaxOfferIDLen = 30

// Offer is a bid against a listing that accepts offers. One live offer per
// (listing, buyer) pair.
type Offer struct {
	Address     Address
	Listing     Address
	Buyer       Address
	OfferAmount uint64
	CreatedAt   time.Time
	ExpiresAt   time.Time
	IsActive    bool
	Bump        uint8
}

// ExpiredAt reports whether the offer is past its expiry; the boundary
// instant is still live.
func (o *Offer) ExpiredAt(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
