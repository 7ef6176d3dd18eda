package http

import (
	"context"
	"net/http"
	"time"

	"github.com/riyqnn/pulsee/internal/app"
	"github.com/riyqnn/pulsee/internal/domain"
)

type MarketService interface {
	ListTicketForSale(ctx context.Context, in app.ListTicketInput) (domain.MarketListing, error)
	UpdateListing(ctx context.Context, in app.UpdateListingInput) (domain.MarketListing, error)
	CancelListing(ctx context.Context, caller, mint domain.Address, listingID string) error
	ClaimExpiredListing(ctx context.Context, caller, mint domain.Address, listingID string) error
	BuyListedTicket(ctx context.Context, in app.BuyListedTicketInput) (domain.MarketListing, error)
	MakeOffer(ctx context.Context, in app.MakeOfferInput) (domain.Offer, error)
	AcceptOffer(ctx context.Context, in app.AcceptOfferInput) (domain.MarketListing, error)
	ExecuteDutchAuctionPurchase(ctx context.Context, in app.DutchPurchaseInput) (domain.MarketListing, uint64, error)
	RecordListingView(ctx context.Context, mint domain.Address, listingID string) error
}

// HandleListTicket puts one of the signer's tickets up for resale.
func HandleListTicket(svc MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req listTicketRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		saleType, err := domain.ParseSaleType(req.SaleType)
		if err != nil {
			respondDomainError(w, err)
			return
		}

		listing, err := svc.ListTicketForSale(r.Context(), app.ListTicketInput{
			Caller:              signer,
			Mint:                domain.Address(req.Mint),
			ListingID:           req.ListingID,
			ListPrice:           req.ListPrice,
			MinimumOffer:        req.MinimumOffer,
			AcceptOffers:        req.AcceptOffers,
			SaleType:            saleType,
			Duration:            time.Duration(req.DurationSecs) * time.Second,
			PriceAdjustmentRate: req.PriceAdjustmentRate,
			MinPrice:            req.MinPrice,
			MaxPrice:            req.MaxPrice,
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newListingResponse(listing))
	}
}

// HandleUpdateListing adjusts the price or offer settings of a live listing.
func HandleUpdateListing(svc MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req updateListingRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		listing, err := svc.UpdateListing(r.Context(), app.UpdateListingInput{
			Caller:       signer,
			Mint:         domain.Address(r.PathValue("mint")),
			ListingID:    r.PathValue("listingID"),
			ListPrice:    req.ListPrice,
			MinimumOffer: req.MinimumOffer,
			AcceptOffers: req.AcceptOffers,
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newListingResponse(listing))
	}
}

// HandleCancelListing takes the signer's listing off the market.
func HandleCancelListing(svc MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		err := svc.CancelListing(r.Context(), signer, domain.Address(r.PathValue("mint")), r.PathValue("listingID"))
		if err != nil {
			respondDomainError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleClaimExpiredListing closes out a listing whose window has lapsed.
func HandleClaimExpiredListing(svc MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		err := svc.ClaimExpiredListing(r.Context(), signer, domain.Address(r.PathValue("mint")), r.PathValue("listingID"))
		if err != nil {
			respondDomainError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleBuyListedTicket settles a fixed-price listing for the signer.
func HandleBuyListedTicket(svc MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		listing, err := svc.BuyListedTicket(r.Context(), app.BuyListedTicketInput{
			Buyer:     signer,
			Mint:      domain.Address(r.PathValue("mint")),
			ListingID: r.PathValue("listingID"),
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newListingResponse(listing))
	}
}

// HandleMakeOffer places a bid on a listing that accepts offers.
func HandleMakeOffer(svc MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req makeOfferRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		offer, err := svc.MakeOffer(r.Context(), app.MakeOfferInput{
			Buyer:     signer,
			Mint:      domain.Address(r.PathValue("mint")),
			ListingID: r.PathValue("listingID"),
			Amount:    req.Amount,
			Duration:  time.Duration(req.DurationSecs) * time.Second,
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newOfferResponse(offer))
	}
}

// HandleAcceptOffer settles the listing at the named buyer's offer amount.
func HandleAcceptOffer(svc MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req acceptOfferRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		listing, err := svc.AcceptOffer(r.Context(), app.AcceptOfferInput{
			Caller:    signer,
			Mint:      domain.Address(r.PathValue("mint")),
			ListingID: r.PathValue("listingID"),
			Buyer:     domain.Address(req.Buyer),
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newListingResponse(listing))
	}
}

// HandleDutchPurchase settles a Dutch-auction listing at the current decayed
// price and reports what the buyer actually paid.
func HandleDutchPurchase(svc MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		listing, paid, err := svc.ExecuteDutchAuctionPurchase(r.Context(), app.DutchPurchaseInput{
			Buyer:     signer,
			Mint:      domain.Address(r.PathValue("mint")),
			ListingID: r.PathValue("listingID"),
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, dutchPurchaseResponse{
			Listing:   newListingResponse(listing),
			PricePaid: paid,
		})
	}
}

// HandleRecordListingView bumps a listing's view counter.
func HandleRecordListingView(svc MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.RecordListingView(r.Context(), domain.Address(r.PathValue("mint")), r.PathValue("listingID"))
		if err != nil {
			respondDomainError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type listTicketRequest struct {
	Mint      string `json:"mint"`
	ListingID string `json:"listing_id"`

	ListPrice    uint64 `json:"list_price"`
	MinimumOffer uint64 `json:"minimum_offer"`
	AcceptOffers bool   `json:"accept_offers"`
	SaleType     string `json:"sale_type"`
	DurationSecs int64  `json:"duration_secs"`

	PriceAdjustmentRate uint16 `json:"price_adjustment_rate"`
	MinPrice            uint64 `json:"min_price"`
	MaxPrice            uint64 `json:"max_price"`
}

type updateListingRequest struct {
	ListPrice    *uint64 `json:"list_price"`
	MinimumOffer *uint64 `json:"minimum_offer"`
	AcceptOffers *bool   `json:"accept_offers"`
}

type makeOfferRequest struct {
	Amount       uint64 `json:"amount"`
	DurationSecs int64  `json:"duration_secs"`
}

type acceptOfferRequest struct {
	Buyer string `json:"buyer"`
}

type dutchPurchaseResponse struct {
	Listing   listingResponse `json:"listing"`
	PricePaid uint64          `json:"price_paid"`
}
