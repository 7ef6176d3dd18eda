package http

import (
	"context"
	"net/http"
	"time"

	"github.com/riyqnn/pulsee/internal/app"
	"github.com/riyqnn/pulsee/internal/domain"
)

// ConfigService is the slice of the admin service the config handlers need.
type ConfigService interface {
	InitializeConfig(ctx context.Context, in app.InitializeConfigInput) (domain.GlobalConfig, error)
	UpdateConfig(ctx context.Context, in app.UpdateConfigInput) (domain.GlobalConfig, error)
	SetUserVerified(ctx context.Context, in app.SetUserVerifiedInput) error
}

// HandleInitializeConfig creates the protocol configuration singleton. The
// signer becomes the admin.
func HandleInitializeConfig(svc ConfigService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req initializeConfigRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		cfg, err := svc.InitializeConfig(r.Context(), app.InitializeConfigInput{
			Admin:                  signer,
			ProtocolFeeBps:         req.ProtocolFeeBps,
			DefaultPriceCapBps:     req.DefaultPriceCapBps,
			MinListingDuration:     time.Duration(req.MinListingDurationSecs) * time.Second,
			MaxListingDuration:     time.Duration(req.MaxListingDurationSecs) * time.Second,
			AllowAgentCoordination: req.AllowAgentCoordination,
			RequireVerification:    req.RequireVerification,
			Treasury:               domain.Address(req.Treasury),
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newConfigResponse(cfg))
	}
}

// HandleUpdateConfig applies a partial update to the configuration. Only the
// current admin may call it.
func HandleUpdateConfig(svc ConfigService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req updateConfigRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		in := app.UpdateConfigInput{
			Caller:                 signer,
			ProtocolFeeBps:         req.ProtocolFeeBps,
			DefaultPriceCapBps:     req.DefaultPriceCapBps,
			AllowAgentCoordination: req.AllowAgentCoordination,
			RequireVerification:    req.RequireVerification,
		}
		if req.MinListingDurationSecs != nil {
			d := time.Duration(*req.MinListingDurationSecs) * time.Second
			in.MinListingDuration = &d
		}
		if req.MaxListingDurationSecs != nil {
			d := time.Duration(*req.MaxListingDurationSecs) * time.Second
			in.MaxListingDuration = &d
		}
		if req.Treasury != nil {
			t := domain.Address(*req.Treasury)
			in.Treasury = &t
		}

		cfg, err := svc.UpdateConfig(r.Context(), in)
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newConfigResponse(cfg))
	}
}

// HandleSetUserVerified flips a user's verification flag; admin only.
func HandleSetUserVerified(svc ConfigService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req setUserVerifiedRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		err := svc.SetUserVerified(r.Context(), app.SetUserVerifiedInput{
			Caller:   signer,
			Owner:    domain.Address(r.PathValue("owner")),
			Verified: req.Verified,
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type initializeConfigRequest struct {
	ProtocolFeeBps         uint16 `json:"protocol_fee_bps"`
	DefaultPriceCapBps     uint16 `json:"default_price_cap_bps"`
	MinListingDurationSecs int64  `json:"min_listing_duration_secs"`
	MaxListingDurationSecs int64  `json:"max_listing_duration_secs"`
	AllowAgentCoordination bool   `json:"allow_agent_coordination"`
	RequireVerification    bool   `json:"require_verification"`
	Treasury               string `json:"treasury"`
}

type updateConfigRequest struct {
	ProtocolFeeBps         *uint16 `json:"protocol_fee_bps"`
	DefaultPriceCapBps     *uint16 `json:"default_price_cap_bps"`
	MinListingDurationSecs *int64  `json:"min_listing_duration_secs"`
	MaxListingDurationSecs *int64  `json:"max_listing_duration_secs"`
	AllowAgentCoordination *bool   `json:"allow_agent_coordination"`
	RequireVerification    *bool   `json:"require_verification"`
	Treasury               *string `json:"treasury"`
}

type setUserVerifiedRequest struct {
	Verified bool `json:"verified"`
}
