package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riyqnn/pulsee/internal/app"
	"github.com/riyqnn/pulsee/internal/clock"
	"github.com/riyqnn/pulsee/internal/storage/postgres"
	"github.com/riyqnn/pulsee/internal/testutil"
)

// newTestMux wires the full router against a live database at a fixed
// instant, so a single flow can be replayed at different points in time.
func newTestMux(pool *pgxpool.Pool, now time.Time) *http.ServeMux {
	clk := clock.NewFixed(now)
	return NewMux(Services{
		Config:       app.NewAdminService(postgres.NewAdminRepository(pool), clk),
		Events:       app.NewEventService(postgres.NewEventRepository(pool), clk),
		Users:        app.NewUserService(postgres.NewUserRepository(pool), clk),
		Agents:       app.NewAgentService(postgres.NewAgentRepository(pool), clk),
		Escrow:       app.NewEscrowService(postgres.NewEscrowRepository(pool), clk),
		Primary:      app.NewPrimaryService(postgres.NewPrimaryRepository(pool), clk),
		Market:       app.NewMarketService(postgres.NewMarketRepository(pool), clk),
		Coordination: app.NewCoordinationService(postgres.NewCoordinationRepository(pool), clk),
		Wallets:      app.NewWalletService(postgres.NewWalletRepository(pool)),
	})
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, signer, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	if signer != "" {
		req.Header.Set(SignerHeader, signer)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestMarketplaceFlow_HTTPIntegration(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	setupMux := newTestMux(pool, base)
	saleMux := newTestMux(pool, base.Add(2*time.Hour))

	// Protocol config: 2.5% fee to the treasury, 20% resale cap.
	rec := doJSON(t, setupMux, http.MethodPost, "/config", "admin-1", fmt.Sprintf(
		`{"protocol_fee_bps":250,"default_price_cap_bps":2000,"min_listing_duration_secs":%d,"max_listing_duration_secs":%d,"treasury":"treasury-1"}`,
		int64(time.Hour/time.Second), int64(30*24*time.Hour/time.Second),
	))
	if rec.Code != http.StatusCreated {
		t.Fatalf("initialize config: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, setupMux, http.MethodPost, "/users", "buyer-1", `{"username":"alice","email":"alice@example.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, setupMux, http.MethodPost, "/events", "org-1", fmt.Sprintf(
		`{"event_id":"concert","name":"Summer Concert","venue":"Main Arena","sale_start_time":%q,"sale_end_time":%q,"event_start_time":%q,"event_end_time":%q,"max_tickets_per_user":4,"royalty_bps":500}`,
		base.Add(1*time.Hour).Format(time.RFC3339),
		base.Add(24*time.Hour).Format(time.RFC3339),
		base.Add(48*time.Hour).Format(time.RFC3339),
		base.Add(52*time.Hour).Format(time.RFC3339),
	))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create event: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, setupMux, http.MethodPost, "/events/org-1/concert/tiers", "org-1",
		`{"tier_id":"ga","name":"General Admission","price":100000,"max_supply":500}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create tier: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, setupMux, http.MethodPost, "/wallets/fund", "", `{"address":"buyer-1","amount":1000000}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("fund wallet: expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	// Buying before the sale opens fails; the same request succeeds two
	// hours later.
	rec = doJSON(t, setupMux, http.MethodPost, "/purchases", "buyer-1",
		`{"organizer":"org-1","event_id":"concert","tier_id":"ga"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("early purchase: expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, saleMux, http.MethodPost, "/purchases", "buyer-1",
		`{"organizer":"org-1","event_id":"concert","tier_id":"ga"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("purchase: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var bought struct {
		Mint  string `json:"mint"`
		Owner string `json:"owner"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&bought); err != nil {
		t.Fatalf("decode ticket: %v", err)
	}
	if bought.Mint == "" || bought.Owner != "buyer-1" {
		t.Fatalf("unexpected ticket: %+v", bought)
	}
	if got := testutil.WalletBalance(t, ctx, pool, "org-1"); got != 100_000 {
		t.Fatalf("expected organizer paid 100000, got %d", got)
	}

	// Resale at a 10% markup, inside the 20% cap.
	rec = doJSON(t, saleMux, http.MethodPost, "/listings", "buyer-1", fmt.Sprintf(
		`{"mint":%q,"listing_id":"lst-1","list_price":110000,"sale_type":"fixed","duration_secs":%d}`,
		bought.Mint, int64(48*time.Hour/time.Second),
	))
	if rec.Code != http.StatusCreated {
		t.Fatalf("list ticket: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	testutil.FundWallet(t, ctx, pool, "buyer-2", 200_000)
	rec = doJSON(t, saleMux, http.MethodPost, "/listings/"+bought.Mint+"/lst-1/buy", "buyer-2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("buy listed ticket: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// 110000 splits into 2750 protocol fee, 5500 royalty, 101750 to the
	// seller.
	if got := testutil.WalletBalance(t, ctx, pool, "treasury-1"); got != 2_750 {
		t.Fatalf("expected treasury fee 2750, got %d", got)
	}
	if got := testutil.WalletBalance(t, ctx, pool, "org-1"); got != 105_500 {
		t.Fatalf("expected organizer balance 105500, got %d", got)
	}
	if got := testutil.WalletBalance(t, ctx, pool, "buyer-1"); got != 1_001_750 {
		t.Fatalf("expected seller balance 1001750, got %d", got)
	}
	if got := testutil.WalletBalance(t, ctx, pool, "buyer-2"); got != 90_000 {
		t.Fatalf("expected buyer balance 90000, got %d", got)
	}

	rec = doJSON(t, saleMux, http.MethodGet, "/wallets/buyer-2", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("wallet balance: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var wallet struct {
		Balance uint64 `json:"balance"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&wallet); err != nil {
		t.Fatalf("decode wallet: %v", err)
	}
	if wallet.Balance != 90_000 {
		t.Fatalf("expected reported balance 90000, got %d", wallet.Balance)
	}
}
