package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bobmcallan/tradejournal/internal/models"
)

func closedTradeBody(pnl, fees float64) map[string]interface{} {
	return map[string]interface{}{
		"date":         "2024-01-10",
		"asset":        "AAPL",
		"direction":    "long",
		"entryPrice":   100,
		"exitPrice":    115,
		"positionSize": 10,
		"isOpen":       false,
		"pnl":          pnl,
		"fees":         fees,
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := do(t, srv, http.MethodGet, "/api/health", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string]interface{}
	decodeBody(t, rr, &body)
	if body["backend"] != "memory" {
		t.Errorf("expected backend=memory, got %v", body["backend"])
	}
	if rr.Header().Get("X-Correlation-ID") == "" {
		t.Error("expected correlation id header")
	}
}

func TestSnapshot_DefaultsOnFirstLoad(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := do(t, srv, http.MethodGet, "/api/snapshot", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var snap models.Snapshot
	decodeBody(t, rr, &snap)
	if snap.Portfolio.InitialCapital != 10000 || snap.Portfolio.CurrentBalance != 10000 {
		t.Errorf("expected default portfolio, got %+v", snap.Portfolio)
	}
	if snap.UserSettings.Theme != models.ThemeLight {
		t.Errorf("expected light theme, got %s", snap.UserSettings.Theme)
	}
	if len(snap.Trades) != 0 {
		t.Errorf("expected no trades, got %d", len(snap.Trades))
	}
}

func TestTrades_CRUDAdjustsBalance(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := do(t, srv, http.MethodPost, "/api/trades", closedTradeBody(150, 10), "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var trade models.Trade
	decodeBody(t, rr, &trade)
	if trade.ID == "" {
		t.Fatal("expected store-assigned id")
	}

	var p models.Portfolio
	decodeBody(t, do(t, srv, http.MethodGet, "/api/portfolio", nil, ""), &p)
	if p.CurrentBalance != 10140 {
		t.Errorf("expected balance 10140 after close, got %v", p.CurrentBalance)
	}

	rr = do(t, srv, http.MethodPatch, "/api/trades/"+trade.ID, map[string]interface{}{"pnl": 200}, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 on patch, got %d: %s", rr.Code, rr.Body.String())
	}
	decodeBody(t, do(t, srv, http.MethodGet, "/api/portfolio", nil, ""), &p)
	if p.CurrentBalance != 10190 {
		t.Errorf("expected balance 10190 after pnl edit, got %v", p.CurrentBalance)
	}

	rr = do(t, srv, http.MethodDelete, "/api/trades/"+trade.ID, nil, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on delete, got %d", rr.Code)
	}
	decodeBody(t, do(t, srv, http.MethodGet, "/api/portfolio", nil, ""), &p)
	if p.CurrentBalance != 10000 {
		t.Errorf("expected balance restored to 10000, got %v", p.CurrentBalance)
	}

	var trades []models.Trade
	decodeBody(t, do(t, srv, http.MethodGet, "/api/trades", nil, ""), &trades)
	if len(trades) != 0 {
		t.Errorf("expected no trades, got %d", len(trades))
	}
}

func TestTrades_UnknownIDIs404(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := do(t, srv, http.MethodPatch, "/api/trades/missing", map[string]interface{}{"fees": 1}, "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
	rr = do(t, srv, http.MethodDelete, "/api/trades/missing", nil, "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestCollections_MethodRules(t *testing.T) {
	srv := newTestServer(t, nil)
	if rr := do(t, srv, http.MethodDelete, "/api/goals", nil, ""); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for DELETE on collection, got %d", rr.Code)
	}
	if rr := do(t, srv, http.MethodPost, "/api/goals/abc", map[string]string{}, ""); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for POST on item, got %d", rr.Code)
	}
	if rr := do(t, srv, http.MethodPatch, "/api/goals/a/b", map[string]string{}, ""); rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for nested path, got %d", rr.Code)
	}
}

func TestCollections_NewestFirst(t *testing.T) {
	srv := newTestServer(t, nil)
	for _, title := range []string{"first", "second"} {
		rr := do(t, srv, http.MethodPost, "/api/journal", map[string]interface{}{
			"date":    "2024-01-01",
			"title":   title,
			"content": "notes",
			"mood":    "neutral",
		}, "")
		if rr.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
		}
	}
	var entries []models.JournalEntry
	decodeBody(t, do(t, srv, http.MethodGet, "/api/journal", nil, ""), &entries)
	if len(entries) != 2 || entries[0].Title != "second" {
		t.Errorf("expected newest first, got %+v", entries)
	}
}

func TestPortfolio_Deposits(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := do(t, srv, http.MethodPost, "/api/portfolio/deposits",
		map[string]interface{}{"amount": 500, "date": "2024-01-02", "description": "top up"}, "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var p models.Portfolio
	decodeBody(t, rr, &p)
	if p.CurrentBalance != 10500 {
		t.Errorf("expected 10500, got %v", p.CurrentBalance)
	}
	if len(p.Deposits) != 1 || p.Deposits[0].ID == "" {
		t.Errorf("expected one stored deposit, got %+v", p.Deposits)
	}

	rr = do(t, srv, http.MethodPost, "/api/portfolio/withdrawals", map[string]interface{}{"amount": 200}, "")
	decodeBody(t, rr, &p)
	if p.CurrentBalance != 10300 {
		t.Errorf("expected 10300 after withdrawal, got %v", p.CurrentBalance)
	}

	if rr := do(t, srv, http.MethodPost, "/api/portfolio/deposits", map[string]interface{}{"amount": -5}, ""); rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for negative amount, got %d", rr.Code)
	}
	if rr := do(t, srv, http.MethodPost, "/api/portfolio/deposits", map[string]interface{}{"amount": 5, "date": "02/01/2024"}, ""); rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad date, got %d", rr.Code)
	}
}

func TestPortfolio_PutCannotDropTransactions(t *testing.T) {
	srv := newTestServer(t, nil)
	do(t, srv, http.MethodPost, "/api/portfolio/deposits", map[string]interface{}{"amount": 100}, "")

	replacement := models.DefaultPortfolio()
	rr := do(t, srv, http.MethodPut, "/api/portfolio", replacement, "")
	if rr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestPortfolio_PatchScalar(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := do(t, srv, http.MethodPatch, "/api/portfolio", map[string]interface{}{"currentBalance": 7777, "currency": "EUR"}, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var p models.Portfolio
	decodeBody(t, rr, &p)
	if p.CurrentBalance != 7777 || p.Currency != "EUR" {
		t.Errorf("expected patched fields, got %+v", p)
	}
}

func TestSettings_PatchAndValidate(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := do(t, srv, http.MethodPatch, "/api/settings", map[string]interface{}{"theme": "dark"}, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var s models.UserSettings
	decodeBody(t, rr, &s)
	if s.Theme != models.ThemeDark || s.Currency != "USD" {
		t.Errorf("expected dark theme with other fields kept, got %+v", s)
	}

	rr = do(t, srv, http.MethodPatch, "/api/settings", map[string]interface{}{"theme": "neon"}, "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown theme, got %d", rr.Code)
	}
}

func TestExportResetImport_RoundTrip(t *testing.T) {
	srv := newTestServer(t, nil)
	do(t, srv, http.MethodPost, "/api/trades", closedTradeBody(150, 10), "")
	do(t, srv, http.MethodPost, "/api/portfolio/deposits", map[string]interface{}{"amount": 500, "date": "2024-01-01"}, "")

	rr := do(t, srv, http.MethodGet, "/api/export", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "trading-journal-export-") || !strings.Contains(cd, ".json") {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}
	exported := rr.Body.Bytes()

	if rr := do(t, srv, http.MethodPost, "/api/reset", nil, ""); rr.Code != http.StatusBadRequest {
		t.Errorf("expected reset without confirm to be rejected, got %d", rr.Code)
	}
	rr = do(t, srv, http.MethodPost, "/api/reset?confirm=true", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 on reset, got %d: %s", rr.Code, rr.Body.String())
	}
	var snap models.Snapshot
	decodeBody(t, rr, &snap)
	if len(snap.Trades) != 0 || snap.Portfolio.CurrentBalance != 10000 {
		t.Fatalf("expected empty defaults after reset, got %d trades balance %v", len(snap.Trades), snap.Portfolio.CurrentBalance)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewReader(exported))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on import, got %d: %s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &snap)
	if len(snap.Trades) != 1 || len(snap.Portfolio.Deposits) != 1 {
		t.Errorf("expected 1 trade and 1 deposit restored, got %d and %d", len(snap.Trades), len(snap.Portfolio.Deposits))
	}
	if snap.Portfolio.CurrentBalance != 10640 {
		t.Errorf("expected balance 10640, got %v", snap.Portfolio.CurrentBalance)
	}
}

func TestExport_Msgpack(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := do(t, srv, http.MethodGet, "/api/export?format=msgpack", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/msgpack" {
		t.Errorf("expected msgpack content type, got %q", ct)
	}
	if rr := do(t, srv, http.MethodGet, "/api/export?format=xml", nil, ""); rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown format, got %d", rr.Code)
	}
}

func TestImport_RejectsInvalidDocuments(t *testing.T) {
	srv := newTestServer(t, nil)

	for name, body := range map[string]string{
		"malformed json": `{"trades": [`,
		"newer version":  `{"version": 99, "trades": []}`,
		"null document":  `null`,
		"no known keys":  `{"exportDate": "2024-03-01T00:00:00Z"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader(body))
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, rr.Code)
		}
	}
}

func TestSummary(t *testing.T) {
	srv := newTestServer(t, nil)
	do(t, srv, http.MethodPost, "/api/trades", closedTradeBody(150, 10), "")

	var sum models.DataSummary
	decodeBody(t, do(t, srv, http.MethodGet, "/api/summary", nil, ""), &sum)
	if sum.TotalTrades != 1 || sum.ClosedTrades != 1 {
		t.Errorf("expected one closed trade, got %+v", sum)
	}
	if sum.FormattedBalance != "$10,140.00" {
		t.Errorf("expected $10,140.00, got %q", sum.FormattedBalance)
	}
}

func TestPortfolioHistoryAndChart(t *testing.T) {
	srv := newTestServer(t, nil)
	do(t, srv, http.MethodPost, "/api/portfolio/deposits", map[string]interface{}{"amount": 500, "date": "2024-01-01"}, "")
	do(t, srv, http.MethodPost, "/api/trades", closedTradeBody(150, 10), "")

	var points []map[string]interface{}
	decodeBody(t, do(t, srv, http.MethodGet, "/api/portfolio/history", nil, ""), &points)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[2]["balance"] != 10640.0 {
		t.Errorf("expected final balance 10640, got %v", points[2]["balance"])
	}

	rr := do(t, srv, http.MethodGet, "/api/portfolio/chart", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("expected PNG signature")
	}
}

func TestChart_EmptyLedger(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := do(t, srv, http.MethodGet, "/api/portfolio/chart", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for a ledger with no events, got %d", rr.Code)
	}
}
