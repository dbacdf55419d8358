package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bobmcallan/tradejournal/internal/app"
	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/bobmcallan/tradejournal/internal/server"
)

// testServer creates an httptest.Server with the full tradejournal-server handler.
func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	a, err := app.NewApp(writeTestConfig(t))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })

	srv := server.NewServer(a)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// writeTestConfig writes a config using a sqlite file in a temp directory.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	config := `
[storage]
backend = "sqlite"
path = "` + filepath.Join(dir, "journal.db") + `"

[logging]
level = "error"
`
	configPath := filepath.Join(dir, "tradejournal.toml")
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}

// TestHealthEndpoint verifies GET /api/health returns 200 with the backend name.
func TestHealthEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["backend"] != "sqlite" {
		t.Errorf("expected backend sqlite, got %v", body["backend"])
	}
}

// TestDepositPersistsAcrossRequests exercises the full stack against sqlite.
func TestDepositPersistsAcrossRequests(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/portfolio/deposits", "application/json",
		strings.NewReader(`{"amount": 250, "date": "2024-05-01"}`))
	if err != nil {
		t.Fatalf("POST deposit failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp, err = http.Post(ts.URL+"/api/refresh", "application/json", nil)
	if err != nil {
		t.Fatalf("POST refresh failed: %v", err)
	}
	defer resp.Body.Close()

	var snap models.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Portfolio.Deposits) != 1 || snap.Portfolio.CurrentBalance != 10250 {
		t.Errorf("expected reloaded deposit and balance 10250, got %d deposits balance %v",
			len(snap.Portfolio.Deposits), snap.Portfolio.CurrentBalance)
	}
}
