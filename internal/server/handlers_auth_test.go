package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/bobmcallan/tradejournal/internal/common"
	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func withAuth(t *testing.T, users ...common.UserCredential) func(*common.Config) {
	t.Helper()
	return func(cfg *common.Config) {
		cfg.Auth.Required = true
		cfg.Auth.JWTSecret = testSecret
		cfg.Auth.LoginRate = 100
		cfg.Auth.LoginBurst = 100
		cfg.Auth.Users = users
	}
}

func testUser(t *testing.T, id, email, password string) common.UserCredential {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return common.UserCredential{ID: id, Email: email, Name: id, PasswordHash: string(hash)}
}

func login(t *testing.T, srv *Server, email, password string) string {
	t.Helper()
	rr := do(t, srv, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, rr.Code, rr.Body.String())
	}
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	decodeBody(t, rr, &resp)
	if resp.Data.Token == "" {
		t.Fatal("expected token in login response")
	}
	return resp.Data.Token
}

func TestSignAndValidateJWT(t *testing.T) {
	cfg := common.AuthConfig{JWTSecret: testSecret, TokenExpiry: "1h"}
	token, err := signJWT(common.UserCredential{ID: "u1", Email: "a@b.c"}, &cfg)
	if err != nil {
		t.Fatalf("signJWT: %v", err)
	}

	_, claims, err := validateJWT(token, []byte(testSecret))
	if err != nil {
		t.Fatalf("validateJWT: %v", err)
	}
	if claims["sub"] != "u1" || claims["email"] != "a@b.c" {
		t.Errorf("unexpected claims %v", claims)
	}

	if _, _, err := validateJWT(token, []byte("other-secret")); err == nil {
		t.Error("expected failure with wrong secret")
	}
}

func TestValidateJWT_Expired(t *testing.T) {
	claims := jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Minute).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, _, err := validateJWT(token, []byte(testSecret)); err == nil {
		t.Error("expected expired token to fail")
	}
}

func TestAuthRequired_RejectsAnonymous(t *testing.T) {
	srv := newTestServer(t, withAuth(t, testUser(t, "alice", "alice@example.com", "pw")))

	rr := do(t, srv, http.MethodGet, "/api/snapshot", nil, "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if rr.Header().Get("WWW-Authenticate") == "" {
		t.Error("expected WWW-Authenticate challenge")
	}

	if rr := do(t, srv, http.MethodGet, "/api/health", nil, ""); rr.Code != http.StatusOK {
		t.Errorf("expected health to stay public, got %d", rr.Code)
	}
	if rr := do(t, srv, http.MethodGet, "/api/snapshot", nil, "garbage"); rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for garbage token, got %d", rr.Code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	srv := newTestServer(t, withAuth(t, testUser(t, "alice", "alice@example.com", "pw")))

	rr := do(t, srv, http.MethodPost, "/api/auth/login", map[string]string{"email": "alice@example.com", "password": "nope"}, "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
	rr = do(t, srv, http.MethodPost, "/api/auth/login", map[string]string{"email": "bob@example.com", "password": "pw"}, "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for unknown user, got %d", rr.Code)
	}
}

func TestLogin_RateLimited(t *testing.T) {
	srv := newTestServer(t, func(cfg *common.Config) {
		cfg.Auth.LoginRate = 0.001
		cfg.Auth.LoginBurst = 1
	})

	body := map[string]string{"email": "x@example.com", "password": "pw"}
	if rr := do(t, srv, http.MethodPost, "/api/auth/login", body, ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected first attempt to reach credential check, got %d", rr.Code)
	}
	if rr := do(t, srv, http.MethodPost, "/api/auth/login", body, ""); rr.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rr.Code)
	}
}

func TestAuth_OwnersAreIsolated(t *testing.T) {
	srv := newTestServer(t, withAuth(t,
		testUser(t, "alice", "alice@example.com", "pw-a"),
		testUser(t, "bob", "bob@example.com", "pw-b"),
	))
	alice := login(t, srv, "alice@example.com", "pw-a")
	bob := login(t, srv, "bob@example.com", "pw-b")

	rr := do(t, srv, http.MethodPost, "/api/trades", closedTradeBody(150, 10), alice)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var trades []models.Trade
	decodeBody(t, do(t, srv, http.MethodGet, "/api/trades", nil, alice), &trades)
	if len(trades) != 1 {
		t.Errorf("expected alice to see 1 trade, got %d", len(trades))
	}
	decodeBody(t, do(t, srv, http.MethodGet, "/api/trades", nil, bob), &trades)
	if len(trades) != 0 {
		t.Errorf("expected bob to see no trades, got %d", len(trades))
	}

	rr = do(t, srv, http.MethodPost, "/api/auth/validate", nil, bob)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 on validate, got %d", rr.Code)
	}
	var resp struct {
		Data map[string]string `json:"data"`
	}
	decodeBody(t, rr, &resp)
	if resp.Data["user_id"] != "bob" {
		t.Errorf("expected user_id bob, got %v", resp.Data)
	}
}

func TestAuthNotRequired_UsesTenant(t *testing.T) {
	srv := newTestServer(t, func(cfg *common.Config) {
		cfg.Tenant.ID = "solo"
	})
	if rr := do(t, srv, http.MethodPost, "/api/goals", map[string]interface{}{
		"type": "monthly", "category": "profit", "priority": "high",
		"target": 1000, "deadline": "2024-12-31", "description": "grow", "isActive": true,
	}, ""); rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if owners := srv.app.Registry.Owners(); len(owners) != 1 || owners[0] != "solo" {
		t.Errorf("expected the tenant cache only, got %v", owners)
	}
}
