package common

import (
	"context"
	"testing"
)

func TestUserContext_RoundTrip(t *testing.T) {
	ctx := context.Background()

	// Absent by default
	if uc := UserContextFromContext(ctx); uc != nil {
		t.Error("Expected nil UserContext from empty context")
	}

	ctx = WithUserContext(ctx, &UserContext{UserID: "user-123", Email: "trader@example.com"})

	got := UserContextFromContext(ctx)
	if got == nil {
		t.Fatal("Expected non-nil UserContext")
	}
	if got.UserID != "user-123" {
		t.Errorf("Expected user-123, got %s", got.UserID)
	}
	if got.Email != "trader@example.com" {
		t.Errorf("Expected trader@example.com, got %s", got.Email)
	}
}

func TestResolveUserID(t *testing.T) {
	ctx := context.Background()

	if got := ResolveUserID(ctx, DefaultTenantID); got != DefaultTenantID {
		t.Errorf("Expected fallback %s, got %s", DefaultTenantID, got)
	}

	ctx = WithUserContext(ctx, &UserContext{})
	if got := ResolveUserID(ctx, "tenant"); got != "tenant" {
		t.Errorf("Expected fallback for empty UserID, got %s", got)
	}

	ctx = WithUserContext(ctx, &UserContext{UserID: "abc"})
	if got := ResolveUserID(ctx, "tenant"); got != "abc" {
		t.Errorf("Expected abc, got %s", got)
	}
}
