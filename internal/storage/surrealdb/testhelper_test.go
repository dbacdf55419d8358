package surrealdb

import (
	"context"
	"testing"

	"github.com/bobmcallan/tradejournal/internal/common"
	tcommon "github.com/bobmcallan/tradejournal/tests/common"
	surreal "github.com/surrealdb/surrealdb.go"
)

// testDB connects to the shared SurrealDB container and selects a database
// of its own for the calling test.
func testDB(t *testing.T) *surreal.DB {
	t.Helper()

	cfg := tcommon.StartSurrealDB(t).StorageConfig(t)
	ctx := context.Background()

	db, err := surreal.New(cfg.Address)
	if err != nil {
		t.Fatalf("connect to SurrealDB: %v", err)
	}
	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": cfg.Username,
		"pass": cfg.Password,
	}); err != nil {
		t.Fatalf("sign in to SurrealDB: %v", err)
	}
	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		t.Fatalf("select namespace/database: %v", err)
	}

	t.Cleanup(func() {
		db.Close(context.Background())
	})
	return db
}

// testLogger returns a silent logger for tests.
func testLogger() *common.Logger {
	return common.NewSilentLogger()
}
