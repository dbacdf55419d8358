// Package storage selects the RemoteStore backend named in the configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/bobmcallan/tradejournal/internal/common"
	"github.com/bobmcallan/tradejournal/internal/interfaces"
	"github.com/bobmcallan/tradejournal/internal/storage/badger"
	"github.com/bobmcallan/tradejournal/internal/storage/memstore"
	"github.com/bobmcallan/tradejournal/internal/storage/sqlite"
	"github.com/bobmcallan/tradejournal/internal/storage/surrealdb"
)

// NewRemoteStore creates the store for config.Backend.
// Supported backends: "sqlite" (default), "surrealdb", "badger", "memory".
func NewRemoteStore(ctx context.Context, logger *common.Logger, config common.StorageConfig) (interfaces.RemoteStore, error) {
	backend := config.Backend
	if backend == "" {
		backend = common.BackendSQLite
	}

	switch backend {
	case common.BackendSQLite:
		return sqlite.NewStore(logger, config.Path)

	case common.BackendBadger:
		return badger.NewStore(logger, config.Path)

	case common.BackendSurrealDB:
		ctx, cancel := context.WithTimeout(ctx, config.GetTimeout())
		defer cancel()
		return surrealdb.Connect(ctx, logger, config)

	case common.BackendMemory:
		logger.Warn().Msg("Using in-memory store, data is lost on exit")
		return memstore.New(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: sqlite, surrealdb, badger, memory)", backend)
	}
}
