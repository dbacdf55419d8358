package app

import (
	"context"
	"os"
	"time"

	"github.com/bobmcallan/tradejournal/internal/common"
	"github.com/bobmcallan/tradejournal/internal/services/journal"
)

// warmCache loads each owner's journal on startup so the first request is fast.
func warmCache(ctx context.Context, registry *journal.Registry, owners []string, logger *common.Logger) {
	if os.Getenv("TJ_WARM_CACHE") == "off" {
		logger.Info().Msg("Warm cache: disabled via TJ_WARM_CACHE=off")
		return
	}

	start := time.Now()
	loaded := 0
	for _, owner := range owners {
		if ctx.Err() != nil {
			break
		}
		if _, err := registry.Get(ctx, owner); err != nil {
			// Not fatal: the first request for this owner retries the load
			logger.Warn().Err(err).Str("owner", owner).Msg("Warm cache: load failed")
			continue
		}
		loaded++
	}

	logger.Info().
		Int("owners", loaded).
		Dur("elapsed", time.Since(start)).
		Msg("Warm cache: complete")
}
