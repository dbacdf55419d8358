package journal

import "errors"

var (
	// ErrNotFound is returned when an id is not in the cache or no longer
	// exists in the store.
	ErrNotFound = errors.New("journal: entity not found")

	// ErrAppendOnly is returned when a portfolio update drops or rewrites
	// an existing deposit or withdrawal.
	ErrAppendOnly = errors.New("journal: transactions are append-only")

	// ErrNotLoaded is returned by mutations issued before LoadAll succeeded.
	ErrNotLoaded = errors.New("journal: cache not loaded")
)
