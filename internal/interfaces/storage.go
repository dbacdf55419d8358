// Package interfaces defines service contracts for tradejournal
package interfaces

import (
	"context"
	"errors"

	"github.com/bobmcallan/tradejournal/internal/models"
)

// ErrNoRows is returned by SelectOne and Update when nothing matches.
var ErrNoRows = errors.New("no rows")

// RemoteStore is the system of record behind the journal cache. Every call is
// scoped to an owner; rows never leak across owners.
type RemoteStore interface {
	// SelectAll returns every row the owner has in table, newest first.
	SelectAll(ctx context.Context, table, owner string) ([]models.Row, error)

	// SelectOne returns the owner's singleton row, or ErrNoRows.
	SelectOne(ctx context.Context, table, owner string) (models.Row, error)

	// Insert stores row and returns it with the store-assigned id and
	// created_at filled in.
	Insert(ctx context.Context, table, owner string, row models.Row) (models.Row, error)

	// Update merges patch into the row with the given id and returns the
	// stored result. Keys absent from patch keep their value.
	Update(ctx context.Context, table, owner, id string, patch models.Row) (models.Row, error)

	// Upsert writes the owner's singleton row, creating it if needed.
	Upsert(ctx context.Context, table, owner string, row models.Row) (models.Row, error)

	// Delete removes one row by id.
	Delete(ctx context.Context, table, owner, id string) error

	// DeleteAll removes every row the owner has in table.
	DeleteAll(ctx context.Context, table, owner string) error

	// Backend names the implementation, for logs and the banner.
	Backend() string

	Close() error
}

// BackupSink receives export documents written by the backup job.
type BackupSink interface {
	Put(ctx context.Context, name string, data []byte) error
	Name() string
}
