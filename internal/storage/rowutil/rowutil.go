// Package rowutil holds helpers shared by the RemoteStore backends.
package rowutil

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/oklog/ulid/v2"
)

// Column names every backend manages itself.
const (
	ColID        = "id"
	ColOwner     = "user_id"
	ColCreatedAt = "created_at"
	ColUpdatedAt = "updated_at"
)

// TimeLayout is fixed width for UTC times so timestamps sort as text.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Timestamp formats t for storage.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// NewID returns a new lexically sortable identifier.
func NewID() string {
	return ulid.Make().String()
}

// CheckTable rejects table names outside the journal schema. Backends that
// build statements from the table name rely on this.
func CheckTable(table string) error {
	if slices.Contains(models.AllTables(), table) {
		return nil
	}
	return fmt.Errorf("unknown table %q", table)
}

// IsSingleton reports whether table holds one row per owner.
func IsSingleton(table string) bool {
	return slices.Contains(models.SingletonTables, table)
}

// Strip removes the columns a caller may not set.
func Strip(row models.Row) models.Row {
	out := make(models.Row, len(row))
	for k, v := range row {
		switch k {
		case ColID, ColOwner, ColCreatedAt, ColUpdatedAt:
			continue
		}
		out[k] = v
	}
	return out
}

// Normalize round-trips a row through JSON so it carries the value types a
// networked store would return.
func Normalize(row models.Row) (models.Row, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	var out models.Row
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	return out, nil
}

// Merge returns a copy of base with patch applied on top.
func Merge(base, patch models.Row) models.Row {
	out := make(models.Row, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// Public returns the row as handed to callers: the owner column removed.
func Public(row models.Row) models.Row {
	out := make(models.Row, len(row))
	for k, v := range row {
		if k == ColOwner {
			continue
		}
		out[k] = v
	}
	return out
}
