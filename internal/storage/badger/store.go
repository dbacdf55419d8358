// Package badger implements RemoteStore on an embedded BadgerHold database.
// Every row is one record keyed by table, owner and id.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/bobmcallan/tradejournal/internal/common"
	"github.com/bobmcallan/tradejournal/internal/interfaces"
	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/bobmcallan/tradejournal/internal/storage/rowutil"
	"github.com/timshannon/badgerhold/v4"
)

// record is the stored form of a row. Data holds the row as JSON.
type record struct {
	Table     string
	Owner     string
	ID        string
	CreatedAt string
	Data      string
}

// Store implements interfaces.RemoteStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
	mu     sync.Mutex // serialises read-modify-write
	now    func() time.Time
}

var _ interfaces.RemoteStore = (*Store)(nil)

// NewStore creates a new BadgerHold store at the given directory path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create badger directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // Disable default badger logger

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Info().Str("path", path).Msg("BadgerHold store opened")

	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// keySep is the composite key separator. A null byte cannot appear in
// table names, owner ids or row ids.
const keySep = "\x00"

func compositeKey(table, owner, id string) string {
	return table + keySep + owner + keySep + id
}

func (s *Store) Backend() string { return "badger" }

// Close closes the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) find(table, owner string) ([]record, error) {
	var recs []record
	query := badgerhold.Where("Table").Eq(table).And("Owner").Eq(owner)
	if err := s.db.Find(&recs, query); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	return recs, nil
}

func (s *Store) SelectAll(ctx context.Context, table, owner string) ([]models.Row, error) {
	if err := check(ctx, table); err != nil {
		return nil, err
	}
	recs, err := s.find(table, owner)
	if err != nil {
		return nil, err
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].CreatedAt != recs[j].CreatedAt {
			return recs[i].CreatedAt > recs[j].CreatedAt
		}
		return recs[i].ID > recs[j].ID
	})

	out := make([]models.Row, 0, len(recs))
	for _, rec := range recs {
		row, err := decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *Store) SelectOne(ctx context.Context, table, owner string) (models.Row, error) {
	if err := check(ctx, table); err != nil {
		return nil, err
	}
	rec, err := s.get(table, owner, owner)
	if err != nil {
		return nil, err
	}
	return decode(rec)
}

func (s *Store) Insert(ctx context.Context, table, owner string, row models.Row) (models.Row, error) {
	if err := check(ctx, table); err != nil {
		return nil, err
	}
	stored := rowutil.Strip(row)
	ts := rowutil.Timestamp(s.now())
	stored[rowutil.ColID] = rowutil.NewID()
	stored[rowutil.ColCreatedAt] = ts
	stored[rowutil.ColUpdatedAt] = ts

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(table, owner, stored)
}

func (s *Store) Update(ctx context.Context, table, owner, id string, patch models.Row) (models.Row, error) {
	if err := check(ctx, table); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.get(table, owner, id)
	if err != nil {
		return nil, fmt.Errorf("update %s/%s: %w", table, id, err)
	}
	current, err := decode(rec)
	if err != nil {
		return nil, err
	}
	merged := rowutil.Merge(current, rowutil.Strip(patch))
	merged[rowutil.ColUpdatedAt] = rowutil.Timestamp(s.now())
	return s.put(table, owner, merged)
}

func (s *Store) Upsert(ctx context.Context, table, owner string, row models.Row) (models.Row, error) {
	if err := check(ctx, table); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ts := rowutil.Timestamp(s.now())
	base := models.Row{
		rowutil.ColID:        owner,
		rowutil.ColCreatedAt: ts,
	}
	if rec, err := s.get(table, owner, owner); err == nil {
		if base, err = decode(rec); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, interfaces.ErrNoRows) {
		return nil, err
	}

	merged := rowutil.Merge(base, rowutil.Strip(row))
	merged[rowutil.ColUpdatedAt] = ts
	return s.put(table, owner, merged)
}

func (s *Store) Delete(ctx context.Context, table, owner, id string) error {
	if err := check(ctx, table); err != nil {
		return err
	}
	if err := s.db.Delete(compositeKey(table, owner, id), record{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete %s/%s: %w", table, id, err)
	}
	return nil
}

func (s *Store) DeleteAll(ctx context.Context, table, owner string) error {
	if err := check(ctx, table); err != nil {
		return err
	}
	query := badgerhold.Where("Table").Eq(table).And("Owner").Eq(owner)
	if err := s.db.DeleteMatching(record{}, query); err != nil {
		return fmt.Errorf("failed to delete all %s: %w", table, err)
	}
	return nil
}

func (s *Store) get(table, owner, id string) (record, error) {
	var rec record
	if err := s.db.Get(compositeKey(table, owner, id), &rec); err != nil {
		if err == badgerhold.ErrNotFound {
			return record{}, interfaces.ErrNoRows
		}
		return record{}, fmt.Errorf("failed to get %s/%s: %w", table, id, err)
	}
	return rec, nil
}

// put writes row and returns it as a caller would read it back.
func (s *Store) put(table, owner string, row models.Row) (models.Row, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("encode %s row: %w", table, err)
	}
	id, _ := row[rowutil.ColID].(string)
	created, _ := row[rowutil.ColCreatedAt].(string)
	rec := record{Table: table, Owner: owner, ID: id, CreatedAt: created, Data: string(data)}
	if err := s.db.Upsert(compositeKey(table, owner, id), rec); err != nil {
		return nil, fmt.Errorf("failed to write %s/%s: %w", table, id, err)
	}
	return decode(rec)
}

func decode(rec record) (models.Row, error) {
	var row models.Row
	if err := json.Unmarshal([]byte(rec.Data), &row); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", rec.Table, rec.ID, err)
	}
	return row, nil
}

func check(ctx context.Context, table string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return rowutil.CheckTable(table)
}
