// Package surrealdb implements RemoteStore on SurrealDB. Each journal table
// is a schemaless SurrealDB table; rows carry their own row_id and user_id
// fields next to the record id.
package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/tradejournal/internal/common"
	"github.com/bobmcallan/tradejournal/internal/interfaces"
	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/bobmcallan/tradejournal/internal/storage/rowutil"
	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

const rowIDField = "row_id"

// Store implements interfaces.RemoteStore using SurrealDB.
type Store struct {
	db     *surrealdb.DB
	logger *common.Logger
	now    func() time.Time
}

var _ interfaces.RemoteStore = (*Store)(nil)

// Connect dials SurrealDB, signs in, selects the namespace and database and
// defines the journal tables.
func Connect(ctx context.Context, logger *common.Logger, cfg common.StorageConfig) (*Store, error) {
	db, err := surrealdb.New(cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": cfg.Username,
		"pass": cfg.Password,
	}); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	s, err := NewStore(ctx, db, logger)
	if err != nil {
		db.Close(ctx)
		return nil, err
	}

	logger.Info().
		Str("address", cfg.Address).
		Str("namespace", cfg.Namespace).
		Str("database", cfg.Database).
		Msg("SurrealDB store initialized")
	return s, nil
}

// NewStore wraps an already connected database and defines the tables.
func NewStore(ctx context.Context, db *surrealdb.DB, logger *common.Logger) (*Store, error) {
	// SurrealDB v3 errors on querying non-existent tables
	for _, table := range models.AllTables() {
		sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS; DEFINE INDEX IF NOT EXISTS %s_owner ON %s FIELDS user_id",
			table, table, table)
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return nil, fmt.Errorf("failed to define table %s: %w", table, err)
		}
	}
	return &Store{db: db, logger: logger, now: time.Now}, nil
}

func (s *Store) Backend() string { return "surrealdb" }

func (s *Store) Close() error {
	s.db.Close(context.Background())
	return nil
}

func (s *Store) SelectAll(ctx context.Context, table, owner string) ([]models.Row, error) {
	if err := rowutil.CheckTable(table); err != nil {
		return nil, err
	}
	sql := fmt.Sprintf("SELECT * FROM %s WHERE user_id = $owner ORDER BY created_at DESC, row_id DESC", table)
	rows, err := s.query(ctx, sql, map[string]any{"owner": owner})
	if err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", table, err)
	}
	return rows, nil
}

func (s *Store) SelectOne(ctx context.Context, table, owner string) (models.Row, error) {
	if err := rowutil.CheckTable(table); err != nil {
		return nil, err
	}
	vars := map[string]any{
		"rid":   surrealmodels.NewRecordID(table, owner),
		"owner": owner,
	}
	rows, err := s.query(ctx, "SELECT * FROM $rid WHERE user_id = $owner", vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, interfaces.ErrNoRows
		}
		return nil, fmt.Errorf("failed to select %s: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, interfaces.ErrNoRows
	}
	return rows[0], nil
}

func (s *Store) Insert(ctx context.Context, table, owner string, row models.Row) (models.Row, error) {
	if err := rowutil.CheckTable(table); err != nil {
		return nil, err
	}
	id := uuid.Must(uuid.NewV7()).String()
	ts := rowutil.Timestamp(s.now())

	doc := rowutil.Strip(row)
	doc[rowIDField] = id
	doc[rowutil.ColOwner] = owner
	doc[rowutil.ColCreatedAt] = ts
	doc[rowutil.ColUpdatedAt] = ts

	vars := map[string]any{
		"rid": surrealmodels.NewRecordID(table, id),
		"doc": doc,
	}
	rows, err := s.query(ctx, "CREATE $rid CONTENT $doc RETURN AFTER", vars)
	if err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert into %s returned no row", table)
	}
	return rows[0], nil
}

func (s *Store) Update(ctx context.Context, table, owner, id string, patch models.Row) (models.Row, error) {
	if err := rowutil.CheckTable(table); err != nil {
		return nil, err
	}
	doc := rowutil.Strip(patch)
	doc[rowutil.ColUpdatedAt] = rowutil.Timestamp(s.now())

	vars := map[string]any{
		"rid":   surrealmodels.NewRecordID(table, id),
		"owner": owner,
		"patch": doc,
	}
	rows, err := s.query(ctx, "UPDATE $rid MERGE $patch WHERE user_id = $owner RETURN AFTER", vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("update %s/%s: %w", table, id, interfaces.ErrNoRows)
		}
		return nil, fmt.Errorf("failed to update %s/%s: %w", table, id, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("update %s/%s: %w", table, id, interfaces.ErrNoRows)
	}
	return rows[0], nil
}

func (s *Store) Upsert(ctx context.Context, table, owner string, row models.Row) (models.Row, error) {
	if err := rowutil.CheckTable(table); err != nil {
		return nil, err
	}
	ts := rowutil.Timestamp(s.now())

	doc := rowutil.Strip(row)
	doc[rowIDField] = owner
	doc[rowutil.ColOwner] = owner
	doc[rowutil.ColUpdatedAt] = ts

	sql := `UPSERT $rid MERGE $doc;
		UPDATE $rid SET created_at = $ts WHERE created_at = NONE;
		SELECT * FROM $rid`
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID(table, owner),
		"doc": doc,
		"ts":  ts,
	}
	rows, err := s.query(ctx, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert %s: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("upsert %s returned no row", table)
	}
	return rows[0], nil
}

func (s *Store) Delete(ctx context.Context, table, owner, id string) error {
	if err := rowutil.CheckTable(table); err != nil {
		return err
	}
	vars := map[string]any{
		"rid":   surrealmodels.NewRecordID(table, id),
		"owner": owner,
	}
	if _, err := surrealdb.Query[any](ctx, s.db, "DELETE $rid WHERE user_id = $owner", vars); err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete %s/%s: %w", table, id, err)
	}
	return nil
}

func (s *Store) DeleteAll(ctx context.Context, table, owner string) error {
	if err := rowutil.CheckTable(table); err != nil {
		return err
	}
	sql := fmt.Sprintf("DELETE FROM %s WHERE user_id = $owner", table)
	if _, err := surrealdb.Query[any](ctx, s.db, sql, map[string]any{"owner": owner}); err != nil {
		return fmt.Errorf("failed to delete all %s: %w", table, err)
	}
	return nil
}

// query runs sql and returns the rows of the last statement.
func (s *Store) query(ctx context.Context, sql string, vars map[string]any) ([]models.Row, error) {
	results, err := surrealdb.Query[[]map[string]any](ctx, s.db, sql, vars)
	if err != nil {
		return nil, err
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}
	docs := (*results)[len(*results)-1].Result
	rows := make([]models.Row, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, toRow(doc))
	}
	return rows, nil
}

// toRow replaces the record id with row_id and drops the owner column.
func toRow(doc map[string]any) models.Row {
	row := make(models.Row, len(doc))
	for k, v := range doc {
		switch k {
		case "id", rowutil.ColOwner:
			continue
		case rowIDField:
			row[rowutil.ColID] = v
		default:
			row[k] = plain(v)
		}
	}
	return row
}

// plain converts decoder map types to map[string]any so nested objects can
// be re-encoded as JSON.
func plain(v any) any {
	switch x := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = plain(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = plain(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = plain(val)
		}
		return out
	default:
		return v
	}
}

func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "does not exist")
}
