// Package sqlite implements RemoteStore on an embedded relational database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/tradejournal/internal/common"
	"github.com/bobmcallan/tradejournal/internal/interfaces"
	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/bobmcallan/tradejournal/internal/storage/rowutil"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store implements interfaces.RemoteStore using SQLite.
type Store struct {
	conn    *sql.DB
	path    string
	logger  *common.Logger
	columns map[string]map[string]bool // table -> writable columns
	now     func() time.Time
}

var _ interfaces.RemoteStore = (*Store)(nil)

// NewStore opens (creating if needed) the database at path and applies the
// schema.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL for concurrent readers; busy_timeout so parallel loads queue instead of failing
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(8)
	conn.SetMaxIdleConns(4)

	s := &Store{conn: conn, path: path, logger: logger, now: time.Now}
	if err := s.migrate(context.Background()); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Info().Str("path", path).Msg("SQLite store opened")
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	s.columns = make(map[string]map[string]bool)
	for _, table := range models.AllTables() {
		cols, err := s.tableColumns(ctx, table)
		if err != nil {
			return err
		}
		s.columns[table] = cols
	}
	return nil
}

func (s *Store) tableColumns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := s.conn.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notnull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		switch name {
		case rowutil.ColID, rowutil.ColOwner, rowutil.ColCreatedAt, rowutil.ColUpdatedAt:
			continue
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

func (s *Store) Backend() string { return "sqlite" }

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) SelectAll(ctx context.Context, table, owner string) ([]models.Row, error) {
	if err := rowutil.CheckTable(table); err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT * FROM %s WHERE user_id = ? ORDER BY created_at DESC, rowid DESC", table)
	rows, err := s.conn.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", table, err)
	}
	defer rows.Close()
	return scanRows(rows)
}

func (s *Store) SelectOne(ctx context.Context, table, owner string) (models.Row, error) {
	if err := rowutil.CheckTable(table); err != nil {
		return nil, err
	}
	return s.selectWhere(ctx, table, "user_id = ?", owner)
}

func (s *Store) Insert(ctx context.Context, table, owner string, row models.Row) (models.Row, error) {
	if err := rowutil.CheckTable(table); err != nil {
		return nil, err
	}
	cols, args, err := s.bind(table, rowutil.Strip(row))
	if err != nil {
		return nil, err
	}

	id := rowutil.NewID()
	ts := rowutil.Timestamp(s.now())
	cols = append(cols, rowutil.ColID, rowutil.ColOwner, rowutil.ColCreatedAt, rowutil.ColUpdatedAt)
	args = append(args, id, owner, ts, ts)

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), placeholders(len(cols)))
	if _, err := s.conn.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return s.selectWhere(ctx, table, "id = ?", id)
}

func (s *Store) Update(ctx context.Context, table, owner, id string, patch models.Row) (models.Row, error) {
	if err := rowutil.CheckTable(table); err != nil {
		return nil, err
	}
	cols, args, err := s.bind(table, rowutil.Strip(patch))
	if err != nil {
		return nil, err
	}

	sets := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		sets = append(sets, c+" = ?")
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, rowutil.Timestamp(s.now()), id, owner)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ? AND user_id = ?", table, strings.Join(sets, ", "))
	res, err := s.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s/%s: %w", table, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("update %s/%s: %w", table, id, interfaces.ErrNoRows)
	}
	return s.selectWhere(ctx, table, "id = ? AND user_id = ?", id, owner)
}

func (s *Store) Upsert(ctx context.Context, table, owner string, row models.Row) (models.Row, error) {
	if err := rowutil.CheckTable(table); err != nil {
		return nil, err
	}
	cols, args, err := s.bind(table, rowutil.Strip(row))
	if err != nil {
		return nil, err
	}

	updates := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	updates = append(updates, "updated_at = excluded.updated_at")

	ts := rowutil.Timestamp(s.now())
	cols = append(cols, rowutil.ColID, rowutil.ColOwner, rowutil.ColCreatedAt, rowutil.ColUpdatedAt)
	args = append(args, rowutil.NewID(), owner, ts, ts)

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(user_id) DO UPDATE SET %s",
		table, strings.Join(cols, ", "), placeholders(len(cols)), strings.Join(updates, ", "))
	if _, err := s.conn.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to upsert %s: %w", table, err)
	}
	return s.selectWhere(ctx, table, "user_id = ?", owner)
}

func (s *Store) Delete(ctx context.Context, table, owner, id string) error {
	if err := rowutil.CheckTable(table); err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ? AND user_id = ?", table)
	if _, err := s.conn.ExecContext(ctx, query, id, owner); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", table, id, err)
	}
	return nil
}

func (s *Store) DeleteAll(ctx context.Context, table, owner string) error {
	if err := rowutil.CheckTable(table); err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE user_id = ?", table)
	if _, err := s.conn.ExecContext(ctx, query, owner); err != nil {
		return fmt.Errorf("failed to delete all %s: %w", table, err)
	}
	return nil
}

func (s *Store) selectWhere(ctx context.Context, table, where string, args ...any) (models.Row, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s LIMIT 1", table, where)
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", table, err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, interfaces.ErrNoRows
	}
	return out[0], nil
}

// bind validates row keys against the table's columns and encodes values.
// Column order is sorted so statements are stable.
func (s *Store) bind(table string, row models.Row) ([]string, []any, error) {
	allowed := s.columns[table]
	cols := make([]string, 0, len(row))
	for c := range row {
		if !allowed[c] {
			return nil, nil, fmt.Errorf("unknown column %s.%s", table, c)
		}
		cols = append(cols, c)
	}
	slices.Sort(cols)

	args := make([]any, len(cols))
	for i, c := range cols {
		v, err := encodeValue(row[c])
		if err != nil {
			return nil, nil, fmt.Errorf("encode %s.%s: %w", table, c, err)
		}
		args[i] = v
	}
	return cols, args, nil
}

func encodeValue(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return x, nil
	case bool:
		if x {
			return int64(1), nil
		}
		return int64(0), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case time.Time:
		return rowutil.Timestamp(x), nil
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	}
}

func scanRows(rows *sql.Rows) ([]models.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []models.Row{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(models.Row, len(cols))
		for i, c := range cols {
			if c == rowutil.ColOwner {
				continue
			}
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return out, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
