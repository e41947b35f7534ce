// Package sqlite provides the SQLite backing store adapter.
//
// Table layout is configurable per entity type via store.Config; values are
// stored as JSON text in the value column, with the empty string as the
// absence sentinel.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/metakit/store"
	"github.com/roach88/metakit/value"
)

// Store is a store.Adapter over a SQLite database.
// Uses WAL mode for concurrent read access.
type Store struct {
	db  *sql.DB
	cfg store.Config
}

// Open creates or opens a SQLite database at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// Meta tables are owned by the host application; use CreateSchema to create
// them when the host has not.
func Open(path string, cfg store.Config) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	for entityType, tm := range cfg.Tables {
		if err := tm.Validate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("table map for %q: %w", entityType, err)
		}
	}

	return &Store{db: db, cfg: cfg}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer the Adapter methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// tableFor resolves and validates the table map for an entity type. The
// convention fallback derives identifiers from the entity type itself, so
// every data path revalidates before splicing them into query text.
func (s *Store) tableFor(entityType string) (store.TableMap, error) {
	tm := s.cfg.TableFor(entityType)
	if err := tm.Validate(); err != nil {
		return store.TableMap{}, fmt.Errorf("table map for %q: %w", entityType, err)
	}
	return tm, nil
}

// CreateSchema creates the meta table for each entity type if it does not
// exist, with a UNIQUE index on (id, key) so upserts can rely on it.
// Idempotent - safe to call multiple times.
func (s *Store) CreateSchema(ctx context.Context, entityTypes ...string) error {
	for _, entityType := range entityTypes {
		tm, err := s.tableFor(entityType)
		if err != nil {
			return err
		}

		ddl := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				meta_id INTEGER PRIMARY KEY AUTOINCREMENT,
				%[2]s INTEGER NOT NULL,
				%[3]s TEXT NOT NULL,
				%[4]s TEXT NOT NULL DEFAULT ''
			)`, tm.Table, tm.IDColumn, tm.KeyColumn, tm.ValueColumn)
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table %s: %w", tm.Table, err)
		}

		idx := fmt.Sprintf(`
			CREATE UNIQUE INDEX IF NOT EXISTS idx_%[1]s_entity_key
			ON %[1]s(%[2]s, %[3]s)`, tm.Table, tm.IDColumn, tm.KeyColumn)
		if _, err := s.db.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("create index on %s: %w", tm.Table, err)
		}
	}
	return nil
}

// Get returns the stored value for one triple. The empty string in the
// value column is the absence sentinel. Rows whose text does not decode as
// JSON are returned as plain strings, tolerating legacy data.
func (s *Store) Get(ctx context.Context, entityType string, id int64, key string) (value.Value, bool, error) {
	tm, err := s.tableFor(entityType)
	if err != nil {
		return nil, false, err
	}

	var raw string
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ? AND %s = ? LIMIT 1`,
		tm.ValueColumn, tm.Table, tm.IDColumn, tm.KeyColumn)
	err = s.db.QueryRowContext(ctx, q, id, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s.%s: %w", entityType, key, err)
	}

	if raw == "" {
		return nil, false, nil
	}

	v, err := value.Decode([]byte(raw))
	if err != nil {
		return value.String(raw), true, nil
	}
	return v, true, nil
}

// GetAll returns every present attribute for an entity.
func (s *Store) GetAll(ctx context.Context, entityType string, id int64) (map[string][]value.Value, error) {
	tm, err := s.tableFor(entityType)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = ? ORDER BY %s ASC`,
		tm.KeyColumn, tm.ValueColumn, tm.Table, tm.IDColumn, tm.KeyColumn)
	rows, err := s.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("get all for %s %d: %w", entityType, id, err)
	}
	defer rows.Close()

	out := make(map[string][]value.Value)
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if raw == "" {
			continue // sentinel row
		}
		v, err := value.Decode([]byte(raw))
		if err != nil {
			v = value.String(raw)
		}
		out[key] = append(out[key], v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return out, nil
}

// Set upserts the value for one triple. A nil v writes the absence sentinel.
func (s *Store) Set(ctx context.Context, entityType string, id int64, key string, v value.Value) error {
	tm, err := s.tableFor(entityType)
	if err != nil {
		return err
	}

	data, err := value.Encode(v)
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}

	q := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s) VALUES (?, ?, ?)
		ON CONFLICT(%[2]s, %[3]s) DO UPDATE SET %[4]s = excluded.%[4]s`,
		tm.Table, tm.IDColumn, tm.KeyColumn, tm.ValueColumn)
	if _, err := s.db.ExecContext(ctx, q, id, key, string(data)); err != nil {
		return fmt.Errorf("set %s.%s: %w", entityType, key, err)
	}
	return nil
}

// Delete removes one triple, reporting whether a row was removed.
func (s *Store) Delete(ctx context.Context, entityType string, id int64, key string) (bool, error) {
	tm, err := s.tableFor(entityType)
	if err != nil {
		return false, err
	}

	q := fmt.Sprintf(`DELETE FROM %s WHERE %s = ? AND %s = ?`,
		tm.Table, tm.IDColumn, tm.KeyColumn)
	res, err := s.db.ExecContext(ctx, q, id, key)
	if err != nil {
		return false, fmt.Errorf("delete %s.%s: %w", entityType, key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// DistinctKeysByPrefix returns the distinct keys with the given prefix
// across all entities of the type, ascending.
func (s *Store) DistinctKeysByPrefix(ctx context.Context, entityType, prefix string) ([]string, error) {
	tm, err := s.tableFor(entityType)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`SELECT DISTINCT %[1]s FROM %[2]s WHERE %[1]s LIKE ? ESCAPE '\' ORDER BY %[1]s ASC`,
		tm.KeyColumn, tm.Table)
	rows, err := s.db.QueryContext(ctx, q, escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("keys by prefix %q: %w", prefix, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}

	return keys, nil
}

// DeleteRowsByKey removes every row holding key across the entity type and
// returns the number of rows removed.
func (s *Store) DeleteRowsByKey(ctx context.Context, entityType, key string) (int64, error) {
	tm, err := s.tableFor(entityType)
	if err != nil {
		return 0, err
	}

	q := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, tm.Table, tm.KeyColumn)
	res, err := s.db.ExecContext(ctx, q, key)
	if err != nil {
		return 0, fmt.Errorf("delete rows for key %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// FindIDs returns the distinct ids whose stored value for key satisfies the
// comparator, ascending. The value condition is compiled to a parameterized
// fragment; values are never interpolated into query text.
func (s *Store) FindIDs(ctx context.Context, entityType, key string, v value.Value, cmp store.Comparator) ([]int64, error) {
	tm, err := s.tableFor(entityType)
	if err != nil {
		return nil, err
	}

	cond, params, err := compileComparator(tm.ValueColumn, cmp, v)
	if err != nil {
		return nil, fmt.Errorf("compile comparator: %w", err)
	}

	q := fmt.Sprintf(`
		SELECT DISTINCT %[1]s FROM %[2]s
		WHERE %[3]s = ? AND %[4]s != '' AND %[5]s
		ORDER BY %[1]s ASC`,
		tm.IDColumn, tm.Table, tm.KeyColumn, tm.ValueColumn, cond)

	args := append([]any{key}, params...)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("find ids for key %q: %w", key, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ids: %w", err)
	}

	return ids, nil
}
