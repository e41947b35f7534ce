// Package postgres provides the PostgreSQL backing store adapter.
//
// It satisfies the same contract as store/sqlite over a pgx connection
// pool. The pool's lifecycle is owned by the caller; New only validates the
// table configuration.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roach88/metakit/store"
	"github.com/roach88/metakit/value"
)

// Store is a store.Adapter over a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
	cfg  store.Config
}

// New wraps an existing connection pool. Returns an error when the table
// configuration contains an identifier that cannot be safely spliced into
// query text.
func New(pool *pgxpool.Pool, cfg store.Config) (*Store, error) {
	for entityType, tm := range cfg.Tables {
		if err := tm.Validate(); err != nil {
			return nil, fmt.Errorf("table map for %q: %w", entityType, err)
		}
	}
	return &Store{pool: pool, cfg: cfg}, nil
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
// exist, with a UNIQUE constraint on (id, key) backing the upserts.
// Idempotent - safe to call multiple times.
func (s *Store) CreateSchema(ctx context.Context, entityTypes ...string) error {
	for _, entityType := range entityTypes {
		tm, err := s.tableFor(entityType)
		if err != nil {
			return err
		}

		ddl := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				meta_id BIGSERIAL PRIMARY KEY,
				%[2]s BIGINT NOT NULL,
				%[3]s TEXT NOT NULL,
				%[4]s TEXT NOT NULL DEFAULT '',
				UNIQUE (%[2]s, %[3]s)
			)`, tm.Table, tm.IDColumn, tm.KeyColumn, tm.ValueColumn)
		if _, err := s.pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("create table %s: %w", tm.Table, err)
		}
	}
	return nil
}

// Get returns the stored value for one triple. The empty string is the
// absence sentinel; rows that do not decode as JSON come back as plain
// strings, tolerating legacy data.
func (s *Store) Get(ctx context.Context, entityType string, id int64, key string) (value.Value, bool, error) {
	tm, err := s.tableFor(entityType)
	if err != nil {
		return nil, false, err
	}

	var raw string
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2 LIMIT 1`,
		tm.ValueColumn, tm.Table, tm.IDColumn, tm.KeyColumn)
	err = s.pool.QueryRow(ctx, q, id, key).Scan(&raw)
	if err == pgx.ErrNoRows {
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

	q := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		tm.KeyColumn, tm.ValueColumn, tm.Table, tm.IDColumn, tm.KeyColumn)
	rows, err := s.pool.Query(ctx, q, id)
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
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s) VALUES ($1, $2, $3)
		ON CONFLICT (%[2]s, %[3]s) DO UPDATE SET %[4]s = EXCLUDED.%[4]s`,
		tm.Table, tm.IDColumn, tm.KeyColumn, tm.ValueColumn)
	if _, err := s.pool.Exec(ctx, q, id, key, string(data)); err != nil {
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

	q := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		tm.Table, tm.IDColumn, tm.KeyColumn)
	tag, err := s.pool.Exec(ctx, q, id, key)
	if err != nil {
		return false, fmt.Errorf("delete %s.%s: %w", entityType, key, err)
	}
	return tag.RowsAffected() > 0, nil
}

// DistinctKeysByPrefix returns the distinct keys with the given prefix
// across all entities of the type, ascending.
func (s *Store) DistinctKeysByPrefix(ctx context.Context, entityType, prefix string) ([]string, error) {
	tm, err := s.tableFor(entityType)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`SELECT DISTINCT %[1]s FROM %[2]s WHERE %[1]s LIKE $1 ESCAPE '\' ORDER BY %[1]s ASC`,
		tm.KeyColumn, tm.Table)
	rows, err := s.pool.Query(ctx, q, escapeLike(prefix)+"%")
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

	q := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, tm.Table, tm.KeyColumn)
	tag, err := s.pool.Exec(ctx, q, key)
	if err != nil {
		return 0, fmt.Errorf("delete rows for key %q: %w", key, err)
	}
	return tag.RowsAffected(), nil
}

// FindIDs returns the distinct ids whose stored value for key satisfies the
// comparator, ascending.
func (s *Store) FindIDs(ctx context.Context, entityType, key string, v value.Value, cmp store.Comparator) ([]int64, error) {
	tm, err := s.tableFor(entityType)
	if err != nil {
		return nil, err
	}

	// Key binds as $1 and the sentinel filter uses no parameter, so the
	// value condition starts numbering at $2.
	cond, params, err := compileComparator(tm.ValueColumn, cmp, v, 2)
	if err != nil {
		return nil, fmt.Errorf("compile comparator: %w", err)
	}

	q := fmt.Sprintf(`
		SELECT DISTINCT %[1]s FROM %[2]s
		WHERE %[3]s = $1 AND %[4]s <> '' AND %[5]s
		ORDER BY %[1]s ASC`,
		tm.IDColumn, tm.Table, tm.KeyColumn, tm.ValueColumn, cond)

	args := append([]any{key}, params...)
	rows, err := s.pool.Query(ctx, q, args...)
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
