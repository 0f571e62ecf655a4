package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/types"
)

// Config holds SQLite backend options.
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	BusyTimeout     time.Duration
}

// DefaultConfig returns sensible defaults for the given database path.
func DefaultConfig(path string) Config {
	return Config{
		Path:            path,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		BusyTimeout:     5 * time.Second,
	}
}

// SQLiteStore implements Store on a SQLite database with WAL mode and
// a busy timeout for concurrent access.
type SQLiteStore struct {
	conn *sql.DB
	path string

	reads   atomic.Int64
	writes  atomic.Int64
	queries atomic.Int64
}

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	value_type TEXT NOT NULL DEFAULT 'string',
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// Open creates a SQLite-backed store, creating the key-value table if
// it does not exist.
func Open(cfg Config) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, types.WrapError(types.STORAGE_OPEN_FAILED, "failed to open database", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, types.WrapError(types.STORAGE_OPEN_FAILED, "failed to ping database", err)
	}
	if _, err := conn.ExecContext(ctx, kvSchema); err != nil {
		conn.Close()
		return nil, types.WrapError(types.STORAGE_OPEN_FAILED, "failed to create kv table", err)
	}

	return &SQLiteStore{conn: conn, path: cfg.Path}, nil
}

// Get returns the record for key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (Record, error) {
	s.reads.Add(1)

	var rec Record
	row := s.conn.QueryRowContext(ctx,
		`SELECT key, value, value_type, updated_at FROM kv_store WHERE key = ?`, key)
	if err := row.Scan(&rec.Key, &rec.Value, &rec.Type, &rec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, types.NewError(types.STORAGE_KEY_MISSING, fmt.Sprintf("key %q not found", key))
		}
		return Record{}, types.WrapError(types.STORAGE_QUERY_FAILED, "get failed", err)
	}
	return rec, nil
}

// Set stores value under key, replacing any previous value.
func (s *SQLiteStore) Set(ctx context.Context, key, value, valueType string) error {
	s.writes.Add(1)
	if valueType == "" {
		valueType = "string"
	}

	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, value_type, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			value_type = excluded.value_type,
			updated_at = CURRENT_TIMESTAMP`,
		key, value, valueType)
	if err != nil {
		return types.WrapError(types.STORAGE_QUERY_FAILED, "set failed", err)
	}
	return nil
}

// Delete removes key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	s.writes.Add(1)
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		return types.WrapError(types.STORAGE_QUERY_FAILED, "delete failed", err)
	}
	return nil
}

// List returns records matching pattern, paginated.
func (s *SQLiteStore) List(ctx context.Context, pattern string, limit, offset int) ([]Record, error) {
	s.reads.Add(1)
	if pattern == "" {
		pattern = "%"
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT key, value, value_type, updated_at FROM kv_store
		WHERE key LIKE ? ORDER BY key LIMIT ? OFFSET ?`,
		pattern, limit, offset)
	if err != nil {
		return nil, types.WrapError(types.STORAGE_QUERY_FAILED, "list failed", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Key, &rec.Value, &rec.Type, &rec.UpdatedAt); err != nil {
			return nil, types.WrapError(types.STORAGE_QUERY_FAILED, "scan failed", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Query runs an arbitrary read query and returns rows as maps keyed by
// column name.
func (s *SQLiteStore) Query(ctx context.Context, query string, params []any) ([]map[string]any, error) {
	s.queries.Add(1)

	rows, err := s.conn.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, types.WrapError(types.STORAGE_QUERY_FAILED, "query failed", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, types.WrapError(types.STORAGE_QUERY_FAILED, "columns failed", err)
	}

	var results []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, types.WrapError(types.STORAGE_QUERY_FAILED, "scan failed", err)
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			// SQLite returns TEXT columns as []byte through database/sql.
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// HealthCheck pings the backend.
func (s *SQLiteStore) HealthCheck(ctx context.Context) types.HealthStatus {
	if err := s.conn.PingContext(ctx); err != nil {
		return types.Warning(fmt.Sprintf("storage ping failed: %v", err))
	}
	return types.Healthy()
}

// GetStats returns a snapshot of backend activity.
func (s *SQLiteStore) GetStats() Stats {
	var keys int
	_ = s.conn.QueryRow(`SELECT COUNT(*) FROM kv_store`).Scan(&keys)
	return Stats{
		Keys:    keys,
		Reads:   s.reads.Load(),
		Writes:  s.writes.Load(),
		Queries: s.queries.Load(),
		Backend: "sqlite",
	}
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

var _ Store = (*SQLiteStore)(nil)
