// internal/pkg/session/sqlite_store.go
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the token in a local SQLite key/value table.
type SQLiteStore struct {
	db  *sql.DB
	key string
}

// OpenSQLiteStore creates or opens the database at path.
func OpenSQLiteStore(path, key string) (*SQLiteStore, error) {
	if key == "" {
		key = DefaultTokenKey
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating session database: %w", err)
	}

	return &SQLiteStore{db: db, key: key}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, s.key).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return token, nil
}

func (s *SQLiteStore) Save(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, token, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing token: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, s.key); err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
