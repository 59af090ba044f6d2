package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite keeps the score in a small key/value table, mirroring the
// localStorage entry the browser version used.
type SQLite struct {
	conn *sql.DB
	key  string
	mu   sync.Mutex
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(path, key string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(1) // SQLite only supports one writer
	conn.SetMaxIdleConns(1)

	db := &SQLite{conn: conn, key: key}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *SQLite) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (db *SQLite) Load(ctx context.Context) (int, bool, error) {
	var raw string
	err := db.conn.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", db.key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query high score: %w", err)
	}
	n, ok := parseScore(raw)
	return n, ok, nil
}

func (db *SQLite) Save(ctx context.Context, score int) error {
	if err := validateScore(score); err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	// A value Load would not accept is replaced unconditionally; otherwise the
	// larger score wins.
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		WHERE trim(kv.value) = ''
			OR trim(kv.value) GLOB '*[^0-9]*'
			OR length(trim(kv.value)) > 18
			OR CAST(trim(kv.value) AS INTEGER) < CAST(excluded.value AS INTEGER)
	`, db.key, strconv.Itoa(score))
	if err != nil {
		return fmt.Errorf("save high score: %w", err)
	}
	return nil
}

func (db *SQLite) Close() error {
	return db.conn.Close()
}
