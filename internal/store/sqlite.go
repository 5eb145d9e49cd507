// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: One row per user binding plus one row per history entry

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a SQLite database. Unlike FileStore it
// keeps one row per user, so concurrent binds for different users touch
// independent rows instead of rewriting a whole document.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) the database at path. The schema is
// created automatically and parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// busy_timeout is per-connection, so it goes in the DSN where the
	// driver applies it to every pooled connection. Writers then queue
	// instead of failing with SQLITE_BUSY.
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite code store initialized", "path", path)
	return s, nil
}

// createSchema creates the tables if they don't exist.
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS bindings (
			user_id    TEXT PRIMARY KEY,
			current    TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS code_history (
			user_id  TEXT NOT NULL,
			code     TEXT NOT NULL,
			bound_at DATETIME NOT NULL,
			PRIMARY KEY (user_id, code)
		);

		CREATE INDEX IF NOT EXISTS idx_code_history_user
			ON code_history(user_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Bind upserts the user's current code and appends the history row when
// the code is new for this user. Both writes happen in one transaction.
func (s *SQLiteStore) Bind(ctx context.Context, userID, code string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning bind transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bindings (user_id, current, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET current = excluded.current, updated_at = excluded.updated_at
	`, userID, code, now)
	if err != nil {
		return fmt.Errorf("upserting binding: %w", err)
	}

	// INSERT OR IGNORE keeps the original row, preserving bind order for
	// codes that are bound again later.
	_, err = tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO code_history (user_id, code, bound_at)
		VALUES (?, ?, ?)
	`, userID, code, now)
	if err != nil {
		return fmt.Errorf("recording code history: %w", err)
	}

	return tx.Commit()
}

// Current returns the user's current code, or ErrNotBound.
func (s *SQLiteStore) Current(ctx context.Context, userID string) (string, error) {
	var current string
	err := s.db.QueryRowContext(ctx, `
		SELECT current FROM bindings WHERE user_id = ?
	`, userID).Scan(&current)
	if err == sql.ErrNoRows {
		return "", ErrNotBound
	}
	if err != nil {
		return "", fmt.Errorf("querying current code: %w", err)
	}
	return current, nil
}

// History returns the user's codes oldest first, or ErrNotBound.
func (s *SQLiteStore) History(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code FROM code_history WHERE user_id = ? ORDER BY rowid
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying code history: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scanning code history: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading code history: %w", err)
	}

	if len(codes) == 0 {
		return nil, ErrNotBound
	}
	return codes, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
