package database

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/bookbid/bookbid/config"
)

func NewDB() (*sql.DB, error) {
	if config.Opts.DSN == "" {
		return nil, errors.New("database DSN is required")
	}

	db, err := sql.Open("sqlite", config.Opts.DSN)
	if err != nil {
		return nil, err
	}

	return db, nil
}

const latestSchema = `
CREATE TABLE IF NOT EXISTS user (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	city TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	avatar_url TEXT NOT NULL DEFAULT '',
	books TEXT NOT NULL DEFAULT '[]',
	created_ts INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
	updated_ts INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
);

CREATE TABLE IF NOT EXISTS exchange_request (
	id TEXT PRIMARY KEY,
	from_user TEXT NOT NULL,
	to_user TEXT NOT NULL,
	requested_book TEXT NOT NULL,
	offered_book TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	created_ts INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
);

CREATE INDEX IF NOT EXISTS idx_exchange_request_created_ts
	ON exchange_request (created_ts);
`

// Migrate applies the latest schema. Statements are idempotent.
func Migrate(db *sql.DB, ctx context.Context) error {
	if _, err := db.ExecContext(ctx, latestSchema); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}

// ApplySchema is the test helper variant of Migrate.
func ApplySchema(db *sql.DB) error {
	return Migrate(db, context.Background())
}
