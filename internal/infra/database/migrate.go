package database

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	full_name     TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	mobile        TEXT,
	country       TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS leads (
	id             TEXT PRIMARY KEY,
	owner_id       TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	website        TEXT,
	source_type    TEXT NOT NULL CHECK (source_type IN ('file', 'url')),
	original_name  TEXT,
	file_name      TEXT,
	mime_type      TEXT,
	size           BIGINT,
	file_path      TEXT,
	file_url       TEXT,
	import_url     TEXT,
	contact_name   TEXT,
	contact_email  TEXT,
	contact_phone  TEXT,
	service        TEXT,
	message        TEXT,
	source_website TEXT,
	status         TEXT NOT NULL DEFAULT 'Pending'
		CHECK (status IN ('uploaded', 'ready', 'processing', 'Pending', 'Success', 'Rejected', 'In-Process', 'Failed')),
	pitch_result   TEXT NOT NULL DEFAULT 'Pending'
		CHECK (pitch_result IN ('Pending', 'Success', 'Failed')),
	pitch_message  TEXT,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT leads_url_requires_website CHECK (source_type <> 'url' OR coalesce(website, '') <> '')
);

CREATE UNIQUE INDEX IF NOT EXISTS leads_owner_website_url_key
	ON leads (owner_id, website) WHERE source_type = 'url';
CREATE INDEX IF NOT EXISTS leads_owner_created_idx ON leads (owner_id, created_at DESC);
`

// EnsureSchema creates the users and leads tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return eris.Wrap(err, "database: ensure schema")
	}
	return nil
}
