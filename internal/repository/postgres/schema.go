package postgres

import (
	"context"
	"fmt"
)

// schemaStatements create the tables and indexes the repositories rely on.
// events.slug carries the unique index; bookings.event_id a plain index plus a
// restricting foreign key.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title       TEXT NOT NULL,
		slug        TEXT NOT NULL,
		description TEXT NOT NULL,
		overview    TEXT NOT NULL,
		image       TEXT NOT NULL,
		venue       TEXT NOT NULL,
		location    TEXT NOT NULL,
		date        TEXT NOT NULL,
		time        TEXT NOT NULL,
		mode        TEXT NOT NULL CHECK (mode IN ('online', 'offline', 'hybrid')),
		audience    TEXT NOT NULL,
		agenda      TEXT[] NOT NULL,
		organizer   TEXT NOT NULL,
		tags        TEXT[] NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS events_slug_key ON events (slug)`,
	`CREATE INDEX IF NOT EXISTS events_tags_idx ON events USING GIN (tags)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		event_id   UUID NOT NULL,
		email      TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT bookings_event_id_fkey FOREIGN KEY (event_id) REFERENCES events (id) ON DELETE RESTRICT
	)`,
	`CREATE INDEX IF NOT EXISTS bookings_event_id_idx ON bookings (event_id)`,
}

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, src DBSource) error {
	db, err := src.Get(ctx)
	if err != nil {
		return err
	}
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
