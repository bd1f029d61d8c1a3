package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// DBSource yields the shared pool. database.Manager[*sql.DB] satisfies it.
type DBSource interface {
	Get(ctx context.Context) (*sql.DB, error)
}

// Postgres error codes handled by the repositories.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

const (
	constraintEventSlug     = "events_slug_key"
	constraintBookingsEvent = "bookings_event_id_fkey"
)

func asPQError(err error) (*pq.Error, bool) {
	var perr *pq.Error
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}
