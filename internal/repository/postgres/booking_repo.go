package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"devevent/internal/domain"
)

type bookingRepository struct {
	Source DBSource
}

func NewBookingRepository(src DBSource) domain.BookingRepository {
	return &bookingRepository{
		Source: src,
	}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if _, err := uuid.Parse(b.EventID); err != nil {
		return domain.DanglingReference("event_id")
	}
	db, err := r.Source.Get(ctx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO bookings (event_id, email)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	err = db.QueryRowContext(ctx, query, b.EventID, b.Email).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if perr, ok := asPQError(err); ok && perr.Code == codeForeignKeyViolation && perr.Constraint == constraintBookingsEvent {
		return domain.DanglingReference("event_id")
	}
	return err
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	db, err := r.Source.Get(ctx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT id, event_id, email, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	b := &domain.Booking{}
	err = db.QueryRowContext(ctx, query, id).
		Scan(&b.ID, &b.EventID, &b.Email, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	if _, err := uuid.Parse(eventID); err != nil {
		return []*domain.Booking{}, nil
	}
	db, err := r.Source.Get(ctx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT id, event_id, email, created_at, updated_at
		FROM bookings
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	rows, err := db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		b := &domain.Booking{}
		if err := rows.Scan(&b.ID, &b.EventID, &b.Email, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	return bookings, nil
}

func (r *bookingRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	if _, err := uuid.Parse(eventID); err != nil {
		return 0, nil
	}
	db, err := r.Source.Get(ctx)
	if err != nil {
		return 0, err
	}
	var n int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE event_id = $1`, eventID).Scan(&n)
	return n, err
}
