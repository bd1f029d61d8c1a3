package domain

import (
	"context"
	"time"
)

// Booking associates an email address with an event.
// swagger:model Booking
type Booking struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingInput is a candidate booking as submitted by an end user.
type BookingInput struct {
	EventID string
	Email   string
}

// BookingRepository defines storage operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Booking, error)
	CountByEventID(ctx context.Context, eventID string) (int, error)
}

// BookingService defines booking operations for end users and organizers.
type BookingService interface {
	CreateBooking(ctx context.Context, in BookingInput) (*Booking, error)
	ListEventBookings(ctx context.Context, slug string) ([]*Booking, error)
	CountEventBookings(ctx context.Context, slug string) (int, error)
}
