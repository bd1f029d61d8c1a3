package validation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"devevent/internal/domain"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// EventLookup is the store read the booking validator needs.
type EventLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Event, error)
}

// BookingValidator validates bookings and checks that the referenced event exists.
type BookingValidator struct {
	events EventLookup
}

func NewBookingValidator(events EventLookup) *BookingValidator {
	return &BookingValidator{events: events}
}

// Prepare validates in and returns a normalized booking. current is the stored
// booking being changed, or nil on creation. The event lookup only runs when
// the event reference is new or changed.
func (v *BookingValidator) Prepare(ctx context.Context, in domain.BookingInput, current *domain.Booking) (*domain.Booking, error) {
	eventID := strings.TrimSpace(in.EventID)
	if eventID == "" {
		return nil, domain.MissingField("event_id")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, domain.MissingField("email")
	}
	if !emailPattern.MatchString(email) {
		return nil, domain.InvalidFormat("email")
	}

	if current == nil || current.EventID != eventID {
		if _, err := v.events.GetByID(ctx, eventID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.DanglingReference("event_id")
			}
			return nil, fmt.Errorf("get event: %w", err)
		}
	}

	b := &domain.Booking{EventID: eventID, Email: email}
	if current != nil {
		b.ID = current.ID
		b.CreatedAt = current.CreatedAt
		b.UpdatedAt = current.UpdatedAt
	}
	return b, nil
}
