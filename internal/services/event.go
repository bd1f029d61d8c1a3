package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"devevent/internal/domain"
	"devevent/internal/monitoring"
	"devevent/internal/validation"
)

// similarEventsLimit caps ListSimilarEvents.
const similarEventsLimit = 3

type eventService struct {
	eventRepo      domain.EventRepository
	bookingRepo    domain.BookingRepository
	validator      *validation.EventValidator
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewEventService(
	eventRepo domain.EventRepository,
	bookingRepo domain.BookingRepository,
	validator *validation.EventValidator,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		bookingRepo:    bookingRepo,
		validator:      validator,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, in domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.validator.Prepare(ctx, in)
	if err != nil {
		monitoring.RecordValidationFailure("event", err)
		return nil, err
	}

	err = s.eventRepo.Create(ctx, event)
	if errors.Is(err, domain.UniqueViolation("slug")) {
		// Another writer took the slug between the lookup and the insert.
		if err = s.refreshSlug(ctx, event, ""); err != nil {
			return nil, err
		}
		err = s.eventRepo.Create(ctx, event)
	}
	if err != nil {
		monitoring.RecordValidationFailure("event", err)
		return nil, fmt.Errorf("create event: %w", err)
	}

	monitoring.RecordCreated("event")
	s.logger.InfoContext(ctx, "event created", "event_id", event.ID, "slug", event.Slug)
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, slug string, in domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.getBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	event, err := s.validator.PrepareUpdate(ctx, current, in)
	if err != nil {
		monitoring.RecordValidationFailure("event", err)
		return nil, err
	}

	err = s.eventRepo.Update(ctx, event)
	if errors.Is(err, domain.UniqueViolation("slug")) {
		if err = s.refreshSlug(ctx, event, event.ID); err != nil {
			return nil, err
		}
		err = s.eventRepo.Update(ctx, event)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		monitoring.RecordValidationFailure("event", err)
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) refreshSlug(ctx context.Context, event *domain.Event, selfID string) error {
	monitoring.RecordSlugRetry()
	s.logger.WarnContext(ctx, "slug taken at write time, retrying", "slug", event.Slug)
	slug, err := s.validator.UniqueSlug(ctx, event.Title, selfID, true)
	if err != nil {
		monitoring.RecordValidationFailure("event", err)
		return err
	}
	event.Slug = slug
	return nil
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.getBySlug(ctx, slug)
}

func (s *eventService) getBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) ListSimilarEvents(ctx context.Context, slug string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	similar, err := s.eventRepo.ListByTags(ctx, event.Tags, event.ID, similarEventsLimit)
	if err != nil {
		return nil, fmt.Errorf("list similar events: %w", err)
	}
	if similar == nil {
		similar = []*domain.Event{}
	}
	return similar, nil
}

// DeleteEvent refuses to delete an event that still has bookings.
func (s *eventService) DeleteEvent(ctx context.Context, slug string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getBySlug(ctx, slug)
	if err != nil {
		return err
	}
	n, err := s.bookingRepo.CountByEventID(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("count bookings: %w", err)
	}
	if n > 0 {
		return domain.ErrEventHasBookings
	}
	if err := s.eventRepo.Delete(ctx, event.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrEventHasBookings) {
			return err
		}
		return fmt.Errorf("delete event: %w", err)
	}
	s.logger.InfoContext(ctx, "event deleted", "event_id", event.ID, "slug", event.Slug)
	return nil
}
