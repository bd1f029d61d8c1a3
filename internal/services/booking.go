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

type bookingService struct {
	eventRepo      domain.EventRepository
	bookingRepo    domain.BookingRepository
	validator      *validation.BookingValidator
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewBookingService creates a BookingService. emailService may be nil to skip
// confirmation emails.
func NewBookingService(
	eventRepo domain.EventRepository,
	bookingRepo domain.BookingRepository,
	validator *validation.BookingValidator,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.BookingService {
	return &bookingService{
		eventRepo:      eventRepo,
		bookingRepo:    bookingRepo,
		validator:      validator,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, in domain.BookingInput) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	booking, err := s.validator.Prepare(ctx, in, nil)
	if err != nil {
		monitoring.RecordValidationFailure("booking", err)
		return nil, err
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		monitoring.RecordValidationFailure("booking", err)
		if _, ok := domain.AsValidationError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}
	monitoring.RecordCreated("booking")
	s.logger.InfoContext(ctx, "booking created", "booking_id", booking.ID, "event_id", booking.EventID)

	s.sendConfirmation(ctx, booking)
	return booking, nil
}

// sendConfirmation is best-effort: the booking is already stored.
func (s *bookingService) sendConfirmation(ctx context.Context, booking *domain.Booking) {
	if s.emailService == nil {
		return
	}
	event, err := s.eventRepo.GetByID(ctx, booking.EventID)
	if err != nil {
		s.logger.WarnContext(ctx, "skip booking confirmation", "booking_id", booking.ID, "err", err)
		return
	}
	data := &domain.BookingConfirmationEmailData{
		Email:      booking.Email,
		EventTitle: event.Title,
		EventSlug:  event.Slug,
		Date:       event.Date,
		Time:       event.Time,
		Venue:      event.Venue,
		Location:   event.Location,
		Mode:       string(event.Mode),
	}
	if err := s.emailService.SendBookingConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "booking confirmation failed", "booking_id", booking.ID, "err", err)
	}
}

func (s *bookingService) ListEventBookings(ctx context.Context, slug string) ([]*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookingRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	return bookings, nil
}

func (s *bookingService) CountEventBookings(ctx context.Context, slug string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventBySlug(ctx, slug)
	if err != nil {
		return 0, err
	}
	n, err := s.bookingRepo.CountByEventID(ctx, event.ID)
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

func (s *bookingService) eventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}
