package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"devevent/internal/domain"
	"devevent/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEventService(events *fakeEventRepo, bookings *fakeBookingRepo) domain.EventService {
	v := validation.NewEventValidator(events, &validation.SequenceTokenSource{})
	return NewEventService(events, bookings, v, discardLogger(), time.Second)
}

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()
	events := newFakeEventRepo()
	svc := newTestEventService(events, &fakeBookingRepo{})

	first, err := svc.CreateEvent(ctx, validEventInput("GopherCon 2025"))
	require.NoError(t, err)
	assert.Equal(t, "gophercon-2025", first.Slug)
	assert.NotEmpty(t, first.ID)

	second, err := svc.CreateEvent(ctx, validEventInput("GopherCon 2025"))
	require.NoError(t, err)
	assert.Equal(t, "gophercon-2025-1", second.Slug)
}

func TestEventService_CreateEvent_ValidationError(t *testing.T) {
	events := newFakeEventRepo()
	svc := newTestEventService(events, &fakeBookingRepo{})

	in := validEventInput("GopherCon")
	in.Mode = "virtual"
	_, err := svc.CreateEvent(context.Background(), in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.True(t, errors.Is(err, domain.InvalidEnum("mode")))
	assert.Empty(t, events.byID)
}

func TestEventService_CreateEvent_RetriesSlugConflictOnce(t *testing.T) {
	tests := []struct {
		name     string
		errs     []error
		wantSlug string
		wantErr  error
	}{
		{
			name:     "conflict then success",
			errs:     []error{domain.UniqueViolation("slug")},
			wantSlug: "gophercon-1",
		},
		{
			name:    "conflict twice",
			errs:    []error{domain.UniqueViolation("slug"), domain.UniqueViolation("slug")},
			wantErr: domain.ErrConflict,
		},
		{
			name:    "store failure is not retried",
			errs:    []error{domain.ErrConnection, nil},
			wantErr: domain.ErrConnection,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := newFakeEventRepo()
			events.createErrs = tt.errs
			svc := newTestEventService(events, &fakeBookingRepo{})

			got, err := svc.CreateEvent(context.Background(), validEventInput("GopherCon"))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, got.Slug)
		})
	}
}

func TestEventService_UpdateEvent(t *testing.T) {
	ctx := context.Background()
	events := newFakeEventRepo()
	svc := newTestEventService(events, &fakeBookingRepo{})

	created, err := svc.CreateEvent(ctx, validEventInput("GopherCon"))
	require.NoError(t, err)
	_, err = svc.CreateEvent(ctx, validEventInput("KubeCon"))
	require.NoError(t, err)

	t.Run("same title keeps slug", func(t *testing.T) {
		in := validEventInput("  GopherCon ")
		in.Venue = "Pier 48"
		got, err := svc.UpdateEvent(ctx, "gophercon", in)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "gophercon", got.Slug)
		assert.Equal(t, "Pier 48", got.Venue)
	})

	t.Run("title taken by another event", func(t *testing.T) {
		got, err := svc.UpdateEvent(ctx, "gophercon", validEventInput("KubeCon"))
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "kubecon-1", got.Slug)
	})

	t.Run("unknown slug", func(t *testing.T) {
		_, err := svc.UpdateEvent(ctx, "nope", validEventInput("Nope"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("invalid input", func(t *testing.T) {
		in := validEventInput("KubeCon")
		in.Tags = []string{" "}
		_, err := svc.UpdateEvent(ctx, "kubecon", in)
		assert.ErrorIs(t, err, domain.EmptyCollection("tags"))
	})
}

func TestEventService_GetAndList(t *testing.T) {
	ctx := context.Background()
	events := newFakeEventRepo()
	svc := newTestEventService(events, &fakeBookingRepo{})

	list, err := svc.ListEvents(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = svc.CreateEvent(ctx, validEventInput("GopherCon"))
	require.NoError(t, err)

	got, err := svc.GetEventBySlug(ctx, "gophercon")
	require.NoError(t, err)
	assert.Equal(t, "GopherCon", got.Title)

	_, err = svc.GetEventBySlug(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	events.listErr = errors.New("boom")
	_, err = svc.ListEvents(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list events")
}

func TestEventService_ListSimilarEvents(t *testing.T) {
	ctx := context.Background()
	events := newFakeEventRepo()
	svc := newTestEventService(events, &fakeBookingRepo{})

	titles := []string{"A", "B", "C", "D", "E"}
	for _, title := range titles {
		_, err := svc.CreateEvent(ctx, validEventInput(title))
		require.NoError(t, err)
	}
	other := validEventInput("F")
	other.Tags = []string{"rust"}
	_, err := svc.CreateEvent(ctx, other)
	require.NoError(t, err)

	similar, err := svc.ListSimilarEvents(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, similar, similarEventsLimit)
	for _, e := range similar {
		assert.NotEqual(t, "a", e.Slug)
		assert.NotEqual(t, "f", e.Slug)
	}

	similar, err = svc.ListSimilarEvents(ctx, "f")
	require.NoError(t, err)
	assert.NotNil(t, similar)
	assert.Empty(t, similar)

	_, err = svc.ListSimilarEvents(ctx, "zzz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_DeleteEvent(t *testing.T) {
	ctx := context.Background()
	events := newFakeEventRepo()
	bookings := &fakeBookingRepo{}
	svc := newTestEventService(events, bookings)

	booked, err := svc.CreateEvent(ctx, validEventInput("Booked"))
	require.NoError(t, err)
	_, err = svc.CreateEvent(ctx, validEventInput("Free"))
	require.NoError(t, err)
	require.NoError(t, bookings.Create(ctx, &domain.Booking{EventID: booked.ID, Email: "a@b.co"}))

	tests := []struct {
		name    string
		slug    string
		wantErr error
	}{
		{name: "has bookings", slug: "booked", wantErr: domain.ErrEventHasBookings},
		{name: "no bookings", slug: "free"},
		{name: "already gone", slug: "free", wantErr: domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.DeleteEvent(ctx, tt.slug)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
	_, err = svc.GetEventBySlug(ctx, "booked")
	require.NoError(t, err)
}
