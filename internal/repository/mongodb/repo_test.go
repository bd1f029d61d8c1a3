package mongodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"devevent/internal/database"
	"devevent/internal/domain"
)

const ns = "devevent.events"

var testTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func eventDoc(id primitive.ObjectID, slug string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: "Go Day"},
		{Key: "slug", Value: slug},
		{Key: "description", Value: "A day of Go."},
		{Key: "overview", Value: "Talks."},
		{Key: "image", Value: "/images/go.png"},
		{Key: "venue", Value: "Hall A"},
		{Key: "location", Value: "Berlin"},
		{Key: "date", Value: "2025-11-20"},
		{Key: "time", Value: "09:00"},
		{Key: "mode", Value: "offline"},
		{Key: "audience", Value: "Gophers"},
		{Key: "agenda", Value: bson.A{"Keynote"}},
		{Key: "organizer", Value: "Go Berlin"},
		{Key: "tags", Value: bson.A{"go", "backend"}},
		{Key: "createdAt", Value: testTime},
		{Key: "updatedAt", Value: testTime},
	}
}

func TestEventRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create assigns id and timestamps", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := &eventRepository{Source: database.Static(mt.DB), now: func() time.Time { return testTime }}

		e := &domain.Event{Title: "Go Day", Slug: "go-day", Mode: domain.ModeOffline, Agenda: []string{"Keynote"}, Tags: []string{"go"}}
		require.NoError(mt, repo.Create(ctx, e))
		_, err := primitive.ObjectIDFromHex(e.ID)
		require.NoError(mt, err)
		require.Equal(mt, testTime, e.CreatedAt)
		require.Equal(mt, testTime, e.UpdatedAt)
	})

	mt.Run("create duplicate slug", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: devevent.events index: slug_unique",
		}))
		repo := NewEventRepository(database.Static(mt.DB))

		e := &domain.Event{Title: "Go Day", Slug: "go-day"}
		err := repo.Create(ctx, e)
		require.ErrorIs(mt, err, domain.UniqueViolation("slug"))
		require.Empty(mt, e.ID)
	})

	mt.Run("get by slug", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, eventDoc(id, "go-day")))
		repo := NewEventRepository(database.Static(mt.DB))

		got, err := repo.GetBySlug(ctx, "go-day")
		require.NoError(mt, err)
		require.Equal(mt, id.Hex(), got.ID)
		require.Equal(mt, domain.ModeOffline, got.Mode)
		require.Equal(mt, []string{"go", "backend"}, got.Tags)
		require.Equal(mt, testTime, got.CreatedAt.UTC())
	})

	mt.Run("get by slug not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewEventRepository(database.Static(mt.DB))

		got, err := repo.GetBySlug(ctx, "missing")
		require.ErrorIs(mt, err, domain.ErrNotFound)
		require.Nil(mt, got)
	})

	mt.Run("get by malformed id", func(mt *mtest.T) {
		repo := NewEventRepository(database.Static(mt.DB))
		_, err := repo.GetByID(ctx, "not-an-object-id")
		require.ErrorIs(mt, err, domain.ErrNotFound)
	})

	mt.Run("list by tags", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			eventDoc(primitive.NewObjectID(), "go-day"),
			eventDoc(primitive.NewObjectID(), "go-night"),
		))
		repo := NewEventRepository(database.Static(mt.DB))

		got, err := repo.ListByTags(ctx, []string{"go"}, primitive.NewObjectID().Hex(), 3)
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		require.Equal(mt, "go-night", got[1].Slug)
	})

	mt.Run("update returns stored timestamps", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		doc := eventDoc(id, "go-day")
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: doc}))
		repo := NewEventRepository(database.Static(mt.DB))

		e := &domain.Event{ID: id.Hex(), Title: "Go Day", Slug: "go-day"}
		require.NoError(mt, repo.Update(ctx, e))
		require.Equal(mt, testTime, e.CreatedAt.UTC())
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		repo := NewEventRepository(database.Static(mt.DB))
		require.NoError(mt, repo.Delete(ctx, primitive.NewObjectID().Hex()))
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		repo := NewEventRepository(database.Static(mt.DB))
		require.ErrorIs(mt, repo.Delete(ctx, primitive.NewObjectID().Hex()), domain.ErrNotFound)
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())
		require.NoError(mt, EnsureIndexes(ctx, database.Static(mt.DB)))
	})
}

func TestBookingRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := &bookingRepository{Source: database.Static(mt.DB), now: func() time.Time { return testTime }}

		b := &domain.Booking{EventID: primitive.NewObjectID().Hex(), Email: "jane@example.com"}
		require.NoError(mt, repo.Create(ctx, b))
		require.NotEmpty(mt, b.ID)
		require.Equal(mt, testTime, b.CreatedAt)
	})

	mt.Run("create with malformed event id", func(mt *mtest.T) {
		repo := NewBookingRepository(database.Static(mt.DB))
		err := repo.Create(ctx, &domain.Booking{EventID: "nope", Email: "jane@example.com"})
		require.ErrorIs(mt, err, domain.DanglingReference("event_id"))
	})

	mt.Run("list by event", func(mt *mtest.T) {
		eventID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "devevent.bookings", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "eventId", Value: eventID}, {Key: "email", Value: "a@example.com"}, {Key: "createdAt", Value: testTime}, {Key: "updatedAt", Value: testTime}},
		))
		repo := NewBookingRepository(database.Static(mt.DB))

		got, err := repo.ListByEventID(ctx, eventID.Hex())
		require.NoError(mt, err)
		require.Len(mt, got, 1)
		require.Equal(mt, eventID.Hex(), got[0].EventID)
		require.Equal(mt, "a@example.com", got[0].Email)
	})

	mt.Run("count by event", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "devevent.bookings", mtest.FirstBatch, bson.D{{Key: "n", Value: int64(2)}}))
		repo := NewBookingRepository(database.Static(mt.DB))

		n, err := repo.CountByEventID(ctx, primitive.NewObjectID().Hex())
		require.NoError(mt, err)
		require.Equal(mt, 2, n)
	})
}

func TestRepository_ConnectionError(t *testing.T) {
	mgr := database.NewManager(func(ctx context.Context) (*mongo.Database, error) {
		return nil, errors.New("server selection timeout")
	}, nil)

	_, err := NewEventRepository(mgr).GetBySlug(context.Background(), "go-day")
	require.ErrorIs(t, err, domain.ErrConnection)

	_, err = NewBookingRepository(mgr).ListByEventID(context.Background(), primitive.NewObjectID().Hex())
	require.ErrorIs(t, err, domain.ErrConnection)
}
