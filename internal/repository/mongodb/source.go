// Package mongodb implements the event and booking stores on MongoDB.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DBSource yields the shared database. database.Manager[*mongo.Database] satisfies it.
type DBSource interface {
	Get(ctx context.Context) (*mongo.Database, error)
}

const (
	eventsCollection   = "events"
	bookingsCollection = "bookings"
)

// EnsureIndexes creates the unique slug index, the tag index used for similar
// events, and the secondary eventId index on bookings.
func EnsureIndexes(ctx context.Context, src DBSource) error {
	db, err := src.Get(ctx)
	if err != nil {
		return err
	}
	indexes := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{eventsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("slug_unique"),
		}},
		{eventsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().SetName("tags"),
		}},
		{bookingsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "eventId", Value: 1}},
			Options: options.Index().SetName("event_id"),
		}},
	}
	for _, idx := range indexes {
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("create index on %s: %w", idx.collection, err)
		}
	}
	return nil
}

func collection(ctx context.Context, src DBSource, name string) (*mongo.Collection, error) {
	db, err := src.Get(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}
