package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoOptions configures the shared Mongo client.
type MongoOptions struct {
	URI      string
	Database string
}

// NewMongoManager returns a Manager that connects to Mongo on first use and
// hands out the configured database.
func NewMongoManager(opts MongoOptions) *Manager[*mongo.Database] {
	dial := func(ctx context.Context) (*mongo.Database, error) {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("ping mongo: %w", err)
		}
		return client.Database(opts.Database), nil
	}
	return NewManager(dial, func(ctx context.Context, db *mongo.Database) error {
		return db.Client().Disconnect(ctx)
	})
}
