// Package mongo is the MongoDB connection hub backing the review-log
// audit document store, grounded on the teacher's
// common/mmongo.MongoConnection.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Hub holds a singleton MongoDB client.
type Hub struct {
	URI      string
	Database string

	client *mongo.Client
}

// Connect dials the configured URI and verifies it with a ping.
func (h *Hub) Connect(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(h.URI))
	if err != nil {
		return fmt.Errorf("mongo: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo: ping: %w", err)
	}

	h.client = client

	return nil
}

// DB returns the configured database handle, connecting lazily.
func (h *Hub) DB(ctx context.Context) (*mongo.Database, error) {
	if h.client == nil {
		if err := h.Connect(ctx); err != nil {
			return nil, err
		}
	}

	return h.client.Database(h.Database), nil
}
