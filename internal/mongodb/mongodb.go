// Package mongodb owns the connection to the hosted document database
// backing the mood log.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/moodnotes/core/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client wraps the driver client with the configured database handle.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect establishes and verifies the MongoDB connection.
func Connect(ctx context.Context, cfg *config.AppConfig) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.Mongo.URIValue()).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	return &Client{
		client: client,
		db:     client.Database(cfg.Mongo.DatabaseValue()),
	}, nil
}

// Collection returns a handle to the named collection.
func (c *Client) Collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

// Ping verifies the connection is still alive.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

// EnsureIndexes creates the indexes the mood queries rely on.
func (c *Client) EnsureIndexes(ctx context.Context, collection string) error {
	_, err := c.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	return err
}

// Close disconnects from the server.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
