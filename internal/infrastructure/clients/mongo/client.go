package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arogyavritti/backend/internal/infrastructure/observability"
	"github.com/arogyavritti/backend/pkg/config"
	"github.com/arogyavritti/backend/pkg/retry"
)

// Client wraps a MongoDB connection bound to one database
type Client struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewClient connects to MongoDB and verifies the connection with retry
func NewClient(ctx context.Context, cfg *config.MongoConfig) (*Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	logger := observability.GetLogger()
	retryConfig := retry.DefaultConfig()
	retryConfig.OnRetry = func(attempt int, err error, nextDelay time.Duration) {
		logger.Warn().Err(err).Int("attempt", attempt).Dur("next_delay", nextDelay).Msg("MongoDB connection attempt failed")
	}

	err = retry.Do(ctx, retryConfig, "MongoDB", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return client.Ping(pingCtx, nil)
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to connect to MongoDB after retries: %w", err)
	}

	logger.Info().Str("database", cfg.Database).Msg("connected to MongoDB")
	return &Client{client: client, database: client.Database(cfg.Database)}, nil
}

// Database returns the configured database
func (c *Client) Database() *mongo.Database {
	return c.database
}

// Close disconnects from MongoDB
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
