// Package mongo implements the catalog's storage collaborators on the
// official MongoDB driver: the generic per-collection object store, the
// kind-specific lookups, the revision sink and the migration bulk writer.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	appName        = "catalog-api"
	defaultTimeout = 10 * time.Second
)

// Config captures the settings for establishing the catalog database
// connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect builds the client, bounds server selection by the configured
// timeout, and verifies connectivity with a ping before handing out the
// catalog database. Conditional replaces rely on the driver's default
// retryable writes staying on.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}
