package database

import (
	"context"
	"fmt"
	"time"

	"github.com/emeena/quotation-api/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewMongoDatabase connects to MongoDB and returns the configured database handle
func NewMongoDatabase(ctx context.Context, cfg *config.DatabaseConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(uint64(cfg.MaxOpenConns)).
		SetMaxConnIdleTime(cfg.ConnMaxLifetimeDuration())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client.Database(cfg.MongoDatabase), nil
}

// MongoHealthCheck pings the primary
func MongoHealthCheck(ctx context.Context, db *mongo.Database) error {
	return db.Client().Ping(ctx, readpref.Primary())
}
