package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Checker pings the configured store and reports backend details
type Checker func(ctx context.Context) (map[string]interface{}, error)

func GormChecker(db *gorm.DB) Checker {
	return func(ctx context.Context) (map[string]interface{}, error) {
		return HealthCheckWithStats(ctx, db)
	}
}

func MongoChecker(db *mongo.Database) Checker {
	return func(ctx context.Context) (map[string]interface{}, error) {
		if err := MongoHealthCheck(ctx, db); err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"driver":   "mongo",
			"database": db.Name(),
		}, nil
	}
}
