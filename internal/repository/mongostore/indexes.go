package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique and lookup indexes the stores rely on.
// Existing indexes with the same keys are left alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	documentIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "documentNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "preparedByUserId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: -1}}},
	}

	for _, name := range []string{quotationsCollection, invoicesCollection} {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, documentIndexes); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}

	userIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create indexes on %s: %w", usersCollection, err)
	}
	return nil
}
