package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emeena/quotation-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SequenceStore keeps one counter document per document type, keyed by type
type SequenceStore struct {
	coll *mongo.Collection
}

func NewSequenceStore(db *mongo.Database) *SequenceStore {
	return &SequenceStore{coll: db.Collection(sequencesCollection)}
}

// GetNextNumber increments the counter with $inc and returns the new value.
// The first call for a type inserts seed; a concurrent first insert loses on
// the _id index and falls back to incrementing.
func (s *SequenceStore) GetNextNumber(ctx context.Context, docType domain.DocumentType, seed int) (int, error) {
	for attempt := 0; attempt < 2; attempt++ {
		var rec sequenceRecord
		err := s.coll.FindOneAndUpdate(ctx,
			bson.M{"_id": string(docType)},
			bson.M{
				"$inc": bson.M{"lastSequence": 1},
				"$set": bson.M{"updatedAt": time.Now().UTC()},
			},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&rec)
		if err == nil {
			return rec.LastSequence, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return 0, fmt.Errorf("failed to increment number sequence: %w", err)
		}

		_, err = s.coll.InsertOne(ctx, sequenceRecord{
			DocumentType: string(docType),
			LastSequence: seed,
			UpdatedAt:    time.Now().UTC(),
		})
		if err == nil {
			return seed, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return 0, fmt.Errorf("failed to create number sequence: %w", err)
		}
	}
	return 0, fmt.Errorf("failed to allocate number for %s", docType)
}

func (s *SequenceStore) GetCurrentSequence(ctx context.Context, docType domain.DocumentType) (int, error) {
	var rec sequenceRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": string(docType)}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get number sequence: %w", err)
	}
	return rec.LastSequence, nil
}

// RaiseSequence applies $max so the counter only ever moves up
func (s *SequenceStore) RaiseSequence(ctx context.Context, docType domain.DocumentType, value int) (bool, error) {
	result, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": string(docType)},
		bson.M{
			"$max":         bson.M{"lastSequence": value},
			"$setOnInsert": bson.M{"updatedAt": time.Now().UTC()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("failed to raise number sequence: %w", err)
	}
	return result.ModifiedCount > 0 || result.UpsertedCount > 0, nil
}
