package mongostore

import (
	"context"
	"time"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QuotationStore persists quotations in the "quotations" collection
type QuotationStore struct {
	coll *mongo.Collection
}

func NewQuotationStore(db *mongo.Database) *QuotationStore {
	return &QuotationStore{coll: db.Collection(quotationsCollection)}
}

func (s *QuotationStore) Create(ctx context.Context, quotation *domain.Quotation) error {
	stampNew(&quotation.BaseModel)
	_, err := s.coll.InsertOne(ctx, toQuotationRecord(quotation))
	return translateError(err)
}

func (s *QuotationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	var rec quotationRecord
	if err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&rec); err != nil {
		return nil, translateError(err)
	}
	q := rec.toDomain()
	return &q, nil
}

func (s *QuotationStore) List(ctx context.Context, filter repository.DocumentFilter, opts repository.ListOptions) ([]domain.Quotation, int64, error) {
	query := BuildDocumentFilter(filter)

	total, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := s.coll.Find(ctx, query, buildFindOptions(opts))
	if err != nil {
		return nil, 0, err
	}
	var records []quotationRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, err
	}

	quotations := make([]domain.Quotation, len(records))
	for i, rec := range records {
		quotations[i] = rec.toDomain()
	}
	return quotations, total, nil
}

// Update replaces the editable fields. Number, owner, status and creation time are not written.
func (s *QuotationStore) Update(ctx context.Context, quotation *domain.Quotation) error {
	quotation.UpdatedAt = time.Now().UTC()
	rec := toQuotationRecord(quotation)

	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": rec.ID}, bson.M{"$set": bson.M{
		"date":            rec.Date,
		"validUntil":      rec.ValidUntil,
		"client":          rec.Client,
		"items":           rec.Items,
		"subTotal":        rec.SubTotal,
		"taxRatePercent":  rec.TaxRatePercent,
		"discountAmount":  rec.DiscountAmount,
		"grandTotal":      rec.GrandTotal,
		"projectSchedule": rec.ProjectSchedule,
		"notes":           rec.Notes,
		"updatedAt":       rec.UpdatedAt,
	}})
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrRecordNotFound
	}
	return nil
}

func (s *QuotationStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.QuotationStatus) error {
	return updateStatus(ctx, s.coll, id, string(status))
}

func (s *QuotationStore) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.coll, id)
}

func (s *QuotationStore) Stats(ctx context.Context, filter repository.DocumentFilter) (*repository.DocumentStats, error) {
	return aggregateStats(ctx, s.coll, domain.DocumentTypeQuotation, filter)
}

func (s *QuotationStore) LatestDocumentNumber(ctx context.Context) (string, error) {
	return latestNumber(ctx, s.coll)
}

func updateStatus(ctx context.Context, coll *mongo.Collection, id uuid.UUID, status string) error {
	result, err := coll.UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrRecordNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id uuid.UUID) error {
	result, err := coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrRecordNotFound
	}
	return nil
}

func aggregateStats(ctx context.Context, coll *mongo.Collection, docType domain.DocumentType, filter repository.DocumentFilter) (*repository.DocumentStats, error) {
	cursor, err := coll.Aggregate(ctx, statsPipeline(filter))
	if err != nil {
		return nil, err
	}
	var groups []statusGroup
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}

	rows := make([]repository.StatusCount, len(groups))
	for i, g := range groups {
		rows[i] = repository.StatusCount{Status: g.Status, Count: g.Count, TotalValue: g.TotalValue}
	}
	return repository.BuildStats(docType, rows), nil
}

func latestNumber(ctx context.Context, coll *mongo.Collection) (string, error) {
	var rec struct {
		DocumentNumber string `bson:"documentNumber"`
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"documentNumber": 1})
	err := coll.FindOne(ctx, bson.M{}, opts).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return rec.DocumentNumber, nil
}
