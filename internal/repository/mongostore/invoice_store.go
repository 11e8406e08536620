package mongostore

import (
	"context"
	"time"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// InvoiceStore persists invoices in the "invoices" collection
type InvoiceStore struct {
	coll *mongo.Collection
}

func NewInvoiceStore(db *mongo.Database) *InvoiceStore {
	return &InvoiceStore{coll: db.Collection(invoicesCollection)}
}

func (s *InvoiceStore) Create(ctx context.Context, invoice *domain.Invoice) error {
	stampNew(&invoice.BaseModel)
	_, err := s.coll.InsertOne(ctx, toInvoiceRecord(invoice))
	return translateError(err)
}

func (s *InvoiceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var rec invoiceRecord
	if err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&rec); err != nil {
		return nil, translateError(err)
	}
	inv := rec.toDomain()
	return &inv, nil
}

func (s *InvoiceStore) List(ctx context.Context, filter repository.DocumentFilter, opts repository.ListOptions) ([]domain.Invoice, int64, error) {
	query := BuildDocumentFilter(filter)

	total, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := s.coll.Find(ctx, query, buildFindOptions(opts))
	if err != nil {
		return nil, 0, err
	}
	var records []invoiceRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, err
	}

	invoices := make([]domain.Invoice, len(records))
	for i, rec := range records {
		invoices[i] = rec.toDomain()
	}
	return invoices, total, nil
}

func (s *InvoiceStore) Update(ctx context.Context, invoice *domain.Invoice) error {
	invoice.UpdatedAt = time.Now().UTC()
	rec := toInvoiceRecord(invoice)

	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": rec.ID}, bson.M{"$set": bson.M{
		"date":              rec.Date,
		"client":            rec.Client,
		"items":             rec.Items,
		"subTotal":          rec.SubTotal,
		"taxRatePercent":    rec.TaxRatePercent,
		"discountAmount":    rec.DiscountAmount,
		"grandTotal":        rec.GrandTotal,
		"notes":             rec.Notes,
		"sourceQuotationId": rec.SourceQuotationID,
		"updatedAt":         rec.UpdatedAt,
	}})
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrRecordNotFound
	}
	return nil
}

func (s *InvoiceStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InvoiceStatus) error {
	return updateStatus(ctx, s.coll, id, string(status))
}

func (s *InvoiceStore) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.coll, id)
}

func (s *InvoiceStore) Stats(ctx context.Context, filter repository.DocumentFilter) (*repository.DocumentStats, error) {
	return aggregateStats(ctx, s.coll, domain.DocumentTypeInvoice, filter)
}

func (s *InvoiceStore) LatestDocumentNumber(ctx context.Context) (string, error) {
	return latestNumber(ctx, s.coll)
}
