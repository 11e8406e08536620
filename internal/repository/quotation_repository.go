package repository

import (
	"context"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

// Create inserts a quotation. A clash on document_number yields ErrDuplicateKey.
func (r *QuotationRepository) Create(ctx context.Context, quotation *domain.Quotation) error {
	return createDocument(ctx, r.db, quotation)
}

func (r *QuotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	return getDocument[domain.Quotation](ctx, r.db, id)
}

// List returns one page of quotations matching filter and the total match count
func (r *QuotationRepository) List(ctx context.Context, filter DocumentFilter, opts ListOptions) ([]domain.Quotation, int64, error) {
	return listDocuments[domain.Quotation](ctx, r.db, filter, opts)
}

// Update writes every editable column. Number, owner and status are left untouched.
func (r *QuotationRepository) Update(ctx context.Context, quotation *domain.Quotation) error {
	return updateDocument(ctx, r.db, quotation)
}

func (r *QuotationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.QuotationStatus) error {
	return updateDocumentStatus[domain.Quotation](ctx, r.db, id, string(status))
}

func (r *QuotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteDocument[domain.Quotation](ctx, r.db, id)
}

// Stats aggregates counts and grand totals per status
func (r *QuotationRepository) Stats(ctx context.Context, filter DocumentFilter) (*DocumentStats, error) {
	return documentStats[domain.Quotation](ctx, r.db, domain.DocumentTypeQuotation, filter)
}

// LatestDocumentNumber returns the number of the most recently created quotation,
// or "" when there are none
func (r *QuotationRepository) LatestDocumentNumber(ctx context.Context) (string, error) {
	return latestDocumentNumber[domain.Quotation](ctx, r.db)
}
