package repository

import (
	"context"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	return createDocument(ctx, r.db, invoice)
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	return getDocument[domain.Invoice](ctx, r.db, id)
}

func (r *InvoiceRepository) List(ctx context.Context, filter DocumentFilter, opts ListOptions) ([]domain.Invoice, int64, error) {
	return listDocuments[domain.Invoice](ctx, r.db, filter, opts)
}

func (r *InvoiceRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	return updateDocument(ctx, r.db, invoice)
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InvoiceStatus) error {
	return updateDocumentStatus[domain.Invoice](ctx, r.db, id, string(status))
}

func (r *InvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteDocument[domain.Invoice](ctx, r.db, id)
}

// Stats aggregates counts and grand totals per status. Revenue counts paid invoices.
func (r *InvoiceRepository) Stats(ctx context.Context, filter DocumentFilter) (*DocumentStats, error) {
	return documentStats[domain.Invoice](ctx, r.db, domain.DocumentTypeInvoice, filter)
}

func (r *InvoiceRepository) LatestDocumentNumber(ctx context.Context) (string, error) {
	return latestDocumentNumber[domain.Invoice](ctx, r.db)
}
