package repository

import (
	"context"
	"time"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// documentModel constrains the helpers below to the two document tables
type documentModel interface {
	domain.Quotation | domain.Invoice
}

// immutableColumns are never written by a regular update
var immutableColumns = []string{
	"id",
	"document_number",
	"prepared_by_user_id",
	"prepared_by_name",
	"created_at",
	"status",
}

func createDocument[T documentModel](ctx context.Context, db *gorm.DB, doc *T) error {
	return translateError(db.WithContext(ctx).Create(doc).Error)
}

func getDocument[T documentModel](ctx context.Context, db *gorm.DB, id uuid.UUID) (*T, error) {
	var doc T
	if err := db.WithContext(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, translateError(err)
	}
	return &doc, nil
}

func listDocuments[T documentModel](ctx context.Context, db *gorm.DB, filter DocumentFilter, opts ListOptions) ([]T, int64, error) {
	opts = opts.Normalize()

	var total int64
	if err := applyDocumentFilter(db.WithContext(ctx).Model(new(T)), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var docs []T
	err := applyDocumentFilter(db.WithContext(ctx).Model(new(T)), filter).
		Order(BuildOrderClause(opts.Sort, DocumentSortFields, "created_at")).
		Order("id DESC").
		Offset(opts.Offset()).
		Limit(opts.Limit).
		Find(&docs).Error
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

func updateDocument[T documentModel](ctx context.Context, db *gorm.DB, doc *T) error {
	result := db.WithContext(ctx).Model(doc).Select("*").Omit(immutableColumns...).Updates(doc)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func updateDocumentStatus[T documentModel](ctx context.Context, db *gorm.DB, id uuid.UUID, status string) error {
	result := db.WithContext(ctx).Model(new(T)).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func deleteDocument[T documentModel](ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func documentStats[T documentModel](ctx context.Context, db *gorm.DB, docType domain.DocumentType, filter DocumentFilter) (*DocumentStats, error) {
	var rows []StatusCount
	err := applyDocumentFilter(db.WithContext(ctx).Model(new(T)), filter).
		Select("status, COUNT(*) AS count, COALESCE(SUM(grand_total), 0) AS total_value").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return BuildStats(docType, rows), nil
}

func latestDocumentNumber[T documentModel](ctx context.Context, db *gorm.DB) (string, error) {
	var numbers []string
	err := db.WithContext(ctx).Model(new(T)).
		Order("created_at DESC").
		Limit(1).
		Pluck("document_number", &numbers).Error
	if err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}
