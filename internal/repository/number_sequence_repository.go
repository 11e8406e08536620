package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emeena/quotation-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NumberSequenceRepository keeps one counter row per document type. The row
// holds the last issued number; the next number is always LastSequence+1.
type NumberSequenceRepository struct {
	db *gorm.DB
}

// NewNumberSequenceRepository creates a new NumberSequenceRepository
func NewNumberSequenceRepository(db *gorm.DB) *NumberSequenceRepository {
	return &NumberSequenceRepository{db: db}
}

// lockForUpdate takes a row lock where the dialect supports it. SQLite locks
// the whole database for the duration of a write transaction instead.
func (r *NumberSequenceRepository) lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// GetNextNumber atomically increments the counter for docType and returns the
// new value. When no counter exists yet, seed is issued and stored.
func (r *NumberSequenceRepository) GetNextNumber(ctx context.Context, docType domain.DocumentType, seed int) (int, error) {
	var next int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq domain.NumberSequence
		err := r.lockForUpdate(tx).Where("document_type = ?", docType).First(&seq).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			now := time.Now().UTC()
			seq = domain.NumberSequence{
				DocumentType: docType,
				LastSequence: seed,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.Create(&seq).Error; err != nil {
				return fmt.Errorf("failed to create number sequence: %w", translateError(err))
			}
			next = seed
		case err != nil:
			return fmt.Errorf("failed to get number sequence: %w", err)
		default:
			next = seq.LastSequence + 1
			if err := tx.Model(&seq).Updates(map[string]interface{}{
				"last_sequence": next,
				"updated_at":    time.Now().UTC(),
			}).Error; err != nil {
				return fmt.Errorf("failed to update number sequence: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

// GetCurrentSequence returns the last issued number, or 0 if none was issued
func (r *NumberSequenceRepository) GetCurrentSequence(ctx context.Context, docType domain.DocumentType) (int, error) {
	var seq domain.NumberSequence
	err := r.db.WithContext(ctx).Where("document_type = ?", docType).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get number sequence: %w", err)
	}
	return seq.LastSequence, nil
}

// RaiseSequence moves the counter up to value. A counter already at or above
// value is left alone. Reports whether the counter changed.
func (r *NumberSequenceRepository) RaiseSequence(ctx context.Context, docType domain.DocumentType, value int) (bool, error) {
	raised := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq domain.NumberSequence
		err := r.lockForUpdate(tx).Where("document_type = ?", docType).First(&seq).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			now := time.Now().UTC()
			seq = domain.NumberSequence{
				DocumentType: docType,
				LastSequence: value,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.Create(&seq).Error; err != nil {
				return fmt.Errorf("failed to create number sequence: %w", translateError(err))
			}
			raised = true
		case err != nil:
			return fmt.Errorf("failed to get number sequence: %w", err)
		case value > seq.LastSequence:
			if err := tx.Model(&seq).Updates(map[string]interface{}{
				"last_sequence": value,
				"updated_at":    time.Now().UTC(),
			}).Error; err != nil {
				return fmt.Errorf("failed to update number sequence: %w", err)
			}
			raised = true
		}
		return nil
	})
	return raised, err
}
