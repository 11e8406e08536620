package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/emeena/quotation-api/internal/domain"
	"go.uber.org/zap"
)

const (
	// QuotationNumberPrefix precedes every quotation number
	QuotationNumberPrefix = "QN26/A"
	// InvoiceNumberPrefix precedes every invoice number
	InvoiceNumberPrefix = "ENA"
	// FirstDocumentNumber is issued to the first document of each type
	FirstDocumentNumber = 1234

	numberSeparator = "/"
)

// NumberSequenceService hands out sequential, human-readable document numbers.
//
// Format: {PREFIX}/{SEQUENCE}
// Example: QN26/A/1234, ENA/1240
type NumberSequenceService struct {
	repo   SequenceStore
	logger *zap.Logger
}

// NewNumberSequenceService creates a new NumberSequenceService
func NewNumberSequenceService(repo SequenceStore, logger *zap.Logger) *NumberSequenceService {
	return &NumberSequenceService{
		repo:   repo,
		logger: logger,
	}
}

// DocumentPrefix returns the number prefix for a document type
func DocumentPrefix(docType domain.DocumentType) string {
	if docType == domain.DocumentTypeInvoice {
		return InvoiceNumberPrefix
	}
	return QuotationNumberPrefix
}

// FormatDocumentNumber renders a sequence value with the type's prefix
func FormatDocumentNumber(docType domain.DocumentType, sequence int) string {
	return DocumentPrefix(docType) + numberSeparator + strconv.Itoa(sequence)
}

// ParseDocumentNumber splits a number at its last separator. ok is false when
// there is no separator or the suffix is not a plain non-negative integer.
func ParseDocumentNumber(number string) (prefix string, sequence int, ok bool) {
	idx := strings.LastIndex(number, numberSeparator)
	if idx < 0 {
		return "", 0, false
	}
	suffix := number[idx+1:]
	if suffix == "" {
		return "", 0, false
	}
	for _, c := range suffix {
		if c < '0' || c > '9' {
			return "", 0, false
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return "", 0, false
	}
	return number[:idx], n, true
}

// AssignNumber allocates the next number for docType. Any storage failure is
// returned and no number is issued.
func (s *NumberSequenceService) AssignNumber(ctx context.Context, docType domain.DocumentType) (string, error) {
	next, err := s.repo.GetNextNumber(ctx, docType, FirstDocumentNumber)
	if err != nil {
		s.logger.Error("failed to get next sequence number",
			zap.String("documentType", string(docType)),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate %s number: %w", docType, err)
	}

	number := FormatDocumentNumber(docType, next)
	s.logger.Debug("generated number",
		zap.String("number", number),
		zap.String("documentType", string(docType)),
		zap.Int("sequence", next))
	return number, nil
}

// CurrentSequence returns the last issued sequence value, or 0 if none was issued
func (s *NumberSequenceService) CurrentSequence(ctx context.Context, docType domain.DocumentType) (int, error) {
	return s.repo.GetCurrentSequence(ctx, docType)
}

// Reconcile raises the counter for docType to the suffix of the most recently
// created document when the counter is behind, e.g. after importing legacy data.
// Numbers with a foreign prefix or a malformed suffix are logged and skipped.
func (s *NumberSequenceService) Reconcile(ctx context.Context, docType domain.DocumentType, source LatestNumberSource) (bool, error) {
	latest, err := source.LatestDocumentNumber(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read latest %s number: %w", docType, err)
	}
	if latest == "" {
		return false, nil
	}

	prefix, sequence, ok := ParseDocumentNumber(latest)
	if !ok || prefix != DocumentPrefix(docType) {
		s.logger.Warn("skipping malformed document number",
			zap.String("documentType", string(docType)),
			zap.String("number", latest))
		return false, nil
	}

	raised, err := s.repo.RaiseSequence(ctx, docType, sequence)
	if err != nil {
		return false, fmt.Errorf("failed to raise %s sequence: %w", docType, err)
	}
	if raised {
		s.logger.Info("number sequence raised to match stored documents",
			zap.String("documentType", string(docType)),
			zap.Int("sequence", sequence))
	}
	return raised, nil
}
