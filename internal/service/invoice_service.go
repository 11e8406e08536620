package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/emeena/quotation-api/internal/auth"
	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/mapper"
	"github.com/emeena/quotation-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InvoiceService struct {
	repo    InvoiceStore
	numbers *NumberSequenceService
	logger  *zap.Logger
}

func NewInvoiceService(repo InvoiceStore, numbers *NumberSequenceService, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		repo:    repo,
		numbers: numbers,
		logger:  logger,
	}
}

// Create stores a new draft invoice owned by the caller. The optional source
// quotation link is stored as given and is not required to exist.
func (s *InvoiceService) Create(ctx context.Context, req *domain.CreateInvoiceRequest) (*domain.InvoiceDTO, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	date, err := ParseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	items, err := buildLineItems(req.Items)
	if err != nil {
		return nil, err
	}
	client := buildClient(req.Client)
	if err := validateClient(client); err != nil {
		return nil, err
	}

	invoice := &domain.Invoice{
		Date:              date,
		PreparedByUserID:  user.UserID,
		PreparedByName:    user.FullName,
		Client:            client,
		Items:             items,
		Totals:            resolveTotals(req.DocumentTotalsRequest, items),
		Status:            domain.InvoiceStatusDraft,
		Notes:             req.Notes,
		SourceQuotationID: normalizeSourceQuotation(req.SourceQuotationID),
	}

	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		number, err := s.numbers.AssignNumber(ctx, domain.DocumentTypeInvoice)
		if err == nil {
			invoice.DocumentNumber = number
			err = s.repo.Create(ctx, invoice)
		}
		if err == nil {
			s.logger.Info("invoice created",
				zap.String("invoice_id", invoice.ID.String()),
				zap.String("document_number", invoice.DocumentNumber),
				zap.String("user_id", user.UserID.String()))
			dto := mapper.ToInvoiceDTO(invoice)
			return &dto, nil
		}
		if !errors.Is(err, repository.ErrDuplicateKey) {
			s.logger.Error("failed to create invoice", zap.Error(err))
			return nil, fmt.Errorf("failed to create invoice: %w", err)
		}
		s.logger.Warn("invoice number collision, retrying",
			zap.String("document_number", invoice.DocumentNumber),
			zap.Int("attempt", attempt))
	}
	return nil, ErrDocumentNumberConflict
}

func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.InvoiceDTO, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	invoice, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanRead(user, invoice.PreparedByUserID) {
		return nil, ErrForbidden
	}
	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}

func (s *InvoiceService) List(ctx context.Context, filter repository.DocumentFilter, opts repository.ListOptions) (*domain.PaginatedResponse, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if filter.Status != "" && !domain.InvoiceStatus(filter.Status).IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}
	filter.OwnerID = auth.OwnerScope(user)
	opts = opts.Normalize()

	invoices, total, err := s.repo.List(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	dtos := make([]domain.InvoiceDTO, len(invoices))
	for i := range invoices {
		dtos[i] = mapper.ToInvoiceDTO(&invoices[i])
	}

	return &domain.PaginatedResponse{
		Items: dtos,
		Pagination: domain.Pagination{
			Total: total,
			Page:  opts.Page,
			Pages: repository.TotalPages(total, opts.Limit),
		},
	}, nil
}

func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateInvoiceRequest) (*domain.InvoiceDTO, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	invoice, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanModify(user, invoice.PreparedByUserID) {
		return nil, ErrForbidden
	}

	date, err := ParseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	items, err := buildLineItems(req.Items)
	if err != nil {
		return nil, err
	}
	client := buildClient(req.Client)
	if err := validateClient(client); err != nil {
		return nil, err
	}

	invoice.Date = date
	invoice.Client = client
	invoice.Items = items
	invoice.Totals = resolveTotals(req.DocumentTotalsRequest, items)
	invoice.Notes = req.Notes
	invoice.SourceQuotationID = normalizeSourceQuotation(req.SourceQuotationID)

	if err := s.repo.Update(ctx, invoice); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("failed to update invoice", zap.String("invoice_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}
	invoice, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanDelete(user, invoice.PreparedByUserID) {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	s.logger.Info("invoice deleted",
		zap.String("invoice_id", id.String()),
		zap.String("document_number", invoice.DocumentNumber),
		zap.String("user_id", user.UserID.String()))
	return nil
}

// SetStatus moves an invoice to any status of the invoice set.
// Checks run in order: existence, role, status membership.
func (s *InvoiceService) SetStatus(ctx context.Context, id uuid.UUID, status string) (*domain.InvoiceDTO, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	invoice, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanSetStatus(user) {
		return nil, ErrForbidden
	}
	next := domain.InvoiceStatus(status)
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: %q is not an invoice status", ErrInvalidStatus, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}

	s.logger.Info("invoice status changed",
		zap.String("invoice_id", id.String()),
		zap.String("from", string(invoice.Status)),
		zap.String("to", string(next)),
		zap.String("user_id", user.UserID.String()))

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToInvoiceDTO(updated)
	return &dto, nil
}

// Stats aggregates invoices visible to the caller. Revenue counts paid invoices.
func (s *InvoiceService) Stats(ctx context.Context, filter repository.DocumentFilter) (*domain.DocumentStatsDTO, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	filter.OwnerID = auth.OwnerScope(user)

	stats, err := s.repo.Stats(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to compute invoice stats: %w", err)
	}
	dto := mapper.ToDocumentStatsDTO(stats)
	return &dto, nil
}

// Calculate previews totals, including the advance and balance split
func (s *InvoiceService) Calculate(req *domain.CalculateTotalsRequest) (*domain.TotalsDTO, error) {
	return calculatePreview(req, true)
}

func (s *InvoiceService) load(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	invoice, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return invoice, nil
}

// normalizeSourceQuotation stores an absent or zero link as NULL
func normalizeSourceQuotation(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	v := *id
	return &v
}
