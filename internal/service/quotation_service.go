package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/emeena/quotation-api/internal/auth"
	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/mapper"
	"github.com/emeena/quotation-api/internal/repository"
	"github.com/emeena/quotation-api/internal/totals"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type QuotationService struct {
	repo    QuotationStore
	numbers *NumberSequenceService
	logger  *zap.Logger
}

func NewQuotationService(repo QuotationStore, numbers *NumberSequenceService, logger *zap.Logger) *QuotationService {
	return &QuotationService{
		repo:    repo,
		numbers: numbers,
		logger:  logger,
	}
}

// Create stores a new draft quotation owned by the caller. A number collision
// is retried with a fresh number a bounded number of times.
func (s *QuotationService) Create(ctx context.Context, req *domain.CreateQuotationRequest) (*domain.QuotationDTO, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	date, validUntil, err := quotationDates(req.Date, req.ValidUntil)
	if err != nil {
		return nil, err
	}
	items, err := buildLineItems(req.Items)
	if err != nil {
		return nil, err
	}
	schedule, err := buildSchedule(req.ProjectSchedule)
	if err != nil {
		return nil, err
	}
	client := buildClient(req.Client)
	if err := validateClient(client); err != nil {
		return nil, err
	}

	quotation := &domain.Quotation{
		Date:             date,
		ValidUntil:       validUntil,
		PreparedByUserID: user.UserID,
		PreparedByName:   user.FullName,
		Client:           client,
		Items:            items,
		Totals:           resolveTotals(req.DocumentTotalsRequest, items),
		Status:           domain.QuotationStatusDraft,
		ProjectSchedule:  schedule,
		Notes:            req.Notes,
	}

	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		number, err := s.numbers.AssignNumber(ctx, domain.DocumentTypeQuotation)
		if err == nil {
			quotation.DocumentNumber = number
			err = s.repo.Create(ctx, quotation)
		}
		if err == nil {
			s.logger.Info("quotation created",
				zap.String("quotation_id", quotation.ID.String()),
				zap.String("document_number", quotation.DocumentNumber),
				zap.String("user_id", user.UserID.String()))
			dto := mapper.ToQuotationDTO(quotation)
			return &dto, nil
		}
		if !errors.Is(err, repository.ErrDuplicateKey) {
			s.logger.Error("failed to create quotation", zap.Error(err))
			return nil, fmt.Errorf("failed to create quotation: %w", err)
		}
		s.logger.Warn("quotation number collision, retrying",
			zap.String("document_number", quotation.DocumentNumber),
			zap.Int("attempt", attempt))
	}
	return nil, ErrDocumentNumberConflict
}

// GetByID returns a quotation the caller owns, or any quotation for privileged callers
func (s *QuotationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuotationDTO, error) {
	quotation, err := s.loadForRead(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToQuotationDTO(quotation)
	return &dto, nil
}

// List returns a page of quotations. Non-privileged callers only ever see their own.
func (s *QuotationService) List(ctx context.Context, filter repository.DocumentFilter, opts repository.ListOptions) (*domain.PaginatedResponse, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if filter.Status != "" && !domain.QuotationStatus(filter.Status).IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}
	filter.OwnerID = auth.OwnerScope(user)
	opts = opts.Normalize()

	quotations, total, err := s.repo.List(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}

	dtos := make([]domain.QuotationDTO, len(quotations))
	for i := range quotations {
		dtos[i] = mapper.ToQuotationDTO(&quotations[i])
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

// Update replaces the editable fields. Number, owner and status are kept.
func (s *QuotationService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateQuotationRequest) (*domain.QuotationDTO, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	quotation, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanModify(user, quotation.PreparedByUserID) {
		return nil, ErrForbidden
	}

	date, validUntil, err := quotationDates(req.Date, req.ValidUntil)
	if err != nil {
		return nil, err
	}
	items, err := buildLineItems(req.Items)
	if err != nil {
		return nil, err
	}
	schedule, err := buildSchedule(req.ProjectSchedule)
	if err != nil {
		return nil, err
	}
	client := buildClient(req.Client)
	if err := validateClient(client); err != nil {
		return nil, err
	}

	quotation.Date = date
	quotation.ValidUntil = validUntil
	quotation.Client = client
	quotation.Items = items
	quotation.Totals = resolveTotals(req.DocumentTotalsRequest, items)
	quotation.ProjectSchedule = schedule
	quotation.Notes = req.Notes

	if err := s.repo.Update(ctx, quotation); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("failed to update quotation", zap.String("quotation_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to update quotation: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Delete removes a quotation owned by the caller, or any quotation for privileged callers
func (s *QuotationService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}
	quotation, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanDelete(user, quotation.PreparedByUserID) {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete quotation: %w", err)
	}

	s.logger.Info("quotation deleted",
		zap.String("quotation_id", id.String()),
		zap.String("document_number", quotation.DocumentNumber),
		zap.String("user_id", user.UserID.String()))
	return nil
}

// SetStatus moves a quotation to any status of the quotation set. The checks
// run in order: existence, role, then status membership.
func (s *QuotationService) SetStatus(ctx context.Context, id uuid.UUID, status string) (*domain.QuotationDTO, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	quotation, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanSetStatus(user) {
		return nil, ErrForbidden
	}
	next := domain.QuotationStatus(status)
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: %q is not a quotation status", ErrInvalidStatus, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update quotation status: %w", err)
	}

	s.logger.Info("quotation status changed",
		zap.String("quotation_id", id.String()),
		zap.String("from", string(quotation.Status)),
		zap.String("to", string(next)),
		zap.String("user_id", user.UserID.String()))

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToQuotationDTO(updated)
	return &dto, nil
}

// Stats aggregates quotations visible to the caller
func (s *QuotationService) Stats(ctx context.Context, filter repository.DocumentFilter) (*domain.DocumentStatsDTO, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	filter.OwnerID = auth.OwnerScope(user)

	stats, err := s.repo.Stats(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to compute quotation stats: %w", err)
	}
	dto := mapper.ToDocumentStatsDTO(stats)
	return &dto, nil
}

// Calculate previews totals for a draft without storing anything
func (s *QuotationService) Calculate(req *domain.CalculateTotalsRequest) (*domain.TotalsDTO, error) {
	return calculatePreview(req, false)
}

func (s *QuotationService) load(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	quotation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}
	return quotation, nil
}

func (s *QuotationService) loadForRead(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	quotation, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanRead(user, quotation.PreparedByUserID) {
		return nil, ErrForbidden
	}
	return quotation, nil
}

func calculatePreview(req *domain.CalculateTotalsRequest, withPayments bool) (*domain.TotalsDTO, error) {
	items, err := buildLineItems(req.Items)
	if err != nil {
		return nil, err
	}
	res := totals.Calculate(items, req.TaxRatePercent, req.DiscountAmount)
	dto := mapper.ToTotalsDTO(items, res, req.DiscountAmount, withPayments)
	return &dto, nil
}
