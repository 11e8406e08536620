package service

import (
	"context"
	"time"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/repository"
	"github.com/google/uuid"
)

// Storage contracts. The GORM repositories and the mongostore package both
// satisfy them.

type QuotationStore interface {
	Create(ctx context.Context, quotation *domain.Quotation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error)
	List(ctx context.Context, filter repository.DocumentFilter, opts repository.ListOptions) ([]domain.Quotation, int64, error)
	Update(ctx context.Context, quotation *domain.Quotation) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.QuotationStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, filter repository.DocumentFilter) (*repository.DocumentStats, error)
	LatestDocumentNumber(ctx context.Context) (string, error)
}

type InvoiceStore interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, filter repository.DocumentFilter, opts repository.ListOptions) ([]domain.Invoice, int64, error)
	Update(ctx context.Context, invoice *domain.Invoice) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InvoiceStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, filter repository.DocumentFilter) (*repository.DocumentStats, error)
	LatestDocumentNumber(ctx context.Context) (string, error)
}

type SequenceStore interface {
	GetNextNumber(ctx context.Context, docType domain.DocumentType, seed int) (int, error)
	GetCurrentSequence(ctx context.Context, docType domain.DocumentType) (int, error)
	RaiseSequence(ctx context.Context, docType domain.DocumentType, value int) (bool, error)
}

type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, fullName, staffID string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.UserRoleType) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// LatestNumberSource reports the number of the most recently created document
type LatestNumberSource interface {
	LatestDocumentNumber(ctx context.Context) (string, error)
}

// Compile-time checks for the SQL repositories
var (
	_ QuotationStore = (*repository.QuotationRepository)(nil)
	_ InvoiceStore   = (*repository.InvoiceRepository)(nil)
	_ SequenceStore  = (*repository.NumberSequenceRepository)(nil)
	_ UserStore      = (*repository.UserRepository)(nil)
)
