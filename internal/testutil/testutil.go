// Package testutil provides fixtures shared by package tests
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/emeena/quotation-api/internal/auth"
	"github.com/emeena/quotation-api/internal/config"
	"github.com/emeena/quotation-api/internal/database"
	"github.com/emeena/quotation-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var userSeq atomic.Int64

// SetupTestDB opens a fresh in-memory SQLite database with the full schema.
// Every call returns an isolated database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewDatabase(&config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: ":memory:",
	})
	require.NoError(t, err, "failed to open sqlite test database")
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateTestUser stores an active user with the given role
func CreateTestUser(t *testing.T, db *gorm.DB, role domain.UserRoleType) *domain.User {
	t.Helper()

	n := userSeq.Add(1)
	user := &domain.User{
		FullName:     fmt.Sprintf("Test User %d", n),
		StaffID:      fmt.Sprintf("EMP%03d", n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: "not-a-real-hash",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// ContextWithUser returns a context carrying user as the caller
func ContextWithUser(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), auth.NewUserContext(user))
}

// NewUserContext builds a caller identity without a stored user
func NewUserContext(role domain.UserRoleType) *auth.UserContext {
	return &auth.UserContext{
		UserID:   uuid.New(),
		FullName: "Context User",
		Email:    "context@example.com",
		Role:     role,
	}
}

// ClientRequest returns a valid client block
func ClientRequest(name string) domain.ClientRequest {
	return domain.ClientRequest{
		Title:   domain.ClientTitleMrs,
		Name:    name,
		Company: "Acme Interiors",
		Address: "12 Harbour Road",
		Phone:   "+233 20 000 0000",
	}
}

// QuotationRequest returns a valid create request with one priced row
func QuotationRequest(clientName string) *domain.CreateQuotationRequest {
	return &domain.CreateQuotationRequest{
		Date:       "2026-03-01",
		ValidUntil: "2026-03-31",
		Client:     ClientRequest(clientName),
		Items: []domain.LineItemRequest{
			{Name: "Pantry up", Quantity: 2, LineFit: "12ft", UnitPrice: 100},
		},
		DocumentTotalsRequest: domain.DocumentTotalsRequest{
			TaxRatePercent: 10,
			DiscountAmount: 5,
		},
	}
}

// InvoiceRequest returns a valid create request with one priced row
func InvoiceRequest(clientName string) *domain.CreateInvoiceRequest {
	return &domain.CreateInvoiceRequest{
		Date:   "2026-03-05",
		Client: ClientRequest(clientName),
		Items: []domain.LineItemRequest{
			{Name: "Granite", Quantity: 1, UnitPrice: 500},
		},
	}
}
