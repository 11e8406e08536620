package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/emeena/quotation-api/internal/auth"
	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/repository"
	"github.com/emeena/quotation-api/internal/service"
	"github.com/emeena/quotation-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type quotationFixture struct {
	db         *gorm.DB
	repo       *repository.QuotationRepository
	svc        *service.QuotationService
	owner      *domain.User
	other      *domain.User
	supervisor *domain.User
}

func setupQuotationService(t *testing.T) *quotationFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	repo := repository.NewQuotationRepository(db)
	numbers := service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), logger)

	return &quotationFixture{
		db:         db,
		repo:       repo,
		svc:        service.NewQuotationService(repo, numbers, logger),
		owner:      testutil.CreateTestUser(t, db, domain.RoleUser),
		other:      testutil.CreateTestUser(t, db, domain.RoleUser),
		supervisor: testutil.CreateTestUser(t, db, domain.RoleSupervisor),
	}
}

func float(v float64) *float64 { return &v }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestQuotationService_Create(t *testing.T) {
	f := setupQuotationService(t)
	ctx := testutil.ContextWithUser(f.owner)

	created, err := f.svc.Create(ctx, testutil.QuotationRequest("Ama Mensah"))
	require.NoError(t, err)

	assert.Equal(t, "QN26/A/1234", created.DocumentNumber)
	assert.Equal(t, domain.QuotationStatusDraft, created.Status)
	assert.Equal(t, f.owner.ID, created.PreparedByUserID)
	assert.Equal(t, f.owner.FullName, created.PreparedByName)
	assert.Equal(t, "2026-03-01", created.Date)
	assert.Equal(t, "2026-03-31", created.ValidUntil)
	assert.InDelta(t, 200, created.SubTotal, 0.001)
	assert.InDelta(t, 215, created.GrandTotal, 0.001)
	require.Len(t, created.Items, 1)
	assert.InDelta(t, 200, created.Items[0].Total, 0.001)

	fetched, err := f.svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.DocumentNumber, fetched.DocumentNumber)
	assert.Equal(t, "Ama Mensah", fetched.Client.Name)
	assert.InDelta(t, 215, fetched.GrandTotal, 0.001)

	second, err := f.svc.Create(ctx, testutil.QuotationRequest("Kojo"))
	require.NoError(t, err)
	assert.Equal(t, "QN26/A/1235", second.DocumentNumber)
}

func TestQuotationService_Create_DropsEmptyRowsAndKeepsSubmittedTotals(t *testing.T) {
	f := setupQuotationService(t)
	ctx := testutil.ContextWithUser(f.owner)

	req := testutil.QuotationRequest("Ama")
	req.Items = append(req.Items,
		domain.LineItemRequest{},
		domain.LineItemRequest{Name: "TV Wall", Quantity: 1, UnitPrice: 50, Total: float(45)},
	)
	req.SubTotal = float(999)
	req.GrandTotal = float(1000)

	created, err := f.svc.Create(ctx, req)
	require.NoError(t, err)
	require.Len(t, created.Items, 2)
	assert.Equal(t, "TV Wall", created.Items[1].Name)
	assert.InDelta(t, 45, created.Items[1].Total, 0.001)
	assert.InDelta(t, 999, created.SubTotal, 0.001)
	assert.InDelta(t, 1000, created.GrandTotal, 0.001)
}

func TestQuotationService_Create_Validation(t *testing.T) {
	f := setupQuotationService(t)
	ctx := testutil.ContextWithUser(f.owner)

	tests := []struct {
		name   string
		mutate func(*domain.CreateQuotationRequest)
	}{
		{"bad date", func(r *domain.CreateQuotationRequest) { r.Date = "01/03/2026" }},
		{"valid until before date", func(r *domain.CreateQuotationRequest) { r.ValidUntil = "2026-02-01" }},
		{"missing client name", func(r *domain.CreateQuotationRequest) { r.Client.Name = "  " }},
		{"unknown title", func(r *domain.CreateQuotationRequest) { r.Client.Title = "Sir" }},
		{"row without name", func(r *domain.CreateQuotationRequest) {
			r.Items = append(r.Items, domain.LineItemRequest{Quantity: 1, UnitPrice: 10})
		}},
		{"bad schedule date", func(r *domain.CreateQuotationRequest) {
			bad := "next week"
			r.ProjectSchedule = &domain.ProjectScheduleRequest{Inspection: &bad}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.QuotationRequest("Ama")
			tc.mutate(req)
			_, err := f.svc.Create(ctx, req)
			assert.ErrorIs(t, err, service.ErrInvalidInput)
		})
	}
}

func TestQuotationService_Create_RequiresCaller(t *testing.T) {
	f := setupQuotationService(t)
	_, err := f.svc.Create(context.Background(), testutil.QuotationRequest("Ama"))
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestQuotationService_Create_RetriesOnNumberCollision(t *testing.T) {
	f := setupQuotationService(t)
	ctx := context.Background()

	// A document imported outside the service already holds the first number.
	imported := &domain.Quotation{
		DocumentNumber:   "QN26/A/1234",
		Date:             day("2026-01-01"),
		ValidUntil:       day("2026-01-31"),
		PreparedByUserID: f.other.ID,
		PreparedByName:   f.other.FullName,
		Client:           domain.Client{Title: domain.ClientTitleMr, Name: "Legacy", Address: "Old Town"},
		Status:           domain.QuotationStatusApproved,
	}
	require.NoError(t, f.repo.Create(ctx, imported))

	created, err := f.svc.Create(testutil.ContextWithUser(f.owner), testutil.QuotationRequest("Ama"))
	require.NoError(t, err)
	assert.Equal(t, "QN26/A/1235", created.DocumentNumber)
}

func TestQuotationService_AccessControl(t *testing.T) {
	f := setupQuotationService(t)
	ownerCtx := testutil.ContextWithUser(f.owner)
	otherCtx := testutil.ContextWithUser(f.other)
	supervisorCtx := testutil.ContextWithUser(f.supervisor)

	created, err := f.svc.Create(ownerCtx, testutil.QuotationRequest("Ama"))
	require.NoError(t, err)

	t.Run("other user cannot read", func(t *testing.T) {
		_, err := f.svc.GetByID(otherCtx, created.ID)
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("supervisor can read", func(t *testing.T) {
		got, err := f.svc.GetByID(supervisorCtx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("other user cannot update or delete", func(t *testing.T) {
		_, err := f.svc.Update(otherCtx, created.ID, updateRequest("Hijack"))
		assert.ErrorIs(t, err, service.ErrForbidden)
		assert.ErrorIs(t, f.svc.Delete(otherCtx, created.ID), service.ErrForbidden)
	})

	t.Run("list is scoped to the owner", func(t *testing.T) {
		_, err := f.svc.Create(otherCtx, testutil.QuotationRequest("Kojo"))
		require.NoError(t, err)

		page, err := f.svc.List(ownerCtx, repository.DocumentFilter{}, repository.ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Pagination.Total)

		page, err = f.svc.List(supervisorCtx, repository.DocumentFilter{}, repository.ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Pagination.Total)
		assert.Equal(t, 1, page.Pagination.Page)
		assert.Equal(t, 1, page.Pagination.Pages)
	})

	t.Run("unknown status filter", func(t *testing.T) {
		_, err := f.svc.List(ownerCtx, repository.DocumentFilter{Status: "archived"}, repository.ListOptions{})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := f.svc.GetByID(ownerCtx, uuid.New())
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func updateRequest(clientName string) *domain.UpdateQuotationRequest {
	req := testutil.QuotationRequest(clientName)
	return &domain.UpdateQuotationRequest{
		Date:                  "2026-03-02",
		ValidUntil:            "2026-04-02",
		Client:                req.Client,
		Items:                 req.Items,
		Notes:                 "second revision",
		DocumentTotalsRequest: domain.DocumentTotalsRequest{TaxRatePercent: 0, DiscountAmount: 0},
	}
}

func TestQuotationService_UpdateKeepsNumberOwnerAndStatus(t *testing.T) {
	f := setupQuotationService(t)
	ownerCtx := testutil.ContextWithUser(f.owner)

	created, err := f.svc.Create(ownerCtx, testutil.QuotationRequest("Ama"))
	require.NoError(t, err)
	_, err = f.svc.SetStatus(testutil.ContextWithUser(f.supervisor), created.ID, "pending")
	require.NoError(t, err)

	updated, err := f.svc.Update(testutil.ContextWithUser(f.supervisor), created.ID, updateRequest("Ama Serwaa"))
	require.NoError(t, err)

	assert.Equal(t, created.DocumentNumber, updated.DocumentNumber)
	assert.Equal(t, f.owner.ID, updated.PreparedByUserID)
	assert.Equal(t, f.owner.FullName, updated.PreparedByName)
	assert.Equal(t, domain.QuotationStatusPending, updated.Status)
	assert.Equal(t, "Ama Serwaa", updated.Client.Name)
	assert.Equal(t, "2026-03-02", updated.Date)
	assert.Equal(t, "second revision", updated.Notes)
	assert.InDelta(t, 200, updated.GrandTotal, 0.001)
}

func TestQuotationService_SetStatus(t *testing.T) {
	f := setupQuotationService(t)
	ownerCtx := testutil.ContextWithUser(f.owner)
	supervisorCtx := testutil.ContextWithUser(f.supervisor)

	created, err := f.svc.Create(ownerCtx, testutil.QuotationRequest("Ama"))
	require.NoError(t, err)

	t.Run("regular user is forbidden even as owner", func(t *testing.T) {
		_, err := f.svc.SetStatus(ownerCtx, created.ID, "approved")
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("missing document is reported before role", func(t *testing.T) {
		_, err := f.svc.SetStatus(ownerCtx, uuid.New(), "approved")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("invalid status leaves document unchanged", func(t *testing.T) {
		_, err := f.svc.SetStatus(supervisorCtx, created.ID, "paid")
		assert.ErrorIs(t, err, service.ErrInvalidStatus)

		got, err := f.svc.GetByID(ownerCtx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.QuotationStatusDraft, got.Status)
	})

	t.Run("any status may follow any other", func(t *testing.T) {
		for _, status := range []string{"completed", "draft", "rejected", "approved"} {
			got, err := f.svc.SetStatus(supervisorCtx, created.ID, status)
			require.NoError(t, err)
			assert.Equal(t, domain.QuotationStatus(status), got.Status)
		}
	})

	t.Run("admin may transition", func(t *testing.T) {
		admin := testutil.CreateTestUser(t, f.db, domain.RoleAdmin)
		got, err := f.svc.SetStatus(testutil.ContextWithUser(admin), created.ID, "pending")
		require.NoError(t, err)
		assert.Equal(t, domain.QuotationStatusPending, got.Status)
	})
}

func TestQuotationService_Delete(t *testing.T) {
	f := setupQuotationService(t)
	ownerCtx := testutil.ContextWithUser(f.owner)

	created, err := f.svc.Create(ownerCtx, testutil.QuotationRequest("Ama"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ownerCtx, created.ID))
	_, err = f.svc.GetByID(ownerCtx, created.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ownerCtx, created.ID), service.ErrNotFound)
}

func TestQuotationService_Stats(t *testing.T) {
	f := setupQuotationService(t)
	ownerCtx := testutil.ContextWithUser(f.owner)
	supervisorCtx := testutil.ContextWithUser(f.supervisor)

	mine, err := f.svc.Create(ownerCtx, testutil.QuotationRequest("Ama"))
	require.NoError(t, err)
	_, err = f.svc.Create(testutil.ContextWithUser(f.other), testutil.QuotationRequest("Kojo"))
	require.NoError(t, err)
	_, err = f.svc.SetStatus(supervisorCtx, mine.ID, "approved")
	require.NoError(t, err)

	stats, err := f.svc.Stats(ownerCtx, repository.DocumentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
	assert.InDelta(t, 215, stats.Revenue, 0.001)
	assert.Len(t, stats.ByStatus, len(domain.QuotationStatuses))

	stats, err = f.svc.Stats(supervisorCtx, repository.DocumentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.InDelta(t, 215, stats.Revenue, 0.001)
}

func TestQuotationService_Calculate(t *testing.T) {
	f := setupQuotationService(t)

	res, err := f.svc.Calculate(&domain.CalculateTotalsRequest{
		Items: []domain.LineItemRequest{
			{Name: "Pantry up", Quantity: 2, UnitPrice: 100},
			{},
		},
		TaxRatePercent: 10,
		DiscountAmount: 5,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.InDelta(t, 200, res.SubTotal, 0.001)
	assert.InDelta(t, 20, res.TaxAmount, 0.001)
	assert.InDelta(t, 215, res.GrandTotal, 0.001)
	assert.Nil(t, res.AdvancePayment)
	assert.Nil(t, res.BalancePayment)
}

func TestQuotationService_UsesCallerRoleFromContext(t *testing.T) {
	f := setupQuotationService(t)
	created, err := f.svc.Create(testutil.ContextWithUser(f.owner), testutil.QuotationRequest("Ama"))
	require.NoError(t, err)

	ctx := auth.WithUserContext(context.Background(), testutil.NewUserContext(domain.RoleAdmin))
	got, err := f.svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}
