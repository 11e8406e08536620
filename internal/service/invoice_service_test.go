package service_test

import (
	"testing"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/repository"
	"github.com/emeena/quotation-api/internal/service"
	"github.com/emeena/quotation-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupInvoiceService(t *testing.T) (*service.InvoiceService, *domain.User, *domain.User) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	numbers := service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), logger)
	svc := service.NewInvoiceService(repository.NewInvoiceRepository(db), numbers, logger)
	return svc, testutil.CreateTestUser(t, db, domain.RoleUser), testutil.CreateTestUser(t, db, domain.RoleSupervisor)
}

func TestInvoiceService_Create(t *testing.T) {
	svc, owner, _ := setupInvoiceService(t)
	ctx := testutil.ContextWithUser(owner)

	created, err := svc.Create(ctx, testutil.InvoiceRequest("Yaw Darko"))
	require.NoError(t, err)
	assert.Equal(t, "ENA/1234", created.DocumentNumber)
	assert.Equal(t, domain.InvoiceStatusDraft, created.Status)
	assert.Equal(t, "2026-03-05", created.Date)
	assert.InDelta(t, 500, created.GrandTotal, 0.001)
	assert.InDelta(t, 300, created.AdvancePayment, 0.001)
	assert.InDelta(t, 200, created.BalancePayment, 0.001)
	assert.Nil(t, created.SourceQuotationID)

	next, err := svc.Create(ctx, testutil.InvoiceRequest("Esi"))
	require.NoError(t, err)
	assert.Equal(t, "ENA/1235", next.DocumentNumber)
}

func TestInvoiceService_SourceQuotation(t *testing.T) {
	svc, owner, _ := setupInvoiceService(t)
	ctx := testutil.ContextWithUser(owner)

	t.Run("zero id is stored as absent", func(t *testing.T) {
		req := testutil.InvoiceRequest("Yaw")
		zero := uuid.Nil
		req.SourceQuotationID = &zero

		created, err := svc.Create(ctx, req)
		require.NoError(t, err)
		assert.Nil(t, created.SourceQuotationID)
	})

	t.Run("link is kept without checking the quotation exists", func(t *testing.T) {
		req := testutil.InvoiceRequest("Yaw")
		source := uuid.New()
		req.SourceQuotationID = &source

		created, err := svc.Create(ctx, req)
		require.NoError(t, err)
		require.NotNil(t, created.SourceQuotationID)
		assert.Equal(t, source, *created.SourceQuotationID)

		got, err := svc.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, source, *got.SourceQuotationID)
	})
}

func TestInvoiceService_SetStatus(t *testing.T) {
	svc, owner, supervisor := setupInvoiceService(t)
	ownerCtx := testutil.ContextWithUser(owner)
	supervisorCtx := testutil.ContextWithUser(supervisor)

	created, err := svc.Create(ownerCtx, testutil.InvoiceRequest("Yaw"))
	require.NoError(t, err)

	_, err = svc.SetStatus(ownerCtx, created.ID, "paid")
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = svc.SetStatus(supervisorCtx, created.ID, "approved")
	assert.ErrorIs(t, err, service.ErrInvalidStatus)

	got, err := svc.SetStatus(supervisorCtx, created.ID, "partial")
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPartial, got.Status)

	got, err = svc.SetStatus(supervisorCtx, created.ID, "paid")
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, got.Status)

	stats, err := svc.Stats(ownerCtx, repository.DocumentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
	assert.InDelta(t, 500, stats.Revenue, 0.001)
	assert.Len(t, stats.ByStatus, len(domain.InvoiceStatuses))
}

func TestInvoiceService_UpdateAndDelete(t *testing.T) {
	svc, owner, _ := setupInvoiceService(t)
	ctx := testutil.ContextWithUser(owner)

	created, err := svc.Create(ctx, testutil.InvoiceRequest("Yaw"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, &domain.UpdateInvoiceRequest{
		Date:   "2026-03-06",
		Client: testutil.ClientRequest("Yaw Darko"),
		Items: []domain.LineItemRequest{
			{Name: "Granite", Quantity: 2, UnitPrice: 500},
		},
		DocumentTotalsRequest: domain.DocumentTotalsRequest{DiscountAmount: 100},
	})
	require.NoError(t, err)
	assert.Equal(t, created.DocumentNumber, updated.DocumentNumber)
	assert.InDelta(t, 900, updated.GrandTotal, 0.001)
	assert.InDelta(t, 540, updated.AdvancePayment, 0.001)
	assert.InDelta(t, 360, updated.BalancePayment, 0.001)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestInvoiceService_ListAndCalculate(t *testing.T) {
	svc, owner, supervisor := setupInvoiceService(t)
	ctx := testutil.ContextWithUser(owner)

	for _, name := range []string{"Yaw", "Esi", "Kwame"} {
		_, err := svc.Create(ctx, testutil.InvoiceRequest(name))
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, repository.DocumentFilter{ClientName: "es"}, repository.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Pagination.Total)

	_, err = svc.List(testutil.ContextWithUser(supervisor), repository.DocumentFilter{Status: "approved"}, repository.ListOptions{})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	res, err := svc.Calculate(&domain.CalculateTotalsRequest{
		Items: []domain.LineItemRequest{{Name: "Sink", Quantity: 1, UnitPrice: 1000}},
	})
	require.NoError(t, err)
	require.NotNil(t, res.AdvancePayment)
	require.NotNil(t, res.BalancePayment)
	assert.InDelta(t, 600, *res.AdvancePayment, 0.001)
	assert.InDelta(t, 400, *res.BalancePayment, 0.001)
}
