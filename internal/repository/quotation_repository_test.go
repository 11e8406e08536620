package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/repository"
	"github.com/emeena/quotation-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func newQuotation(owner *domain.User, number, clientName, date string, grand float64, status domain.QuotationStatus) *domain.Quotation {
	return &domain.Quotation{
		DocumentNumber:   number,
		Date:             day(date),
		ValidUntil:       day(date).AddDate(0, 0, 30),
		PreparedByUserID: owner.ID,
		PreparedByName:   owner.FullName,
		Client: domain.Client{
			Title:   domain.ClientTitleMr,
			Name:    clientName,
			Address: "1 Test Street",
		},
		Items: []domain.LineItem{
			{Name: "Granite", Quantity: 1, UnitPrice: grand, Total: grand},
		},
		Totals: domain.DocumentTotals{SubTotal: grand, GrandTotal: grand},
		Status: status,
	}
}

func seedQuotations(t *testing.T, repo *repository.QuotationRepository, docs ...*domain.Quotation) {
	t.Helper()
	for _, q := range docs {
		require.NoError(t, repo.Create(context.Background(), q))
	}
}

func setupQuotations(t *testing.T) (*gorm.DB, *repository.QuotationRepository, *domain.User) {
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, domain.RoleUser)
	return db, repository.NewQuotationRepository(db), owner
}

func TestQuotationRepository_CreateAndGet(t *testing.T) {
	_, repo, owner := setupQuotations(t)
	ctx := context.Background()

	q := newQuotation(owner, "QN26/A/1234", "Ama Mensah", "2026-03-01", 215, domain.QuotationStatusDraft)
	q.ProjectSchedule.MeasuringDay = ptrTime(day("2026-03-10"))
	require.NoError(t, repo.Create(ctx, q))
	assert.NotEqual(t, uuid.Nil, q.ID)

	got, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "QN26/A/1234", got.DocumentNumber)
	assert.Equal(t, "Ama Mensah", got.Client.Name)
	assert.Equal(t, owner.ID, got.PreparedByUserID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Granite", got.Items[0].Name)
	assert.InDelta(t, 215, got.Totals.GrandTotal, 0.001)
	require.NotNil(t, got.ProjectSchedule.MeasuringDay)
	assert.True(t, day("2026-03-10").Equal(*got.ProjectSchedule.MeasuringDay))
	assert.Nil(t, got.ProjectSchedule.CompletionDate)
}

func TestQuotationRepository_GetByID_NotFound(t *testing.T) {
	_, repo, _ := setupQuotations(t)
	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}

func TestQuotationRepository_DuplicateNumber(t *testing.T) {
	_, repo, owner := setupQuotations(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newQuotation(owner, "QN26/A/1234", "A", "2026-03-01", 10, domain.QuotationStatusDraft)))
	err := repo.Create(ctx, newQuotation(owner, "QN26/A/1234", "B", "2026-03-02", 20, domain.QuotationStatusDraft))
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)
}

func TestQuotationRepository_ListPagination(t *testing.T) {
	_, repo, owner := setupQuotations(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		seedQuotations(t, repo, newQuotation(owner, fmt.Sprintf("QN26/A/%d", 1234+i), "Client", "2026-03-01", 100, domain.QuotationStatusDraft))
	}

	opts := repository.ListOptions{Page: 2, Limit: 10}
	docs, total, err := repo.List(ctx, repository.DocumentFilter{}, opts)
	require.NoError(t, err)
	assert.Equal(t, int64(15), total)
	assert.Len(t, docs, 5)
	assert.Equal(t, 2, repository.TotalPages(total, opts.Limit))
}

func TestQuotationRepository_ListSorting(t *testing.T) {
	_, repo, owner := setupQuotations(t)
	seedQuotations(t, repo,
		newQuotation(owner, "QN26/A/1", "B", "2026-03-01", 300, domain.QuotationStatusDraft),
		newQuotation(owner, "QN26/A/2", "A", "2026-03-02", 100, domain.QuotationStatusDraft),
		newQuotation(owner, "QN26/A/3", "C", "2026-03-03", 200, domain.QuotationStatusDraft),
	)

	docs, _, err := repo.List(context.Background(), repository.DocumentFilter{}, repository.ListOptions{
		Sort: repository.SortConfig{Field: "grandTotal", Order: repository.SortOrderAsc},
	})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, []string{"QN26/A/2", "QN26/A/3", "QN26/A/1"},
		[]string{docs[0].DocumentNumber, docs[1].DocumentNumber, docs[2].DocumentNumber})

	docs, _, err = repo.List(context.Background(), repository.DocumentFilter{}, repository.ListOptions{
		Sort: repository.SortConfig{Field: "clientName", Order: repository.SortOrderDesc},
	})
	require.NoError(t, err)
	assert.Equal(t, "C", docs[0].Client.Name)
}

func TestQuotationRepository_ListFilters(t *testing.T) {
	db, repo, owner := setupQuotations(t)
	other := testutil.CreateTestUser(t, db, domain.RoleUser)
	ctx := context.Background()

	seedQuotations(t, repo,
		newQuotation(owner, "QN26/A/1", "Kofi Boateng", "2026-03-01", 100, domain.QuotationStatusDraft),
		newQuotation(owner, "QN26/A/2", "100% Designs", "2026-03-15", 200, domain.QuotationStatusApproved),
		newQuotation(other, "QN26/A/3", "kofi_annan", "2026-03-31", 300, domain.QuotationStatusApproved),
		newQuotation(other, "QN26/A/4", "Efua", "2026-04-01", 400, domain.QuotationStatusPending),
	)

	numbers := func(filter repository.DocumentFilter) []string {
		t.Helper()
		docs, _, err := repo.List(ctx, filter, repository.ListOptions{
			Sort: repository.SortConfig{Field: "documentNumber", Order: repository.SortOrderAsc},
		})
		require.NoError(t, err)
		out := make([]string, len(docs))
		for i := range docs {
			out[i] = docs[i].DocumentNumber
		}
		return out
	}

	t.Run("owner", func(t *testing.T) {
		assert.Equal(t, []string{"QN26/A/1", "QN26/A/2"}, numbers(repository.DocumentFilter{OwnerID: &owner.ID}))
	})

	t.Run("status", func(t *testing.T) {
		assert.Equal(t, []string{"QN26/A/2", "QN26/A/3"}, numbers(repository.DocumentFilter{Status: "approved"}))
	})

	t.Run("client name is case insensitive", func(t *testing.T) {
		assert.Equal(t, []string{"QN26/A/1", "QN26/A/3"}, numbers(repository.DocumentFilter{ClientName: "KOFI"}))
	})

	t.Run("client name wildcards match literally", func(t *testing.T) {
		assert.Equal(t, []string{"QN26/A/2"}, numbers(repository.DocumentFilter{ClientName: "100%"}))
		assert.Equal(t, []string{"QN26/A/3"}, numbers(repository.DocumentFilter{ClientName: "i_a"}))
	})

	t.Run("date range includes the whole end day", func(t *testing.T) {
		start, end := day("2026-03-15"), day("2026-03-31")
		assert.Equal(t, []string{"QN26/A/2", "QN26/A/3"}, numbers(repository.DocumentFilter{StartDate: &start, EndDate: &end}))
	})

	t.Run("combined", func(t *testing.T) {
		assert.Equal(t, []string{"QN26/A/3"}, numbers(repository.DocumentFilter{OwnerID: &other.ID, Status: "approved"}))
	})
}

func TestQuotationRepository_UpdateKeepsImmutableFields(t *testing.T) {
	_, repo, owner := setupQuotations(t)
	ctx := context.Background()

	q := newQuotation(owner, "QN26/A/1234", "Ama", "2026-03-01", 100, domain.QuotationStatusPending)
	seedQuotations(t, repo, q)

	changed := *q
	changed.DocumentNumber = "QN26/A/9999"
	changed.PreparedByUserID = uuid.New()
	changed.PreparedByName = "Someone Else"
	changed.Status = domain.QuotationStatusCompleted
	changed.Client.Name = "Ama Serwaa"
	changed.Notes = "revised"
	changed.Totals.GrandTotal = 150
	require.NoError(t, repo.Update(ctx, &changed))

	got, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "QN26/A/1234", got.DocumentNumber)
	assert.Equal(t, owner.ID, got.PreparedByUserID)
	assert.Equal(t, owner.FullName, got.PreparedByName)
	assert.Equal(t, domain.QuotationStatusPending, got.Status)
	assert.Equal(t, "Ama Serwaa", got.Client.Name)
	assert.Equal(t, "revised", got.Notes)
	assert.InDelta(t, 150, got.Totals.GrandTotal, 0.001)
}

func TestQuotationRepository_UpdateStatusAndDelete(t *testing.T) {
	_, repo, owner := setupQuotations(t)
	ctx := context.Background()

	q := newQuotation(owner, "QN26/A/1234", "Ama", "2026-03-01", 100, domain.QuotationStatusDraft)
	seedQuotations(t, repo, q)

	require.NoError(t, repo.UpdateStatus(ctx, q.ID, domain.QuotationStatusApproved))
	got, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusApproved, got.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, uuid.New(), domain.QuotationStatusApproved), repository.ErrRecordNotFound)

	require.NoError(t, repo.Delete(ctx, q.ID))
	_, err = repo.GetByID(ctx, q.ID)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, q.ID), repository.ErrRecordNotFound)
}

func TestQuotationRepository_Stats(t *testing.T) {
	_, repo, owner := setupQuotations(t)
	seedQuotations(t, repo,
		newQuotation(owner, "QN26/A/1", "A", "2026-03-01", 100, domain.QuotationStatusDraft),
		newQuotation(owner, "QN26/A/2", "B", "2026-03-02", 250, domain.QuotationStatusApproved),
		newQuotation(owner, "QN26/A/3", "C", "2026-03-03", 50, domain.QuotationStatusApproved),
	)

	stats, err := repo.Stats(context.Background(), repository.DocumentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.InDelta(t, 300, stats.Revenue, 0.001)
	require.Len(t, stats.ByStatus, 5)

	byStatus := map[string]repository.StatusCount{}
	for _, b := range stats.ByStatus {
		byStatus[b.Status] = b
	}
	assert.Equal(t, int64(1), byStatus["draft"].Count)
	assert.Equal(t, int64(2), byStatus["approved"].Count)
	assert.Equal(t, int64(0), byStatus["rejected"].Count)
	assert.Equal(t, "draft", stats.ByStatus[0].Status)
}

func TestQuotationRepository_LatestDocumentNumber(t *testing.T) {
	_, repo, owner := setupQuotations(t)
	ctx := context.Background()

	latest, err := repo.LatestDocumentNumber(ctx)
	require.NoError(t, err)
	assert.Empty(t, latest)

	first := newQuotation(owner, "QN26/A/1234", "A", "2026-03-01", 10, domain.QuotationStatusDraft)
	first.CreatedAt = time.Now().UTC().Add(-time.Hour)
	second := newQuotation(owner, "QN26/A/1240", "B", "2026-03-01", 10, domain.QuotationStatusDraft)
	seedQuotations(t, repo, first, second)

	latest, err = repo.LatestDocumentNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "QN26/A/1240", latest)
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
