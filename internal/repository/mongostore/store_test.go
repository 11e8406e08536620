package mongostore_test

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/repository"
	"github.com/emeena/quotation-api/internal/repository/mongostore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// setupMongo returns an empty database on the server named by MONGO_URI_TEST.
// The database is dropped when the test ends.
func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGO_URI_TEST")
	if uri == "" {
		t.Skip("MONGO_URI_TEST not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	name := "quotation_api_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	db := client.Database(name)
	require.NoError(t, mongostore.EnsureIndexes(ctx, db))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func owner(name string) *domain.User {
	u := &domain.User{FullName: name, Email: strings.ToLower(name) + "@example.com", Role: domain.RoleUser, IsActive: true}
	u.ID = uuid.New()
	return u
}

func newQuotation(by *domain.User, number, clientName, date string, grand float64, status domain.QuotationStatus) *domain.Quotation {
	return &domain.Quotation{
		DocumentNumber:   number,
		Date:             day(date),
		ValidUntil:       day(date).AddDate(0, 0, 30),
		PreparedByUserID: by.ID,
		PreparedByName:   by.FullName,
		Client:           domain.Client{Title: domain.ClientTitleMrs, Name: clientName, Address: "4 Ring Road"},
		Items:            []domain.LineItem{{Name: "Granite", Quantity: 1, UnitPrice: grand, Total: grand}},
		Totals:           domain.DocumentTotals{SubTotal: grand, GrandTotal: grand},
		Status:           status,
	}
}

func newInvoice(by *domain.User, number string, grand float64, status domain.InvoiceStatus) *domain.Invoice {
	return &domain.Invoice{
		DocumentNumber:   number,
		Date:             day("2026-04-01"),
		PreparedByUserID: by.ID,
		PreparedByName:   by.FullName,
		Client:           domain.Client{Title: domain.ClientTitleMr, Name: "Yaw", Address: "9 Oxford Street"},
		Items:            []domain.LineItem{{Name: "Pantry up", Quantity: 2, UnitPrice: grand / 2, Total: grand}},
		Totals:           domain.DocumentTotals{SubTotal: grand, GrandTotal: grand},
		Status:           status,
	}
}

func TestSequenceStore_SeedThenIncrement(t *testing.T) {
	store := mongostore.NewSequenceStore(setupMongo(t))
	ctx := context.Background()

	current, err := store.GetCurrentSequence(ctx, domain.DocumentTypeQuotation)
	require.NoError(t, err)
	assert.Equal(t, 0, current)

	for _, want := range []int{1234, 1235, 1236} {
		got, err := store.GetNextNumber(ctx, domain.DocumentTypeQuotation, 1234)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	first, err := store.GetNextNumber(ctx, domain.DocumentTypeInvoice, 1234)
	require.NoError(t, err)
	assert.Equal(t, 1234, first, "each document type has its own counter")

	current, err = store.GetCurrentSequence(ctx, domain.DocumentTypeQuotation)
	require.NoError(t, err)
	assert.Equal(t, 1236, current)
}

func TestSequenceStore_ConcurrentFirstUse(t *testing.T) {
	store := mongostore.NewSequenceStore(setupMongo(t))
	ctx := context.Background()

	const workers = 10
	results := make([]int, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = store.GetNextNumber(ctx, domain.DocumentTypeInvoice, 1234)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	sort.Ints(results)
	for i, n := range results {
		assert.Equal(t, 1234+i, n)
	}
}

func TestSequenceStore_RaiseSequence(t *testing.T) {
	store := mongostore.NewSequenceStore(setupMongo(t))
	ctx := context.Background()

	raised, err := store.RaiseSequence(ctx, domain.DocumentTypeQuotation, 1500)
	require.NoError(t, err)
	assert.True(t, raised, "missing counter is created")

	raised, err = store.RaiseSequence(ctx, domain.DocumentTypeQuotation, 1400)
	require.NoError(t, err)
	assert.False(t, raised, "counter is never lowered")

	next, err := store.GetNextNumber(ctx, domain.DocumentTypeQuotation, 1234)
	require.NoError(t, err)
	assert.Equal(t, 1501, next)
}

func TestQuotationStore_CreateGetAndDuplicate(t *testing.T) {
	store := mongostore.NewQuotationStore(setupMongo(t))
	ctx := context.Background()
	ama := owner("Ama")

	q := newQuotation(ama, "QN26/A/1234", "Efua", "2026-03-01", 215, domain.QuotationStatusDraft)
	measuring := day("2026-03-05")
	q.ProjectSchedule.MeasuringDay = &measuring
	require.NoError(t, store.Create(ctx, q))
	assert.NotEqual(t, uuid.Nil, q.ID)

	got, err := store.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "QN26/A/1234", got.DocumentNumber)
	assert.Equal(t, ama.ID, got.PreparedByUserID)
	assert.Equal(t, "Efua", got.Client.Name)
	assert.InDelta(t, 215, got.Totals.GrandTotal, 0.001)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.ProjectSchedule.MeasuringDay)
	assert.True(t, measuring.Equal(*got.ProjectSchedule.MeasuringDay))

	_, err = store.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)

	dup := newQuotation(ama, "QN26/A/1234", "Other", "2026-03-02", 10, domain.QuotationStatusDraft)
	assert.ErrorIs(t, store.Create(ctx, dup), repository.ErrDuplicateKey)
}

func TestQuotationStore_ListScopedAndPaged(t *testing.T) {
	store := mongostore.NewQuotationStore(setupMongo(t))
	ctx := context.Background()
	ama, kojo := owner("Ama"), owner("Kojo")

	for i := 0; i < 12; i++ {
		require.NoError(t, store.Create(ctx, newQuotation(ama, fmt.Sprintf("QN26/A/%d", 1234+i), "Client", "2026-03-01", 10, domain.QuotationStatusDraft)))
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Create(ctx, newQuotation(kojo, fmt.Sprintf("QN26/A/%d", 2000+i), "Client", "2026-03-01", 10, domain.QuotationStatusDraft)))
	}

	opts := repository.ListOptions{Page: 2, Limit: 5, Sort: repository.SortConfig{Field: "documentNumber", Order: repository.SortOrderAsc}}
	page, total, err := store.List(ctx, repository.DocumentFilter{OwnerID: &ama.ID}, opts)
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, page, 5)
	assert.Equal(t, "QN26/A/1239", page[0].DocumentNumber)
	for _, q := range page {
		assert.Equal(t, ama.ID, q.PreparedByUserID)
	}

	last, _, err := store.List(ctx, repository.DocumentFilter{OwnerID: &ama.ID}, repository.ListOptions{Page: 3, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, last, 2)

	all, total, err := store.List(ctx, repository.DocumentFilter{}, repository.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(15), total)
	assert.Len(t, all, repository.DefaultPageSize)
}

func TestQuotationStore_ListFilters(t *testing.T) {
	store := mongostore.NewQuotationStore(setupMongo(t))
	ctx := context.Background()
	ama := owner("Ama")

	for _, q := range []*domain.Quotation{
		newQuotation(ama, "QN26/A/1", "100% Designs", "2026-03-01", 10, domain.QuotationStatusApproved),
		newQuotation(ama, "QN26/A/2", "Mensah & Sons", "2026-03-15", 10, domain.QuotationStatusDraft),
		newQuotation(ama, "QN26/A/3", "mensah interiors", "2026-03-31", 10, domain.QuotationStatusDraft),
	} {
		require.NoError(t, store.Create(ctx, q))
	}

	list := func(filter repository.DocumentFilter) []string {
		docs, _, err := store.List(ctx, filter, repository.ListOptions{Sort: repository.SortConfig{Field: "documentNumber", Order: repository.SortOrderAsc}})
		require.NoError(t, err)
		numbers := make([]string, len(docs))
		for i, d := range docs {
			numbers[i] = d.DocumentNumber
		}
		return numbers
	}

	assert.Equal(t, []string{"QN26/A/2", "QN26/A/3"}, list(repository.DocumentFilter{ClientName: "MENSAH"}))
	assert.Equal(t, []string{"QN26/A/1"}, list(repository.DocumentFilter{ClientName: "100%"}))
	assert.Empty(t, list(repository.DocumentFilter{ClientName: "m.nsah"}))
	assert.Equal(t, []string{"QN26/A/1"}, list(repository.DocumentFilter{Status: "approved"}))

	start, end := day("2026-03-15"), day("2026-03-31")
	assert.Equal(t, []string{"QN26/A/2", "QN26/A/3"}, list(repository.DocumentFilter{StartDate: &start, EndDate: &end}))
}

func TestQuotationStore_UpdateKeepsImmutableFields(t *testing.T) {
	store := mongostore.NewQuotationStore(setupMongo(t))
	ctx := context.Background()
	ama := owner("Ama")

	q := newQuotation(ama, "QN26/A/1234", "Efua", "2026-03-01", 100, domain.QuotationStatusPending)
	require.NoError(t, store.Create(ctx, q))

	changed := *q
	changed.DocumentNumber = "QN26/A/9999"
	changed.PreparedByUserID = uuid.New()
	changed.PreparedByName = "Someone Else"
	changed.Status = domain.QuotationStatusCompleted
	changed.Client.Name = "Efua Owusu"
	changed.Notes = "revised"
	changed.Totals.GrandTotal = 150
	require.NoError(t, store.Update(ctx, &changed))

	got, err := store.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "QN26/A/1234", got.DocumentNumber)
	assert.Equal(t, ama.ID, got.PreparedByUserID)
	assert.Equal(t, "Ama", got.PreparedByName)
	assert.Equal(t, domain.QuotationStatusPending, got.Status)
	assert.Equal(t, "Efua Owusu", got.Client.Name)
	assert.Equal(t, "revised", got.Notes)
	assert.InDelta(t, 150, got.Totals.GrandTotal, 0.001)

	missing := *q
	missing.ID = uuid.New()
	assert.ErrorIs(t, store.Update(ctx, &missing), repository.ErrRecordNotFound)
}

func TestQuotationStore_UpdateStatusAndDelete(t *testing.T) {
	store := mongostore.NewQuotationStore(setupMongo(t))
	ctx := context.Background()

	q := newQuotation(owner("Ama"), "QN26/A/1234", "Efua", "2026-03-01", 100, domain.QuotationStatusDraft)
	require.NoError(t, store.Create(ctx, q))

	require.NoError(t, store.UpdateStatus(ctx, q.ID, domain.QuotationStatusApproved))
	got, err := store.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusApproved, got.Status)

	assert.ErrorIs(t, store.UpdateStatus(ctx, uuid.New(), domain.QuotationStatusApproved), repository.ErrRecordNotFound)

	require.NoError(t, store.Delete(ctx, q.ID))
	_, err = store.GetByID(ctx, q.ID)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
	assert.ErrorIs(t, store.Delete(ctx, q.ID), repository.ErrRecordNotFound)
}

func TestQuotationStore_StatsZeroFilled(t *testing.T) {
	store := mongostore.NewQuotationStore(setupMongo(t))
	ctx := context.Background()
	ama, kojo := owner("Ama"), owner("Kojo")

	for _, q := range []*domain.Quotation{
		newQuotation(ama, "QN26/A/1", "A", "2026-03-01", 100, domain.QuotationStatusDraft),
		newQuotation(ama, "QN26/A/2", "B", "2026-03-02", 250, domain.QuotationStatusApproved),
		newQuotation(kojo, "QN26/A/3", "C", "2026-03-03", 50, domain.QuotationStatusApproved),
	} {
		require.NoError(t, store.Create(ctx, q))
	}

	stats, err := store.Stats(ctx, repository.DocumentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.InDelta(t, 300, stats.Revenue, 0.001)
	require.Len(t, stats.ByStatus, 5)
	assert.Equal(t, "draft", stats.ByStatus[0].Status)

	byStatus := map[string]repository.StatusCount{}
	for _, b := range stats.ByStatus {
		byStatus[b.Status] = b
	}
	assert.Equal(t, int64(2), byStatus["approved"].Count)
	assert.Equal(t, int64(0), byStatus["rejected"].Count)
	assert.Equal(t, int64(0), byStatus["completed"].Count)

	scoped, err := store.Stats(ctx, repository.DocumentFilter{OwnerID: &ama.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), scoped.Total)
	assert.InDelta(t, 250, scoped.Revenue, 0.001)
}

func TestQuotationStore_LatestDocumentNumber(t *testing.T) {
	store := mongostore.NewQuotationStore(setupMongo(t))
	ctx := context.Background()
	ama := owner("Ama")

	latest, err := store.LatestDocumentNumber(ctx)
	require.NoError(t, err)
	assert.Empty(t, latest)

	require.NoError(t, store.Create(ctx, newQuotation(ama, "QN26/A/1300", "A", "2026-03-01", 10, domain.QuotationStatusDraft)))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, store.Create(ctx, newQuotation(ama, "QN26/A/1240", "B", "2026-03-01", 10, domain.QuotationStatusDraft)))

	latest, err = store.LatestDocumentNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "QN26/A/1240", latest, "the most recently created document wins")
}

func TestInvoiceStore_Lifecycle(t *testing.T) {
	store := mongostore.NewInvoiceStore(setupMongo(t))
	ctx := context.Background()
	yaw := owner("Yaw")

	source := uuid.New()
	inv := newInvoice(yaw, "ENA/1234", 500, domain.InvoiceStatusDraft)
	inv.SourceQuotationID = &source
	require.NoError(t, store.Create(ctx, inv))

	got, err := store.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SourceQuotationID)
	assert.Equal(t, source, *got.SourceQuotationID)

	changed := *got
	changed.DocumentNumber = "ENA/9999"
	changed.Status = domain.InvoiceStatusPaid
	changed.Totals.GrandTotal = 900
	require.NoError(t, store.Update(ctx, &changed))

	got, err = store.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "ENA/1234", got.DocumentNumber)
	assert.Equal(t, domain.InvoiceStatusDraft, got.Status)
	assert.InDelta(t, 900, got.Totals.GrandTotal, 0.001)

	require.NoError(t, store.UpdateStatus(ctx, inv.ID, domain.InvoiceStatusPaid))
	require.NoError(t, store.Create(ctx, newInvoice(yaw, "ENA/1235", 100, domain.InvoiceStatusPartial)))

	stats, err := store.Stats(ctx, repository.DocumentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.InDelta(t, 900, stats.Revenue, 0.001)
	assert.Len(t, stats.ByStatus, 4)

	require.NoError(t, store.Delete(ctx, inv.ID))
	_, err = store.GetByID(ctx, inv.ID)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}

func TestUserStore(t *testing.T) {
	store := mongostore.NewUserStore(setupMongo(t))
	ctx := context.Background()

	user := &domain.User{FullName: "Abena", Email: "  Abena@Example.com ", PasswordHash: "hash", Role: domain.RoleUser, IsActive: true}
	require.NoError(t, store.Create(ctx, user))
	assert.Equal(t, "abena@example.com", user.Email)

	got, err := store.GetByEmail(ctx, "ABENA@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	dup := &domain.User{FullName: "Other", Email: "abena@example.com", PasswordHash: "hash", Role: domain.RoleUser, IsActive: true}
	assert.ErrorIs(t, store.Create(ctx, dup), repository.ErrDuplicateKey)

	require.NoError(t, store.UpdateProfile(ctx, user.ID, "Abena Boateng", "ST-7"))
	require.NoError(t, store.UpdateRole(ctx, user.ID, domain.RoleSupervisor))
	require.NoError(t, store.UpdatePassword(ctx, user.ID, "new-hash"))
	at := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, store.UpdateLastLogin(ctx, user.ID, at))

	got, err = store.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Abena Boateng", got.FullName)
	assert.Equal(t, "ST-7", got.StaffID)
	assert.Equal(t, domain.RoleSupervisor, got.Role)
	assert.Equal(t, "new-hash", got.PasswordHash)
	require.NotNil(t, got.LastLoginAt)
	assert.True(t, at.Equal(*got.LastLoginAt))

	_, err = store.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
	assert.ErrorIs(t, store.UpdateRole(ctx, uuid.New(), domain.RoleAdmin), repository.ErrRecordNotFound)

	users, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
