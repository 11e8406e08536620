package mapper_test

import (
	"testing"
	"time"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/mapper"
	"github.com/emeena/quotation-api/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToQuotationDTO(t *testing.T) {
	install := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	q := &domain.Quotation{
		DocumentNumber: "QN26/A/1234",
		Date:           time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:     time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Client:         domain.Client{Title: domain.ClientTitleMs, Name: "Adjoa", Address: "Tema"},
		Items:          []domain.LineItem{{Name: "Sink", Quantity: 1, UnitPrice: 80, Total: 80}},
		Totals:         domain.DocumentTotals{SubTotal: 80, GrandTotal: 80},
		Status:         domain.QuotationStatusPending,
		ProjectSchedule: domain.ProjectSchedule{
			Installation1: &install,
		},
	}
	q.ID = uuid.New()
	q.CreatedAt = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	dto := mapper.ToQuotationDTO(q)
	assert.Equal(t, "2026-03-01", dto.Date)
	assert.Equal(t, "2026-03-31", dto.ValidUntil)
	assert.Equal(t, domain.ClientTitleMs, dto.Client.Title)
	require.NotNil(t, dto.ProjectSchedule.Installation1)
	assert.Equal(t, "2026-04-10", *dto.ProjectSchedule.Installation1)
	assert.Nil(t, dto.ProjectSchedule.MeasuringDay)
	assert.Equal(t, "2026-03-01T09:30:00Z", dto.CreatedAt)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, "Sink", dto.Items[0].Name)
}

func TestToInvoiceDTO_PaymentSplit(t *testing.T) {
	inv := &domain.Invoice{Totals: domain.DocumentTotals{GrandTotal: 1250}}
	dto := mapper.ToInvoiceDTO(inv)
	assert.InDelta(t, 750, dto.AdvancePayment, 0.001)
	assert.InDelta(t, 500, dto.BalancePayment, 0.001)
	assert.NotNil(t, dto.Items)
}

func TestToUserDTO(t *testing.T) {
	login := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	user := &domain.User{FullName: "Kwame", Email: "kwame@example.com", PasswordHash: "secret", Role: domain.RoleAdmin, LastLoginAt: &login}

	dto := mapper.ToUserDTO(user)
	assert.Equal(t, domain.RoleAdmin, dto.Role)
	require.NotNil(t, dto.LastLoginAt)
	assert.Equal(t, "2026-03-02T08:00:00Z", *dto.LastLoginAt)
}

func TestToDocumentStatsDTO(t *testing.T) {
	stats := repository.BuildStats(domain.DocumentTypeInvoice, []repository.StatusCount{
		{Status: "paid", Count: 2, TotalValue: 300},
	})
	dto := mapper.ToDocumentStatsDTO(stats)
	assert.Equal(t, int64(2), dto.Total)
	assert.InDelta(t, 300, dto.Revenue, 0.001)
	assert.Len(t, dto.ByStatus, 4)
}
