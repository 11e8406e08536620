package mapper

import (
	"time"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/repository"
	"github.com/emeena/quotation-api/internal/totals"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05Z"
)

// FormatDate renders a calendar date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatDate(*t)
	return &s
}

// ToClientDTO converts Client to ClientDTO
func ToClientDTO(c domain.Client) domain.ClientDTO {
	return domain.ClientDTO{
		Title:   c.Title,
		Name:    c.Name,
		Company: c.Company,
		Address: c.Address,
		Phone:   c.Phone,
	}
}

// ToLineItemDTOs converts stored rows; a nil slice becomes an empty list
func ToLineItemDTOs(items []domain.LineItem) []domain.LineItemDTO {
	dtos := make([]domain.LineItemDTO, len(items))
	for i, item := range items {
		dtos[i] = domain.LineItemDTO(item)
	}
	return dtos
}

// ToQuotationDTO converts Quotation to QuotationDTO
func ToQuotationDTO(q *domain.Quotation) domain.QuotationDTO {
	return domain.QuotationDTO{
		ID:               q.ID,
		DocumentNumber:   q.DocumentNumber,
		Date:             FormatDate(q.Date),
		ValidUntil:       FormatDate(q.ValidUntil),
		PreparedByUserID: q.PreparedByUserID,
		PreparedByName:   q.PreparedByName,
		Client:           ToClientDTO(q.Client),
		Items:            ToLineItemDTOs(q.Items),
		SubTotal:         q.Totals.SubTotal,
		TaxRatePercent:   q.Totals.TaxRatePercent,
		DiscountAmount:   q.Totals.DiscountAmount,
		GrandTotal:       q.Totals.GrandTotal,
		Status:           q.Status,
		ProjectSchedule: domain.ProjectScheduleDTO{
			MeasuringDay:   formatOptionalDate(q.ProjectSchedule.MeasuringDay),
			Inspection:     formatOptionalDate(q.ProjectSchedule.Inspection),
			Installation1:  formatOptionalDate(q.ProjectSchedule.Installation1),
			Installation2:  formatOptionalDate(q.ProjectSchedule.Installation2),
			CompletionDate: formatOptionalDate(q.ProjectSchedule.CompletionDate),
		},
		Notes:     q.Notes,
		CreatedAt: formatTimestamp(q.CreatedAt),
		UpdatedAt: formatTimestamp(q.UpdatedAt),
	}
}

// ToInvoiceDTO converts Invoice to InvoiceDTO, adding the advance and balance shares
func ToInvoiceDTO(inv *domain.Invoice) domain.InvoiceDTO {
	return domain.InvoiceDTO{
		ID:                inv.ID,
		DocumentNumber:    inv.DocumentNumber,
		Date:              FormatDate(inv.Date),
		PreparedByUserID:  inv.PreparedByUserID,
		PreparedByName:    inv.PreparedByName,
		Client:            ToClientDTO(inv.Client),
		Items:             ToLineItemDTOs(inv.Items),
		SubTotal:          inv.Totals.SubTotal,
		TaxRatePercent:    inv.Totals.TaxRatePercent,
		DiscountAmount:    inv.Totals.DiscountAmount,
		GrandTotal:        inv.Totals.GrandTotal,
		AdvancePayment:    totals.AdvancePayment(inv.Totals.GrandTotal),
		BalancePayment:    totals.BalancePayment(inv.Totals.GrandTotal),
		Status:            inv.Status,
		Notes:             inv.Notes,
		SourceQuotationID: inv.SourceQuotationID,
		CreatedAt:         formatTimestamp(inv.CreatedAt),
		UpdatedAt:         formatTimestamp(inv.UpdatedAt),
	}
}

// ToUserDTO converts User to UserDTO. The password hash is never exposed.
func ToUserDTO(user *domain.User) domain.UserDTO {
	dto := domain.UserDTO{
		ID:        user.ID,
		FullName:  user.FullName,
		StaffID:   user.StaffID,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: formatTimestamp(user.CreatedAt),
	}
	if user.LastLoginAt != nil {
		s := formatTimestamp(*user.LastLoginAt)
		dto.LastLoginAt = &s
	}
	return dto
}

// ToDocumentStatsDTO converts repository aggregates to the API shape
func ToDocumentStatsDTO(stats *repository.DocumentStats) domain.DocumentStatsDTO {
	dto := domain.DocumentStatsDTO{
		Total:    stats.Total,
		Revenue:  stats.Revenue,
		ByStatus: make([]domain.StatusStatsDTO, len(stats.ByStatus)),
	}
	for i, s := range stats.ByStatus {
		dto.ByStatus[i] = domain.StatusStatsDTO{
			Status:     s.Status,
			Count:      s.Count,
			TotalValue: s.TotalValue,
		}
	}
	return dto
}

// ToTotalsDTO converts a calculation result; invoices also get the payment split
func ToTotalsDTO(items []domain.LineItem, res totals.Result, discountAmount float64, withPayments bool) domain.TotalsDTO {
	dto := domain.TotalsDTO{
		Items:          make([]domain.LineItemDTO, len(items)),
		SubTotal:       res.SubTotal,
		TaxAmount:      res.TaxAmount,
		DiscountAmount: discountAmount,
		GrandTotal:     res.GrandTotal,
	}
	for i, item := range items {
		dto.Items[i] = domain.LineItemDTO(item)
		dto.Items[i].Total = res.LineTotals[i]
	}
	if withPayments {
		advance := totals.AdvancePayment(res.GrandTotal)
		balance := totals.BalancePayment(res.GrandTotal)
		dto.AdvancePayment = &advance
		dto.BalancePayment = &balance
	}
	return dto
}
