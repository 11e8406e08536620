package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/emeena/quotation-api/internal/auth"
	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/totals"
)

const dateLayout = "2006-01-02"

// maxCreateAttempts bounds retries when a freshly allocated number collides
const maxCreateAttempts = 3

func currentUser(ctx context.Context) (*auth.UserContext, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a date in YYYY-MM-DD format", ErrInvalidInput, field)
	}
	return t.UTC(), nil
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := ParseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// buildLineItems drops rows where every editable field is blank or zero and
// fills missing line totals with quantity * unitPrice
func buildLineItems(reqs []domain.LineItemRequest) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(reqs))
	for i, req := range reqs {
		item := domain.LineItem{
			Name:      strings.TrimSpace(req.Name),
			Quantity:  req.Quantity,
			LineFit:   strings.TrimSpace(req.LineFit),
			UnitPrice: req.UnitPrice,
		}
		if item.IsEmpty() {
			continue
		}
		if item.Name == "" {
			return nil, fmt.Errorf("%w: items[%d].name is required", ErrInvalidInput, i)
		}
		if req.Total != nil {
			item.Total = *req.Total
		} else {
			item.Total = totals.LineTotal(item.Quantity, item.UnitPrice)
		}
		items = append(items, item)
	}
	return items, nil
}

// resolveTotals keeps submitted subTotal and grandTotal as they are and
// computes whichever of them was omitted
func resolveTotals(req domain.DocumentTotalsRequest, items []domain.LineItem) domain.DocumentTotals {
	result := domain.DocumentTotals{
		TaxRatePercent: req.TaxRatePercent,
		DiscountAmount: req.DiscountAmount,
	}

	if req.SubTotal != nil {
		result.SubTotal = *req.SubTotal
	} else {
		result.SubTotal = totals.Calculate(items, req.TaxRatePercent, req.DiscountAmount).SubTotal
	}

	if req.GrandTotal != nil {
		result.GrandTotal = *req.GrandTotal
	} else {
		result.GrandTotal = totals.GrandTotal(result.SubTotal, req.TaxRatePercent, req.DiscountAmount)
	}
	return result
}

func buildClient(req domain.ClientRequest) domain.Client {
	title := req.Title
	if title == "" {
		title = domain.ClientTitleMr
	}
	return domain.Client{
		Title:   title,
		Name:    strings.TrimSpace(req.Name),
		Company: strings.TrimSpace(req.Company),
		Address: strings.TrimSpace(req.Address),
		Phone:   strings.TrimSpace(req.Phone),
	}
}

func validateClient(c domain.Client) error {
	if !c.Title.IsValid() {
		return fmt.Errorf("%w: client.title must be one of Mr., Mrs., Ms., Dr., Prof.", ErrInvalidInput)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: client.name is required", ErrInvalidInput)
	}
	if c.Address == "" {
		return fmt.Errorf("%w: client.address is required", ErrInvalidInput)
	}
	return nil
}

func buildSchedule(req *domain.ProjectScheduleRequest) (domain.ProjectSchedule, error) {
	var schedule domain.ProjectSchedule
	if req == nil {
		return schedule, nil
	}

	fields := []struct {
		name   string
		value  *string
		target **time.Time
	}{
		{"projectSchedule.measuringDay", req.MeasuringDay, &schedule.MeasuringDay},
		{"projectSchedule.inspection", req.Inspection, &schedule.Inspection},
		{"projectSchedule.installation1", req.Installation1, &schedule.Installation1},
		{"projectSchedule.installation2", req.Installation2, &schedule.Installation2},
		{"projectSchedule.completionDate", req.CompletionDate, &schedule.CompletionDate},
	}
	for _, f := range fields {
		t, err := parseOptionalDate(f.name, f.value)
		if err != nil {
			return schedule, err
		}
		*f.target = t
	}
	return schedule, nil
}

// quotationDates parses date and validUntil and checks their order
func quotationDates(date, validUntil string) (time.Time, time.Time, error) {
	d, err := ParseDate("date", date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	v, err := ParseDate("validUntil", validUntil)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if v.Before(d) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: validUntil must not be before date", ErrInvalidInput)
	}
	return d, v, nil
}
