package repository

import (
	"math"
	"strings"
	"time"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// DefaultPageSize is used when the caller does not supply a limit
	DefaultPageSize = 10
	// MaxPageSize is the maximum allowed page size for paginated queries
	MaxPageSize = 200
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// SortConfig holds sorting configuration for list queries
type SortConfig struct {
	Field string    // The field to sort by (API field name)
	Order SortOrder // asc or desc
}

// DefaultSortConfig returns the default document ordering (createdAt DESC)
func DefaultSortConfig() SortConfig {
	return SortConfig{Field: "createdAt", Order: SortOrderDesc}
}

// ParseSortOrder parses a string into SortOrder, defaulting to desc
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(s) == "asc" {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// DocumentSortFields maps API sort fields to column names.
// The mongo backend maps the same keys to its own field paths.
var DocumentSortFields = map[string]string{
	"createdAt":      "created_at",
	"updatedAt":      "updated_at",
	"date":           "date",
	"documentNumber": "document_number",
	"clientName":     "client_name",
	"grandTotal":     "grand_total",
	"status":         "status",
}

// BuildOrderClause builds the SQL ORDER BY clause from field mapping and sort config.
// Unknown fields fall back to defaultColumn.
func BuildOrderClause(config SortConfig, fieldMap map[string]string, defaultColumn string) string {
	column, ok := fieldMap[config.Field]
	if !ok {
		column = defaultColumn
	}

	order := "DESC"
	if config.Order == SortOrderAsc {
		order = "ASC"
	}

	return column + " " + order
}

// DocumentFilter narrows list and stats queries.
// OwnerID is set by the service for non-privileged callers.
type DocumentFilter struct {
	OwnerID    *uuid.UUID
	Status     string
	StartDate  *time.Time
	EndDate    *time.Time // inclusive
	ClientName string
}

// ListOptions holds pagination and sorting for list queries
type ListOptions struct {
	Page  int
	Limit int
	Sort  SortConfig
}

// Normalize applies defaults and bounds to the options
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = DefaultPageSize
	}
	if o.Limit > MaxPageSize {
		o.Limit = MaxPageSize
	}
	if o.Sort.Field == "" {
		o.Sort = DefaultSortConfig()
	}
	if o.Sort.Order == "" {
		o.Sort.Order = SortOrderDesc
	}
	return o
}

// Offset returns the number of rows to skip for the page
func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

// TotalPages returns ceil(total/limit)
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// EndOfDay returns the instant just after the given calendar day, used as an
// exclusive upper bound for inclusive end-date filters
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}

// StatusCount is one status bucket of an aggregation
type StatusCount struct {
	Status     string
	Count      int64
	TotalValue float64
}

// DocumentStats is the aggregate summary for one document type
type DocumentStats struct {
	Total    int64
	Revenue  float64
	ByStatus []StatusCount
}

// BuildStats orders the buckets by the type's status list, adds zero buckets
// for missing statuses and derives overall count and revenue
func BuildStats(docType domain.DocumentType, rows []StatusCount) *DocumentStats {
	byStatus := make(map[string]StatusCount, len(rows))
	for _, row := range rows {
		byStatus[row.Status] = row
	}

	stats := &DocumentStats{}
	revenueStatus := domain.RevenueStatus(docType)
	for _, status := range domain.StatusNames(docType) {
		bucket, ok := byStatus[status]
		if !ok {
			bucket = StatusCount{Status: status}
		}
		stats.ByStatus = append(stats.ByStatus, bucket)
		stats.Total += bucket.Count
		if status == revenueStatus {
			stats.Revenue = bucket.TotalValue
		}
	}
	return stats
}

// escapeLike escapes LIKE wildcards so user input matches literally
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// applyDocumentFilter adds the WHERE conditions shared by quotations and invoices
func applyDocumentFilter(query *gorm.DB, filter DocumentFilter) *gorm.DB {
	if filter.OwnerID != nil {
		query = query.Where("prepared_by_user_id = ?", *filter.OwnerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StartDate != nil {
		query = query.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("date < ?", EndOfDay(*filter.EndDate))
	}
	if name := strings.TrimSpace(filter.ClientName); name != "" {
		pattern := "%" + escapeLike(strings.ToLower(name)) + "%"
		query = query.Where(`LOWER(client_name) LIKE ? ESCAPE '\'`, pattern)
	}
	return query
}
