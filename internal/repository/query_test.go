package repository_test

import (
	"testing"
	"time"

	"github.com/emeena/quotation-api/internal/repository"
	"github.com/stretchr/testify/assert"
)

func TestListOptions_Normalize(t *testing.T) {
	opts := repository.ListOptions{}.Normalize()
	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, repository.DefaultPageSize, opts.Limit)
	assert.Equal(t, repository.DefaultSortConfig(), opts.Sort)

	opts = repository.ListOptions{Page: 3, Limit: 5000}.Normalize()
	assert.Equal(t, 3, opts.Page)
	assert.Equal(t, repository.MaxPageSize, opts.Limit)
	assert.Equal(t, (3-1)*repository.MaxPageSize, opts.Offset())
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, repository.TotalPages(0, 10))
	assert.Equal(t, 1, repository.TotalPages(10, 10))
	assert.Equal(t, 2, repository.TotalPages(11, 10))
	assert.Equal(t, 0, repository.TotalPages(5, 0))
}

func TestBuildOrderClause(t *testing.T) {
	cfg := repository.SortConfig{Field: "grandTotal", Order: repository.SortOrderAsc}
	assert.Equal(t, "grand_total ASC", repository.BuildOrderClause(cfg, repository.DocumentSortFields, "created_at"))

	cfg = repository.SortConfig{Field: "password; DROP TABLE users", Order: repository.ParseSortOrder("sideways")}
	assert.Equal(t, "created_at DESC", repository.BuildOrderClause(cfg, repository.DocumentSortFields, "created_at"))
}

func TestEndOfDay(t *testing.T) {
	d := time.Date(2026, 3, 31, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), repository.EndOfDay(d))
}
