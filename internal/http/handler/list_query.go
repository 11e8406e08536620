package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/emeena/quotation-api/internal/repository"
)

// parseListQuery reads the shared filter, paging and sort parameters of the
// document list endpoints
func parseListQuery(q url.Values) (repository.DocumentFilter, repository.ListOptions, error) {
	filter := repository.DocumentFilter{
		Status:     strings.TrimSpace(q.Get("status")),
		ClientName: strings.TrimSpace(q.Get("clientName")),
	}

	var err error
	if filter.StartDate, err = parseQueryDate(q, "startDate"); err != nil {
		return filter, repository.ListOptions{}, err
	}
	if filter.EndDate, err = parseQueryDate(q, "endDate"); err != nil {
		return filter, repository.ListOptions{}, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return filter, repository.ListOptions{}, fmt.Errorf("endDate must not be before startDate")
	}

	opts := repository.ListOptions{}
	if opts.Page, err = parseQueryInt(q, "page"); err != nil {
		return filter, opts, err
	}
	if opts.Limit, err = parseQueryInt(q, "limit"); err != nil {
		return filter, opts, err
	}
	if sortBy := q.Get("sortBy"); sortBy != "" {
		opts.Sort = repository.SortConfig{
			Field: sortBy,
			Order: repository.ParseSortOrder(q.Get("sortOrder")),
		}
	}
	return filter, opts.Normalize(), nil
}

// parseQueryDate accepts a calendar date or a full RFC 3339 timestamp
func parseQueryDate(q url.Values, name string) (*time.Time, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%s must be a date in YYYY-MM-DD or RFC 3339 format", name)
}

func parseQueryInt(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return n, nil
}

func listQueryOrBadRequest(w http.ResponseWriter, r *http.Request) (repository.DocumentFilter, repository.ListOptions, bool) {
	filter, opts, err := parseListQuery(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return filter, opts, false
	}
	return filter, opts, true
}
