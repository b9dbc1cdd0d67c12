package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/tasktrack/internal/domain"
	"github.com/phrazzld/tasktrack/internal/domain/listing"
)

// getPathID extracts a positive integer ID from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(paramName, "must be a positive integer", domain.ErrValidation)
	}

	return id, nil
}

// queryInt parses an integer query value. Missing or non-numeric values
// yield 0, which the listing later coerces to its default.
func queryInt(q url.Values, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(q.Get(key)))
	if err != nil {
		return 0
	}
	return n
}

// queryDate parses an optional YYYY-MM-DD query value.
func queryDate(q url.Values, key string) (time.Time, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return time.Time{}, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return time.Time{}, domain.NewValidationError(key, "must be a YYYY-MM-DD date", domain.ErrValidation)
	}
	return d, nil
}

// parseListParams reads the list filters from the query string. Only
// malformed dates are rejected; status spelling is checked by the listing.
func parseListParams(r *http.Request) (listing.Params, error) {
	q := r.URL.Query()

	from, err := queryDate(q, "due_from")
	if err != nil {
		return listing.Params{}, err
	}
	to, err := queryDate(q, "due_to")
	if err != nil {
		return listing.Params{}, err
	}

	return listing.Params{
		Search:   q.Get("search"),
		Status:   q.Get("status"),
		DueFrom:  from,
		DueTo:    to,
		Page:     queryInt(q, "page"),
		PageSize: queryInt(q, "page_size"),
	}, nil
}
