package listing

import (
	"slices"
	"strings"
	"time"

	"github.com/phrazzld/tasktrack/internal/domain"
)

// DefaultPageSize replaces any page size outside PageSizes.
const DefaultPageSize = 5

// StatusAll selects every task regardless of status.
const StatusAll = "all"

// PageSizes is the allow-list of selectable page sizes.
var PageSizes = []int{5, 10, 15, 25, 50, 100}

// Params describes one list request.
type Params struct {
	// Search is matched case-insensitively as a raw substring of task names,
	// surrounding spaces included. Empty matches all.
	Search string
	// Status is empty for active tasks, StatusAll for every task, or any
	// spelling accepted by domain.ParseStatus.
	Status string
	// DueFrom and DueTo are inclusive calendar-date bounds; zero means unbounded.
	DueFrom time.Time
	DueTo   time.Time
	// Page is 1-based.
	Page     int
	PageSize int
}

// Scope is the base set a request draws from before filtering.
type Scope struct {
	All      bool
	Statuses []domain.TaskStatus
}

// Includes reports whether status belongs to the scope.
func (s Scope) Includes(status domain.TaskStatus) bool {
	return s.All || slices.Contains(s.Statuses, status)
}

// Normalize coerces out-of-range values to their defaults and resolves the
// status into a Scope. Only an unrecognized status is an error.
func (p Params) Normalize() (Params, Scope, error) {
	n := p
	n.Page = max(p.Page, 1)
	n.PageSize = NormalizePageSize(p.PageSize)
	if !p.DueFrom.IsZero() {
		n.DueFrom = domain.DateOf(p.DueFrom)
	}
	if !p.DueTo.IsZero() {
		n.DueTo = domain.DateOf(p.DueTo)
	}

	status := strings.TrimSpace(p.Status)
	switch {
	case status == "":
		n.Status = ""
		return n, Scope{Statuses: domain.ActiveStatuses}, nil
	case strings.EqualFold(status, StatusAll):
		n.Status = StatusAll
		return n, Scope{All: true}, nil
	default:
		parsed, err := domain.ParseStatus(status)
		if err != nil {
			return Params{}, Scope{}, err
		}
		n.Status = string(parsed)
		return n, Scope{Statuses: []domain.TaskStatus{parsed}}, nil
	}
}

// NormalizePageSize returns size when it is in PageSizes and DefaultPageSize otherwise.
func NormalizePageSize(size int) int {
	if slices.Contains(PageSizes, size) {
		return size
	}
	return DefaultPageSize
}
