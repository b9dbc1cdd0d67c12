package listing

import (
	"cmp"
	"slices"
	"strings"

	"github.com/phrazzld/tasktrack/internal/domain"
)

// Page is one page of a filtered, ordered task list.
type Page struct {
	Tasks      []*domain.Task
	TotalCount int
	TotalPages int
	// Page is the effective page after clamping.
	Page     int
	PageSize int
	// Window holds the page numbers to offer for navigation, with Ellipsis
	// marking gaps.
	Window []int
}

// Apply runs the full query over tasks: base-set selection, name and date
// filtering, ordering and pagination. tasks may already be narrowed to the
// base set; it is never modified.
//
// Steps:
//   - the base set is the active tasks when no status is given, every task
//     for StatusAll, or the tasks with exactly the given status
//   - names must contain the search text, ignoring case
//   - due dates must lie within the inclusive bounds
//   - a page beyond the last non-empty page is clamped to it
//   - tasks are ordered by due date descending, then id descending
func Apply(tasks []*domain.Task, p Params) (Page, error) {
	params, scope, err := p.Normalize()
	if err != nil {
		return Page{}, err
	}

	matched := Filter(tasks, params, scope)
	Sort(matched)

	total := len(matched)
	totalPages := TotalPages(total, params.PageSize)
	page := ClampPage(params.Page, totalPages)

	return Page{
		Tasks:      Slice(matched, page, params.PageSize),
		TotalCount: total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   params.PageSize,
		Window:     Window(page, totalPages),
	}, nil
}

// Filter returns the tasks in scope that match the search text and date
// bounds of p. p is expected to be normalized.
func Filter(tasks []*domain.Task, p Params, scope Scope) []*domain.Task {
	search := strings.ToLower(p.Search)
	out := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !scope.Includes(t.Status) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Name), search) {
			continue
		}
		due := domain.DateOf(t.DueDate)
		if !p.DueFrom.IsZero() && due.Before(p.DueFrom) {
			continue
		}
		if !p.DueTo.IsZero() && due.After(p.DueTo) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Sort orders tasks by due date descending, breaking ties by id descending.
func Sort(tasks []*domain.Task) {
	slices.SortStableFunc(tasks, func(a, b *domain.Task) int {
		if c := b.DueDate.Compare(a.DueDate); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}

// TotalPages returns ceil(count/size), which is 0 for an empty result.
func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// ClampPage keeps page within [1, totalPages]. With no pages at all the
// result is 1.
func ClampPage(page, totalPages int) int {
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	return page
}

// Slice returns the tasks of the 1-based page.
func Slice(tasks []*domain.Task, page, size int) []*domain.Task {
	start := (page - 1) * size
	if start >= len(tasks) || start < 0 {
		return []*domain.Task{}
	}
	end := min(start+size, len(tasks))
	return tasks[start:end]
}
