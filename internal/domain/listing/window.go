package listing

// Ellipsis marks a gap between non-adjacent page numbers in a Window.
const Ellipsis = -1

// maxFullWindow is the largest page count shown without gaps.
const maxFullWindow = 7

// Window computes the page numbers to display for navigation.
//
// Up to maxFullWindow pages are listed in full. Beyond that the first and
// last pages are always present, with a run of pages around current between
// them. The run widens to reach page 5 near the start and page total-4 near
// the end, so the interior shows between 3 and 4 pages. Ellipsis separates
// groups that are not adjacent.
//
// Window(5, 10) is [1, -1, 4, 5, 6, -1, 10].
func Window(current, total int) []int {
	if total <= maxFullWindow {
		pages := make([]int, 0, max(total, 1))
		for i := 1; i <= max(total, 1); i++ {
			pages = append(pages, i)
		}
		return pages
	}

	current = min(max(current, 1), total)

	pages := []int{1}
	if current > 3 {
		pages = append(pages, Ellipsis)
	}

	start := max(2, current-1)
	end := min(total-1, current+1)
	if current <= 3 {
		end = min(5, total-1)
	}
	if current >= total-2 {
		start = max(2, total-4)
	}
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}

	if current < total-2 {
		pages = append(pages, Ellipsis)
	}
	return append(pages, total)
}
