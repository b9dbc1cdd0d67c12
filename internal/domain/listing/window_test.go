package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		current  int
		total    int
		expected []int
	}{
		{name: "no pages", current: 1, total: 0, expected: []int{1}},
		{name: "single page", current: 1, total: 1, expected: []int{1}},
		{name: "seven pages listed in full", current: 4, total: 7, expected: []int{1, 2, 3, 4, 5, 6, 7}},
		{name: "middle of ten", current: 5, total: 10, expected: []int{1, Ellipsis, 4, 5, 6, Ellipsis, 10}},
		{name: "first of ten", current: 1, total: 10, expected: []int{1, 2, 3, 4, 5, Ellipsis, 10}},
		{name: "third of ten", current: 3, total: 10, expected: []int{1, 2, 3, 4, 5, Ellipsis, 10}},
		{name: "fourth of ten", current: 4, total: 10, expected: []int{1, Ellipsis, 3, 4, 5, Ellipsis, 10}},
		{name: "eighth of ten", current: 8, total: 10, expected: []int{1, Ellipsis, 6, 7, 8, 9, 10}},
		{name: "last of ten", current: 10, total: 10, expected: []int{1, Ellipsis, 6, 7, 8, 9, 10}},
		{name: "current beyond total", current: 40, total: 10, expected: []int{1, Ellipsis, 6, 7, 8, 9, 10}},
		{name: "eight pages near the start", current: 4, total: 8, expected: []int{1, Ellipsis, 3, 4, 5, Ellipsis, 8}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Window(tc.current, tc.total))
		})
	}
}

func TestWindowShape(t *testing.T) {
	t.Parallel()
	for total := 8; total <= 30; total++ {
		for current := 1; current <= total; current++ {
			w := Window(current, total)
			assert.Equal(t, 1, w[0])
			assert.Equal(t, total, w[len(w)-1])
			assert.Contains(t, w, current, "current %d of %d", current, total)

			prev := 0
			for _, p := range w {
				if p == Ellipsis {
					continue
				}
				assert.Greater(t, p, prev, "window %v not increasing", w)
				prev = p
			}
		}
	}
}
