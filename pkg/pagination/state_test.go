package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macropower/mdpkm/pkg/pagination"
)

func TestAdvance(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		dir     pagination.Direction
		current int
		total   int
		want    int
	}{
		"next saturates at upper bound": {
			dir:     pagination.Next,
			current: 5,
			total:   5,
			want:    5,
		},
		"previous saturates at lower bound": {
			dir:     pagination.Previous,
			current: 1,
			total:   5,
			want:    1,
		},
		"next moves forward": {
			dir:     pagination.Next,
			current: 2,
			total:   5,
			want:    3,
		},
		"previous moves back": {
			dir:     pagination.Previous,
			current: 4,
			total:   5,
			want:    3,
		},
		"single page stays put": {
			dir:     pagination.Next,
			current: 1,
			total:   1,
			want:    1,
		},
		"out of range current is clamped": {
			dir:     pagination.Next,
			current: 40,
			total:   10,
			want:    10,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, pagination.Advance(tc.dir, tc.current, tc.total))
		})
	}
}

func TestAdvanceSaturates(t *testing.T) {
	t.Parallel()

	for total := 1; total <= 50; total++ {
		assert.Equal(t, total, pagination.Advance(pagination.Next, total, total))
		assert.Equal(t, 1, pagination.Advance(pagination.Previous, 1, total))
	}
}

func TestTotalPages(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		items    int
		pageSize int
		want     int
	}{
		"no items":          {items: 0, pageSize: 20, want: 1},
		"exact multiple":    {items: 40, pageSize: 20, want: 2},
		"partial last page": {items: 41, pageSize: 20, want: 3},
		"zero page size":    {items: 3, pageSize: 0, want: 3},
		"negative items":    {items: -5, pageSize: 10, want: 1},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, pagination.TotalPages(tc.items, tc.pageSize))
		})
	}
}

func TestState(t *testing.T) {
	t.Parallel()

	s := pagination.NewState(20)
	assert.Equal(t, 1, s.CurrentPage)
	assert.Equal(t, 1, s.TotalPages())
	assert.Equal(t, 0, s.Offset())

	s = s.WithTotalItems(195)
	assert.Equal(t, 10, s.TotalPages())

	s = s.Apply(pagination.GoTo(6))
	assert.Equal(t, 6, s.CurrentPage)
	assert.Equal(t, 100, s.Offset())
	assert.Equal(t, "1 - 5 6 7 - 10", pagination.Format(s.Window()))

	s = s.Apply(pagination.Step(pagination.Next))
	assert.Equal(t, 7, s.CurrentPage)

	s = s.Apply(pagination.GoTo(400))
	assert.Equal(t, 10, s.CurrentPage)

	// Shrinking the result set pulls the current page back into range.
	s = s.WithTotalItems(30)
	assert.Equal(t, 2, s.CurrentPage)
	assert.Equal(t, 20, s.Offset())
}

func TestStateNormalize(t *testing.T) {
	t.Parallel()

	s := pagination.State{CurrentPage: -2, PageSize: 0, TotalItems: -1}.Normalize()
	assert.Equal(t, pagination.State{CurrentPage: 1, PageSize: 1, TotalItems: 0}, s)
}

func TestIntentString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "page 4", pagination.GoTo(4).String())
	assert.Equal(t, "next", pagination.Step(pagination.Next).String())
	assert.Equal(t, "previous", pagination.Step(pagination.Previous).String())
}
