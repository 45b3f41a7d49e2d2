package results_test

import (
	"strings"
	"testing"

	"github.com/muesli/reflow/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/mdpkm/pkg/platform"
	"github.com/macropower/mdpkm/pkg/ui/results"
	"github.com/macropower/mdpkm/pkg/ui/theme"
)

var hits = []platform.Project{
	{ID: "1", Title: "Sodium", Author: "jellysquid3", Summary: "A modern rendering engine", Downloads: 1_234_567},
	{ID: "2", Title: "Lithium", Author: "jellysquid3", Summary: "Game logic optimization", Downloads: 1},
	{ID: "3", Title: "Iris Shaders", Author: "coderbot", Summary: "Shader pack loader compatible with Sodium", Downloads: 0},
}

func TestFormatDownloads(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want string
		n    int64
	}{
		"zero":     {n: 0, want: "0 downloads"},
		"one":      {n: 1, want: "1 download"},
		"thousand": {n: 1000, want: "1,000 downloads"},
		"million":  {n: 1_234_567, want: "1,234,567 downloads"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, results.FormatDownloads(tc.n))
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in    string
		want  string
		width int
	}{
		"fits":     {in: "Sodium", width: 10, want: "Sodium"},
		"exact":    {in: "Sodium", width: 6, want: "Sodium"},
		"cut":      {in: "Iris Shaders", width: 6, want: "Iris …"},
		"no width": {in: "Sodium", width: 0, want: ""},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, results.Truncate(tc.in, tc.width, "…"))
		})
	}
}

func titles(ps []platform.Project) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Title)
	}

	return out
}

func TestFilter(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		filter string
		want   []string
	}{
		"empty":   {filter: "", want: []string{"Sodium", "Lithium", "Iris Shaders"}},
		"title":   {filter: "lith", want: []string{"Lithium"}},
		"author":  {filter: "coderbot", want: []string{"Iris Shaders"}},
		"none":    {filter: "zzzz", want: []string{}},
		"fuzzy":   {filter: "iris", want: []string{"Iris Shaders"}},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m := results.New(theme.Default)
			m.SetHits(hits)
			m.SetFilter(tc.filter)

			assert.Equal(t, tc.filter, m.Filter())
			assert.Equal(t, tc.want, titles(m.Visible()))
			assert.Equal(t, len(tc.want), m.Len())
		})
	}
}

func TestCursor(t *testing.T) {
	t.Parallel()

	m := results.New(nil)

	_, ok := m.Selected()
	assert.False(t, ok)

	m.Move(1)
	assert.Equal(t, 0, m.Cursor())

	m.SetHits(hits)

	p, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "Sodium", p.Title)

	m.Move(5)
	p, _ = m.Selected()
	assert.Equal(t, "Iris Shaders", p.Title)

	m.Move(-1)
	p, _ = m.Selected()
	assert.Equal(t, "Lithium", p.Title)

	m.Move(-10)
	assert.Equal(t, 0, m.Cursor())

	// Filtering resets the cursor to the first match.
	m.Move(2)
	m.SetFilter("lith")
	p, ok = m.Selected()
	require.True(t, ok)
	assert.Equal(t, "Lithium", p.Title)
}

func TestView(t *testing.T) {
	t.Parallel()

	m := results.New(theme.Default)
	assert.Contains(t, m.View(), "No results.")

	m.SetWidth(40)
	m.SetHits(hits)

	v := m.View()
	lines := strings.Split(v, "\n")
	require.Len(t, lines, 6)

	for _, l := range lines {
		assert.LessOrEqual(t, ansi.PrintableRuneWidth(l), 40, l)
	}

	assert.Contains(t, v, "Sodium")
	assert.Contains(t, v, "1 download")

	m.SetFilter("zzzz")
	assert.Contains(t, m.View(), `No hits on this page match "zzzz".`)
}
