// Package results renders one page of search hits as a selectable list.
package results

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/sahilm/fuzzy"

	"github.com/macropower/mdpkm/pkg/platform"
	"github.com/macropower/mdpkm/pkg/ui/theme"
)

const cursorMarker = "▌"

// Model is a cursor over the hits of the current page. A fuzzy filter
// narrows the rows without issuing a new search.
type Model struct {
	theme   *theme.Theme
	filter  string
	hits    []platform.Project
	visible []int
	cursor  int
	width   int
}

func New(t *theme.Theme) Model {
	if t == nil {
		t = theme.Default
	}

	return Model{theme: t, width: 80}
}

// SetHits replaces the rows and moves the cursor to the top.
func (m *Model) SetHits(hits []platform.Project) {
	m.hits = hits
	m.cursor = 0
	m.applyFilter()
}

// SetFilter narrows the visible rows to fuzzy matches of q against the
// title and author. An empty q shows every row.
func (m *Model) SetFilter(q string) {
	m.filter = q
	m.cursor = 0
	m.applyFilter()
}

func (m Model) Filter() string {
	return m.filter
}

func (m *Model) SetWidth(w int) {
	m.width = w
}

func (m *Model) applyFilter() {
	m.visible = m.visible[:0]

	if m.filter == "" {
		for i := range m.hits {
			m.visible = append(m.visible, i)
		}

		return
	}

	for _, match := range fuzzy.FindFrom(m.filter, source(m.hits)) {
		m.visible = append(m.visible, match.Index)
	}
}

// Len returns the number of visible rows.
func (m Model) Len() int {
	return len(m.visible)
}

// Visible returns the visible rows in display order.
func (m Model) Visible() []platform.Project {
	out := make([]platform.Project, 0, len(m.visible))
	for _, i := range m.visible {
		out = append(out, m.hits[i])
	}

	return out
}

// Selected returns the row under the cursor.
func (m Model) Selected() (platform.Project, bool) {
	if m.cursor >= len(m.visible) {
		return platform.Project{}, false
	}

	return m.hits[m.visible[m.cursor]], true
}

func (m Model) Cursor() int {
	return m.cursor
}

// Move moves the cursor by delta, stopping at either end.
func (m *Model) Move(delta int) {
	if len(m.visible) == 0 {
		m.cursor = 0
		return
	}

	m.cursor = min(max(m.cursor+delta, 0), len(m.visible)-1)
}

func (m Model) View() string {
	if len(m.visible) == 0 {
		if m.filter != "" {
			return m.theme.SubtleStyle.Render(fmt.Sprintf("No hits on this page match %q.", m.filter))
		}

		return m.theme.SubtleStyle.Render("No results.")
	}

	rows := make([]string, 0, len(m.visible))
	for i, idx := range m.visible {
		rows = append(rows, m.row(m.hits[idx], i == m.cursor))
	}

	return strings.Join(rows, "\n")
}

func (m Model) row(p platform.Project, selected bool) string {
	title := m.theme.TitleStyle
	gutter := " "
	if selected {
		title = m.theme.SelectedStyle.Bold(true)
		gutter = m.theme.CursorStyle.Render(cursorMarker)
	}

	head := gutter + " " + title.Render(p.Title)
	if p.Author != "" {
		head += m.theme.SubtleStyle.Render(" by " + p.Author)
	}

	dl := m.theme.SubtleStyle.Render(FormatDownloads(p.Downloads))
	headWidth := m.width - lipgloss.Width(dl) - 1
	head = Truncate(head, headWidth, m.theme.Ellipsis)
	pad := max(1, m.width-lipgloss.Width(head)-lipgloss.Width(dl))

	summary := "  " + Truncate(p.Summary, m.width-2, m.theme.Ellipsis)

	return head + strings.Repeat(" ", pad) + dl + "\n" + m.theme.GenericTextStyle.Render(summary)
}

// FormatDownloads renders a download count, e.g. "1,234 downloads".
func FormatDownloads(n int64) string {
	if n == 1 {
		return "1 download"
	}

	return humanize.Comma(n) + " downloads"
}

// Truncate shortens s to width printable cells, ending with tail.
func Truncate(s string, width int, tail string) string {
	if width <= 0 {
		return ""
	}
	if ansi.PrintableRuneWidth(s) <= width {
		return s
	}

	return truncate.StringWithTail(s, uint(width), tail) //nolint:gosec // Width is positive.
}

type source []platform.Project

func (s source) String(i int) string {
	return s[i].Title + " " + s[i].Author
}

func (s source) Len() int {
	return len(s)
}
