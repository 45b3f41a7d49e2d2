// Package statusbar renders the single-line status bar at the bottom of the
// search view.
package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/macropower/mdpkm/pkg/ui/theme"
	"github.com/macropower/mdpkm/pkg/version"
)

type Style int

const (
	StyleNormal Style = iota
	StyleSuccess
	StyleError
)

// StatusBarRenderer lays out the logo, a message, and a position note across
// the full width.
type StatusBarRenderer struct {
	theme   *theme.Theme
	message string
	width   int
	style   Style
}

type StatusBarOpt func(*StatusBarRenderer)

func WithMessage(message string) StatusBarOpt {
	return func(r *StatusBarRenderer) {
		r.style = StyleSuccess
		r.message = message
	}
}

func WithError(message string) StatusBarOpt {
	return func(r *StatusBarRenderer) {
		r.style = StyleError
		r.message = message
	}
}

func NewStatusBarRenderer(t *theme.Theme, width int, opts ...StatusBarOpt) *StatusBarRenderer {
	r := &StatusBarRenderer{theme: t, width: width, style: StyleNormal}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Render returns the bar. msg is shown unless an option set a message;
// position is right-aligned.
func (r *StatusBarRenderer) Render(msg, position string) string {
	logo := r.theme.LogoStyle.Render(fmt.Sprintf("mdpkm %s", version.GetVersion()))
	pos := r.theme.StatusBarPosStyle.Render(" " + position + " ")

	if r.message != "" {
		msg = r.message
	}

	msg = strings.TrimSpace(strings.ReplaceAll(msg, "\n", " "))

	avail := max(0, r.width-lipgloss.Width(logo)-lipgloss.Width(pos))
	note := truncate.StringWithTail(" "+msg+" ", uint(avail), r.theme.Ellipsis) //nolint:gosec // Uses max.
	note = r.noteStyle().Render(note)

	fill := max(0, r.width-ansi.PrintableRuneWidth(logo)-ansi.PrintableRuneWidth(note)-ansi.PrintableRuneWidth(pos))

	return logo + note + r.noteStyle().Render(strings.Repeat(" ", fill)) + pos
}

func (r *StatusBarRenderer) noteStyle() lipgloss.Style {
	switch r.style {
	case StyleError:
		return r.theme.ErrorStyle.Background(r.theme.StatusBarStyle.GetBackground())
	case StyleSuccess:
		return r.theme.StatusBarMessageStyle
	default:
		return r.theme.StatusBarStyle
	}
}
