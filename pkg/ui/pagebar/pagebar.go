// Package pagebar renders a page window as a navigable bar, e.g.
//
//	‹ 1 ─ 5 [6] 7 ─ 10 ›
//
// and translates key presses into [pagination.Intent] values.
package pagebar

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/macropower/mdpkm/pkg/keys"
	"github.com/macropower/mdpkm/pkg/pagination"
	"github.com/macropower/mdpkm/pkg/ui/theme"
)

const (
	PrevMarker     = "‹"
	NextMarker     = "›"
	CollapseMarker = "─"
)

type KeyBinds struct {
	Prev   keys.KeyBind
	Next   keys.KeyBind
	First  keys.KeyBind
	Last   keys.KeyBind
	Jump   keys.KeyBind
	Cancel keys.KeyBind
}

func DefaultKeyBinds() *KeyBinds {
	return &KeyBinds{
		Prev:   keys.NewBind("prev page", keys.New("left", keys.WithAlias("←")), keys.New("h")),
		Next:   keys.NewBind("next page", keys.New("right", keys.WithAlias("→")), keys.New("l")),
		First:  keys.NewBind("first page", keys.New("home")),
		Last:   keys.NewBind("last page", keys.New("end")),
		Jump:   keys.NewBind("go to page", keys.New("enter", keys.WithAlias("0-9 ↵"))),
		Cancel: keys.NewBind("cancel", keys.New("esc", keys.Hidden())),
	}
}

// Binds returns the bindings in help order.
func (kb *KeyBinds) Binds() []keys.KeyBind {
	return []keys.KeyBind{kb.Prev, kb.Next, kb.First, kb.Last, kb.Jump, kb.Cancel}
}

// Model is the page bar state. It mirrors the applied [pagination.State] and
// buffers digits typed for a jump.
type Model struct {
	theme  *theme.Theme
	keys   *KeyBinds
	window []pagination.Token
	digits string
	state  pagination.State
}

func New(t *theme.Theme, kb *KeyBinds) Model {
	if t == nil {
		t = theme.Default
	}
	if kb == nil {
		kb = DefaultKeyBinds()
	}

	s := pagination.NewState(1)

	return Model{
		theme:  t,
		keys:   kb,
		state:  s,
		window: s.Window(),
	}
}

// SetState replaces the displayed state.
func (m *Model) SetState(s pagination.State) {
	m.state = s.Normalize()
	m.window = m.state.Window()
}

func (m Model) State() pagination.State {
	return m.state
}

// Pending returns digits typed but not yet confirmed.
func (m Model) Pending() string {
	return m.digits
}

// HandleKey maps key to an intent. It returns false when key is not a page
// bar key, or only edits the pending jump.
func (m *Model) HandleKey(key string) (pagination.Intent, bool) {
	total := m.state.TotalPages()

	switch {
	case len(key) == 1 && key[0] >= '0' && key[0] <= '9':
		if len(m.digits) < len(strconv.Itoa(total)) && (m.digits != "" || key != "0") {
			m.digits += key
		}

		return pagination.Intent{}, false

	case key == "backspace" && m.digits != "":
		m.digits = m.digits[:len(m.digits)-1]
		return pagination.Intent{}, false

	case m.keys.Cancel.Match(key):
		m.digits = ""
		return pagination.Intent{}, false

	case m.keys.Jump.Match(key):
		if m.digits == "" {
			return pagination.Intent{}, false
		}

		p, err := strconv.Atoi(m.digits)
		m.digits = ""

		if err != nil {
			return pagination.Intent{}, false
		}

		return pagination.GoTo(pagination.Clamp(p, total)), true

	case m.keys.Prev.Match(key):
		m.digits = ""
		return pagination.Step(pagination.Previous), true

	case m.keys.Next.Match(key):
		m.digits = ""
		return pagination.Step(pagination.Next), true

	case m.keys.First.Match(key):
		m.digits = ""
		return pagination.GoTo(1), true

	case m.keys.Last.Match(key):
		m.digits = ""
		return pagination.GoTo(total), true
	}

	return pagination.Intent{}, false
}

type part int

const (
	partPrev part = iota
	partNext
	partCollapse
	partCurrent
	partPage
)

// View renders the bar with theme styles.
func (m Model) View() string {
	cur := m.state.CurrentPage
	total := m.state.TotalPages()

	out := render(m.window, cur, func(p part, s string) string {
		switch p {
		case partPrev:
			return m.marker(s, cur > 1)
		case partNext:
			return m.marker(s, cur < total)
		case partCollapse:
			return m.theme.CollapseStyle.Render(s)
		case partCurrent:
			return m.theme.PageCurrentStyle.Render(s)
		default:
			return m.theme.PageStyle.Render(s)
		}
	})

	if m.digits != "" {
		out += " " + m.theme.FilterStyle.Render("→ "+m.digits)
	}

	return out
}

func (m Model) marker(s string, enabled bool) string {
	style := m.theme.SubtleStyle
	if enabled {
		style = m.theme.SelectedStyle
	}

	return style.Render(s)
}

// Format renders tokens without styles, marking current.
func Format(tokens []pagination.Token, current int) string {
	return render(tokens, current, func(_ part, s string) string { return s })
}

func render(tokens []pagination.Token, current int, style func(part, string) string) string {
	parts := make([]string, 0, len(tokens)+2)
	parts = append(parts, style(partPrev, PrevMarker))

	for _, tok := range tokens {
		p, ok := tok.Page()

		switch {
		case !ok:
			parts = append(parts, style(partCollapse, CollapseMarker))
		case p == current:
			parts = append(parts, style(partCurrent, "["+strconv.Itoa(p)+"]"))
		default:
			parts = append(parts, style(partPage, strconv.Itoa(p)))
		}
	}

	parts = append(parts, style(partNext, NextMarker))

	return strings.Join(parts, " ")
}

// Width returns the rendered width of the bar.
func (m Model) Width() int {
	return lipgloss.Width(m.View())
}
