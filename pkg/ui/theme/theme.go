// Package theme derives lipgloss styles from a chroma syntax style, so any of
// chroma's registered styles can be used as an interface theme.
package theme

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const Ellipsis = "…"

var (
	ErrInvalidName    = errors.New("invalid theme name")
	ErrRegisterStyles = errors.New("register styles")

	Default = New("github")
)

type Theme struct {
	CollapseStyle         lipgloss.Style
	CursorStyle           lipgloss.Style
	ErrorStyle            lipgloss.Style
	FilterStyle           lipgloss.Style
	GenericTextStyle      lipgloss.Style
	HelpStyle             lipgloss.Style
	LogoStyle             lipgloss.Style
	PageCurrentStyle      lipgloss.Style
	PageStyle             lipgloss.Style
	SelectedStyle         lipgloss.Style
	SelectedSubtleStyle   lipgloss.Style
	StatusBarMessageStyle lipgloss.Style
	StatusBarPosStyle     lipgloss.Style
	StatusBarStyle        lipgloss.Style
	SubtleStyle           lipgloss.Style
	TitleStyle            lipgloss.Style

	Name     string
	Ellipsis string
}

// New returns the theme for a chroma style name. "dark", "light" and "auto"
// (or "") pick a GitHub style for the terminal background. Unknown names fall
// back to chroma's fallback style.
func New(name string) *Theme {
	cs := newChromaStyle(name)

	var (
		generic = lipgloss.NewStyle().
			Foreground(cs.fg(chroma.Background))

		selected = lipgloss.NewStyle().
				Foreground(cs.fg(chroma.NameTag))

		selectedSubtle = lipgloss.NewStyle().
				Foreground(cs.fgFactor(chroma.NameTag, 0.3))

		subtle = lipgloss.NewStyle().
			Foreground(cs.fg(chroma.Comment))
	)

	return &Theme{
		Name:     cs.style.Name,
		Ellipsis: Ellipsis,

		GenericTextStyle:    generic,
		SelectedStyle:       selected,
		SelectedSubtleStyle: selectedSubtle,
		SubtleStyle:         subtle,
		CursorStyle:         selectedSubtle,
		FilterStyle:         selected,
		CollapseStyle:       subtle,
		PageStyle:           generic,

		TitleStyle: generic.Bold(true),
		ErrorStyle: lipgloss.NewStyle().
			Foreground(cs.fg(chroma.GenericDeleted)),
		LogoStyle: lipgloss.NewStyle().
			Foreground(cs.bg(chroma.Background)).
			Background(cs.fg(chroma.NameTag)).
			Bold(true).
			Padding(0, 1),
		PageCurrentStyle: lipgloss.NewStyle().
			Foreground(cs.bg(chroma.Background)).
			Background(cs.fg(chroma.NameTag)).
			Bold(true),
		HelpStyle: lipgloss.NewStyle().
			Foreground(cs.fgFactor(chroma.Background, 0.2)),
		StatusBarStyle: lipgloss.NewStyle().
			Foreground(cs.fg(chroma.Background)).
			Background(cs.bgFactor(chroma.Background, 0.1)),
		StatusBarPosStyle: lipgloss.NewStyle().
			Foreground(cs.fg(chroma.Background)).
			Background(cs.bgFactor(chroma.Background, 0.15)),
		StatusBarMessageStyle: lipgloss.NewStyle().
			Foreground(cs.bg(chroma.Background)).
			Background(cs.fgFactor(chroma.NameTag, 0.15)),
	}
}

// Register adds a custom chroma style that [New] can then resolve by name.
func Register(name string, entries chroma.StyleEntries) error {
	if name == "" {
		return ErrInvalidName
	}

	s, err := chroma.NewStyle(name, entries)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRegisterStyles, err)
	}

	styles.Register(s)

	return nil
}

type chromaStyle struct {
	style *chroma.Style
}

func newChromaStyle(name string) chromaStyle {
	s := styles.Get(resolve(name))
	if s == nil {
		s = styles.Fallback
	}

	return chromaStyle{style: s}
}

func (cs chromaStyle) fg(c chroma.TokenType) lipgloss.Color {
	return lipgloss.Color(cs.style.Get(c).Colour.String()) //nolint:misspell // Chroma naming.
}

func (cs chromaStyle) bg(c chroma.TokenType) lipgloss.Color {
	return lipgloss.Color(cs.style.Get(c).Background.String())
}

func (cs chromaStyle) fgFactor(c chroma.TokenType, factor float64) lipgloss.Color {
	return lipgloss.Color(cs.style.Get(c).Colour.BrightenOrDarken(factor).String()) //nolint:misspell // Chroma naming.
}

func (cs chromaStyle) bgFactor(c chroma.TokenType, factor float64) lipgloss.Color {
	return lipgloss.Color(cs.style.Get(c).Background.BrightenOrDarken(factor).String())
}

func resolve(name string) string {
	switch name {
	case "dark":
		return "github-dark"
	case "light":
		return "github"
	case "auto", "":
		return detect()
	default:
		return name
	}
}

func detect() string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ""
	}
	if termenv.HasDarkBackground() {
		return "github-dark"
	}

	return "github"
}
