// Package ui provides the interactive mod search view.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/mdpkm/pkg/keys"
	"github.com/macropower/mdpkm/pkg/search"
	"github.com/macropower/mdpkm/pkg/ui/pagebar"
	"github.com/macropower/mdpkm/pkg/ui/results"
	"github.com/macropower/mdpkm/pkg/ui/statusbar"
	"github.com/macropower/mdpkm/pkg/ui/theme"
)

// SearchResultMsg carries a finished search back to the model. Results are
// applied only if they answer the latest request.
type SearchResultMsg struct {
	Result search.Result
}

// ClipboardMsg reports the outcome of copying a project URL.
type ClipboardMsg struct {
	Err error
	URL string
}

type focus int

const (
	focusResults focus = iota
	focusQuery
	focusFilter
)

type Config struct {
	Theme      *theme.Theme
	KeyBinds   *KeyBinds
	Copy       func(string) error
	Instance   string
	Categories []string
}

type Opt func(*Config)

func WithTheme(t *theme.Theme) Opt {
	return func(c *Config) {
		c.Theme = t
	}
}

func WithKeyBinds(kb *KeyBinds) Opt {
	return func(c *Config) {
		c.KeyBinds = kb
	}
}

// WithClipboard replaces the system clipboard.
func WithClipboard(fn func(string) error) Opt {
	return func(c *Config) {
		c.Copy = fn
	}
}

// WithInstance sets the instance label shown in the header.
func WithInstance(label string) Opt {
	return func(c *Config) {
		c.Instance = label
	}
}

// WithCategories sets the categories cycled through with the category key.
func WithCategories(cs ...string) Opt {
	return func(c *Config) {
		c.Categories = cs
	}
}

// Model is the search view. It implements [tea.Model].
type Model struct {
	ctx      context.Context //nolint:containedctx // Searches run from tea.Cmds.
	session  *search.Session
	cfg      *Config
	kb       *KeyBinds
	theme    *theme.Theme
	message  string
	snapshot search.Snapshot
	query    textinput.Model
	filter   textinput.Model
	spinner  spinner.Model
	results  results.Model
	pagebar  pagebar.Model
	width    int
	height   int
	focus    focus
	showHelp bool
	quitting bool
}

// New creates the search view over session.
func New(ctx context.Context, session *search.Session, opts ...Opt) *Model {
	cfg := &Config{
		Theme:      theme.Default,
		KeyBinds:   DefaultKeyBinds(),
		Copy:       clipboard.WriteAll,
		Categories: DefaultCategories,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	snap := session.Snapshot()

	q := textinput.New()
	q.Prompt = "Search: "
	q.Placeholder = "mod name"
	q.SetValue(snap.Query)
	q.Cursor.SetMode(cursor.CursorStatic)
	q.PromptStyle = cfg.Theme.SelectedStyle
	q.TextStyle = cfg.Theme.GenericTextStyle

	f := textinput.New()
	f.Prompt = "Filter: "
	f.Cursor.SetMode(cursor.CursorStatic)
	f.PromptStyle = cfg.Theme.FilterStyle

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = cfg.Theme.SelectedStyle

	m := &Model{
		ctx:      ctx,
		session:  session,
		cfg:      cfg,
		kb:       cfg.KeyBinds,
		theme:    cfg.Theme,
		query:    q,
		filter:   f,
		spinner:  sp,
		results:  results.New(cfg.Theme),
		pagebar:  pagebar.New(cfg.Theme, cfg.KeyBinds.Page),
		snapshot: snap,
		width:    80,
		height:   24,
	}
	m.apply(snap)

	return m
}

// NewProgram returns a full-screen program running m.
func NewProgram(m *Model, opts ...tea.ProgramOption) *tea.Program {
	slog.Debug("starting mdpkm ui")

	return tea.NewProgram(m, append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(m.ctx)}, opts...)...)
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.execute(m.session.Refresh()))
}

// Snapshot returns the last applied session state.
func (m *Model) Snapshot() search.Snapshot {
	return m.snapshot
}

// Message returns the status bar message.
func (m *Model) Message() string {
	return m.message
}

func (m *Model) execute(req search.Request) tea.Cmd {
	m.snapshot = m.session.Snapshot()

	ctx := m.ctx
	session := m.session

	return func() tea.Msg {
		return SearchResultMsg{Result: session.Execute(ctx, req)}
	}
}

func (m *Model) apply(snap search.Snapshot) {
	m.snapshot = snap
	m.results.SetHits(snap.Hits)
	m.results.SetFilter(m.filter.Value())
	m.pagebar.SetState(snap.State)
}

//nolint:ireturn // Required by tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.results.SetWidth(msg.Width)
		m.query.Width = max(0, msg.Width-lipgloss.Width(m.query.Prompt)-4)

		return m, nil

	case SearchResultMsg:
		return m, m.handleResult(msg.Result)

	case ClipboardMsg:
		if msg.Err != nil {
			m.message = "copy failed: " + msg.Err.Error()
		} else {
			m.message = "copied " + msg.URL
		}

		return m, nil

	case spinner.TickMsg:
		if !m.snapshot.Searching {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleResult(res search.Result) tea.Cmd {
	err := m.session.Complete(res)
	if errors.Is(err, search.ErrSuperseded) {
		return nil
	}

	snap := m.session.Snapshot()
	m.apply(snap)

	if err != nil {
		m.message = "search failed, press " + m.kb.Retry.String() + " to retry"
		return nil
	}

	m.message = ""

	// The requested page no longer exists; fetch the page it was clamped to.
	if res.Request.Page != snap.State.CurrentPage && len(snap.Hits) == 0 && snap.TotalHits > 0 {
		return m.execute(m.session.Refresh())
	}

	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	if key == "ctrl+c" {
		m.quitting = true
		return tea.Quit
	}

	switch m.focus {
	case focusQuery:
		return m.handleQueryKey(msg)
	case focusFilter:
		return m.handleFilterKey(msg)
	}

	if intent, ok := m.pagebar.HandleKey(key); ok {
		req, ok := m.session.Navigate(intent)
		if !ok {
			return nil
		}

		return tea.Batch(m.execute(req), m.spinner.Tick)
	}

	switch {
	case m.kb.Quit.Match(key):
		m.quitting = true
		return tea.Quit

	case m.kb.Query.Match(key):
		m.focus = focusQuery
		m.query.Focus()

	case m.kb.Filter.Match(key):
		m.focus = focusFilter
		m.filter.Focus()

	case m.kb.Up.Match(key):
		m.results.Move(-1)

	case m.kb.Down.Match(key):
		m.results.Move(1)

	case m.kb.Category.Match(key):
		return m.search(m.session.SetCategory(m.nextCategory()))

	case m.kb.Platform.Match(key):
		return m.search(m.session.NextPlatform())

	case m.kb.Retry.Match(key):
		return m.search(m.session.Refresh())

	case m.kb.Copy.Match(key):
		p, ok := m.results.Selected()
		if !ok || p.URL == "" {
			return nil
		}

		copyFn := m.cfg.Copy

		return func() tea.Msg {
			return ClipboardMsg{URL: p.URL, Err: copyFn(p.URL)}
		}

	case m.kb.Help.Match(key):
		m.showHelp = !m.showHelp
	}

	return nil
}

func (m *Model) search(req search.Request) tea.Cmd {
	return tea.Batch(m.execute(req), m.spinner.Tick)
}

func (m *Model) handleQueryKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.focus = focusResults
		m.query.Blur()

		return m.search(m.session.SetQuery(strings.TrimSpace(m.query.Value())))

	case "esc":
		m.focus = focusResults
		m.query.Blur()
		m.query.SetValue(m.snapshot.Query)

		return nil
	}

	if !keys.IsTextInputAction(msg.String()) {
		return nil
	}

	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)

	return cmd
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.focus = focusResults
		m.filter.Blur()

		return nil

	case "esc":
		m.focus = focusResults
		m.filter.Blur()
		m.filter.SetValue("")
		m.results.SetFilter("")

		return nil
	}

	if !keys.IsTextInputAction(msg.String()) {
		return nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.results.SetFilter(m.filter.Value())

	return cmd
}

func (m *Model) nextCategory() string {
	cs := m.cfg.Categories
	if len(cs) == 0 {
		return search.CategoryNone
	}

	i := slices.Index(cs, m.snapshot.Category)

	return cs[(i+1)%len(cs)]
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.query.View())
	if m.snapshot.Searching {
		b.WriteString(" " + m.spinner.View())
	}

	b.WriteString("\n")
	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	if m.focus == focusFilter || m.filter.Value() != "" {
		b.WriteString(m.filter.View() + "\n")
	}

	b.WriteString(m.results.View())
	b.WriteString("\n\n")
	b.WriteString(m.pagebar.View())
	b.WriteString("\n")

	help := m.kb.shortHelp()
	if m.showHelp {
		help = m.kb.Binds()
	}

	b.WriteString(m.theme.HelpStyle.Render(keys.ShortHelp(m.width, help...)))
	b.WriteString("\n")
	b.WriteString(m.statusView())

	return b.String()
}

func (m *Model) headerView() string {
	parts := []string{
		CategoryTitle(m.snapshot.Category),
		m.snapshot.Platform,
	}
	if m.cfg.Instance != "" {
		parts = append(parts, m.cfg.Instance)
	}

	return m.theme.SubtleStyle.Render(strings.Join(parts, " · "))
}

func (m *Model) statusView() string {
	var opts []statusbar.StatusBarOpt

	switch {
	case m.snapshot.Err != nil && m.message != "":
		opts = append(opts, statusbar.WithError(m.message))
	case m.message != "":
		opts = append(opts, statusbar.WithMessage(m.message))
	}

	note := fmt.Sprintf("%s results", humanize.Comma(int64(m.snapshot.TotalHits)))
	if m.snapshot.Query != "" {
		note = fmt.Sprintf("%s for %q", note, m.snapshot.Query)
	}

	pos := fmt.Sprintf("page %d/%d", m.snapshot.State.CurrentPage, m.snapshot.State.TotalPages())

	return statusbar.NewStatusBarRenderer(m.theme, m.width, opts...).Render(note, pos)
}
