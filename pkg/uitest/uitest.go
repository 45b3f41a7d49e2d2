package uitest

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultTimeout bounds every wait in this package.
const DefaultTimeout = 3 * time.Second

// NewTestModel starts m in a test program with the given terminal size.
func NewTestModel(tb testing.TB, m tea.Model, size Size) *teatest.TestModel {
	tb.Helper()

	return teatest.NewTestModel(tb, m, teatest.WithInitialTermSize(size.Width, size.Height))
}

// WaitForText blocks until the plain program output contains each of texts.
func WaitForText(tb testing.TB, tm *teatest.TestModel, texts ...string) {
	tb.Helper()

	WaitFor(tb, tm.Output(), func(plain string) bool {
		for _, text := range texts {
			if !strings.Contains(plain, text) {
				return false
			}
		}

		return true
	})
}

// WaitFor blocks until condition holds for the plain output read from r so
// far.
func WaitFor(tb testing.TB, r io.Reader, condition func(plain string) bool) {
	tb.Helper()

	teatest.WaitFor(tb, r, func(b []byte) bool {
		return condition(Plain(string(b)))
	},
		teatest.WithDuration(DefaultTimeout),
		teatest.WithCheckInterval(10*time.Millisecond),
	)
}

// FinalModel waits for the program to quit and returns its last model.
//
//nolint:ireturn // Callers assert their concrete model.
func FinalModel(tb testing.TB, tm *teatest.TestModel) tea.Model {
	tb.Helper()

	return tm.FinalModel(tb, teatest.WithFinalTimeout(DefaultTimeout))
}

// Plain strips ANSI escape sequences from s.
func Plain(s string) string {
	return ansi.Strip(s)
}
