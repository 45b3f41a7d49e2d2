package ui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/mdpkm/pkg/ui"
	"github.com/macropower/mdpkm/pkg/uitest"
)

func TestProgram(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		size     uitest.Size
		keys     []tea.KeyMsg
		wantText []string
		wantPage int
	}{
		"initial page": {
			size:     uitest.Standard,
			wantText: []string{"Sodium", "page 1/6"},
			wantPage: 1,
		},
		"next page": {
			size:     uitest.Standard,
			keys:     []tea.KeyMsg{{Type: tea.KeyRight}},
			wantText: []string{"Cloth Config", "page 2/6"},
			wantPage: 2,
		},
		"last page on a small terminal": {
			size:     uitest.Compact,
			keys:     []tea.KeyMsg{{Type: tea.KeyEnd}},
			wantText: []string{"page 6/6"},
			wantPage: 6,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tm := uitest.NewTestModel(t, newModel(t), tc.size)
			if len(tc.keys) > 0 {
				uitest.WaitForText(t, tm, "page 1/6")
			}

			for _, k := range tc.keys {
				tm.Send(k)
			}

			uitest.WaitForText(t, tm, tc.wantText...)
			tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

			final, ok := uitest.FinalModel(t, tm).(*ui.Model)
			require.True(t, ok)
			assert.Equal(t, tc.wantPage, final.Snapshot().State.CurrentPage)
		})
	}
}
