package cli_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charm.land/lipgloss/v2"

	"github.com/macropower/mdpkm/internal/cli"
	"github.com/macropower/mdpkm/pkg/config"
	"github.com/macropower/mdpkm/pkg/instance"
	"github.com/macropower/mdpkm/pkg/platform"
	"github.com/macropower/mdpkm/pkg/ui/theme"
)

func execute(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCmd()
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetArgs(append([]string{"--config", configPath, "--log-level", "error"}, args...))

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)

	err := cmd.ExecuteContext(t.Context())

	return out.String(), err
}

func TestRunOffline(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		wantErr error
		args    []string
		want    []string
	}{
		"first page": {
			args: []string{"--offline", "--page-size", "5"},
			want: []string{
				"Sodium by jellysquid3 (1,000,000 downloads)",
				"  A modern rendering engine for Minecraft",
				"  https://modrinth.com/mods?q=Sodium",
				"page 1/6, 30 results: ‹ [1] 2 3 4 5 ─ 6 ›",
			},
		},
		"query": {
			args: []string{"--offline", "sodium"},
			want: []string{
				"Iris Shaders by coderbot",
				"page 1/1, 2 results: ‹ [1] ›",
			},
		},
		"page in the middle": {
			args: []string{"--offline", "--page-size", "3", "--page", "6"},
			want: []string{
				"EMI by emi",
				"page 6/10, 30 results: ‹ 1 ─ 5 [6] 7 ─ 10 ›",
			},
		},
		"page past end": {
			args: []string{"--offline", "--page-size", "5", "--page", "99"},
			want: []string{
				"Sophisticated Backpacks",
				"page 6/6, 30 results: ‹ 1 ─ 2 3 4 5 [6] ›",
			},
		},
		"category": {
			args: []string{"--offline", "-c", "magic"},
			want: []string{
				"Botania by Vazkii",
				"Ars Nouveau by baileyholl2",
				"page 1/1, 2 results",
			},
		},
		"unknown instance": {
			args:    []string{"--offline", "--instance", "nope"},
			wantErr: instance.ErrNotFound,
		},
		"platform without api key": {
			args:    []string{"--platform", "curseforge"},
			wantErr: platform.ErrUnknownPlatform,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			configPath := filepath.Join(t.TempDir(), "config.yaml")

			out, err := execute(t, configPath, tc.args...)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)

			for _, want := range tc.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestWriteAndShowConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	out, err := execute(t, configPath, "--write-config")
	require.NoError(t, err)
	assert.Empty(t, out)

	b, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultYAML(), b)
	assert.FileExists(t, filepath.Join(dir, config.SchemaFile))

	out, err = execute(t, configPath, "--show-config")
	require.NoError(t, err)
	assert.Contains(t, out, "apiVersion: "+config.APIVersion)
	assert.Contains(t, out, "defaultInstance: example")
}

func TestInvalidConfig(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("apiVersion: v0\nkind: Configuration\n"), 0o600))

	_, err := execute(t, configPath, "--offline")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestInstancesCmd(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(configPath, false))

	out, err := execute(t, configPath, "instances")
	require.NoError(t, err)

	for _, want := range []string{"ID", "example", "Example Instance", "fabric", "1.20.1, 1.20", "*"} {
		assert.Contains(t, out, want)
	}

	emptyPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(emptyPath, []byte("apiVersion: "+config.APIVersion+"\nkind: Configuration\n"), 0o600))

	out, err = execute(t, emptyPath, "instances")
	require.NoError(t, err)
	assert.Equal(t, "No instances configured.\n", out)
}

func TestThemeColorScheme(t *testing.T) {
	t.Parallel()

	cs := cli.ThemeColorScheme(theme.Default, lipgloss.LightDark(true))
	assert.NotNil(t, cs.Base)
	assert.NotNil(t, cs.Codeblock)
	assert.NotNil(t, cs.ErrorHeader[0])
	assert.NotNil(t, cs.ErrorHeader[1])
}
