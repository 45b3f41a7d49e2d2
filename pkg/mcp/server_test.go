package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/macropower/mdpkm/pkg/mcp"
	"github.com/macropower/mdpkm/pkg/platform"
	"github.com/macropower/mdpkm/pkg/platform/static"
)

func newRegistry(t *testing.T, ps ...platform.Platform) *platform.Registry {
	t.Helper()

	if len(ps) == 0 {
		ps = []platform.Platform{static.New(static.Sample())}
	}

	reg, err := platform.NewRegistry(ps...)
	require.NoError(t, err)

	return reg
}

func connect(t *testing.T, s *mcp.Server) *sdk.ClientSession {
	t.Helper()

	clientTransport, serverTransport := sdk.NewInMemoryTransports()

	_, err := s.Server().Connect(t.Context(), serverTransport, nil)
	require.NoError(t, err)

	client := sdk.NewClient(&sdk.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)

	cs, err := client.Connect(t.Context(), clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = cs.Close()
	})

	return cs
}

func decode[T any](t *testing.T, res *sdk.CallToolResult) T {
	t.Helper()

	b, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)

	var out T
	require.NoError(t, json.Unmarshal(b, &out))

	return out
}

func text(t *testing.T, res *sdk.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, res.Content)

	tc, ok := res.Content[0].(*sdk.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])

	return tc.Text
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	empty, err := platform.NewRegistry()
	require.NoError(t, err)

	_, err = mcp.NewServer("", empty)
	require.ErrorIs(t, err, platform.ErrUnknownPlatform)

	_, err = mcp.NewServer("", newRegistry(t), mcp.WithPlatform("modrinth"))
	require.ErrorIs(t, err, platform.ErrUnknownPlatform)

	s, err := mcp.NewServer("", newRegistry(t))
	require.NoError(t, err)
	assert.NotNil(t, s.Server())
}

func TestListTools(t *testing.T) {
	t.Parallel()

	s, err := mcp.NewServer("", newRegistry(t))
	require.NoError(t, err)

	cs := connect(t, s)

	res, err := cs.ListTools(t.Context(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description)
		assert.NotNil(t, tool.InputSchema)
	}

	assert.ElementsMatch(t, []string{"search_mods", "list_platforms"}, names)
}

func TestSearchMods(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		args       map[string]any
		wantTitle  string
		wantWindow []string
		wantTotal  int
		wantPage   int
		wantPages  int
		wantHits   int
	}{
		"defaults": {
			args:       map[string]any{},
			wantTitle:  "Sodium",
			wantWindow: []string{"1", "2", "3", "4", "5", "-", "6"},
			wantTotal:  30,
			wantPage:   1,
			wantPages:  6,
			wantHits:   5,
		},
		"query": {
			args:       map[string]any{"query": "sodium"},
			wantTitle:  "Sodium",
			wantWindow: []string{"1"},
			wantTotal:  2,
			wantPage:   1,
			wantPages:  1,
			wantHits:   2,
		},
		"page near end": {
			args:       map[string]any{"page": 4},
			wantTitle:  "EMI",
			wantWindow: []string{"1", "-", "2", "3", "4", "5", "6"},
			wantTotal:  30,
			wantPage:   4,
			wantPages:  6,
			wantHits:   5,
		},
		"page past end": {
			args:       map[string]any{"page": 99},
			wantTitle:  "Sophisticated Backpacks",
			wantWindow: []string{"1", "-", "2", "3", "4", "5", "6"},
			wantTotal:  30,
			wantPage:   6,
			wantPages:  6,
			wantHits:   5,
		},
		"category": {
			args:       map[string]any{"category": "magic"},
			wantTitle:  "Botania",
			wantWindow: []string{"1"},
			wantTotal:  2,
			wantPage:   1,
			wantPages:  1,
			wantHits:   2,
		},
		"other loader": {
			args:       map[string]any{"loader": "forge"},
			wantWindow: []string{"1"},
			wantPage:   1,
			wantPages:  1,
		},
		"other version": {
			args:       map[string]any{"version": "1.19.2"},
			wantWindow: []string{"1"},
			wantPage:   1,
			wantPages:  1,
		},
	}

	s, err := mcp.NewServer("", newRegistry(t),
		mcp.WithPageSize(5),
		mcp.WithFilters([]string{"fabric"}, platform.VersionFilters("1.20.1")),
	)
	require.NoError(t, err)

	cs := connect(t, s)

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			res, err := cs.CallTool(t.Context(), &sdk.CallToolParams{
				Name:      "search_mods",
				Arguments: tc.args,
			})
			require.NoError(t, err)
			require.False(t, res.IsError, text(t, res))

			got := decode[mcp.SearchModsResult](t, res)
			assert.Equal(t, static.ID, got.Platform)
			assert.Equal(t, tc.wantTotal, got.TotalHits)
			assert.Equal(t, tc.wantPage, got.Page)
			assert.Equal(t, tc.wantPages, got.TotalPages)
			assert.Equal(t, tc.wantWindow, got.Window)
			assert.Equal(t, 5, got.PageSize)
			require.Len(t, got.Hits, tc.wantHits)

			if tc.wantTitle != "" {
				assert.Equal(t, tc.wantTitle, got.Hits[0].Title)
			}

			assert.Equal(t, got.Message, text(t, res))
		})
	}
}

func TestSearchModsErrors(t *testing.T) {
	t.Parallel()

	failing := static.New(nil,
		static.WithID("down"),
		static.WithSearchFunc(func(context.Context, string, platform.Options) (*platform.Results, error) {
			return nil, errors.New("service unavailable")
		}),
	)

	s, err := mcp.NewServer("", newRegistry(t, static.New(static.Sample()), failing))
	require.NoError(t, err)

	cs := connect(t, s)

	tcs := map[string]struct {
		args    map[string]any
		wantErr string
	}{
		"unknown platform": {
			args:    map[string]any{"platform": "nope"},
			wantErr: "unknown platform",
		},
		"platform failure": {
			args:    map[string]any{"platform": "down"},
			wantErr: "service unavailable",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			res, err := cs.CallTool(t.Context(), &sdk.CallToolParams{
				Name:      "search_mods",
				Arguments: tc.args,
			})
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.Contains(t, text(t, res), tc.wantErr)
		})
	}
}

func TestListPlatforms(t *testing.T) {
	t.Parallel()

	s, err := mcp.NewServer("", newRegistry(t,
		static.New(static.Sample()),
		static.New(nil, static.WithID("void")),
	),
		mcp.WithPlatform("void"),
		mcp.WithPageSize(10),
		mcp.WithFilters([]string{"quilt"}, []string{"1.21"}),
	)
	require.NoError(t, err)

	cs := connect(t, s)

	res, err := cs.CallTool(t.Context(), &sdk.CallToolParams{
		Name:      "list_platforms",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	got := decode[mcp.ListPlatformsResult](t, res)
	assert.Equal(t, []mcp.PlatformInfo{
		{ID: static.ID, Name: static.DisplayName},
		{ID: "void", Name: static.DisplayName, Default: true},
	}, got.Platforms)
	assert.Equal(t, []string{"quilt"}, got.Loaders)
	assert.Equal(t, []string{"1.21"}, got.Versions)
	assert.Equal(t, 10, got.PageSize)
	assert.Equal(t, "Available platforms: offline, void. Default: void.", text(t, res))
}

func TestWithTracing(t *testing.T) {
	t.Parallel()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tracer := tp.Tracer("test")

	tcs := map[string]struct {
		err error
	}{
		"success": {},
		"failure": {err: errors.New("boom")},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tool := "tool_" + name
			handler := mcp.WithTracing(tracer, func(_ context.Context, _ *sdk.CallToolRequest, in string) (*sdk.CallToolResult, string, error) {
				return nil, "echo " + in, tc.err
			})

			_, out, err := handler(t.Context(), &sdk.CallToolRequest{
				Params: &sdk.CallToolParamsRaw{Name: tool},
			}, "hi")
			assert.Equal(t, "echo hi", out)
			require.ErrorIs(t, err, tc.err)

			var found bool
			for _, span := range sr.Ended() {
				if span.Name() != "mcp."+tool {
					continue
				}

				found = true
				if tc.err != nil {
					assert.Equal(t, codes.Error, span.Status().Code)
				} else {
					assert.Equal(t, codes.Unset, span.Status().Code)
				}
			}

			assert.True(t, found, "span for %s not recorded", tool)
		})
	}
}
