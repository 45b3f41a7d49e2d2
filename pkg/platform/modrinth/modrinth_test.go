package modrinth_test

import (
	"encoding/json"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/macropower/mdpkm/pkg/platform"
	"github.com/macropower/mdpkm/pkg/platform/modrinth"
)

func newTestClient(t *testing.T, handler fasthttp.RequestHandler) *modrinth.Client {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	t.Cleanup(func() {
		_ = ln.Close()
	})

	go func() {
		_ = fasthttp.Serve(ln, handler)
	}()

	transport := platform.NewTransport(platform.WithDial(func(string) (net.Conn, error) {
		return ln.Dial()
	}))

	return modrinth.New("http://modrinth.test/v2/", transport)
}

func TestSearch(t *testing.T) {
	t.Parallel()

	var (
		gotPath   string
		gotQuery  string
		gotLimit  string
		gotOffset string
		gotFacets [][]string
	)

	c := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		gotPath = string(ctx.Path())
		gotQuery = string(ctx.QueryArgs().Peek("query"))
		gotLimit = string(ctx.QueryArgs().Peek("limit"))
		gotOffset = string(ctx.QueryArgs().Peek("offset"))
		_ = json.Unmarshal(ctx.QueryArgs().Peek("facets"), &gotFacets)

		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{
			"hits": [
				{"project_id": "AANobbMI", "slug": "sodium", "title": "Sodium", "author": "jellysquid3",
				 "description": "Rendering engine", "project_type": "mod", "downloads": 1234567,
				 "icon_url": "https://cdn.example/sodium.png", "categories": ["optimization", "fabric"]},
				{"id": "gvQqBUqZ", "slug": "lithium", "author": "jellysquid3"}
			],
			"offset": 40,
			"limit": 20,
			"total_hits": 195
		}`)
	})

	res, err := c.Search(t.Context(), "sod", platform.Options{
		Limit:      20,
		Offset:     40,
		Loaders:    []string{"fabric"},
		Versions:   []string{"1.20.1", "1.20"},
		Categories: []string{"optimization"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/v2/search", gotPath)
	assert.Equal(t, "sod", gotQuery)
	assert.Equal(t, "20", gotLimit)
	assert.Equal(t, "40", gotOffset)
	assert.Equal(t, [][]string{
		{"project_type:mod"},
		{"categories:fabric"},
		{"versions:1.20.1", "versions:1.20"},
		{"categories:optimization"},
	}, gotFacets)

	assert.Equal(t, 195, res.TotalHits)
	assert.Equal(t, 20, res.Limit)
	require.Len(t, res.Hits, 2)

	assert.Equal(t, platform.Project{
		ID:         "AANobbMI",
		Slug:       "sodium",
		Icon:       "https://cdn.example/sodium.png",
		Type:       "mod",
		Title:      "Sodium",
		Author:     "jellysquid3",
		Summary:    "Rendering engine",
		URL:        "https://modrinth.com/mod/sodium",
		Source:     modrinth.ID,
		Categories: []string{"optimization", "fabric"},
		Downloads:  1234567,
	}, res.Hits[0])

	// Falls back to id and slug.
	assert.Equal(t, "gvQqBUqZ", res.Hits[1].ID)
	assert.Equal(t, "lithium", res.Hits[1].Title)
}

func TestSearchNoFilters(t *testing.T) {
	t.Parallel()

	var gotFacets string

	c := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		gotFacets = string(ctx.QueryArgs().Peek("facets"))
		assert.False(t, ctx.QueryArgs().Has("query"))
		assert.False(t, ctx.QueryArgs().Has("offset"))

		ctx.SetBodyString(`{"hits": [], "offset": 0, "limit": 0, "total_hits": 0}`)
	})

	res, err := c.Search(t.Context(), "", platform.Options{Limit: 10})
	require.NoError(t, err)

	assert.JSONEq(t, `[["project_type:mod"]]`, gotFacets)
	assert.Empty(t, res.Hits)
	assert.Equal(t, 10, res.Limit, "limit falls back to the requested limit")
}

func TestSearchErrorStatus(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusTooManyRequests)
		ctx.SetBodyString(`{"error": "ratelimited"}`)
	})

	_, err := c.Search(t.Context(), "x", platform.Options{Limit: 10})
	require.ErrorIs(t, err, platform.ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "429")
}

func TestSearchBadBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString(`not json`)
	})

	_, err := c.Search(t.Context(), "x", platform.Options{Limit: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}
