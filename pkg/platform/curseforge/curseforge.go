// Package curseforge implements [platform.Platform] for the CurseForge v1 API.
package curseforge

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/macropower/mdpkm/pkg/platform"
)

const (
	ID          = "curseforge"
	DisplayName = "CurseForge"

	DefaultBaseURL = "https://api.curseforge.com/v1"

	gameIDMinecraft = 432
	classIDMods     = 6
)

// Mod loader ids as used by the modLoaderType parameter.
var loaderTypes = map[string]int{
	"forge":    1,
	"fabric":   4,
	"quilt":    5,
	"neoforge": 6,
}

// Client searches CurseForge.
type Client struct {
	transport *platform.Transport
	baseURL   string
	apiKey    string
}

// New creates a new CurseForge [Client]. An empty baseURL uses [DefaultBaseURL].
func New(baseURL, apiKey string, transport *platform.Transport) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if transport == nil {
		transport = platform.NewTransport()
	}

	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		apiKey:    apiKey,
		transport: transport,
	}
}

func (c *Client) ID() string          { return ID }
func (c *Client) DisplayName() string { return DisplayName }

type searchResponse struct {
	Data       []mod      `json:"data"`
	Pagination pagination `json:"pagination"`
}

type pagination struct {
	Index       int `json:"index"`
	PageSize    int `json:"pageSize"`
	ResultCount int `json:"resultCount"`
	TotalCount  int `json:"totalCount"`
}

type mod struct {
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Summary       string     `json:"summary"`
	Logo          *asset     `json:"logo"`
	Links         links      `json:"links"`
	Authors       []author   `json:"authors"`
	Categories    []category `json:"categories"`
	ID            int        `json:"id"`
	DownloadCount float64    `json:"downloadCount"`
}

type asset struct {
	URL string `json:"url"`
}

type links struct {
	WebsiteURL string `json:"websiteUrl"`
}

type author struct {
	Name string `json:"name"`
}

type category struct {
	Slug string `json:"slug"`
}

// Search implements [platform.Platform].
func (c *Client) Search(ctx context.Context, query string, opts platform.Options) (*platform.Results, error) {
	uri := c.searchURL(ctx, query, opts)

	headers := map[string]string{}
	if c.apiKey != "" {
		headers["x-api-key"] = c.apiKey
	}

	var resp searchResponse

	err := c.transport.GetJSON(ctx, uri, headers, &resp)
	if err != nil {
		return nil, fmt.Errorf("curseforge search: %w", err)
	}

	res := &platform.Results{
		Hits:      make([]platform.Project, 0, len(resp.Data)),
		TotalHits: resp.Pagination.TotalCount,
		Limit:     resp.Pagination.PageSize,
	}
	if res.Limit <= 0 {
		res.Limit = opts.Limit
	}

	for _, m := range resp.Data {
		res.Hits = append(res.Hits, m.project())
	}

	return res, nil
}

func (m mod) project() platform.Project {
	p := platform.Project{
		ID:        strconv.Itoa(m.ID),
		Slug:      m.Slug,
		Type:      "mod",
		Title:     m.Name,
		Summary:   m.Summary,
		URL:       m.Links.WebsiteURL,
		Downloads: int64(m.DownloadCount),
		Source:    ID,
	}
	if m.Logo != nil {
		p.Icon = m.Logo.URL
	}
	if len(m.Authors) > 0 {
		p.Author = m.Authors[0].Name
	}
	for _, cat := range m.Categories {
		p.Categories = append(p.Categories, cat.Slug)
	}

	return p.Normalize()
}

func (c *Client) searchURL(ctx context.Context, query string, opts platform.Options) string {
	v := url.Values{}
	v.Set("gameId", strconv.Itoa(gameIDMinecraft))
	v.Set("classId", strconv.Itoa(classIDMods))
	v.Set("sortField", "2") // Popularity.
	v.Set("sortOrder", "desc")

	if query != "" {
		v.Set("searchFilter", query)
	}
	if opts.Limit > 0 {
		v.Set("pageSize", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		v.Set("index", strconv.Itoa(opts.Offset))
	}

	// CurseForge takes a single loader and a single version.
	for _, l := range opts.Loaders {
		if t, ok := loaderTypes[strings.ToLower(l)]; ok {
			v.Set("modLoaderType", strconv.Itoa(t))
			break
		}
	}
	if len(opts.Versions) > 0 {
		v.Set("gameVersion", opts.Versions[0])
	}

	for _, cat := range opts.Categories {
		if _, err := strconv.Atoi(cat); err != nil {
			slog.DebugContext(ctx, "ignoring non-numeric curseforge category", slog.String("category", cat))
			continue
		}

		v.Set("categoryId", cat)

		break
	}

	return c.baseURL + "/mods/search?" + v.Encode()
}
