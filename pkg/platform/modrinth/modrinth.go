// Package modrinth implements [platform.Platform] for the Modrinth v2 API.
package modrinth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/macropower/mdpkm/pkg/platform"
)

const (
	ID          = "modrinth"
	DisplayName = "Modrinth"

	DefaultBaseURL = "https://api.modrinth.com/v2"
	projectURL     = "https://modrinth.com/mod/"
)

// Client searches Modrinth.
type Client struct {
	transport *platform.Transport
	baseURL   string
}

// New creates a new Modrinth [Client]. An empty baseURL uses [DefaultBaseURL].
func New(baseURL string, transport *platform.Transport) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if transport == nil {
		transport = platform.NewTransport()
	}

	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		transport: transport,
	}
}

func (c *Client) ID() string          { return ID }
func (c *Client) DisplayName() string { return DisplayName }

type searchResponse struct {
	Hits      []hit `json:"hits"`
	Offset    int   `json:"offset"`
	Limit     int   `json:"limit"`
	TotalHits int   `json:"total_hits"`
}

type hit struct {
	ProjectID   string   `json:"project_id"`
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	ProjectType string   `json:"project_type"`
	IconURL     string   `json:"icon_url"`
	Categories  []string `json:"categories"`
	Downloads   int64    `json:"downloads"`
}

// Search implements [platform.Platform].
func (c *Client) Search(ctx context.Context, query string, opts platform.Options) (*platform.Results, error) {
	uri, err := c.searchURL(query, opts)
	if err != nil {
		return nil, err
	}

	var resp searchResponse

	err = c.transport.GetJSON(ctx, uri, nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("modrinth search: %w", err)
	}

	res := &platform.Results{
		Hits:      make([]platform.Project, 0, len(resp.Hits)),
		TotalHits: resp.TotalHits,
		Limit:     resp.Limit,
	}
	if res.Limit <= 0 {
		res.Limit = opts.Limit
	}

	for _, h := range resp.Hits {
		res.Hits = append(res.Hits, h.project())
	}

	return res, nil
}

func (h hit) project() platform.Project {
	id := h.ProjectID
	if id == "" {
		id = h.ID
	}

	p := platform.Project{
		ID:         id,
		Slug:       h.Slug,
		Icon:       h.IconURL,
		Type:       h.ProjectType,
		Title:      h.Title,
		Author:     h.Author,
		Summary:    h.Description,
		Downloads:  h.Downloads,
		Categories: h.Categories,
		Source:     ID,
	}
	if h.Slug != "" {
		p.URL = projectURL + h.Slug
	}

	return p.Normalize()
}

func (c *Client) searchURL(query string, opts platform.Options) (string, error) {
	facets, err := buildFacets(opts)
	if err != nil {
		return "", err
	}

	v := url.Values{}
	if query != "" {
		v.Set("query", query)
	}
	if opts.Limit > 0 {
		v.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		v.Set("offset", strconv.Itoa(opts.Offset))
	}
	v.Set("facets", facets)

	return c.baseURL + "/search?" + v.Encode(), nil
}

// buildFacets encodes filters as Modrinth facets: OR within an inner list,
// AND across lists.
func buildFacets(opts platform.Options) (string, error) {
	facets := [][]string{{"project_type:mod"}}

	add := func(key string, values []string) {
		if len(values) == 0 {
			return
		}

		group := make([]string, 0, len(values))
		for _, val := range values {
			group = append(group, key+":"+val)
		}

		facets = append(facets, group)
	}

	add("categories", opts.Loaders)
	add("versions", opts.Versions)

	// Each category must match, so every one is its own group.
	for _, cat := range opts.Categories {
		facets = append(facets, []string{"categories:" + cat})
	}

	b, err := json.Marshal(facets)
	if err != nil {
		return "", fmt.Errorf("encode facets: %w", err)
	}

	return string(b), nil
}
