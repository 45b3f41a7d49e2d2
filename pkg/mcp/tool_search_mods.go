package mcp

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/mdpkm/pkg/pagination"
	"github.com/macropower/mdpkm/pkg/platform"
	"github.com/macropower/mdpkm/pkg/search"
)

const summaryPreviewLen = 200

// SearchModsParams defines parameters for the search_mods tool.
type SearchModsParams struct {
	Query    string `json:"query,omitempty"    jsonschema:"text to search for in mod names and summaries; empty lists popular mods"`
	Platform string `json:"platform,omitempty" jsonschema:"platform id from list_platforms; defaults to the server's default platform"`
	Category string `json:"category,omitempty" jsonschema:"category id such as optimization or adventure; empty or none disables the filter"`
	Loader   string `json:"loader,omitempty"   jsonschema:"mod loader such as fabric or quilt; defaults to the configured instance"`
	Version  string `json:"version,omitempty"  jsonschema:"game version such as 1.20.1; defaults to the configured instance"`
	Page     int    `json:"page,omitempty"     jsonschema:"1-based page number; values past the last page return the last page"`
}

// SearchModsResult contains one page of search results.
type SearchModsResult struct {
	Message    string   `json:"message"`
	Platform   string   `json:"platform"`
	Query      string   `json:"query"`
	Category   string   `json:"category"`
	Hits       []Hit    `json:"hits"`
	Window     []string `json:"window"`
	TotalHits  int      `json:"totalHits"`
	Page       int      `json:"page"`
	TotalPages int      `json:"totalPages"`
	PageSize   int      `json:"pageSize"`
}

// Hit is a search hit as reported to MCP clients.
type Hit struct {
	ID         string   `json:"id"`
	Slug       string   `json:"slug,omitempty"`
	Title      string   `json:"title"`
	Author     string   `json:"author,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	URL        string   `json:"url,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Downloads  int64    `json:"downloads"`
}

func (s *Server) handleSearchMods(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in SearchModsParams,
) (*mcp.CallToolResult, SearchModsResult, error) {
	loaders, versions := s.loaders, s.versions
	if in.Loader != "" {
		loaders = []string{in.Loader}
	}
	if in.Version != "" {
		versions = platform.VersionFilters(in.Version)
	}

	session, err := search.NewSession(s.registry,
		search.WithPlatform(cmp.Or(in.Platform, s.platform)),
		search.WithPageSize(s.pageSize),
		search.WithQuery(in.Query),
		search.WithCategory(in.Category),
		search.WithPage(in.Page),
		search.WithFilters(loaders, versions),
		search.WithTracerProvider(s.tp),
	)
	if err != nil {
		return nil, SearchModsResult{}, fmt.Errorf("create search session: %w", err)
	}

	snap, err := session.Search(ctx)
	if err != nil {
		return nil, SearchModsResult{}, err //nolint:wrapcheck // Already wrapped by the session.
	}

	// The requested page is past the end; fetch the last page instead.
	if in.Page > snap.State.CurrentPage && len(snap.Hits) == 0 && snap.TotalHits > 0 {
		slog.DebugContext(ctx, "requested page out of range",
			slog.Int("page", in.Page),
			slog.Int("total_pages", snap.State.TotalPages()),
		)

		snap, err = session.Search(ctx)
		if err != nil {
			return nil, SearchModsResult{}, err //nolint:wrapcheck // Already wrapped by the session.
		}
	}

	result := newSearchModsResult(snap)

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: result.Message},
		},
	}, result, nil
}

func newSearchModsResult(snap search.Snapshot) SearchModsResult {
	hits := make([]Hit, 0, len(snap.Hits))
	for _, p := range snap.Hits {
		hits = append(hits, Hit{
			ID:         p.ID,
			Slug:       p.Slug,
			Title:      p.Title,
			Author:     p.Author,
			Summary:    truncateString(p.Summary, summaryPreviewLen),
			URL:        p.URL,
			Categories: p.Categories,
			Downloads:  p.Downloads,
		})
	}

	r := SearchModsResult{
		Platform:   snap.Platform,
		Query:      snap.Query,
		Category:   snap.Category,
		Hits:       hits,
		Window:     pagination.Strings(snap.Window),
		TotalHits:  snap.TotalHits,
		Page:       snap.State.CurrentPage,
		TotalPages: snap.State.TotalPages(),
		PageSize:   snap.State.PageSize,
	}

	r.Message = fmt.Sprintf("Found %d mods on %s. Showing page %d of %d (%d hits). Pages: %s",
		r.TotalHits, r.Platform, r.Page, r.TotalPages, len(hits), pagination.Format(snap.Window))

	return r
}
