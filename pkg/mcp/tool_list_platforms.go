package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListPlatformsParams defines parameters for the list_platforms tool.
type ListPlatformsParams struct{}

// ListPlatformsResult lists the searchable platforms.
type ListPlatformsResult struct {
	Message   string         `json:"message"`
	Platforms []PlatformInfo `json:"platforms"`
	Loaders   []string       `json:"loaders"`
	Versions  []string       `json:"versions"`
	PageSize  int            `json:"pageSize"`
}

// PlatformInfo describes one platform.
type PlatformInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Default bool   `json:"default"`
}

func (s *Server) handleListPlatforms(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListPlatformsParams,
) (*mcp.CallToolResult, ListPlatformsResult, error) {
	result := ListPlatformsResult{
		Loaders:  append([]string{}, s.loaders...),
		Versions: append([]string{}, s.versions...),
		PageSize: s.pageSize,
	}

	ids := s.registry.IDs()
	for _, id := range ids {
		p, err := s.registry.Get(id)
		if err != nil {
			return nil, ListPlatformsResult{}, fmt.Errorf("list platforms: %w", err)
		}

		result.Platforms = append(result.Platforms, PlatformInfo{
			ID:      id,
			Name:    p.DisplayName(),
			Default: id == s.platform,
		})
	}

	result.Message = fmt.Sprintf("Available platforms: %s. Default: %s.", strings.Join(ids, ", "), s.platform)

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: result.Message},
		},
	}, result, nil
}
