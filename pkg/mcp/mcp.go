// Package mcp serves mod searches to MCP clients.
package mcp

const (
	name         = "mdpkm"
	instructions = `MCP Server 'mdpkm' searches mod-hosting platforms (Modrinth, CurseForge, or an offline catalogue) for mods compatible with a game instance.

When to use these tools:
- Finding mods by name, summary, or category
- Checking whether a mod exists for a given loader and game version
- Paging through large result sets

REQUIRED workflow:
1. Use 'list_platforms' to see which platforms are available and which one is the default
2. Use 'search_mods' with a query. Results are paginated; the 'window' field lists the pages worth offering, with "-" marking skipped ranges
3. To see more results, call 'search_mods' again with the same inputs and a different 'page' taken from 'window'

IMPORTANT: Changing 'query', 'category', 'platform', 'loader' or 'version' changes the result set. Start again from page 1 when you change any of them.
`

	// Tool descriptions are also shown to clients.
	searchModsDescription    = "Search a mod platform. Returns one page of hits, the total hit count, and the page window to navigate with."
	listPlatformsDescription = "List the mod platforms this server can search, and the default filters applied to searches."
)

// truncateString shortens str to maxLen bytes, marking the cut.
func truncateString(str string, maxLen int) string {
	if len(str) > maxLen {
		return str[:maxLen] + "…"
	}

	return str
}
