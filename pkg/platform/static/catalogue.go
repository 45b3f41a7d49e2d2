package static

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/macropower/mdpkm/pkg/platform"
)

var sampleMods = []struct {
	title, author, summary string
	categories             []string
}{
	{"Sodium", "jellysquid3", "A modern rendering engine for Minecraft", []string{"optimization"}},
	{"Lithium", "jellysquid3", "General-purpose game logic optimization", []string{"optimization"}},
	{"Iris Shaders", "coderbot", "Shader pack loader compatible with Sodium", []string{"decoration", "optimization"}},
	{"Fabric API", "modmuss50", "Core library for the Fabric toolchain", []string{"library"}},
	{"Mod Menu", "Prospector", "Adds a mod menu to view the list of mods", []string{"utility"}},
	{"Cloth Config", "shedaniel", "Configuration library with a screen API", []string{"library"}},
	{"Xaero's Minimap", "xaero96", "Minimap with waypoints and entity radar", []string{"adventure", "utility"}},
	{"Journey Map", "techbrew", "Real-time mapping in game or in a web browser", []string{"adventure", "utility"}},
	{"Create", "simibubi", "Building tools and aesthetic technology", []string{"technology", "decoration"}},
	{"Farmer's Delight", "vectorwing", "Farming and cooking expansion", []string{"food", "adventure"}},
	{"Terralith", "Starmute", "Over 85 new biomes using only vanilla blocks", []string{"worldgen"}},
	{"YUNG's Better Dungeons", "YUNGNICKYOUNG", "Reworked vanilla dungeons", []string{"worldgen", "adventure"}},
	{"Waystones", "BlayTheNinth", "Teleport back to activated waystones", []string{"transportation", "adventure"}},
	{"Applied Energistics 2", "AlgorithmX2", "Digital storage and automation", []string{"technology", "storage"}},
	{"Jade", "Snownee", "Shows information about what you are looking at", []string{"utility"}},
	{"EMI", "emi", "A featureful recipe viewer", []string{"utility"}},
	{"Continuity", "PepperCode1", "Connected textures", []string{"decoration"}},
	{"Entity Culling", "tr7zw", "Skips rendering of hidden entities", []string{"optimization"}},
	{"FerriteCore", "malte0811", "Memory usage optimizations", []string{"optimization"}},
	{"Starlight", "Spottedleaf", "Rewrites the light engine", []string{"optimization"}},
	{"Supplementaries", "MehVahdJukaar", "Vanilla-style decoration blocks", []string{"decoration"}},
	{"Chipped", "Terrarium", "Hundreds of block variants", []string{"decoration"}},
	{"Botania", "Vazkii", "Tech mod themed around natural magic", []string{"magic"}},
	{"Ars Nouveau", "baileyholl2", "Build your own spells", []string{"magic", "adventure"}},
	{"Tinkers' Construct", "mDiyo", "Modify and repair your tools", []string{"equipment"}},
	{"Sophisticated Backpacks", "P3pp3rF1y", "Upgradable backpacks", []string{"storage"}},
	{"Clumps", "Jaredlll08", "Groups experience orbs together", []string{"optimization"}},
	{"AppleSkin", "squeek502", "Food and hunger HUD improvements", []string{"food", "utility"}},
	{"Comforts", "TheIllusiveC4", "Sleeping bags and hammocks", []string{"decoration"}},
	{"Chunky", "pop4959", "Pre-generates chunks quickly", []string{"utility"}},
}

// Sample returns a small catalogue suitable for offline browsing. Every
// project supports the fabric and quilt loaders on recent game versions.
func Sample() []Entry {
	entries := make([]Entry, 0, len(sampleMods))
	for i, m := range sampleMods {
		entries = append(entries, Entry{
			Loaders:  []string{"fabric", "quilt"},
			Versions: []string{"1.20", "1.20.1", "1.20.4", "1.21", "1.21.1"},
			Project: platform.Project{
				ID:         fmt.Sprintf("offline-%03d", i+1),
				Slug:       slugify(m.title),
				URL:        "https://modrinth.com/mods?q=" + url.QueryEscape(m.title),
				Title:      m.title,
				Author:     m.author,
				Summary:    m.summary,
				Type:       "mod",
				Categories: m.categories,
				Downloads:  int64(1_000_000 / (i + 1)),
			},
		})
	}

	return entries
}

func slugify(title string) string {
	return strings.Trim(strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		if r == '\'' {
			return -1
		}

		return '-'
	}, title), "-")
}
