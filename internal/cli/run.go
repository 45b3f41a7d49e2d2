package cli

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/macropower/mdpkm/pkg/config"
	"github.com/macropower/mdpkm/pkg/instance"
	"github.com/macropower/mdpkm/pkg/keys"
	"github.com/macropower/mdpkm/pkg/log"
	"github.com/macropower/mdpkm/pkg/mcp"
	"github.com/macropower/mdpkm/pkg/platform"
	"github.com/macropower/mdpkm/pkg/platform/curseforge"
	"github.com/macropower/mdpkm/pkg/platform/modrinth"
	"github.com/macropower/mdpkm/pkg/platform/static"
	"github.com/macropower/mdpkm/pkg/search"
	"github.com/macropower/mdpkm/pkg/telemetry"
	"github.com/macropower/mdpkm/pkg/ui"
	"github.com/macropower/mdpkm/pkg/ui/pagebar"
	"github.com/macropower/mdpkm/pkg/ui/results"
	"github.com/macropower/mdpkm/pkg/ui/theme"
)

const (
	cmdExamples = `  # Browse popular mods for the default instance:
  mdpkm

  # Search for a mod:
  mdpkm sodium

  # Search CurseForge for worldgen mods on the "survival" instance:
  mdpkm --platform curseforge --category worldgen --instance survival

  # Browse the built-in catalogue without network access:
  mdpkm --offline

  # Print page 3 as plain text (disables TUI):
  mdpkm --page 3 iris > mods.txt

  # Serve search to MCP clients over stdio:
  mdpkm --serve-mcp stdio`

	mcpStdio = "stdio"

	curseForgeKeyEnv = "MDPKM_CURSEFORGE_API_KEY"

	logBufferEntries = 100
	shutdownTimeout  = 5 * time.Second
)

type RunArgs struct {
	*RootArgs

	Platform    string
	Instance    string
	Category    string
	ServeMCP    string
	Page        int
	PageSize    int
	Offline     bool
	WriteConfig bool
	ShowConfig  bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&ra.Platform, "platform", "p", "", "Platform to search, defaults to search.platform from config")
	cmd.Flags().StringVarP(&ra.Instance, "instance", "i", "", "Instance whose loader and game version filter results")
	cmd.Flags().StringVarP(&ra.Category, "category", "c", "", "Category to filter by, \"none\" disables the filter")
	cmd.Flags().IntVar(&ra.Page, "page", 1, "Page to open")
	cmd.Flags().IntVar(&ra.PageSize, "page-size", 0, "Number of results per page, defaults to search.pageSize from config")
	cmd.Flags().BoolVar(&ra.Offline, "offline", false, "Search the built-in catalogue instead of remote platforms")
	cmd.Flags().StringVar(&ra.ServeMCP, "serve-mcp", "",
		fmt.Sprintf("Serve the MCP server at the specified address, or %q for stdio", mcpStdio))
	cmd.Flags().BoolVar(&ra.WriteConfig, "write-config", false, "Write the default configuration files and exit")
	cmd.Flags().BoolVar(&ra.ShowConfig, "show-config", false, "Print the active configuration and exit")

	must(cmd.RegisterFlagCompletionFunc("platform",
		cobra.FixedCompletions([]string{modrinth.ID, curseforge.ID, static.ID}, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("category",
		cobra.FixedCompletions(ui.DefaultCategories, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("instance", instanceCompletion(ra.RootArgs)))
}

func run(cmd *cobra.Command, ra *RunArgs, queryArgs []string) error {
	ctx := cmd.Context()
	configPath := ra.configPath()

	err := config.WriteDefaultConfig(configPath, false)
	if err != nil {
		slog.Error("write default config", slog.Any("err", err))
	}
	if ra.WriteConfig {
		// Any write error is fatal here.
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if ra.ShowConfig {
		return showConfig(cmd.OutOrStdout(), cfg, configPath)
	}

	shutdown, err := ra.startTracing(ctx)
	if err != nil {
		return err
	}
	defer shutdown()

	inst, err := selectInstance(cfg, ra.Instance)
	if err != nil {
		return err
	}

	reg, err := newRegistry(cfg, ra.Offline)
	if err != nil {
		return err
	}

	platformID := cmp.Or(ra.Platform, cfg.Search.Platform)
	if ra.Offline {
		platformID = static.ID
	}

	pageSize := cmp.Or(ra.PageSize, cfg.Search.PageSize)

	if ra.ServeMCP != "" {
		return serveMCP(ctx, ra, reg, platformID, pageSize, inst)
	}

	session, err := search.NewSession(reg,
		search.WithPlatform(platformID),
		search.WithPageSize(pageSize),
		search.WithQuery(strings.Join(queryArgs, " ")),
		search.WithCategory(cmp.Or(ra.Category, cfg.Search.Category)),
		search.WithPage(ra.Page),
		search.WithFilters(inst.Loaders(), inst.Versions()),
	)
	if err != nil {
		return fmt.Errorf("start search: %w", err)
	}

	slog.Debug("created search session",
		slog.String("id", session.ID()),
		slog.String("platform", platformID),
		slog.String("instance", inst.ID),
	)

	// If stdout is not a terminal, print one page.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return printPage(ctx, cmd.OutOrStdout(), session)
	}

	logBuf := log.NewBuffer(logBufferEntries)
	logHandler, err := log.CreateHandlerWithStrings(logBuf, ra.LogLevel, ra.LogFormat)
	if err != nil {
		return fmt.Errorf("create log handler: %w", err)
	}

	slog.SetDefault(slog.New(logHandler))

	err = runUI(ctx, cfg, session, inst)
	flushLogs(cmd.ErrOrStderr(), logBuf)

	if err != nil {
		return fmt.Errorf("ui program failure: %w", err)
	}

	return nil
}

func loadConfig(path string) (*config.Config, error) {
	cl, err := config.NewLoaderFromFile(path)
	if err != nil {
		slog.Warn("could not read config, using defaults", slog.Any("err", err))

		return config.New(), nil
	}

	err = cl.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	cfg, err := cl.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	return cfg, nil
}

func showConfig(w io.Writer, cfg *config.Config, path string) error {
	slog.Info("active configuration", slog.String("path", path))

	b, err := cfg.MarshalYAML()
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		mustN(w.Write(b))

		return nil
	}

	err = quick.Highlight(w, string(b), "yaml", "terminal256", theme.New(cfg.UI.Theme).Name)
	if err != nil {
		mustN(w.Write(b))

		return fmt.Errorf("highlight config: %w", err)
	}

	return nil
}

func (ra *RootArgs) startTracing(ctx context.Context) (func(), error) {
	if ra.OTLPEndpoint == "" {
		return func() {}, nil
	}

	tp, err := telemetry.New(ctx, ra.OTLPEndpoint)
	if err != nil {
		return nil, fmt.Errorf("set up tracing: %w", err)
	}

	shutdown := telemetry.Install(tp)

	return func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		err := shutdown(ctx)
		if err != nil {
			slog.Error("flush traces", slog.Any("err", err))
		}
	}, nil
}

// selectInstance returns the requested instance. Without configured
// instances, an empty id selects no filters.
func selectInstance(cfg *config.Config, id string) (instance.Instance, error) {
	if id == "" && len(cfg.Instances) == 0 {
		return instance.Instance{}, nil
	}

	inst, err := cfg.Instance(id)
	if err != nil {
		return instance.Instance{}, fmt.Errorf("instance: %w", err)
	}

	return inst, nil
}

// newRegistry registers the remote platforms configured in cfg, followed by
// the offline catalogue. CurseForge is only registered with an API key.
func newRegistry(cfg *config.Config, offline bool) (*platform.Registry, error) {
	var ps []platform.Platform

	if !offline {
		mr := cfg.Platforms.Modrinth

		timeout, err := mr.TimeoutDuration()
		if err != nil {
			return nil, fmt.Errorf("modrinth: %w", err)
		}

		ps = append(ps, modrinth.New(mr.BaseURL, platform.NewTransport(platform.WithTimeout(timeout))))

		cf := cfg.Platforms.CurseForge
		apiKey := cmp.Or(os.Getenv(curseForgeKeyEnv), cf.APIKey)
		if apiKey != "" {
			timeout, err := cf.TimeoutDuration()
			if err != nil {
				return nil, fmt.Errorf("curseforge: %w", err)
			}

			ps = append(ps, curseforge.New(cf.BaseURL, apiKey, platform.NewTransport(platform.WithTimeout(timeout))))
		} else {
			slog.Debug("curseforge disabled, no API key configured")
		}
	}

	ps = append(ps, static.New(static.Sample()))

	reg, err := platform.NewRegistry(ps...)
	if err != nil {
		return nil, fmt.Errorf("register platforms: %w", err)
	}

	return reg, nil
}

func serveMCP(
	ctx context.Context,
	ra *RunArgs,
	reg *platform.Registry,
	platformID string,
	pageSize int,
	inst instance.Instance,
) error {
	address := ra.ServeMCP
	if address == mcpStdio {
		address = ""
	}

	opts := []mcp.Opt{
		mcp.WithPlatform(platformID),
		mcp.WithPageSize(pageSize),
		mcp.WithFilters(inst.Loaders(), inst.Versions()),
	}
	if lvl, err := log.GetLevel(ra.LogLevel); err == nil && lvl <= slog.LevelDebug {
		opts = append(opts, mcp.WithWireLog(os.Stderr))
	}

	server, err := mcp.NewServer(address, reg, opts...)
	if err != nil {
		return fmt.Errorf("create MCP server: %w", err)
	}

	return server.Serve(ctx) //nolint:wrapcheck // Already wrapped.
}

// printPage searches once and writes the page as plain text.
func printPage(ctx context.Context, w io.Writer, session *search.Session) error {
	snap, err := session.Search(ctx)
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped by the session.
	}

	if len(snap.Hits) == 0 && snap.TotalHits > 0 {
		snap, err = session.Search(ctx)
		if err != nil {
			return err //nolint:wrapcheck // Already wrapped by the session.
		}
	}

	writePage(w, snap)

	return nil
}

func writePage(w io.Writer, snap search.Snapshot) {
	for _, p := range snap.Hits {
		mustN(fmt.Fprintf(w, "%s", p.Title))
		if p.Author != "" {
			mustN(fmt.Fprintf(w, " by %s", p.Author))
		}

		mustN(fmt.Fprintf(w, " (%s)\n", results.FormatDownloads(p.Downloads)))
		if p.Summary != "" {
			mustN(fmt.Fprintf(w, "  %s\n", p.Summary))
		}
		if p.URL != "" {
			mustN(fmt.Fprintf(w, "  %s\n", p.URL))
		}
	}

	mustN(fmt.Fprintf(w, "\npage %d/%d, %d results: %s\n",
		snap.State.CurrentPage,
		snap.State.TotalPages(),
		snap.TotalHits,
		pagebar.Format(snap.Window, snap.State.CurrentPage),
	))
}

func runUI(ctx context.Context, cfg *config.Config, session *search.Session, inst instance.Instance) error {
	kb := ui.DefaultKeyBinds()

	err := keys.ValidateBinds(kb.Binds()...)
	if err != nil {
		return fmt.Errorf("validate key binds: %w", err)
	}

	opts := []ui.Opt{
		ui.WithTheme(theme.New(cfg.UI.Theme)),
		ui.WithKeyBinds(kb),
	}
	if inst.ID != "" {
		opts = append(opts, ui.WithInstance(inst.String()))
	}

	_, err = ui.NewProgram(ui.New(ctx, session, opts...)).Run()
	if err != nil {
		return fmt.Errorf("tea: %w", err)
	}

	return nil
}

func flushLogs(w io.Writer, buf *log.Buffer) {
	slog.Debug("flush logs to console",
		slog.Int("count", buf.Len()),
		slog.Int("dropped", buf.Dropped()),
	)

	_, err := buf.WriteTo(w)
	if err != nil {
		panic(err)
	}
}

