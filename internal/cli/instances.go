package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/macropower/mdpkm/pkg/config"
	"github.com/macropower/mdpkm/pkg/ui/theme"
)

func NewInstancesCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "instances",
		Short: "List configured instances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(ra.configPath())
			if err != nil {
				return err
			}

			mustN(fmt.Fprintln(cmd.OutOrStdout(), renderInstances(cfg)))

			return nil
		},
	}
}

// renderInstances renders cfg's instances as a table. The default instance
// is marked with "*".
func renderInstances(cfg *config.Config) string {
	if len(cfg.Instances) == 0 {
		return "No instances configured."
	}

	def := cfg.DefaultInstance
	if def == "" {
		def = cfg.Instances[0].ID
	}

	th := theme.New(cfg.UI.Theme)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(th.SubtleStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return th.TitleStyle.Padding(0, 1)
			}

			return th.GenericTextStyle.Padding(0, 1)
		}).
		Headers("", "ID", "NAME", "LOADER", "VERSION", "FILTERS", "PATH")

	for _, i := range cfg.Instances {
		mark := ""
		if i.ID == def {
			mark = "*"
		}

		t.Row(mark, i.ID, i.DisplayName(), i.Game.ID, i.Game.Version, strings.Join(i.Versions(), ", "), i.Path)
	}

	return t.Render()
}

func instanceCompletion(ra *RootArgs) cobra.CompletionFunc {
	return func(_ *cobra.Command, _ []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
		cl, err := config.NewLoaderFromFile(ra.configPath())
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		cfg, err := cl.Load()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		completions := make([]cobra.Completion, 0, len(cfg.Instances))
		for _, i := range cfg.Instances {
			completions = append(completions, cobra.CompletionWithDesc(i.ID, i.String()))
		}

		return completions, cobra.ShellCompDirectiveNoFileComp
	}
}
