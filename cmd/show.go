package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/templater/internal/presentation"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the registry",
}

var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show where templates are stored",
	Long: `Show the registry config file, the template directory and the
registered templates.

Examples:
  templater show config
  templater show config --json | jq -r .template_root`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		view, err := newTemplateStore().Show()
		if err != nil {
			return err
		}
		return presentation.NewFormatter(cmd.OutOrStdout(), showJSON).FormatConfig(presentation.FromConfigView(view))
	},
}

var showTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List registered templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		entries, err := newTemplateStore().List()
		if err != nil {
			return err
		}
		return presentation.NewFormatter(cmd.OutOrStdout(), showJSON).FormatTemplates(presentation.FromEntries(entries))
	},
}

func init() {
	showCmd.PersistentFlags().BoolVar(&showJSON, "json", false, "print JSON")
	showCmd.AddCommand(showConfigCmd, showTemplatesCmd)
	rootCmd.AddCommand(showCmd)
}
