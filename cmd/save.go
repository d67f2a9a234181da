package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/templater/internal/remote"
	"github.com/zjrosen/templater/internal/templates"
)

var (
	saveOverwrite bool
	saveGit       bool
)

var saveCmd = &cobra.Command{
	Use:   "save <NAME> <PATH>",
	Short: "Save a directory as a template",
	Long: `Save the contents of a directory as the template NAME.

With --git, PATH is a repository URL: it is cloned and its working tree
(without .git) is saved.

Examples:
  templater save api ./api-skeleton
  templater save api ./api-skeleton --overwrite
  templater save cli https://github.com/owner/cli-template.git --git`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, source := args[0], args[1]
		store := newTemplateStore()

		var provider templates.Provider = templates.NewLocalProvider(store)
		if saveGit {
			u, err := remote.ParseURL(source)
			if err != nil {
				return err
			}
			source = u
			provider = templates.NewGitProvider(store, newCloner())
		}

		if err := provider.Save(cmd.Context(), name, source, saveOverwrite); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Template %s saved\n", name)
		return nil
	},
}

func init() {
	saveCmd.Flags().BoolVarP(&saveOverwrite, "overwrite", "o", false, "replace an existing template")
	saveCmd.Flags().BoolVarP(&saveGit, "git", "g", false, "treat PATH as a git repository URL")
	rootCmd.AddCommand(saveCmd)
}
