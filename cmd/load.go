package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/templater/internal/templates"
)

var loadCmd = &cobra.Command{
	Use:   "load <NAME> <PATH>",
	Short: "Copy a template into a directory",
	Long: `Copy the template NAME into PATH, which must be an existing directory.
Files already in PATH with the same names are overwritten.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, dest := args[0], args[1]
		if err := templates.NewLocalProvider(newTemplateStore()).Load(cmd.Context(), name, dest); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Template %s loaded into %s\n", name, dest)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
