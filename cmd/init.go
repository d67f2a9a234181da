package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/templater/internal/registry"
)

var initPath string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the template directory",
	Long: `Create the template directory and the registry that tracks it.

Templates are stored in <path>/templater/templates, or in
~/.config/templater/templates when --path is not given. Running init
again starts a fresh, empty registry.

Examples:
  templater init
  templater init --path ~/work`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rec, err := registry.Init(newRecordStore(), registry.InitOptions{Path: initPath, Version: version})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized template directory at %s\n", rec.TemplateRoot)
		return nil
	},
}

var initDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the template directory and every template in it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := registry.Delete(newRecordStore()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Deleted template directory")
		return nil
	},
}

func init() {
	initCmd.Flags().StringVarP(&initPath, "path", "p", "", "base directory for the template directory")
	initCmd.AddCommand(initDeleteCmd)
	rootCmd.AddCommand(initCmd)
}
