package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/templater/internal/flags"
	"github.com/zjrosen/templater/internal/remote"
)

var skipConfigError bool

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Work with template catalogues",
}

var remoteGetCmd = &cobra.Command{
	Use:   "get [URL]",
	Short: "Import every template from a catalogue repository",
	Long: `Clone a catalogue repository and save every template its config.json
lists. Templates that already exist are skipped. URL defaults to the
remote.url setting.

Templates imported before an error stay saved.

Examples:
  templater remote get
  templater remote get https://github.com/owner/templates.git
  templater remote get --skip-config-error true
  templater remote get https://github.com/owner/templates.git -s false`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newTemplateStore()
		syncer := remote.NewSyncer(store, newCloner(), cmd.OutOrStdout())

		report, err := syncer.Sync(cmd.Context(), remote.SyncRequest{
			URL:         remoteURL(args),
			SkipMissing: skipConfigError,
		})
		if err != nil {
			return remote.CleanupScratch(store.Records(), err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d templates, skipped %d\n", len(report.Imported), len(report.Skipped))
		return nil
	},
}

var remotePublishCmd = &cobra.Command{
	Use:   "publish <NAME> [URL]",
	Short: "Add a saved template to a catalogue repository",
	Long: `Clone the catalogue, add the template NAME and list it in config.json,
then commit and push. Pushing uses your git credentials. URL defaults to
the remote.url setting.

Publishing is behind the remote-publish feature flag:

  # ~/.templater.yaml
  flags:
    remote-publish: true`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := flags.New(cfg.Flags).Require(flags.FlagRemotePublish); err != nil {
			return err
		}
		publisher := remote.NewPublisher(newRecordStore(), newExecutor(), cmd.OutOrStdout())
		return publisher.Publish(cmd.Context(), remote.PublishRequest{
			Name: args[0],
			URL:  remoteURL(args[1:]),
		})
	},
}

func init() {
	remoteGetCmd.Flags().BoolVarP(&skipConfigError, "skip-config-error", "s", false,
		"skip templates listed in config.json that are missing from the repository (true|false)")
	// Takes an explicit value: --skip-config-error true
	remoteGetCmd.Flags().Lookup("skip-config-error").NoOptDefVal = ""
	remoteCmd.AddCommand(remoteGetCmd, remotePublishCmd)
	rootCmd.AddCommand(remoteCmd)
}
