package cli

import (
	"github.com/spf13/cobra"

	"shipout/internal/engine"
)

var cleanDryRun bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove everything the last deployment placed, then the manifest",
	Long: `Clean deletes every path recorded in the manifest and then the manifest
file itself, leaving the destination as if shipout had never run. Files
shipout did not create are untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.engine.Clean(cmd.Context(), &engine.CleanRequest{
			DestRoot: a.cfg.Paths.Dest,
			DryRun:   cleanDryRun,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if result.DryRun {
			printWarning("dry run, nothing was changed")
			printSection("Would remove:")
		} else {
			printSection("Removed:")
		}
		if len(result.Removed) == 0 {
			printInfo("nothing deployed")
			return nil
		}
		printList(result.Removed)

		if !result.DryRun {
			printSuccess("removed %d paths and the manifest", len(result.Removed))
		}
		return nil
	},
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "Show what would happen without changing anything")
}
