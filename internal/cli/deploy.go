package cli

import (
	"github.com/spf13/cobra"
)

var deployDryRun bool

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Promote the build output into the destination root",
	Long: `Deploy removes every path recorded by the previous deployment, copies the
current build output into the destination root, and writes a fresh manifest
of everything it placed there. Files it did not create are left alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.engine.Deploy(cmd.Context(), a.deployRequest(deployDryRun))
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if result.DryRun {
			printWarning("dry run, nothing was changed")
		}

		if result.DryRun {
			printSection("Would remove:")
		} else {
			printSection("Removed:")
		}
		if len(result.Removed) == 0 {
			printInfo("nothing from a previous deployment")
		} else {
			printList(result.Removed)
		}

		if result.DryRun {
			printSection("Would copy:")
		} else {
			printSection("Copied:")
		}
		printList(result.Copied)

		if result.BackupPath != "" {
			printInfo("previous deployment archived to %s", result.BackupPath)
		}
		if !result.DryRun {
			printSuccess("deployed %d paths to %s", len(result.Manifest.Items), a.cfg.Paths.Dest)
		}
		return nil
	},
}

func init() {
	deployCmd.Flags().BoolVar(&deployDryRun, "dry-run", false, "Show what would happen without changing anything")
}
