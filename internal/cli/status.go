package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"shipout/internal/engine"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current deployment and any drift",
	Long: `Status reads the manifest and compares it against the destination root,
reporting recorded paths that have gone missing or changed kind since the
last deployment.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.engine.Status(&engine.StatusRequest{DestRoot: a.cfg.Paths.Dest})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		printSection("Deployment:")
		if result.Manifest.DeployID == "" {
			printInfo("nothing deployed")
			return nil
		}
		printLabelValue("manifest", result.ManifestPath)
		printLabelValue("deploy id", result.Manifest.DeployID)
		printLabelValue("generated", result.Manifest.GeneratedAt.String())
		printLabelValue("paths", fmt.Sprintf("%d", len(result.Manifest.Items)))

		if result.InSync() {
			printSuccess("destination matches the manifest")
			return nil
		}

		if len(result.Missing) > 0 {
			printSection("Missing:")
			printList(result.Missing)
		}
		if len(result.Changed) > 0 {
			printSection("Changed:")
			printList(result.Changed)
		}
		printWarning("destination has drifted, run deploy to reconcile")
		return nil
	},
}
