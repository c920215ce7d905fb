package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"shipout/internal/backup"
	"shipout/internal/engine"
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Roll back to the most recent backup archive",
	Long: `Restore removes the current deployment and extracts the newest backup
archive into the destination root, rewriting the manifest to match the
restored tree. Backups are only written when backup.enabled is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.engine.Restore(cmd.Context(), &engine.RestoreRequest{
			DestRoot:  a.cfg.Paths.Dest,
			BackupDir: a.cfg.BackupDir(),
		})
		if errors.Is(err, backup.ErrNoArchives) {
			printWarning("no backup archives in %s", a.cfg.BackupDir())
			return nil
		}
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		printSuccess("restored %d paths from %s", len(result.Manifest.Items), result.Archive)
		return nil
	},
}
