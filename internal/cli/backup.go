package cli

import (
	"github.com/spf13/cobra"
)

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Inspect or restore the JSON snapshot written alongside the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			db, savedAt, err := s.LoadBackup()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"savedAt": savedAt,
				"nodes":   len(db.Nodes),
			}})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "restore",
		Short: "Replace the database with the snapshot contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			db, savedAt, err := s.RestoreBackup()
			if err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("backup.restore", "", map[string]any{"savedAt": savedAt, "nodes": len(db.Nodes)})
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"savedAt": savedAt,
				"nodes":   len(db.Nodes),
			}})
		},
	})

	return cmd
}
