package cli

import (
	"time"

	"accordion-cli/internal/export"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the document to a standalone HTML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := export.Write(db, to)
			if err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("export.html", "", map[string]any{"path": res.Path, "assets": len(res.Assets)})
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output HTML path (required)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newSaveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "save <file.yaml>",
		Short: "Save the document as a nested YAML outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := export.SaveOutlineFile(db, args[0]); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("outline.save", "", map[string]any{"path": args[0]})
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"path": args[0], "nodes": len(db.Nodes)}})
		},
	}
}

func newLoadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file.yaml>",
		Short: "Replace the document from a YAML outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			db, err := export.LoadOutlineFile(args[0], time.Now().UTC())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("outline.load", "", map[string]any{"path": args[0], "nodes": len(db.Nodes)})
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"path": args[0], "nodes": len(db.Nodes)}})
		},
	}
}
