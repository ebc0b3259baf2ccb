package cli

import (
	"accordion-cli/internal/store"

	"github.com/spf13/cobra"
)

func newWorkspaceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Manage named workspaces (each holds one document)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := store.ListWorkspaces()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			current := cfg.CurrentWorkspace
			if current == "" {
				current = "default"
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"workspaces": names,
				"current":    current,
			}})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "use <name>",
		Short: "Switch the current workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := store.NormalizeWorkspaceName(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			// Create the workspace dir eagerly so `list` sees it.
			dir, err := store.WorkspaceDir(name)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := (store.Store{Dir: dir}).Ensure(); err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg.CurrentWorkspace = name
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"current": name, "dir": dir}})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current workspace and its store dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			name := cfg.CurrentWorkspace
			if app.Workspace != "" {
				name = app.Workspace
			}
			if name == "" {
				name = "default"
			}
			dir, err := store.WorkspaceDir(name)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"current": name, "dir": dir}})
		},
	})

	return cmd
}
