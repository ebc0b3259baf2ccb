package cli

import (
	"fmt"
	"os"
	"strings"

	"accordion-cli/internal/format"
	"accordion-cli/internal/store"
	"accordion-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Workspace  string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "accordion",
		Short:        "Accordion notes builder CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  accordion

  # Scriptable commands
  accordion add --title "Intro" --content "- first point"
  accordion list

  # Export the document
  accordion export --to notes.html

  # Direct node lookup (shortcut for: accordion show <node-id>)
  accordion node-vth
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("ACCORDION_DIR", ""), "Path to store dir (advanced: overrides workspace resolution; use for fixtures/tests)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("ACCORDION_WORKSPACE", ""), "Workspace name (default: 'default')")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newSubCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newLockCmd(app, true))
	cmd.AddCommand(newLockCmd(app, false))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newSaveCmd(app))
	cmd.AddCommand(newLoadCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newWorkspaceCmd(app))
	cmd.AddCommand(newEventsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	db, s, err := loadDB(app)
	if err != nil {
		return err
	}
	return tui.Run(s, db)
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	dir := app.Dir
	if dir == "" {
		// Resolution order:
		// 1) --workspace
		// 2) ~/.accordion/config.json currentWorkspace
		// 3) project-local .accordion dir discovered upward from the cwd
		// 4) default workspace ("default")
		if app.Workspace != "" {
			d, err := store.WorkspaceDir(app.Workspace)
			if err != nil {
				return nil, store.Store{}, err
			}
			dir = d
		} else if cfg, err := store.LoadConfig(); err == nil && cfg.CurrentWorkspace != "" {
			d, err := store.WorkspaceDir(cfg.CurrentWorkspace)
			if err != nil {
				return nil, store.Store{}, err
			}
			app.Workspace = cfg.CurrentWorkspace
			dir = d
		} else if d, ok := discoverLocalDir(); ok {
			dir = d
		} else {
			app.Workspace = "default"
			d, err := store.WorkspaceDir(app.Workspace)
			if err != nil {
				return nil, store.Store{}, err
			}
			dir = d
		}
		app.Dir = dir
	}

	s := store.Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		return nil, s, err
	}
	return db, s, nil
}

func discoverLocalDir() (string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return store.DiscoverDir(cwd)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
