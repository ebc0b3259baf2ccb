package cli

import (
	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the mutation audit log (oldest first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			evs, err := s.ReadEventsTail(limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": evs})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Max events to return (0 = all)")
	return cmd
}
