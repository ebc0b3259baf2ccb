package cli

import (
	"errors"
	"time"

	"accordion-cli/internal/outline"

	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	var title string
	var content string
	var image string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a top-level title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			n, err := outline.AddTitle(db, title, content, image, time.Now().UTC())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("node.add", n.ID, map[string]any{"title": n.Title})
			return writeOut(cmd, app, map[string]any{"data": n})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Node title (required)")
	cmd.Flags().StringVar(&content, "content", "", "Free-text content (bullets are normalized)")
	cmd.Flags().StringVar(&image, "image", "", "Path to an attached image")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newSubCmd(app *App) *cobra.Command {
	var title string
	var content string
	var image string

	cmd := &cobra.Command{
		Use:   "sub <parent-id>",
		Short: "Add a subtitle under a parent node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			n, err := outline.AddSubtitle(db, args[0], title, content, image, time.Now().UTC())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("node.add_sub", n.ID, map[string]any{"parent": args[0], "title": n.Title})
			return writeOut(cmd, app, map[string]any{"data": n})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Node title (required)")
	cmd.Flags().StringVar(&content, "content", "", "Free-text content (bullets are normalized)")
	cmd.Flags().StringVar(&image, "image", "", "Path to an attached image")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <node-id>",
		Short: "Show one node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			n, ok := db.FindNode(args[0])
			if !ok {
				return writeErr(cmd, outline.NotFoundError{Kind: "node", ID: args[0]})
			}
			return writeOut(cmd, app, map[string]any{
				"data":     n,
				"children": db.ChildrenOf(n.ID),
			})
		},
	}
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all nodes in display order (number, path, lock state)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": outline.Rows(db)})
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	var title string
	var content string
	var image string
	var clearImage bool

	cmd := &cobra.Command{
		Use:   "edit <node-id>",
		Short: "Replace node fields in place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			opts := outline.EditOptions{ClearImage: clearImage}
			if cmd.Flags().Changed("title") {
				opts.Title = &title
			}
			if cmd.Flags().Changed("content") {
				opts.Content = &content
			}
			if cmd.Flags().Changed("image") {
				opts.ImagePath = &image
			}
			if opts.Title == nil && opts.Content == nil && opts.ImagePath == nil && !clearImage {
				return writeErr(cmd, errors.New("nothing to change (pass --title/--content/--image/--clear-image)"))
			}
			n, err := outline.Edit(db, args[0], opts, time.Now().UTC())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("node.edit", n.ID, map[string]any{"title": n.Title})
			return writeOut(cmd, app, map[string]any{"data": n})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&content, "content", "", "New content (bullets are normalized)")
	cmd.Flags().StringVar(&image, "image", "", "New image path")
	cmd.Flags().BoolVar(&clearImage, "clear-image", false, "Detach the image")
	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <node-id>",
		Short: "Delete a node and its entire subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			removed, err := outline.Delete(db, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("node.delete", args[0], map[string]any{"removed": removed})
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"removed": removed}})
		},
	}
}

func newMoveCmd(app *App) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "move <node-id> [up|down]",
		Short: "Swap a node with its adjacent sibling, or reparent it with --to",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("to") {
				if len(args) != 1 {
					return writeErr(cmd, errors.New("--to takes no direction argument"))
				}
				target := to
				if target == "root" {
					target = ""
				}
				db, s, err := loadDB(app)
				if err != nil {
					return writeErr(cmd, err)
				}
				n, err := outline.Reparent(db, args[0], target, time.Now().UTC())
				if err != nil {
					return writeErr(cmd, err)
				}
				if err := s.Save(db); err != nil {
					return writeErr(cmd, err)
				}
				_ = s.AppendEvent("node.reparent", n.ID, map[string]any{"to": to})
				return writeOut(cmd, app, map[string]any{"data": n})
			}

			if len(args) != 2 {
				return writeErr(cmd, errors.New("direction must be up or down (or pass --to)"))
			}
			dir, ok := outline.ParseDirection(args[1])
			if !ok {
				return writeErr(cmd, errors.New("direction must be up or down"))
			}
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			moved, err := outline.Move(db, args[0], dir, time.Now().UTC())
			if err != nil {
				return writeErr(cmd, err)
			}
			if moved {
				if err := s.Save(db); err != nil {
					return writeErr(cmd, err)
				}
				_ = s.AppendEvent("node.move", args[0], map[string]any{"direction": string(dir)})
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"moved": moved}})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Reparent under this node id ('root' for top level)")
	return cmd
}

func newLockCmd(app *App, lock bool) *cobra.Command {
	use := "lock <node-id>"
	short := "Lock a node (blocks edit/move/delete)"
	event := "node.lock"
	if !lock {
		use = "unlock <node-id>"
		short = "Unlock a node"
		event = "node.unlock"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			n, err := outline.SetLocked(db, args[0], lock, time.Now().UTC())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(event, n.ID, nil)
			return writeOut(cmd, app, map[string]any{"data": n})
		},
	}
}
