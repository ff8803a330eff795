package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/client"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	idStyle     = lipgloss.NewStyle().Faint(true)
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Faint(true)
)

func newListCmd(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, pending first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.session.Refresh(cmd.Context()); err != nil {
				return err
			}
			snap := app.session.State().Snapshot()
			if asJSON {
				all := make([]client.Task, 0, len(snap.Pending)+len(snap.Completed))
				all = append(all, snap.Pending...)
				return writeJSON(cmd.OutOrStdout(), append(all, snap.Completed...))
			}
			writeTasks(cmd.OutOrStdout(), snap)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print tasks as JSON")
	return cmd
}

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Add a pending task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if err := app.session.AddTask(cmd.Context(), text); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q\n", strings.TrimSpace(text))
			return nil
		},
	}
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between pending and done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			// Toggle needs the current flag, which only the list has.
			if err := app.session.Refresh(ctx); err != nil {
				return err
			}
			if err := app.session.Toggle(ctx, args[0]); err != nil {
				return err
			}
			task, _ := app.session.State().Find(args[0])
			state := "pending"
			if task.Completed {
				state = "done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%q is %s\n", task.Text, state)
			return nil
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text>",
		Short: "Change a task's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args[1:], " "))
			if err := app.session.Rename(cmd.Context(), args[0], text); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed to %q\n", text)
			return nil
		},
	}
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.session.DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Task deleted")
			return nil
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTasks(w io.Writer, snap client.Snapshot) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("To do (%d)", len(snap.Pending))))
	for _, t := range snap.Pending {
		fmt.Fprintf(w, "  [ ] %s  %s\n", idStyle.Render(t.ID), t.Text)
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Done (%d)", len(snap.Completed))))
	for _, t := range snap.Completed {
		fmt.Fprintf(w, "  [x] %s  %s\n", idStyle.Render(t.ID), doneStyle.Render(t.Text))
	}
}
