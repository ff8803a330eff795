package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/client"
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/logging"
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	APIURL    string
	ConfigDir string
	Debug     bool

	session *client.Session
	undo    *client.Undo
	logFile io.Closer
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "taskctl",
		Short:         "Personal task list client",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive UI
  taskctl

  # Scriptable commands
  taskctl login alice
  taskctl add "buy milk"
  taskctl list --json
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive UI.
			if len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.open()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.close()
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api", envOr("TASKS_API_URL", client.DefaultBaseURL), "Base URL of the tasks API")
	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", envOr("TASKS_CONFIG_DIR", ""), "Directory holding the saved session (default ~/.tasklist)")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Write debug logs to taskctl.log in the config dir")

	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newToggleCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(&cobra.Command{
		Use:   "tui",
		Short: "Start the interactive UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(app)
		},
	})

	return cmd
}

// open restores the saved session and routes logs away from the terminal.
func (app *App) open() error {
	dir := app.ConfigDir
	if dir == "" {
		d, err := client.ConfigDir()
		if err != nil {
			return fmt.Errorf("resolve config dir: %w", err)
		}
		dir = d
	}

	logging.Discard()
	if app.Debug {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
		f, err := logging.SetupFile(filepath.Join(dir, "taskctl.log"))
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		app.logFile = f
	}

	api := client.NewAPI(app.APIURL, nil)
	app.session = client.NewSession(api, client.NewFileStorage(dir))
	app.undo = client.NewUndo(app.session)
	return nil
}

func (app *App) close() error {
	if app.logFile == nil {
		return nil
	}
	err := app.logFile.Close()
	app.logFile = nil
	return err
}

func runTUI(app *App) error {
	return tui.Run(app.session, app.undo)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
