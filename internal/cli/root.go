package cli

import (
	"context"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/taskasaurus/taskrex/internal/cli/formatter"
	"github.com/taskasaurus/taskrex/internal/config"
	"github.com/taskasaurus/taskrex/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Tasks      service.TaskService
	Categories service.CategoryService
	Calendar   service.CalendarService
	Imports    service.ImportService

	// Serve runs the HTTP API until ctx is cancelled.
	Serve func(ctx context.Context, addr string) error

	// Init, when set, runs once flags are parsed and configuration is
	// resolved, and fills in the services above.
	Init func(cfg *config.Config) error

	// Now defaults to time.Now; display code uses it for relative dates.
	Now func() time.Time

	cfg      *config.Config
	jsonOut  bool
	cfgFile  string
	forceRaw bool
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) location() *time.Location {
	if a.Calendar != nil {
		return a.Calendar.Location()
	}
	return time.UTC
}

// Config is the configuration resolved for the running command, nil
// before flags are parsed.
func (a *App) Config() *config.Config {
	return a.cfg
}

// NewRootCmd creates the top-level "taskrex" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "taskrex",
		Short:         "Tasks, categories and a calendar over SQLite",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.Options{ConfigFile: app.cfgFile, Flags: cmd.Flags()})
			if err != nil {
				return err
			}
			app.cfg = cfg
			formatter.SetPlain(app.forceRaw || !isTerminal(cmd))
			if app.Init != nil {
				return app.Init(cfg)
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&app.cfgFile, "config", "", "config file (default: ./taskrex.yaml or ~/.taskrex/taskrex.yaml)")
	pf.String("db", "", "SQLite database path")
	pf.String("timezone", "", "IANA zone calendar days are evaluated in")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&app.jsonOut, "json", false, "print raw JSON results")
	pf.BoolVar(&app.forceRaw, "no-color", false, "disable coloured output")

	root.AddCommand(
		newServeCmd(app),
		newTaskCmd(app),
		newCategoryCmd(app),
		newCalendarCmd(app),
		newSeedCmd(app),
	)

	return root
}

// isTerminal reports whether the command writes to an interactive terminal.
func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
