// Package ui implements the clinicgrid command line interface.
package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jortegam/clinicgrid/internal/clinic"
	"github.com/jortegam/clinicgrid/internal/config"
	"github.com/jortegam/clinicgrid/internal/logx"
	"github.com/jortegam/clinicgrid/internal/nav"
	"github.com/jortegam/clinicgrid/internal/store"
	"github.com/jortegam/clinicgrid/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	store      *store.SQLite
	config     *config.Config
	root       *cobra.Command
	debug      bool
	noColor    bool
	asProvider string // view the calendar as one provider
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg}

	a.root = &cobra.Command{
		Use:   "clinicgrid",
		Short: "A terminal appointment calendar for a physiotherapy clinic",
		Long: `Clinicgrid keeps a physiotherapy clinic's schedule in the terminal.

The calendar shows day, week, month, and agenda views, books and moves
sessions, and tracks completion and payment per appointment.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if a.noColor {
				DisableColor()
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			return tui.RunWithDebug(a.store, a.config, a.user(), a.navigator(), a.debug)
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to temp file)")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")
	a.root.PersistentFlags().StringVar(&a.asProvider, "provider", "", "Restrict the view to one provider id")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.bookCmd())
	a.root.AddCommand(a.cancelCmd())
	a.root.AddCommand(a.statusCmd())
	a.root.AddCommand(a.payCmd())
	a.root.AddCommand(a.agendaCmd())
	a.root.AddCommand(a.reportCmd())
	a.root.AddCommand(a.providersCmd())
	a.root.AddCommand(a.seedCmd())

	return a
}

// user maps the CLI flags to the calendar identity. Without --provider
// the CLI operates as the clinic admin and sees everything.
func (a *App) user() clinic.User {
	if a.asProvider != "" {
		return clinic.User{SubjectID: a.asProvider, Role: clinic.RoleProvider}
	}
	return clinic.User{Role: clinic.RoleAdmin}
}

// navigator handles record-opening intents raised inside the TUI. The
// terminal has no patient record pages, so intents are only logged.
func (a *App) navigator() nav.Navigator {
	return nav.Func(func(page nav.Page, params nav.Params) {
		logx.Debug().Str("page", string(page)).Interface("params", params).Msg("navigate intent")
	})
}

// ensureStore lazily opens the database for commands that need it.
func (a *App) ensureStore() error {
	if a.store != nil {
		return nil
	}
	s, err := store.New(a.config.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.store = s
	return nil
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("clinicgrid %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the database handle if one was opened.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
