// Package cli wires the techmap commands: the HTTP server, store maintenance
// and a terminal view of a running catalogue.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tutusiji/lantu-next/config"
	"github.com/tutusiji/lantu-next/database"
)

const (
	DefaultAPIURL          = "http://localhost:8080"
	DefaultShutdownSeconds = 30
)

// App carries what every command needs.
type App struct {
	Config map[string]string
	Out    io.Writer
}

// NewRootCmd creates the top-level "techmap" command. Running it without a
// subcommand serves the API.
func NewRootCmd(app *App) *cobra.Command {
	if app.Out == nil {
		app.Out = os.Stdout
	}

	serve := newServeCmd(app)
	root := &cobra.Command{
		Use:           "techmap",
		Short:         "Layered technology catalogue",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.Flags().AddFlagSet(serve.Flags())
	root.SetOut(app.Out)

	root.AddCommand(
		serve,
		newSeedCmd(app),
		newDedupeCmd(app),
		newGenerateModelsCmd(app),
		newColumnReportCmd(app),
		newShowCmd(app),
		newMoveCmd(app),
	)
	return root
}

// Execute runs the root command with os.Args.
func Execute(cfg map[string]string) error {
	return NewRootCmd(&App{Config: cfg, Out: os.Stdout}).Execute()
}

// openDB connects without touching the schema. The returned func closes the
// pool.
func (a *App) openDB() (*gorm.DB, func(), error) {
	db, err := database.Open(a.Config)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("getting database handle: %w", err)
	}
	return db, func() { sqlDB.Close() }, nil
}

// openStore connects and migrates.
func (a *App) openStore() (database.Database, func(), error) {
	db, closeFn, err := a.openDB()
	if err != nil {
		return database.Database{}, nil, err
	}
	if err := database.Migrate(db); err != nil {
		closeFn()
		return database.Database{}, nil, err
	}
	return database.New(db), closeFn, nil
}

func (a *App) apiURL(flag string) string {
	if flag != "" {
		return flag
	}
	return config.GetString(a.Config, "TECHMAP_API_URL", DefaultAPIURL)
}
