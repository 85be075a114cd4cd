package commands

import (
	"fmt"
	"log"
	"os"
	"quill/internal/config"
	"quill/internal/db"
	"quill/internal/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// App carries the connections subcommands work on. Nil fields are opened
// from Config on first use.
type App struct {
	Config config.Config
	DB     *gorm.DB
	Cache  utils.PageCache

	jsonOutput bool
}

func (a *App) database() (*gorm.DB, error) {
	if a.DB == nil {
		conn, err := db.Open(a.Config.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.DB = conn
	}
	return a.DB, nil
}

func (a *App) pageCache() (utils.PageCache, error) {
	if a.Cache == nil {
		cache, err := utils.NewPageCache(a.Config.Cache)
		if err != nil {
			return nil, err
		}
		a.Cache = cache
	}
	return a.Cache, nil
}

// NewRootCmd builds the quilladmin command tree around app.
func NewRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quilladmin",
		Short: "Quill administration",
		Long: `quilladmin manages what the public site cannot: groups, post removal
and the page cache.

Connection settings come from the same environment variables (or .env file)
as the server.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&app.Config.DatabaseURL, "db", app.Config.DatabaseURL, "Database connection URL")
	rootCmd.PersistentFlags().BoolVar(&app.jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(newGroupCmd(app), newPostCmd(app), newCacheCmd(app))
	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	app := &App{Config: config.Load()}
	if err := NewRootCmd(app).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
