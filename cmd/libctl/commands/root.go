package commands

import (
	"fmt"
	"os"

	"library-management-be/internal/config"
	"library-management-be/internal/pkg/logger"
	"library-management-be/internal/repository/readmodel"
	"library-management-be/internal/repository/unitofwork"
	"library-management-be/internal/service"
	"library-management-be/pkg/clock"
	"library-management-be/pkg/database"

	"github.com/spf13/cobra"
)

var (
	dsn     string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "libctl",
	Short: "Operator tooling for the library backend",
	Long: `libctl manages accounts and inspects circulation state directly
against the library database, bypassing the HTTP API.

Connection settings are read from the same environment as the server
(DB_CONNECTION_STRING, NATS_URL) and can be overridden with flags.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dsn, "db", "", "database connection string (defaults to DB_CONNECTION_STRING)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log SQL statements")
}

type deps struct {
	users   service.IUserService
	reports service.IReportService
	close   func()
}

func loadConfig() *config.Config {
	cfg := config.Load()
	if dsn != "" {
		cfg.Database.Connection = dsn
	}
	return cfg
}

func openDeps() (*deps, error) {
	cfg := loadConfig()
	if cfg.Database.Connection == "" {
		return nil, fmt.Errorf("no database configured: set DB_CONNECTION_STRING or pass --db")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlxDB, err := database.SQLX(db)
	if err != nil {
		return nil, err
	}

	factory := unitofwork.NewRepositoryFactory(db)
	return &deps{
		users:   service.NewUserService(factory, logger.NewNopLogger()),
		reports: service.NewReportService(factory, readmodel.NewOverdueLoans(sqlxDB), clock.System()),
		close:   func() { _ = sqlxDB.Close() },
	}, nil
}
