package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/yukikurage/project-task-api/internal/config"
	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/logging"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Project and task management API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, db)
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			slog.Info("migrations applied")
			return closeDB(db)
		},
	})

	return root
}

// bootstrap loads configuration, sets up logging and opens the migrated
// database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Init(cfg.LogLevel, cfg.IsProduction())

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "driver", cfg.DBDriver, "error", err)
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	return cfg, db, nil
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
