package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wadjakorntonsri/interne/pkg/adapters/handler"
	"github.com/wadjakorntonsri/interne/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/interne/pkg/app"
	"github.com/wadjakorntonsri/interne/pkg/config"
	"github.com/wadjakorntonsri/interne/pkg/core/clock"
	"github.com/wadjakorntonsri/interne/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// env is opened lazily by each command that needs the database.
type env struct {
	repo     *sqlite.SQLiteRepository
	services handler.Services
}

func open() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.LogLevel, cfg.AppEnv); err != nil {
		return nil, err
	}

	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return &env{repo: repo, services: app.NewServices(repo, clock.System{})}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "interne",
		Short:         "Manage users and data of an interne instance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newCreateUserCmd(),
		newImportCmd(),
		newExportCmd(),
		newMigrateCmd(),
	)
	return root
}
