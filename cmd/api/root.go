package main

import (
	"context"
	"fmt"
	"os"

	"backlog-snapshot-api/internal/adapter/repository/gormrepo"
	"backlog-snapshot-api/internal/config"
	"backlog-snapshot-api/internal/domain/snapshot"
	"backlog-snapshot-api/internal/infrastructure/db"
	"backlog-snapshot-api/internal/infrastructure/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newRootCmd() *cobra.Command {
	serve := newServeCmd()
	cmd := &cobra.Command{
		Use:           "backlog-snapshot-api",
		Short:         "Backlog snapshot ingestion service",
		SilenceUsage:  true,
		SilenceErrors: true,
		// no subcommand means serve
		RunE: serve.RunE,
	}

	cmd.AddCommand(serve)
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newImportCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// app holds what every command needs: config, logger and a migrated database.
type app struct {
	cfg *config.Config
	log *logrus.Logger
	db  *gorm.DB
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), log)
	if err != nil {
		return nil, err
	}
	if err := gormrepo.Migrate(ctx, gdb, snapshot.Models()...); err != nil {
		closeDB(gdb)
		return nil, err
	}
	return &app{cfg: cfg, log: log, db: gdb}, nil
}

func (a *app) Close() { closeDB(a.db) }

func closeDB(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
