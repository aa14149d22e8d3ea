package main

import (
	"context"
	"fmt"

	"github.com/errorfreetext/errorfree/internal/config"
	"github.com/errorfreetext/errorfree/internal/platform/logger"
	"github.com/errorfreetext/errorfree/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Run database migrations",
		Long:      "Apply, roll back or inspect the PostgreSQL schema. The default command is up.",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateStatus, postgres.MigrateVersion},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := postgres.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}
			return c.runMigrate(cmd.Context(), command)
		},
	}
}

func (c *cli) runMigrate(ctx context.Context, command string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations require the %q driver, configured %q", config.DriverPostgres, cfg.Database.Driver)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := postgres.Migrate(ctx, db, command, log); err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	return nil
}
