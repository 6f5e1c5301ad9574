package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/martium/fsh/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase creates the config file when missing, initializes the database and runs migrations.
//
// With --database the new path is written to the config file so later commands use it.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
		}
	}

	config, err := shared.ResolveConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if path := cmd.String("database"); path != "" && path != config.Database.Path {
		config.Database.Path = path
		if err := shared.SaveConfig(configPath, config); err != nil {
			return err
		}
		r.logger.Info("database path saved to config", "path", path, "config", configPath)
	}
	r.config = config
	r.configPath = configPath

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return r.writePlain("✓ Database ready at %s\n", config.Database.Path)
}

// SetupRollback rolls back the most recently applied migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	if err := r.configure(cmd); err != nil {
		return err
	}

	db, err := shared.OpenDatabase(r.config.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RollbackMigration(ctx, db); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	r.logger.Info("rolled back latest migration", "path", r.config.Database.Path)
	return r.writePlain("✓ Rolled back latest migration\n")
}

// SetupStatus lists known migrations and whether each has been applied.
func (r *Runner) SetupStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.configure(cmd); err != nil {
		return err
	}

	db, err := shared.OpenDatabase(r.config.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	statuses, err := shared.MigrationStatuses(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(statuses, true)
	}

	r.writePlainHeader("Migrations: " + r.config.Database.Path)
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = "applied " + s.AppliedAt.Format(time.DateTime)
		}
		if err := r.writePlain("%04d %-32s %s\n", s.Version, s.Name, state); err != nil {
			return err
		}
	}
	return nil
}
