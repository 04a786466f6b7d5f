package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"studyhub/internal/config"
	pgmigrations "studyhub/internal/infra/postgres/migrations"
)

// NewMigrateCmd applies the Postgres schema, or rolls back the last group.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var rollback bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run Postgres migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if rollback {
				return rollbackMigrations(cmd.Context(), cfg)
			}
			return runMigrationsWithConfig(cmd.Context(), cfg)
		},
	}
	cmd.Flags().BoolVar(&rollback, "rollback", false, "roll back the last migration group")
	return cmd
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	db := openBun(cfg.Postgres.URL)
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		log.Printf("no new migrations")
		return nil
	}
	log.Printf("migrated to %s", group)
	return nil
}

func rollbackMigrations(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	db := openBun(cfg.Postgres.URL)
	defer db.Close()

	group, err := migrate.NewMigrator(db, pgmigrations.Migrations).Rollback(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		log.Printf("nothing to roll back")
		return nil
	}
	log.Printf("rolled back %s", group)
	return nil
}

func openBun(url string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(url)))
	return bun.NewDB(sqldb, pgdialect.New())
}
