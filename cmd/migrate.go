package main

import (
	"context"
	"database/sql"
	root "userservice"
	"userservice/internal/config"
	"userservice/pkg/logger"

	"github.com/pressly/goose/v3"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCommand constructs the 'migrate' subcommand that applies the goose
// schema migrations and the river queue migrations.
func migrateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrates database to the latest version",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			db, ok := strg.DB.(*sql.DB)
			if !ok {
				logger.Fatal(ctx, "postgres storage is bound to a transaction")
			}

			// goose migrations (users schema)
			goose.SetBaseFS(root.Migrations)

			if err := goose.SetDialect("postgres"); err != nil {
				logger.Fatal(ctx, "could not set goose dialect to postgres", zap.Error(err))
			}
			if err := goose.UpContext(ctx, db, "migrations"); err != nil {
				logger.Fatal(ctx, "could not migrate pgsql", zap.Error(err))
			}

			// migrate riverqueue
			migrator, err := rivermigrate.New(riverdatabasesql.New(db), nil)
			if err != nil {
				logger.Fatal(ctx, "could not create river queue migrator", zap.Error(err))
			}
			res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
			if err != nil {
				logger.Fatal(ctx, "could not migrate river queue database", zap.Error(err))
			}
			for _, v := range res.Versions {
				logger.Info(ctx, "applied river queue migration", zap.Int("version", v.Version))
			}

			logger.Info(ctx, "database is up to date")
		},
	}

	return cmd
}
