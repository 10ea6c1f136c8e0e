// Package main provides the CLI entrypoint for the user service.
// It wires subcommands (serve, migrate, jwt, user), loads configuration, and initializes logging.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
	"userservice/internal/config"
	"userservice/internal/users"
	"userservice/pkg/logger"
	"userservice/pkg/metrics"
	"userservice/pkg/storage/observed"
	"userservice/pkg/storage/postgres"
	"userservice/pkg/storage/rediscache"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const (
	instrumentationName = "userservice"
	pingTimeout         = 5 * time.Second
)

func postgresOptions(cfg *config.Config) postgres.Options {
	return postgres.Options{
		Username:           cfg.Database.Username,
		Password:           cfg.Database.Password,
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		Database:           cfg.Database.DatabaseName,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime:    cfg.Database.ConnMaxIdleTime,
		MaxOpenConnections: cfg.Database.MaxOpenConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		SslMode:            cfg.Database.SslMode,
	}
}

// openPostgres creates the pool and pings the database, since the pool
// itself connects lazily.
func openPostgres(ctx context.Context, options postgres.Options) (*postgres.PgSQL, error) {
	pgsql, err := postgres.New(ctx, options)
	if err != nil {
		return nil, fmt.Errorf("could not create postgres storage: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pgsql.Ping(pingCtx); err != nil {
		_ = pgsql.Close()

		return nil, err //nolint: wrapcheck
	}

	return pgsql, nil
}

// getPostgres creates a PostgreSQL client using configuration values and returns it
// along with a cleanup function to close the connection pool.
func getPostgres(ctx context.Context, cfg *config.Config) (*postgres.PgSQL, func()) {
	pgsql, err := openPostgres(ctx, postgresOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not connect to postgres", zap.Error(err))
	}

	return pgsql, func() {
		logger.Info(ctx, "closing postgres client...")
		if err = pgsql.Close(); err != nil {
			logger.Warn(ctx, "could not close postgres connection", zap.Error(err))
		}
	}
}

// getRedis connects to the cache and returns the client along with a cleanup function.
func getRedis(ctx context.Context, cfg *config.Config) (*redis.Client, func()) {
	client, err := rediscache.NewClient(ctx, rediscache.ClientOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatal(ctx, "could not create redis client", zap.Error(err))
	}

	return client, func() {
		logger.Info(ctx, "closing redis client...")
		if err := client.Close(); err != nil {
			logger.Warn(ctx, "could not close redis client", zap.Error(err))
		}
	}
}

// buildService stacks the cache and the instrumentation on top of PostgreSQL
// and returns the user service over them together with the cache, which the
// workers warm.
func buildService(
	cfg *config.Config,
	pgsql *postgres.PgSQL,
	client *redis.Client,
) (users.Service, *rediscache.Storage, error) {
	mp, err := metrics.NewMeterProvider(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create meter provider: %w", err)
	}

	cached := rediscache.New(pgsql, client, rediscache.Options{TTL: cfg.Redis.CacheTTL})

	dao, err := observed.New(cached,
		mp.Meter(instrumentationName),
		otel.GetTracerProvider().Tracer(instrumentationName))
	if err != nil {
		return nil, nil, fmt.Errorf("could not create observed storage: %w", err)
	}

	return users.New(dao), cached, nil
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use: "userservice",
	}

	// there is no way to access flags before command execution in cobra.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	// the config path is read from the raw arguments, so it may follow the subcommand.
	configPath := configPathFromArgs(os.Args[1:], "config.yml")

	log.Println("loading config ...")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("could not load config file: ", err)
	}

	if err := logger.Setup(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatal("could not setup logger: ", err)
	}

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		migrateCommand(cfg),
		serveCommand(cfg),
		JWTCommand(cfg),
		userCommand(cfg),
	)

	err = rootCmd.Execute()
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}

// configPathFromArgs returns the value of the last -c/--config flag in args, or def.
func configPathFromArgs(args []string, def string) string {
	path := def
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}

		for _, name := range []string{"-c", "--config", "-config"} {
			if v, ok := strings.CutPrefix(arg, name+"="); ok {
				path = v
			} else if arg == name && i+1 < len(args) {
				path = args[i+1]
				i++
			}
		}
	}

	return path
}
