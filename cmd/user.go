package main

import (
	"context"
	"fmt"
	"userservice/internal/config"
	"userservice/internal/users"
	"userservice/pkg/domain"
	"userservice/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// withService builds the storage stack, runs fn with the resulting service
// and releases the connections afterwards.
func withService(ctx context.Context, cfg *config.Config, fn func(svc users.Service)) {
	pgsql, closeStrg := getPostgres(ctx, cfg)
	defer closeStrg()

	client, closeRedis := getRedis(ctx, cfg)
	defer closeRedis()

	svc, _, err := buildService(cfg, pgsql, client)
	if err != nil {
		logger.Fatal(ctx, "could not build user service", zap.Error(err))
	}

	fn(svc)
}

// userCommand groups the subcommands operating on single users.
func userCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Reads and writes users",
	}

	cmd.AddCommand(userGetCommand(cfg), userSaveCommand(cfg))

	return cmd
}

func userGetCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Prints the name of the user with the given ID",
		Run: func(cmd *cobra.Command, args []string) {
			id, _ := cmd.Flags().GetInt64("id")
			ctx := logger.WithFields(cmd.Context(), zap.Int64("userID", id))

			withService(ctx, cfg, func(svc users.Service) {
				name, err := svc.GetUserByID(ctx, domain.UserID(id))
				if err != nil {
					logger.Fatal(ctx, "could not get user", zap.Error(err))
				}
				if name == "" {
					logger.Fatal(ctx, "user not found")
				}

				fmt.Println(name) //nolint: forbidigo
			})
		},
	}

	cmd.Flags().Int64("id", 0, "User ID")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func userSaveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Creates or replaces the user with the given ID",
		Run: func(cmd *cobra.Command, args []string) {
			id, _ := cmd.Flags().GetInt64("id")
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			ctx := logger.WithFields(cmd.Context(), zap.Int64("userID", id))

			withService(ctx, cfg, func(svc users.Service) {
				if err := svc.SaveUser(ctx, domain.User{
					ID:    domain.UserID(id),
					Name:  name,
					Email: email,
				}); err != nil {
					logger.Fatal(ctx, "could not save user", zap.Error(err))
				}

				logger.Info(ctx, "user saved")
			})
		},
	}

	cmd.Flags().Int64("id", 0, "User ID")
	cmd.Flags().String("name", "", "Display name")
	cmd.Flags().String("email", "", "Email address (optional)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
