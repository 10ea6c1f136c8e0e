package main

import (
	"context"
	"fmt"
	"time"
	"userservice/internal/config"
	"userservice/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// signToken issues an RS256 token for subject valid for ttl.
func signToken(privateKeyPEM, subject string, ttl time.Duration, now time.Time) (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return "", fmt.Errorf("could not parse RSA private key: %w", err)
	}

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("could not sign JWT: %w", err)
	}

	return signed, nil
}

// JWTCommand constructs the 'jwt' subcommand that generates a signed RS256 JWT
// for a given subject and TTL using the configured private key.
func JWTCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jwt",
		Short: "Generates a JWT token for the given subject",
		Run: func(cmd *cobra.Command, args []string) {
			subject, _ := cmd.Flags().GetString("subject")
			TTL, _ := cmd.Flags().GetDuration("ttl")

			signed, err := signToken(cfg.JWT.PrivateKey, subject, TTL, time.Now())
			if err != nil {
				logger.Fatal(context.Background(), "could not generate JWT", zap.Error(err))
			}

			fmt.Println(signed) //nolint: forbidigo
		},
	}

	cmd.Flags().String("subject", "", "JWT subject (e.g., operator name)")
	cmd.Flags().Duration("ttl", 24*time.Hour, "Token TTL (e.g., 30s, 15m, 1h)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
