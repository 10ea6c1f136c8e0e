// Package rediscache is a read-through Redis cache in front of any
// storage.UserStorage.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"
	"userservice/pkg/domain"
	"userservice/pkg/logger"
	"userservice/pkg/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "user:"

// Options configures the cache.
type Options struct {
	// TTL of a cached name. Zero keeps entries until they are invalidated.
	TTL time.Duration
}

// Storage caches FindUser results in Redis and invalidates them on SaveUser.
// Redis failures never fail a call; they are logged and the inner storage is
// used instead. Empty names (missing users) are not cached.
type Storage struct {
	inner   storage.UserStorage
	client  redis.Cmdable
	options Options
}

var _ storage.UserStorage = (*Storage)(nil)

// Key returns the Redis key a user's name is cached under.
func Key(id domain.UserID) string {
	return keyPrefix + id.String()
}

// FindUser serves from Redis when possible and fills the cache on a miss.
func (s *Storage) FindUser(ctx context.Context, id domain.UserID) (string, error) {
	key := Key(id)

	name, err := s.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return name, nil
	case errors.Is(err, redis.Nil):
	default:
		logger.Warn(ctx, "could not read user from cache", zap.String("key", key), zap.Error(err))
	}

	name, err = s.inner.FindUser(ctx, id)
	if err != nil || name == "" {
		return name, err //nolint: wrapcheck
	}

	if err := s.client.Set(ctx, key, name, s.options.TTL).Err(); err != nil {
		logger.Warn(ctx, "could not write user to cache", zap.String("key", key), zap.Error(err))
	}

	return name, nil
}

// SaveUser saves through the inner storage and drops the cached entry once
// the save succeeded.
func (s *Storage) SaveUser(ctx context.Context, user domain.User) error {
	if err := s.inner.SaveUser(ctx, user); err != nil {
		return err //nolint: wrapcheck
	}

	s.invalidate(ctx, user.ID)

	return nil
}

// Warm reads id from the inner storage and overwrites the cached entry with
// the result, dropping it when the user does not exist. Unlike FindUser it
// never serves from the cache, so a stale entry is always replaced.
func (s *Storage) Warm(ctx context.Context, id domain.UserID) error {
	name, err := s.inner.FindUser(ctx, id)
	if err != nil {
		return fmt.Errorf("could not warm user cache: %w", err)
	}

	if name == "" {
		s.invalidate(ctx, id)

		return nil
	}

	if err := s.client.Set(ctx, Key(id), name, s.options.TTL).Err(); err != nil {
		return fmt.Errorf("could not write user to cache: %w", err)
	}

	return nil
}

func (s *Storage) invalidate(ctx context.Context, id domain.UserID) {
	if err := s.client.Del(ctx, Key(id)).Err(); err != nil {
		logger.Warn(ctx, "could not invalidate cached user", zap.String("key", Key(id)), zap.Error(err))
	}
}

// New wraps inner with a cache stored in client.
func New(inner storage.UserStorage, client redis.Cmdable, options Options) *Storage {
	return &Storage{
		inner:   inner,
		client:  client,
		options: options,
	}
}

// ClientOptions holds the Redis connection settings.
type ClientOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewClient connects to Redis and verifies the connection with a PING.
func NewClient(ctx context.Context, options ClientOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         options.Addr,
		Password:     options.Password,
		DB:           options.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}

	return client, nil
}
