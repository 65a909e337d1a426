package settings

import (
	"context"
	"errors"

	"github.com/RedBear961/qrcreator/internal/domain/common/errorz"
	"github.com/redis/go-redis/v9"
)

type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

// Scope returns the preferences storage of a single scope.
func (s *Storage) Scope(scope string) *Scoped {
	return &Scoped{
		redis: s.redis,
		scope: scope,
	}
}

// Scoped stores values under "<scope>:<key>".
type Scoped struct {
	redis *redis.Client
	scope string
}

func (s *Scoped) Get(ctx context.Context, key string) (string, error) {
	value, err := s.redis.Get(ctx, Key(s.scope, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", errorz.ErrNotFound
	}
	return value, err
}

func (s *Scoped) Set(ctx context.Context, key, value string) error {
	return s.redis.Set(ctx, Key(s.scope, key), value, 0).Err()
}

func Key(scope, key string) string {
	return scope + ":" + key
}
