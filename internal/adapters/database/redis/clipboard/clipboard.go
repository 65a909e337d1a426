package clipboard

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"time"

	"github.com/RedBear961/qrcreator/internal/domain/common/errorz"
	"github.com/redis/go-redis/v9"
)

// expiration of a copied image
const expiration = 24 * time.Hour

type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

// Scope returns the clipboard of a single scope.
func (s *Storage) Scope(scope string) *Scoped {
	return &Scoped{
		redis: s.redis,
		key:   "clipboard:" + scope,
	}
}

type Scoped struct {
	redis *redis.Client
	key   string
}

// WriteImage replaces the clipboard contents with img encoded as PNG.
func (s *Scoped) WriteImage(ctx context.Context, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return s.redis.Set(ctx, s.key, buf.Bytes(), expiration).Err()
}

// ReadImage returns the clipboard image or errorz.ErrNotFound.
func (s *Scoped) ReadImage(ctx context.Context) (image.Image, error) {
	data, err := s.redis.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errorz.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return png.Decode(bytes.NewReader(data))
}
