package redis

import (
	"context"
	"fmt"

	"github.com/RedBear961/qrcreator/internal/adapters/database/redis/clipboard"
	"github.com/RedBear961/qrcreator/internal/adapters/database/redis/settings"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	Settings  *settings.Storage
	Clipboard *clipboard.Storage

	clients []*redis.Client
}

type Options struct {
	Host     string
	Port     int
	Password string
}

func New(opts Options) (*Client, error) {
	settingsStorage := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       0,
	})
	if err := settingsStorage.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping settings storage: %w", err)
	}

	clipboardStorage := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       1,
	})
	if err := clipboardStorage.Ping(context.Background()).Err(); err != nil {
		_ = settingsStorage.Close()
		return nil, fmt.Errorf("failed to ping clipboard storage: %w", err)
	}

	return &Client{
		Settings:  settings.NewStorage(settingsStorage),
		Clipboard: clipboard.NewStorage(clipboardStorage),
		clients:   []*redis.Client{settingsStorage, clipboardStorage},
	}, nil
}

// Close closes every underlying connection pool.
func (c *Client) Close() error {
	var firstErr error
	for _, client := range c.clients {
		if err := client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
