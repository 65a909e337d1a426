package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/RedBear961/qrcreator/internal/domain/common/errorz"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestGetReadsFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := writeConfig(t, `
settings:
  debug: true
  timezone: Europe/Moscow
render:
  preview-size: 320
  workers: 2
storage:
  driver: Redis
service:
  redis:
    host: cache
    port: 6380
bot:
  token: secret
  log-chat-id: -100123
http:
  port: 9090
`)

	cfg, err := Get(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "Europe/Moscow", cfg.Location.String())
	assert.Equal(t, 320, cfg.Render.PreviewSize)
	assert.Equal(t, 2, cfg.Render.Workers)
	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "cache", cfg.Redis.Host)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, "secret", cfg.Bot.Token)
	assert.Equal(t, int64(-100123), cfg.Bot.LogChatID)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestGetEnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("QRCREATOR_HTTP_PORT", "7070")
	t.Setenv("QRCREATOR_RENDER_PREVIEW_SIZE", "128")

	cfg, err := Get(writeConfig(t, "http:\n  port: 8081\n"))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.HTTP.Port)
	assert.Equal(t, 128, cfg.Render.PreviewSize)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
}

func TestGetRejectsInvalid(t *testing.T) {
	tests := []string{
		"storage:\n  driver: etcd\n",
		"render:\n  preview-size: 0\n",
		"render:\n  workers: -1\n",
		"settings:\n  timezone: Mars/Olympus\n",
	}
	for _, body := range tests {
		viper.Reset()
		_, err := Get(writeConfig(t, body))
		assert.Error(t, err, body)
	}
	viper.Reset()
}

func TestGetMissingExplicitFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := Get(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestMemoryBackendsAreScoped(t *testing.T) {
	backends := NewMemoryBackends()
	ctx := context.Background()

	require.NoError(t, backends.Settings("1").Set(ctx, "resolution", "300"))

	got, err := backends.Settings("1").Get(ctx, "resolution")
	require.NoError(t, err)
	assert.Equal(t, "300", got)

	_, err = backends.Settings("2").Get(ctx, "resolution")
	assert.ErrorIs(t, err, errorz.ErrNotFound)

	_, err = backends.Clipboard("1").ReadImage(ctx)
	assert.ErrorIs(t, err, errorz.ErrNotFound)
	assert.NoError(t, backends.Close())
}
