package config

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	postgresStorage "github.com/RedBear961/qrcreator/internal/adapters/database/postgres"
	redisStorage "github.com/RedBear961/qrcreator/internal/adapters/database/redis"
	"github.com/RedBear961/qrcreator/internal/domain/preferences"
	"github.com/RedBear961/qrcreator/internal/domain/service"
	"github.com/RedBear961/qrcreator/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Backends hands out per-scope preference storages and clipboards for the
// configured storage driver.
type Backends struct {
	settings  func(scope string) preferences.Storage
	clipboard func(scope string) service.ReadableClipboard
	close     func() error
}

// Settings returns the preferences storage of scope.
func (b *Backends) Settings(scope string) preferences.Storage {
	return b.settings(scope)
}

// Clipboard returns the clipboard of scope.
func (b *Backends) Clipboard(scope string) service.ReadableClipboard {
	return b.clipboard(scope)
}

func (b *Backends) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open connects to the configured storage driver.
func (c *Config) Open() (*Backends, error) {
	switch c.Storage.Driver {
	case DriverRedis:
		return c.openRedis()
	case DriverPostgres:
		return c.openPostgres()
	default:
		return NewMemoryBackends(), nil
	}
}

// NewMemoryBackends keeps everything in process memory; values of a scope
// survive for the life of the process.
func NewMemoryBackends() *Backends {
	var (
		mu         sync.Mutex
		storages   = make(map[string]*preferences.MemoryStorage)
		clipboards = make(map[string]*service.MemoryClipboard)
	)
	return &Backends{
		settings: func(scope string) preferences.Storage {
			mu.Lock()
			defer mu.Unlock()
			s, ok := storages[scope]
			if !ok {
				s = preferences.NewMemoryStorage()
				storages[scope] = s
			}
			return s
		},
		clipboard: func(scope string) service.ReadableClipboard {
			mu.Lock()
			defer mu.Unlock()
			cb, ok := clipboards[scope]
			if !ok {
				cb = service.NewMemoryClipboard()
				clipboards[scope] = cb
			}
			return cb
		},
	}
}

func (c *Config) openRedis() (*Backends, error) {
	client, err := redisStorage.New(redisStorage.Options{
		Host:     c.Redis.Host,
		Port:     c.Redis.Port,
		Password: c.Redis.Password,
	})
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Successfully connected to redis")

	return &Backends{
		settings: func(scope string) preferences.Storage {
			return client.Settings.Scope(scope)
		},
		clipboard: func(scope string) service.ReadableClipboard {
			return client.Clipboard.Scope(scope)
		},
		close: client.Close,
	}, nil
}

func (c *Config) openPostgres() (*Backends, error) {
	var gormConfig *gorm.Config
	if c.Debug {
		newLogger := gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold: time.Second,
				LogLevel:      gormLogger.Info,
				Colorful:      true,
			},
		)
		gormConfig = &gorm.Config{
			Logger: newLogger,
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		}
	}

	dsn := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%d sslmode=disable TimeZone=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.Host,
		c.Database.Port,
		c.Location.String(),
	)

	database, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}
	logger.Log.Info("Successfully connected to the database")

	if err = database.AutoMigrate(postgresStorage.Migrations...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Backends{
		settings: func(scope string) preferences.Storage {
			return postgresStorage.NewSettingStorage(database, scope)
		},
		clipboard: func(scope string) service.ReadableClipboard {
			return postgresStorage.NewClipboardStorage(database, scope)
		},
		close: func() error {
			sqlDB, err := database.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}, nil
}
