package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RedBear961/qrcreator/pkg/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Debug     bool
	Location  *time.Location
	LogToFile bool
	LogsDir   string

	Render   Render
	Storage  Storage
	Redis    Redis
	Database Database
	Bot      Bot
	HTTP     HTTP
}

type Render struct {
	PreviewSize int
	Workers     int
	OutputDir   string
}

type Storage struct {
	// Driver is one of memory, redis or postgres.
	Driver string
}

type Redis struct {
	Host     string
	Port     int
	Password string
}

type Database struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

type Bot struct {
	Token string
	// LogChatID receives log entries at or above LogLevel; 0 disables it.
	LogChatID int64
	LogLevel  int
}

type HTTP struct {
	Port int
}

func setDefaults() {
	viper.SetDefault("settings.debug", false)
	viper.SetDefault("settings.timezone", "UTC")
	viper.SetDefault("settings.log-to-file", false)
	viper.SetDefault("settings.logs-dir", "logs")

	viper.SetDefault("render.preview-size", 256)
	viper.SetDefault("render.workers", 4)
	viper.SetDefault("render.output-dir", "")

	viper.SetDefault("storage.driver", "memory")

	viper.SetDefault("service.redis.host", "localhost")
	viper.SetDefault("service.redis.port", 6379)
	viper.SetDefault("service.database.host", "localhost")
	viper.SetDefault("service.database.port", 5432)
	viper.SetDefault("service.database.name", "qrcreator")

	viper.SetDefault("bot.log-level", 2)
	viper.SetDefault("http.port", 8080)
}

func initConfig(path string) error {
	setDefaults()

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("QRCREATOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// Get reads the configuration from path (config.yaml in the working directory
// when empty) and QRCREATOR_* environment variables, then initializes the logger.
func Get(path string) (*Config, error) {
	if err := initConfig(path); err != nil {
		return nil, err
	}

	location, err := time.LoadLocation(viper.GetString("settings.timezone"))
	if err != nil {
		return nil, fmt.Errorf("invalid settings.timezone: %w", err)
	}

	cfg := &Config{
		Debug:     viper.GetBool("settings.debug"),
		Location:  location,
		LogToFile: viper.GetBool("settings.log-to-file"),
		LogsDir:   viper.GetString("settings.logs-dir"),
		Render: Render{
			PreviewSize: viper.GetInt("render.preview-size"),
			Workers:     viper.GetInt("render.workers"),
			OutputDir:   viper.GetString("render.output-dir"),
		},
		Storage: Storage{
			Driver: strings.ToLower(viper.GetString("storage.driver")),
		},
		Redis: Redis{
			Host:     viper.GetString("service.redis.host"),
			Port:     viper.GetInt("service.redis.port"),
			Password: viper.GetString("service.redis.password"),
		},
		Database: Database{
			Host:     viper.GetString("service.database.host"),
			Port:     viper.GetInt("service.database.port"),
			User:     viper.GetString("service.database.user"),
			Password: viper.GetString("service.database.password"),
			Name:     viper.GetString("service.database.name"),
		},
		Bot: Bot{
			Token:     viper.GetString("bot.token"),
			LogChatID: viper.GetInt64("bot.log-chat-id"),
			LogLevel:  viper.GetInt("bot.log-level"),
		},
		HTTP: HTTP{
			Port: viper.GetInt("http.port"),
		},
	}
	if err = cfg.validate(); err != nil {
		return nil, err
	}

	err = logger.Init(logger.Config{
		Debug:        cfg.Debug,
		TimeLocation: cfg.Location,
		LogToFile:    cfg.LogToFile,
		LogsDir:      cfg.LogsDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Render.PreviewSize <= 0:
		return fmt.Errorf("render.preview-size must be positive, got %d", c.Render.PreviewSize)
	case c.Render.Workers <= 0:
		return fmt.Errorf("render.workers must be positive, got %d", c.Render.Workers)
	}
	switch c.Storage.Driver {
	case DriverMemory, DriverRedis, DriverPostgres:
		return nil
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
}
