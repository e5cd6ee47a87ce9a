package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends for the settings repository.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// EnvPrefix prefixes every environment override, e.g. CHECKIN_ADDR.
const EnvPrefix = "CHECKIN"

// AppConfig holds process-level settings. The check-in settings themselves
// live in the state store selected here.
type AppConfig struct {
	StatePath    string        `mapstructure:"state_path" validate:"required"`
	Storage      string        `mapstructure:"storage" validate:"required,oneof=file sqlite"`
	Addr         string        `mapstructure:"addr" validate:"required,hostname_port"`
	LogLevel     string        `mapstructure:"log_level" validate:"required,oneof=error warn info debug trace"`
	Timezone     string        `mapstructure:"timezone"`
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"gte=1s"`
	AllowOrigins []string      `mapstructure:"allow_origins"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() AppConfig {
	return AppConfig{
		StatePath:    DefaultStatePath(),
		Storage:      StorageFile,
		Addr:         "127.0.0.1:7070",
		LogLevel:     "warn",
		TickInterval: 30 * time.Second,
		AllowOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
	}
}

// Load reads the config file at path (if it exists), applies CHECKIN_*
// environment overrides and a .env file from the working directory, and
// validates the result.
func Load(path string) (*AppConfig, error) {
	// A missing .env is the common case.
	_ = godotenv.Load()

	def := Defaults()
	v := viper.New()
	v.SetDefault("state_path", def.StatePath)
	v.SetDefault("storage", def.Storage)
	v.SetDefault("addr", def.Addr)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("timezone", def.Timezone)
	v.SetDefault("tick_interval", def.TickInterval)
	v.SetDefault("allow_origins", def.AllowOrigins)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Storage == StorageSQLite && cfg.StatePath == def.StatePath {
		cfg.StatePath = DefaultSQLitePath()
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
