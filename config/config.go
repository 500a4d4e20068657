// Package config loads service settings from a YAML file and QUOTEKIT_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// QUOTEKIT_SERVER_ADDR for server.addr.
const EnvPrefix = "QUOTEKIT"

type Server struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type Auth struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// Database is optional; an empty DSN disables persistence routes.
type Database struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// Redis is optional; an empty Addr disables the logo cache.
type Redis struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type Assets struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxBytes int64         `mapstructure:"max_bytes"`
	Root     string        `mapstructure:"root"`
	S3Region string        `mapstructure:"s3_region"`
}

type Config struct {
	Server   Server   `mapstructure:"server"`
	Auth     Auth     `mapstructure:"auth"`
	Database Database `mapstructure:"database"`
	Redis    Redis    `mapstructure:"redis"`
	Assets   Assets   `mapstructure:"assets"`
	FontsDir string   `mapstructure:"fonts_dir"`
	LogLevel string   `mapstructure:"log_level"`
	Design   string   `mapstructure:"design"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.dsn", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", time.Hour)
	v.SetDefault("assets.timeout", 5*time.Second)
	v.SetDefault("assets.max_bytes", 4<<20)
	v.SetDefault("assets.root", "")
	v.SetDefault("assets.s3_region", "")
	v.SetDefault("fonts_dir", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("design", "classic")
}

// Load reads path (when not empty), applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	switch c.Database.Driver {
	case "mysql", "pgx":
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not mysql or pgx", c.Database.Driver))
	}
	if c.Assets.Timeout <= 0 {
		errs = append(errs, errors.New("assets.timeout must be positive"))
	}
	return errors.Join(errs...)
}
