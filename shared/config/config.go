package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr            = ":8080"
	DefaultDriver          = DriverSQLite
	DefaultAvatarTimeout   = 10
	DefaultAvatarMaxBytes  = 5 << 20
	DefaultUploadMaxBytes  = 32 << 20
	DefaultCacheTTLSeconds = 3600
	DefaultLogLevel        = "info"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	addrEnvKey        = "POSTBOARD_ADDR"
	driverEnvKey      = "POSTBOARD_DB_DRIVER"
	sqlitePathEnvKey  = "SQLITE_DB_PATH"
	postgresDSNEnvKey = "POSTGRES_DSN"
	redisAddrEnvKey   = "REDIS_ADDR"
	logLevelEnvKey    = "POSTBOARD_LOG_LEVEL"
)

type DatabaseConfig struct {
	Driver string `toml:"driver" yaml:"driver"`
	// Path is the SQLite file. Empty keeps the database in memory.
	Path string `toml:"path" yaml:"path"`
	DSN  string `toml:"dsn" yaml:"dsn"`
}

type AvatarConfig struct {
	TimeoutSeconds int   `toml:"timeout_seconds" yaml:"timeout_seconds"`
	MaxBytes       int64 `toml:"max_bytes" yaml:"max_bytes"`
}

type UploadConfig struct {
	MaxBytes int64 `toml:"max_bytes" yaml:"max_bytes"`
}

// CacheConfig enables the redis blob cache when RedisAddr is set.
type CacheConfig struct {
	RedisAddr  string `toml:"redis_addr" yaml:"redis_addr"`
	TTLSeconds int    `toml:"ttl_seconds" yaml:"ttl_seconds"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Pretty bool   `toml:"pretty" yaml:"pretty"`
}

// Config defines runtime configuration for the postboard server.
type Config struct {
	Addr     string         `toml:"addr" yaml:"addr"`
	Database DatabaseConfig `toml:"database" yaml:"database"`
	Avatar   AvatarConfig   `toml:"avatar" yaml:"avatar"`
	Upload   UploadConfig   `toml:"upload" yaml:"upload"`
	Cache    CacheConfig    `toml:"cache" yaml:"cache"`
	Log      LogConfig      `toml:"log" yaml:"log"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		Addr: DefaultAddr,
		Database: DatabaseConfig{
			Driver: DefaultDriver,
		},
		Avatar: AvatarConfig{
			TimeoutSeconds: DefaultAvatarTimeout,
			MaxBytes:       DefaultAvatarMaxBytes,
		},
		Upload: UploadConfig{
			MaxBytes: DefaultUploadMaxBytes,
		},
		Cache: CacheConfig{
			TTLSeconds: DefaultCacheTTLSeconds,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Load builds a Config from defaults, the optional file at path and the
// environment, in that order. A named file that does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}

	return nil
}

func applyEnv(cfg *Config) {
	setFromEnv(addrEnvKey, &cfg.Addr)
	setFromEnv(driverEnvKey, &cfg.Database.Driver)
	setFromEnv(sqlitePathEnvKey, &cfg.Database.Path)
	setFromEnv(postgresDSNEnvKey, &cfg.Database.DSN)
	setFromEnv(redisAddrEnvKey, &cfg.Cache.RedisAddr)
	setFromEnv(logLevelEnvKey, &cfg.Log.Level)
}

func setFromEnv(key string, dst *string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}

	switch c.Database.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	if c.Avatar.TimeoutSeconds <= 0 {
		return fmt.Errorf("avatar.timeout_seconds must be positive, got %d", c.Avatar.TimeoutSeconds)
	}
	if c.Avatar.MaxBytes <= 0 {
		return fmt.Errorf("avatar.max_bytes must be positive, got %d", c.Avatar.MaxBytes)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.max_bytes must be positive, got %d", c.Upload.MaxBytes)
	}
	if c.Cache.RedisAddr != "" && c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache.ttl_seconds must be positive, got %d", c.Cache.TTLSeconds)
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}

	return nil
}

func (c *Config) AvatarTimeout() time.Duration {
	return time.Duration(c.Avatar.TimeoutSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
