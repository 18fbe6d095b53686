// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Pool    PoolConfig    `yaml:"pool"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Stream  StreamConfig  `yaml:"stream"`
}

type ServerConfig struct {
	Address        string        `yaml:"address"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

type PoolConfig struct {
	MaxIdle     int           `yaml:"max_idle"`
	MaxActive   int           `yaml:"max_active"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	Wait        bool          `yaml:"wait"`
	Retry       RetryConfig   `yaml:"retry"`
}

type RetryConfig struct {
	Attempts int           `yaml:"attempts"`
	Delay    time.Duration `yaml:"delay"`
	MaxDelay time.Duration `yaml:"max_delay"`
}

type StorageConfig struct {
	AOF AOFConfig `yaml:"aof"`
}

type AOFConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	// Sync is "always" or "everysec".
	Sync string `yaml:"sync"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StreamConfig holds defaults the CLI applies when a flag is not given.
type StreamConfig struct {
	Count       int64         `yaml:"count"`
	Block       time.Duration `yaml:"block"`
	Group       string        `yaml:"group"`
	Consumer    string        `yaml:"consumer"`
	MaxLen      int64         `yaml:"max_len"`
	Approximate bool          `yaml:"approximate"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:        "127.0.0.1:6379",
			ConnectTimeout: 5 * time.Second,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   5 * time.Second,
		},
		Pool: PoolConfig{
			MaxIdle:     4,
			MaxActive:   16,
			IdleTimeout: 4 * time.Minute,
			Wait:        true,
			Retry: RetryConfig{
				Attempts: 3,
				Delay:    100 * time.Millisecond,
				MaxDelay: 2 * time.Second,
			},
		},
		Storage: StorageConfig{
			AOF: AOFConfig{Path: "streamctl.aof", Sync: "everysec"},
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Stream: StreamConfig{
			Count:    10,
			Consumer: DefaultConsumer(),
		},
	}
}

// DefaultConsumer returns a fresh consumer name for group reads.
func DefaultConsumer() string {
	return "consumer-" + uuid.NewString()
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if cfg.Stream.Consumer == "" {
		cfg.Stream.Consumer = DefaultConsumer()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("%w: server.address is empty", ErrInvalidConfig)
	}
	if c.Pool.MaxIdle < 0 || c.Pool.MaxActive < 0 {
		return fmt.Errorf("%w: pool sizes must not be negative", ErrInvalidConfig)
	}
	if c.Pool.Retry.Attempts < 1 {
		return fmt.Errorf("%w: pool.retry.attempts must be at least 1", ErrInvalidConfig)
	}
	switch c.Storage.AOF.Sync {
	case "always", "everysec":
	default:
		return fmt.Errorf("%w: unknown storage.aof.sync %q", ErrInvalidConfig, c.Storage.AOF.Sync)
	}
	if c.Storage.AOF.Enabled && c.Storage.AOF.Path == "" {
		return fmt.Errorf("%w: storage.aof.path is empty", ErrInvalidConfig)
	}
	if c.Stream.MaxLen < 0 {
		return fmt.Errorf("%w: stream.max_len must not be negative", ErrInvalidConfig)
	}
	return nil
}
