package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the storefront client configuration, loaded from the
// environment.
type Config struct {
	BaseURL  string        `env:"STORE_BASE_URL, default=http://localhost:8080"`
	Timeout  time.Duration `env:"STORE_TIMEOUT,  default=15s"`
	Env      string        `env:"ENV,            default=development"`
	LogLevel string        `env:"LOG_LEVEL,      default=info"`

	Vault VaultConfig
}

// VaultConfig selects and configures the session persistence backend.
type VaultConfig struct {
	// Backend is one of "file", "redis" or "memory".
	Backend string `env:"SESSION_VAULT, default=file"`

	File  FileVaultConfig
	Redis RedisVaultConfig
}

type FileVaultConfig struct {
	// Path of the session document. Empty means a "session.json" under the
	// user config dir, resolved by the vault itself.
	Path string `env:"SESSION_FILE"`
}

type RedisVaultConfig struct {
	Addr   string `env:"REDIS_ADDR,   default=localhost:6379"`
	DB     int    `env:"REDIS_DB,     default=0"`
	Prefix string `env:"REDIS_PREFIX, default=rosyglow:session:"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
