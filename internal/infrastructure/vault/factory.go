package vault

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Bingusala/rosy-glow/internal/core/ports"
	"github.com/Bingusala/rosy-glow/internal/infrastructure/config"
)

// Open builds the session vault selected by configuration.
func Open(ctx context.Context, cfg config.VaultConfig, log zerolog.Logger) (ports.SessionVault, error) {
	switch cfg.Backend {
	case "file", "":
		return NewFile(cfg.File.Path, log)
	case "redis":
		return NewRedis(ctx, RedisConfig{
			Addr:   cfg.Redis.Addr,
			DB:     cfg.Redis.DB,
			Prefix: cfg.Redis.Prefix,
		}, log)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown session vault backend %q", cfg.Backend)
	}
}
