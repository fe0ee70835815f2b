// Command mockstore serves the in-process backing store API for local
// development, seeded with an admin account and a small demo catalog.
package main

import (
	"context"
	"os"

	"github.com/sethvargo/go-envconfig"

	"github.com/Bingusala/rosy-glow/internal/mockapi"
	"github.com/Bingusala/rosy-glow/pkg/logger"
)

type config struct {
	Port      string `env:"PORT,       default=8080"`
	JWTSecret string `env:"JWT_SECRET, default=dev-secret"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
}

func main() {
	ctx := context.Background()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		fallback := logger.Init(logger.Options{})
		fallback.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	srv := mockapi.New(cfg.JWTSecret, log)
	srv.Store.Seed()

	log.Info().Str("port", cfg.Port).Msg("mock store listening")
	if err := srv.Echo.Start(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
