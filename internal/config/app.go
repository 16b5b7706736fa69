package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/pennybot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"PENNYBOT_RUNTIME_PATH" envDefault:".pennybot"`

	// Transport Flags
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"ENABLE_CLI" envDefault:"true"`

	// Conversation bounds: how many turns we retain, and how many of the
	// trailing ones are sent as grounding context to the classifier.
	HistoryLimit      int `env:"HISTORY_LIMIT" envDefault:"30"`
	ContextWindowSize int `env:"CONTEXT_WINDOW_SIZE" envDefault:"5"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "pennybot.db")
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}
