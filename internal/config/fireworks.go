package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/pennybot/pkg/log"
)

// FireworksConfig holds the credential and model for the classification
// endpoint. The key is deliberately not required: with no key configured the
// request is still attempted and fails at the API's auth layer, keeping
// validation centralized at that boundary.
type FireworksConfig struct {
	APIKey  string `env:"FIREWORKS_API_KEY"`
	Model   string `env:"FIREWORKS_MODEL" envDefault:"accounts/sentientfoundation/models/dobby-unhinged-llama-3-3-70b-new"`
	BaseURL string `env:"FIREWORKS_BASE_URL" envDefault:"https://api.fireworks.ai/inference"`
}

func NewFireworksConfig(ctx context.Context) *FireworksConfig {
	c := &FireworksConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Fireworks config")
	}
	return c
}
