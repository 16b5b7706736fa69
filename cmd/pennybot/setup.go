package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sandevgo/pennybot/internal/config"
	"github.com/sandevgo/pennybot/internal/providers/llm"
	"github.com/sandevgo/pennybot/internal/service/advice"
	"github.com/sandevgo/pennybot/internal/service/chat"
	"github.com/sandevgo/pennybot/internal/storage/sqlite"
	"github.com/sandevgo/pennybot/internal/transport/cli"
	"github.com/sandevgo/pennybot/internal/transport/telegram"
	"github.com/sandevgo/pennybot/pkg/log"
	"github.com/sandevgo/pennybot/pkg/srv"
)

// sessionID identifies the single local conversation. All transports share
// one assistant and one history, so switching between CLI and Telegram keeps
// the same thread.
const sessionID = "local"

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	fwCfg := config.NewFireworksConfig(ctx)

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	ledger := sqlite.NewLedger(db)
	historyStore := sqlite.NewHistoryStore(db)

	// 3. AI Provider
	aiProvider := llm.NewFireworks(fwCfg)

	// 4. Conversation state
	history := chat.NewHistory(sessionID, appCfg.HistoryLimit, historyStore)
	history.Load(ctx)

	// 5. Assistant
	advisor := advice.NewAdvisor(aiProvider)
	assistant := chat.NewAssistant(aiProvider, ledger, advisor, history, appCfg.ContextWindowSize)

	// 6. Transports
	transports, err := initTransports(ctx, appCfg, assistant)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	services = append(services, transports...)

	return services
}

func initTransports(ctx context.Context, cfg *config.AppConfig, assistant *chat.Assistant) ([]srv.Service, error) {
	var services []srv.Service

	// Telegram Bot
	if cfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, assistant)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	// Interactive terminal
	if cfg.EnableCLI {
		rl, err := cli.NewReadLine(assistant, cfg)
		if err != nil {
			return nil, err
		}
		services = append(services, rl)
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
