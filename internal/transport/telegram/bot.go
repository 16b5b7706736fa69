package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/pennybot/internal/config"
	"github.com/sandevgo/pennybot/internal/service/chat"
	"github.com/sandevgo/pennybot/pkg/log"
	"github.com/sandevgo/pennybot/pkg/retry"
)

const baseContextKey = "base_context"

type Bot struct {
	bot       *tele.Bot
	cfg       *config.TelegramConfig
	assistant *chat.Assistant
	ownerID   int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	assistant *chat.Assistant,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	// Bot creation talks to the Telegram API; retry transient failures so a
	// flaky network at startup does not kill the process.
	var b *tele.Bot
	err := retry.NewDefaultRetrier().Do(ctx, func() error {
		var err error
		b, err = tele.NewBot(pref)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:       b,
		cfg:       cfg,
		assistant: assistant,
		ownerID:   cfg.OwnerID,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: Only allow the owner
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender().ID != bot.ownerID {
				return nil // Ignore unauthorized users
			}
			return next(c)
		}
	})

	b.Handle("/start", bot.handleStart)
	b.Handle("/clear", bot.handleClear)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	reply, err := b.assistant.Send(ctx, c.Text())
	if errors.Is(err, chat.ErrRequestInFlight) {
		// A previous message is still processing; drop this one silently
		// rather than queueing it behind an unknown delay.
		logger.Debug().Msg("dropping message, request already in flight")
		return nil
	}
	if err != nil {
		logger.Error().Err(err).Msg("assistant send failed")
		return c.Send(fmt.Sprintf("error: %v", err))
	}
	if reply == "" {
		return nil
	}

	return newSender(b.bot).sendMarkdown(ctx, c.Chat(), reply, false)
}

func (b *Bot) handleStart(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	return newSender(b.bot).sendMarkdown(ctx, c.Chat(), chat.WelcomeMessage, false)
}

func (b *Bot) handleClear(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	b.assistant.History().Clear(ctx)
	return c.Send("Conversation history cleared.")
}
