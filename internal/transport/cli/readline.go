package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sandevgo/pennybot/internal/config"
	"github.com/sandevgo/pennybot/internal/service/chat"
	"github.com/sandevgo/pennybot/internal/service/ui"
	"github.com/sandevgo/pennybot/pkg/log"
)

type ReadLine struct {
	cfg       *config.AppConfig
	assistant *chat.Assistant
	rl        *readline.Instance
}

func NewReadLine(assistant *chat.Assistant, cfg *config.AppConfig) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ui.PromptStyle.Render(">>> "),
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg:       cfg,
		assistant: assistant,
		rl:        rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("ReadLine chat started. Type 'exit' to quit, '/clear' to reset history.")

	if r.assistant.History().Len() == 0 {
		fmt.Fprintln(r.rl.Stdout(), ui.ReplyStyle.Render(chat.WelcomeMessage))
	}

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "/clear" {
			r.assistant.History().Clear(ctx)
			fmt.Fprintln(r.rl.Stdout(), ui.NoticeStyle.Render("Conversation history cleared."))
			continue
		}
		if line == "" {
			continue
		}

		reply, err := r.assistant.Send(ctx, line)
		if errors.Is(err, chat.ErrRequestInFlight) {
			fmt.Fprintln(r.rl.Stdout(), ui.NoticeStyle.Render("Still working on the previous message, try again in a moment."))
			continue
		}
		if err != nil {
			logger.Error().Err(err).Msg("assistant send failed")
			fmt.Fprintf(r.rl.Stdout(), "Error: %v\n", err)
			continue
		}
		if reply != "" {
			fmt.Fprintln(r.rl.Stdout(), ui.ReplyStyle.Render(reply))
		}
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
