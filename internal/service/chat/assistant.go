// Package chat implements the conversational intent pipeline: the bounded
// history buffer, the response parser and the assistant that routes classified
// intents to their handlers.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sandevgo/pennybot/internal/core"
	"github.com/sandevgo/pennybot/internal/service/advice"
	"github.com/sandevgo/pennybot/internal/service/prompt"
	"github.com/sandevgo/pennybot/pkg/log"
)

// ErrRequestInFlight is returned when a send arrives while a previous one is
// still being processed. The policy is reject, not queue: transports drop the
// message and let the user resend.
var ErrRequestInFlight = errors.New("a request is already being processed")

type Assistant struct {
	ai          core.Completer
	ledger      core.Ledger
	advisor     *advice.Advisor
	history     *History
	contextSize int

	// single-slot request token; guards against re-entrant submission
	busy atomic.Bool

	now func() time.Time
}

func NewAssistant(ai core.Completer, ledger core.Ledger, advisor *advice.Advisor, history *History, contextSize int) *Assistant {
	return &Assistant{
		ai:          ai,
		ledger:      ledger,
		advisor:     advisor,
		history:     history,
		contextSize: contextSize,
		now:         time.Now,
	}
}

// Send runs one full turn: append the user message, classify it, dispatch the
// intent, append and return the reply. Only one turn may be in flight; a
// concurrent call gets ErrRequestInFlight and causes no side effects.
func (a *Assistant) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	if !a.busy.CompareAndSwap(false, true) {
		return "", ErrRequestInFlight
	}
	defer a.busy.Store(false)

	a.history.Append(ctx, core.RoleUser, text)

	result := a.detectIntent(ctx, text)
	log.FromCtx(ctx).Debug().Str("intent", string(result.Intent)).Msg("intent classified")

	reply := a.dispatch(ctx, result)

	a.history.Append(ctx, core.RoleAssistant, reply)
	return reply, nil
}

// History exposes the buffer for transports (welcome rendering, clearing).
func (a *Assistant) History() *History {
	return a.history
}

func (a *Assistant) detectIntent(ctx context.Context, text string) core.IntentResult {
	window := a.history.ContextWindow(a.contextSize)
	userPrompt := prompt.IntentUserPrompt(a.now(), text)

	reply, err := a.ai.Complete(ctx, prompt.SystemIntentDetection, window, userPrompt)
	if err != nil {
		// fail soft: no information is the same as an unclassifiable message
		log.FromCtx(ctx).Error().Err(err).Msg("intent detection failed")
		return core.IntentResult{Intent: core.IntentOther}
	}
	return ParseIntent(reply)
}

// dispatch routes a classified intent to its handler. The switch is
// exhaustive over the six tags; anything unknown or missing falls back to the
// greeting handler as a permissive default.
func (a *Assistant) dispatch(ctx context.Context, result core.IntentResult) string {
	switch result.Intent {
	case core.IntentExpenseLog:
		return a.handleExpenseLog(ctx, result)
	case core.IntentExpenseSummary:
		return a.handleExpenseSummary(ctx, result)
	case core.IntentQueryByCategory:
		return a.handleQueryByCategory(ctx, result)
	case core.IntentFinancialAdvice:
		return a.handleFinancialAdvice(ctx, result)
	case core.IntentGreeting:
		return a.handleGreeting()
	case core.IntentOther:
		return a.handleDefault()
	default:
		return a.handleGreeting()
	}
}
