// Package advice turns an analytics result and a user question into a
// grounded advice-generation call against the model.
package advice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/pennybot/internal/core"
	"github.com/sandevgo/pennybot/internal/service/analytics"
	"github.com/sandevgo/pennybot/internal/service/prompt"
	"github.com/sandevgo/pennybot/pkg/log"
)

const (
	// fallback strings shown when the advice call fails or comes back empty
	transportFallback = "I'm having trouble connecting to provide financial advice. Please check your internet connection and try again."
	emptyReplyNotice  = "I'm sorry, I couldn't generate financial advice at the moment. Please try again."
)

type Advisor struct {
	ai core.Completer
}

func NewAdvisor(ai core.Completer) *Advisor {
	return &Advisor{ai: ai}
}

// Request carries everything the advisor needs for one generation.
type Request struct {
	Analysis   analytics.Result
	Question   string
	AdviceType string
	Category   string
}

// Generate renders the statistics block, composes the advice sequence and
// returns the model's text verbatim. Failures are absorbed here: any
// transport error or empty reply becomes a fixed fallback string.
func (a *Advisor) Generate(ctx context.Context, req Request, contextMsgs []core.Message) string {
	userPrompt := prompt.AdviceUserPrompt(
		FormatSpending(req.Analysis),
		req.Question,
		req.AdviceType,
		req.Category,
	)

	text, err := a.ai.Complete(ctx, prompt.SystemFinancialAdvisor, contextMsgs, userPrompt)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("advice generation failed")
		return transportFallback
	}
	if strings.TrimSpace(text) == "" {
		return emptyReplyNotice
	}
	return text
}

// FormatSpending renders an analytics result as the human-readable block the
// advisor grounds its reply on. When there is no data it says so explicitly
// instead of emitting zeros.
func FormatSpending(res analytics.Result) string {
	if !res.HasData {
		return "## No Spending Data Available\nI don't have access to your spending data yet. I'll provide general financial advice based on best practices."
	}

	var b strings.Builder
	b.WriteString("## Your Spending Analysis:\n")
	fmt.Fprintf(&b, "- **Total Expenses**: $%s (%d transactions)\n", res.TotalExpenses.String(), res.TransactionCount)
	fmt.Fprintf(&b, "- **Average Daily**: $%s\n", res.AverageDaily.StringFixed(2))
	fmt.Fprintf(&b, "- **Average Weekly**: $%s\n", res.AverageWeekly.StringFixed(2))
	fmt.Fprintf(&b, "- **Average Monthly**: $%s\n", res.AverageMonthly.StringFixed(2))

	b.WriteString("\n### Top Spending Categories:\n")
	for _, cat := range res.TopCategories {
		fmt.Fprintf(&b, "- **%s**: $%s (%s%% of total)\n", cat.Category, cat.Total.String(), cat.Percentage.String())
	}

	fmt.Fprintf(&b, "\n### Time Period: %s - %s\n",
		formatBound(res.TimeRange.Start, "All time"),
		formatBound(res.TimeRange.End, "Present"))
	return b.String()
}

func formatBound(t *time.Time, absent string) string {
	if t == nil {
		return absent
	}
	return t.UTC().Format("Jan 2, 2006")
}
