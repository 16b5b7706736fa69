package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sandevgo/pennybot/internal/core"
	"github.com/sandevgo/pennybot/internal/service/advice"
	"github.com/sandevgo/pennybot/internal/service/analytics"
	"github.com/sandevgo/pennybot/pkg/log"
)

// WelcomeMessage is shown by transports when a conversation starts with no
// prior history.
const WelcomeMessage = "Hello! I'm Penny, your financial assistant. I can help you with:\n" +
	"- Expense analysis\n" +
	"- Financial advice\n" +
	"- Expense explanations\n" +
	"- Budget management support\n\n" +
	"Do you have any questions?"

const (
	msgLedgerUnavailable = "Cannot connect to expense management system."
	msgAdviceUnavailable = "I'd love to help with financial advice, but I need access to your expense data first. Please make sure the expense management system is available."
	msgGreeting          = "Hello! I'm Penny, your financial assistant. I can help you record expenses, view statistics, and manage your budget. What do you need help with?"
	msgDefault           = "I don't understand your request. You can ask me about expenses, financial statistics, or anything else you need help with?"
)

func (a *Assistant) handleExpenseLog(ctx context.Context, result core.IntentResult) string {
	if result.Category == nil || result.Amount == nil {
		return "I need information about the expense category and amount to record."
	}
	if a.ledger == nil {
		return msgLedgerUnavailable
	}

	when := a.now().UTC()
	if t := parseInstant(result.TimeResolved); t != nil {
		when = *t
	}

	rec := core.ExpenseRecord{
		ID:       a.now().UnixMilli(),
		Date:     when.Format("2006-01-02"),
		Time:     when.Format("15:04"),
		Amount:   result.Amount.String(),
		Category: *result.Category,
	}
	if result.Note != nil {
		rec.Note = *result.Note
	}

	if err := a.ledger.InsertFront(ctx, rec); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to record expense")
		return msgLedgerUnavailable
	}
	return fmt.Sprintf("Expense recorded: %s - %s$", rec.Category, rec.Amount)
}

func (a *Assistant) handleExpenseSummary(ctx context.Context, result core.IntentResult) string {
	if a.ledger == nil {
		return msgLedgerUnavailable
	}
	records, err := a.ledger.List(ctx)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to load expenses")
		return msgLedgerUnavailable
	}

	matched := filterRecords(records, result.TimeStart, result.TimeEnd, result.Category)
	if len(matched) == 0 {
		return "No expenses found in this time period."
	}
	return fmt.Sprintf("Total expenses: %s$ (%d transactions)", sumAmounts(matched), len(matched))
}

func (a *Assistant) handleQueryByCategory(ctx context.Context, result core.IntentResult) string {
	if a.ledger == nil {
		return msgLedgerUnavailable
	}
	if result.Category == nil {
		return "What category would you like to view expenses for?"
	}
	records, err := a.ledger.List(ctx)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to load expenses")
		return msgLedgerUnavailable
	}

	matched := filterRecords(records, result.TimeStart, result.TimeEnd, result.Category)
	if len(matched) == 0 {
		return fmt.Sprintf("No expenses found for category %q.", *result.Category)
	}
	return fmt.Sprintf("Expenses for %q: %s$ (%d transactions)", *result.Category, sumAmounts(matched), len(matched))
}

func (a *Assistant) handleFinancialAdvice(ctx context.Context, result core.IntentResult) string {
	if a.ledger == nil {
		return msgAdviceUnavailable
	}
	records, err := a.ledger.List(ctx)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to load expenses")
		return msgAdviceUnavailable
	}

	analysis := analytics.Analyze(records, parseInstant(result.TimeStart), parseInstant(result.TimeEnd))

	req := advice.Request{
		Analysis: analysis,
		Question: a.history.LastUserMessage(),
	}
	if result.AdviceType != nil {
		req.AdviceType = *result.AdviceType
	}
	if result.Category != nil {
		req.Category = *result.Category
	}
	return a.advisor.Generate(ctx, req, a.history.ContextWindow(a.contextSize))
}

func (a *Assistant) handleGreeting() string {
	return msgGreeting
}

func (a *Assistant) handleDefault() string {
	return msgDefault
}

// parseInstant turns an optional RFC3339 string into a UTC instant. Anything
// unparsable is treated as absent.
func parseInstant(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// filterRecords narrows records to the requested category and time window.
// The time filter applies only when both bounds are present; a lone bound is
// ignored. Category matching is a case-insensitive substring check.
func filterRecords(records []core.ExpenseRecord, startText, endText, category *string) []core.ExpenseRecord {
	start := parseInstant(startText)
	end := parseInstant(endText)

	var out []core.ExpenseRecord
	for _, rec := range records {
		if start != nil && end != nil {
			d := core.RecordDate(rec)
			if d.IsZero() || d.Before(*start) || d.After(*end) {
				continue
			}
		}
		if category != nil && !strings.Contains(strings.ToLower(rec.Category), strings.ToLower(*category)) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func sumAmounts(records []core.ExpenseRecord) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range records {
		total = total.Add(core.ParseAmount(rec.Amount))
	}
	return total
}
