package core

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PennyName    = "PennyBot"
	PennyVersion = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is the wire shape sent to the chat completions endpoint.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatMessage is one turn of the local conversation log. Immutable once
// created; the history buffer only ever appends and trims from the oldest end.
type ChatMessage struct {
	Sender    string    `json:"sender"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Intent tags the classified purpose of a user utterance.
type Intent string

const (
	IntentExpenseLog      Intent = "expense_log"
	IntentExpenseSummary  Intent = "expense_summary"
	IntentQueryByCategory Intent = "expense_query_by_category"
	IntentFinancialAdvice Intent = "financial_advice"
	IntentGreeting        Intent = "greeting"
	IntentOther           Intent = "other"
)

const (
	AdviceSpendingAnalysis = "spending_analysis"
	AdviceGeneral          = "general_advice"
)

// IntentResult is the sole contract between the classifier and the
// dispatcher. Every field except Intent is nullable; a reply that cannot be
// parsed still resolves to {Intent: "other"}, never to an error.
type IntentResult struct {
	Intent       Intent           `json:"intent"`
	Category     *string          `json:"category"`
	Amount       *decimal.Decimal `json:"amount"`
	TimeText     *string          `json:"time_text"`
	TimeResolved *string          `json:"time_resolved"`
	TimeStart    *string          `json:"time_start"`
	TimeEnd      *string          `json:"time_end"`
	Note         *string          `json:"note"`
	AdviceType   *string          `json:"advice_type"`
}

// ExpenseRecord is one ledger entry. ID is the creation instant in unix
// milliseconds, which keeps ids monotonic without coordination. Amount is
// kept as the decimal string the record was created with; aggregation coerces
// anything unparsable to zero instead of failing.
type ExpenseRecord struct {
	ID       int64  `json:"id"`
	Date     string `json:"date"` // YYYY-MM-DD, UTC
	Time     string `json:"time"` // HH:MM, UTC
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Note     string `json:"note,omitempty"`
}

// Categories is the closed set of spending labels the classifier maps
// descriptions onto. Anything it cannot place lands in "Others".
var Categories = []string{
	"Food & Beverage",
	"Transportation",
	"Rentals",
	"Bills",
	"Education",
	"Insurances",
	"Pets",
	"Home Services",
	"Fitness",
	"Makeup",
	"Gifts & Donations",
	"Investment",
	"Others",
}

// ParseAmount reads a stored amount, coercing unparsable values to zero.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// RecordDate resolves a record's calendar date as a UTC midnight instant.
// Malformed dates return the zero time.
func RecordDate(r ExpenseRecord) time.Time {
	t, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}
