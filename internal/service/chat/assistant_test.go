package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/pennybot/internal/core"
	"github.com/sandevgo/pennybot/internal/service/advice"
)

type scriptedCompleter struct {
	mu       sync.Mutex
	reply    string
	err      error
	gotSys   string
	gotCtx   []core.Message
	gotUser  string
	started  chan struct{}
	release  chan struct{}
	numCalls int
}

func (c *scriptedCompleter) Complete(_ context.Context, system string, contextMsgs []core.Message, user string) (string, error) {
	c.mu.Lock()
	c.numCalls++
	c.gotSys = system
	c.gotCtx = contextMsgs
	c.gotUser = user
	started := c.started
	release := c.release
	c.mu.Unlock()

	if started != nil {
		close(started)
	}
	if release != nil {
		<-release
	}
	return c.reply, c.err
}

type memLedger struct {
	mu      sync.Mutex
	records []core.ExpenseRecord
	listErr error
}

func (l *memLedger) List(context.Context) ([]core.ExpenseRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listErr != nil {
		return nil, l.listErr
	}
	out := make([]core.ExpenseRecord, len(l.records))
	copy(out, l.records)
	return out, nil
}

func (l *memLedger) InsertFront(_ context.Context, rec core.ExpenseRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append([]core.ExpenseRecord{rec}, l.records...)
	return nil
}

func (l *memLedger) Delete(_ context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, rec := range l.records {
		if rec.ID == id {
			l.records = append(l.records[:i], l.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func newTestAssistant(ai core.Completer, ledger core.Ledger) *Assistant {
	history := NewHistory("test", 30, nil)
	return NewAssistant(ai, ledger, advice.NewAdvisor(ai), history, 5)
}

func TestSendRecordsExpense(t *testing.T) {
	ai := &scriptedCompleter{reply: `{"intent": "expense_log", "category": "Food & Beverage", "amount": 3.5, "note": "latte"}`}
	ledger := &memLedger{}
	a := newTestAssistant(ai, ledger)

	reply, err := a.Send(context.Background(), "bought a latte for 3.5$")
	require.NoError(t, err)

	assert.Equal(t, "Expense recorded: Food & Beverage - 3.5$", reply)
	require.Len(t, ledger.records, 1)
	assert.Equal(t, "3.5", ledger.records[0].Amount)
	assert.Equal(t, "latte", ledger.records[0].Note)
	assert.NotZero(t, ledger.records[0].ID)
}

func TestSendExpenseLogUsesResolvedTime(t *testing.T) {
	ai := &scriptedCompleter{reply: `{"intent": "expense_log", "category": "Bills", "amount": 120, "time_resolved": "2025-10-23T14:30:00+02:00"}`}
	ledger := &memLedger{}
	a := newTestAssistant(ai, ledger)

	_, err := a.Send(context.Background(), "paid electricity yesterday afternoon")
	require.NoError(t, err)

	require.Len(t, ledger.records, 1)
	assert.Equal(t, "2025-10-23", ledger.records[0].Date)
	assert.Equal(t, "12:30", ledger.records[0].Time, "resolved time is normalized to UTC")
}

func TestSendExpenseLogMissingFields(t *testing.T) {
	ai := &scriptedCompleter{reply: `{"intent": "expense_log", "category": "Bills"}`}
	ledger := &memLedger{}
	a := newTestAssistant(ai, ledger)

	reply, err := a.Send(context.Background(), "paid a bill")
	require.NoError(t, err)

	assert.Equal(t, "I need information about the expense category and amount to record.", reply)
	assert.Empty(t, ledger.records, "nothing is written without category and amount")
}

func TestSendExpenseLogWithoutLedger(t *testing.T) {
	ai := &scriptedCompleter{reply: `{"intent": "expense_log", "category": "Bills", "amount": 10}`}
	a := newTestAssistant(ai, nil)

	reply, err := a.Send(context.Background(), "paid 10$")
	require.NoError(t, err)
	assert.Equal(t, "Cannot connect to expense management system.", reply)
}

func TestSendSummary(t *testing.T) {
	ai := &scriptedCompleter{reply: `{"intent": "expense_summary", "time_start": "2025-10-01T00:00:00+00:00", "time_end": "2025-10-31T23:59:59+00:00"}`}
	ledger := &memLedger{records: []core.ExpenseRecord{
		{ID: 1, Date: "2025-10-05", Amount: "10", Category: "Food & Beverage"},
		{ID: 2, Date: "2025-10-12", Amount: "20", Category: "Bills"},
		{ID: 3, Date: "2025-11-02", Amount: "99", Category: "Bills"},
	}}
	a := newTestAssistant(ai, ledger)

	reply, err := a.Send(context.Background(), "total this month?")
	require.NoError(t, err)
	assert.Equal(t, "Total expenses: 30$ (2 transactions)", reply)
}

func TestSendSummaryIgnoresLoneBound(t *testing.T) {
	ai := &scriptedCompleter{reply: `{"intent": "expense_summary", "time_start": "2025-10-01T00:00:00+00:00"}`}
	ledger := &memLedger{records: []core.ExpenseRecord{
		{ID: 1, Date: "2025-09-05", Amount: "10", Category: "Bills"},
		{ID: 2, Date: "2025-10-12", Amount: "20", Category: "Bills"},
	}}
	a := newTestAssistant(ai, ledger)

	reply, err := a.Send(context.Background(), "expenses since october")
	require.NoError(t, err)
	assert.Equal(t, "Total expenses: 30$ (2 transactions)", reply, "a single bound does not filter")
}

func TestSendSummaryEmpty(t *testing.T) {
	ai := &scriptedCompleter{reply: `{"intent": "expense_summary"}`}
	a := newTestAssistant(ai, &memLedger{})

	reply, err := a.Send(context.Background(), "total expenses?")
	require.NoError(t, err)
	assert.Equal(t, "No expenses found in this time period.", reply)
}

func TestSendQueryByCategory(t *testing.T) {
	ai := &scriptedCompleter{reply: `{"intent": "expense_query_by_category", "category": "Food"}`}
	ledger := &memLedger{records: []core.ExpenseRecord{
		{ID: 1, Date: "2025-10-05", Amount: "10", Category: "Food & Beverage"},
		{ID: 2, Date: "2025-10-12", Amount: "20", Category: "Bills"},
		{ID: 3, Date: "2025-10-13", Amount: "5.25", Category: "Food & Beverage"},
	}}
	a := newTestAssistant(ai, ledger)

	reply, err := a.Send(context.Background(), "how much on food?")
	require.NoError(t, err)
	assert.Equal(t, `Expenses for "Food": 15.25$ (2 transactions)`, reply)
}

func TestSendQueryByCategoryMissingCategory(t *testing.T) {
	ai := &scriptedCompleter{reply: `{"intent": "expense_query_by_category"}`}
	a := newTestAssistant(ai, &memLedger{})

	reply, err := a.Send(context.Background(), "show by category")
	require.NoError(t, err)
	assert.Equal(t, "What category would you like to view expenses for?", reply)
}

func TestSendQueryByCategoryNoMatches(t *testing.T) {
	ai := &scriptedCompleter{reply: `{"intent": "expense_query_by_category", "category": "Pets"}`}
	ledger := &memLedger{records: []core.ExpenseRecord{
		{ID: 1, Date: "2025-10-05", Amount: "10", Category: "Bills"},
	}}
	a := newTestAssistant(ai, ledger)

	reply, err := a.Send(context.Background(), "pet spending?")
	require.NoError(t, err)
	assert.Equal(t, `No expenses found for category "Pets".`, reply)
}

func TestSendGreeting(t *testing.T) {
	ai := &scriptedCompleter{reply: `{"intent": "greeting"}`}
	a := newTestAssistant(ai, &memLedger{})

	reply, err := a.Send(context.Background(), "hi there")
	require.NoError(t, err)
	assert.Contains(t, reply, "I'm Penny, your financial assistant")
}

func TestSendUnknownIntentFallsBackToGreeting(t *testing.T) {
	ai := &scriptedCompleter{reply: `{"intent": "weather_report"}`}
	a := newTestAssistant(ai, &memLedger{})

	reply, err := a.Send(context.Background(), "what's the weather?")
	require.NoError(t, err)
	assert.Equal(t, msgGreeting, reply)
}

func TestSendCompleterFailureIsDefaultReply(t *testing.T) {
	ai := &scriptedCompleter{err: errors.New("connection refused")}
	a := newTestAssistant(ai, &memLedger{})

	reply, err := a.Send(context.Background(), "record 5$ coffee")
	require.NoError(t, err, "provider failures never surface as errors")
	assert.Equal(t, msgDefault, reply)
}

func TestSendUnparsableReplyIsDefaultReply(t *testing.T) {
	ai := &scriptedCompleter{reply: "sure, I recorded that for you!"}
	a := newTestAssistant(ai, &memLedger{})

	reply, err := a.Send(context.Background(), "coffee 5$")
	require.NoError(t, err)
	assert.Equal(t, msgDefault, reply)
}

func TestSendAdviceWithoutLedger(t *testing.T) {
	ai := &scriptedCompleter{reply: `{"intent": "financial_advice", "advice_type": "general_advice"}`}
	a := newTestAssistant(ai, nil)

	reply, err := a.Send(context.Background(), "how can I save money?")
	require.NoError(t, err)
	assert.Equal(t, msgAdviceUnavailable, reply)
}

func TestSendEmptyInput(t *testing.T) {
	ai := &scriptedCompleter{}
	a := newTestAssistant(ai, &memLedger{})

	reply, err := a.Send(context.Background(), "   \n\t ")
	require.NoError(t, err)
	assert.Equal(t, "", reply)
	assert.Equal(t, 0, ai.numCalls)
	assert.Equal(t, 0, a.history.Len())
}

func TestSendRejectsConcurrentRequest(t *testing.T) {
	ai := &scriptedCompleter{
		reply:   `{"intent": "greeting"}`,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	a := newTestAssistant(ai, &memLedger{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := a.Send(context.Background(), "hello")
		assert.NoError(t, err)
	}()

	<-ai.started
	_, err := a.Send(context.Background(), "hello again")
	assert.ErrorIs(t, err, ErrRequestInFlight)

	close(ai.release)
	<-done

	// the rejected message left no trace
	msgs := a.history.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Content)
}

func TestSendAppendsBothTurns(t *testing.T) {
	ai := &scriptedCompleter{reply: `{"intent": "greeting"}`}
	a := newTestAssistant(ai, &memLedger{})

	_, err := a.Send(context.Background(), "hi")
	require.NoError(t, err)

	msgs := a.history.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, core.RoleUser, msgs[0].Sender)
	assert.Equal(t, core.RoleAssistant, msgs[1].Sender)
}

func TestSendContextWindowExcludesCurrentPrompt(t *testing.T) {
	ai := &scriptedCompleter{reply: `{"intent": "greeting"}`}
	a := newTestAssistant(ai, &memLedger{})

	_, err := a.Send(context.Background(), "first")
	require.NoError(t, err)
	_, err = a.Send(context.Background(), "second")
	require.NoError(t, err)

	require.Len(t, ai.gotCtx, 2, "prior user turn and reply only")
	assert.Equal(t, "first", ai.gotCtx[0].Content)
	assert.Contains(t, ai.gotUser, `"""second"""`)
}

func TestSendFixedClock(t *testing.T) {
	ai := &scriptedCompleter{reply: `{"intent": "expense_log", "category": "Others", "amount": 1}`}
	ledger := &memLedger{}
	a := newTestAssistant(ai, ledger)
	fixed := time.Date(2025, 10, 24, 8, 15, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }

	_, err := a.Send(context.Background(), "misc 1$")
	require.NoError(t, err)

	require.Len(t, ledger.records, 1)
	assert.Equal(t, fixed.UnixMilli(), ledger.records[0].ID)
	assert.Equal(t, "2025-10-24", ledger.records[0].Date)
	assert.Equal(t, "08:15", ledger.records[0].Time)
	assert.Contains(t, ai.gotUser, "2025-10-24T08:15:00Z")
}
