package chat

import (
	"testing"

	"github.com/sandevgo/pennybot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		text       string
		wantIntent core.Intent
	}{
		{
			name:       "plain object",
			text:       `{"intent":"greeting"}`,
			wantIntent: core.IntentGreeting,
		},
		{
			name:       "fenced json block",
			text:       "```json\n{\"intent\":\"greeting\"}\n```",
			wantIntent: core.IntentGreeting,
		},
		{
			name:       "uppercase fence marker",
			text:       "```JSON\n{\"intent\":\"expense_summary\"}\n```",
			wantIntent: core.IntentExpenseSummary,
		},
		{
			name:       "object surrounded by chatter",
			text:       "Sure! Here you go: {\"intent\":\"greeting\"} Hope that helps.",
			wantIntent: core.IntentGreeting,
		},
		{
			name:       "first balanced object wins over trailing fragment",
			text:       `{"intent":"expense_log","amount":5} {"intent":"other"}`,
			wantIntent: core.IntentExpenseLog,
		},
		{
			name:       "braces inside strings do not confuse the scanner",
			text:       `{"intent":"expense_log","note":"dinner {fancy}","amount":12}`,
			wantIntent: core.IntentExpenseLog,
		},
		{
			name:       "empty input",
			text:       "",
			wantIntent: core.IntentOther,
		},
		{
			name:       "no object at all",
			text:       "I could not classify that message.",
			wantIntent: core.IntentOther,
		},
		{
			name:       "unterminated object",
			text:       `{"intent":"greeting"`,
			wantIntent: core.IntentOther,
		},
		{
			name:       "invalid json inside balanced braces",
			text:       `{intent: greeting}`,
			wantIntent: core.IntentOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseIntent(tt.text)
			assert.Equal(t, tt.wantIntent, got.Intent)
		})
	}
}

func TestParseIntent_FullPayload(t *testing.T) {
	t.Parallel()

	text := "```json\n" + `{
		"intent": "expense_log",
		"category": "Food & Beverage",
		"amount": 2.5,
		"time_text": "this morning",
		"time_resolved": "2025-10-24T08:00:00+00:00",
		"time_start": null,
		"time_end": null,
		"note": "coffee",
		"advice_type": null
	}` + "\n```"

	got := ParseIntent(text)
	assert.Equal(t, core.IntentExpenseLog, got.Intent)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Food & Beverage", *got.Category)
	require.NotNil(t, got.Amount)
	assert.Equal(t, "2.5", got.Amount.String())
	require.NotNil(t, got.TimeResolved)
	assert.Equal(t, "2025-10-24T08:00:00+00:00", *got.TimeResolved)
	require.NotNil(t, got.Note)
	assert.Equal(t, "coffee", *got.Note)
	assert.Nil(t, got.TimeStart)
	assert.Nil(t, got.TimeEnd)
	assert.Nil(t, got.AdviceType)
}

func TestParseIntent_FailureZeroesAllFields(t *testing.T) {
	t.Parallel()

	got := ParseIntent("garbage with no json")
	assert.Equal(t, core.IntentOther, got.Intent)
	assert.Nil(t, got.Category)
	assert.Nil(t, got.Amount)
	assert.Nil(t, got.TimeText)
	assert.Nil(t, got.TimeResolved)
	assert.Nil(t, got.TimeStart)
	assert.Nil(t, got.TimeEnd)
	assert.Nil(t, got.Note)
	assert.Nil(t, got.AdviceType)
}
