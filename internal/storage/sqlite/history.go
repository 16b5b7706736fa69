package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sandevgo/pennybot/internal/core"
	"github.com/sandevgo/pennybot/pkg/log"
)

// HistoryStore keeps one JSON payload per chat session. A payload that no
// longer unmarshals is treated as absent history, not an error.
type HistoryStore struct {
	db *sql.DB
}

var _ core.HistoryStore = (*HistoryStore)(nil)

func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

func (s *HistoryStore) Load(ctx context.Context, sessionID string) ([]core.ChatMessage, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM chat_history WHERE session_id = ?`, sessionID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}

	var msgs []core.ChatMessage
	if err := json.Unmarshal([]byte(payload), &msgs); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("session", sessionID).Msg("corrupt chat history payload, dropping")
		return nil, nil
	}
	return msgs, nil
}

func (s *HistoryStore) Save(ctx context.Context, sessionID string, msgs []core.ChatMessage) error {
	payload, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("failed to marshal chat history: %w", err)
	}

	query := `INSERT INTO chat_history (session_id, payload, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(session_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, sessionID, string(payload)); err != nil {
		return fmt.Errorf("failed to save chat history: %w", err)
	}
	return nil
}

func (s *HistoryStore) Clear(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chat_history WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to clear chat history: %w", err)
	}
	return nil
}
