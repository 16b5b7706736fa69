package chat

import (
	"context"
	"sync"
	"time"

	"github.com/sandevgo/pennybot/internal/core"
	"github.com/sandevgo/pennybot/pkg/log"
)

// History is the bounded, ordered log of exchanged turns, oldest first.
// Appending never fails: persistence problems are logged and absorbed so a
// flaky store can never block the conversation.
type History struct {
	mu        sync.Mutex
	sessionID string
	limit     int
	store     core.HistoryStore
	msgs      []core.ChatMessage
}

func NewHistory(sessionID string, limit int, store core.HistoryStore) *History {
	if limit < 1 {
		limit = 1
	}
	return &History{
		sessionID: sessionID,
		limit:     limit,
		store:     store,
	}
}

// Load replaces the buffer with the persisted history. A corrupt or
// unreadable payload resets to empty rather than propagating.
func (h *History) Load(ctx context.Context) {
	if h.store == nil {
		return
	}
	msgs, err := h.store.Load(ctx, h.sessionID)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to load chat history, starting empty")
		msgs = nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = msgs
	h.trim()
}

// Append records one turn and schedules a persistence write of the trimmed
// tail.
func (h *History) Append(ctx context.Context, sender, content string) {
	h.mu.Lock()
	h.msgs = append(h.msgs, core.ChatMessage{
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	h.trim()
	snapshot := make([]core.ChatMessage, len(h.msgs))
	copy(snapshot, h.msgs)
	h.mu.Unlock()

	h.persist(ctx, snapshot)
}

// ContextWindow returns up to max trailing messages EXCLUDING the most recent
// one, converted to the wire shape. The excluded turn is the message being
// answered; it travels to the model separately as the current prompt.
func (h *History) ContextWindow(max int) []core.Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	if max <= 0 || len(h.msgs) <= 1 {
		return nil
	}

	prior := h.msgs[:len(h.msgs)-1]
	if len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	window := make([]core.Message, 0, len(prior))
	for _, msg := range prior {
		role := core.RoleAssistant
		if msg.Sender == core.RoleUser {
			role = core.RoleUser
		}
		window = append(window, core.Message{Role: role, Content: msg.Content})
	}
	return window
}

// Messages returns a copy of the retained log, oldest first.
func (h *History) Messages() []core.ChatMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]core.ChatMessage, len(h.msgs))
	copy(out, h.msgs)
	return out
}

// LastUserMessage returns the content of the most recent user turn, or "".
func (h *History) LastUserMessage() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.msgs) - 1; i >= 0; i-- {
		if h.msgs[i].Sender == core.RoleUser {
			return h.msgs[i].Content
		}
	}
	return ""
}

// Clear drops the buffer and the persisted payload.
func (h *History) Clear(ctx context.Context) {
	h.mu.Lock()
	h.msgs = nil
	h.mu.Unlock()

	if h.store == nil {
		return
	}
	if err := h.store.Clear(ctx, h.sessionID); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to clear persisted chat history")
	}
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.msgs)
}

// trim drops from the oldest end; callers hold the lock.
func (h *History) trim() {
	if len(h.msgs) > h.limit {
		h.msgs = h.msgs[len(h.msgs)-h.limit:]
	}
}

func (h *History) persist(ctx context.Context, snapshot []core.ChatMessage) {
	if h.store == nil {
		return
	}
	if err := h.store.Save(ctx, h.sessionID, snapshot); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to persist chat history")
	}
}
