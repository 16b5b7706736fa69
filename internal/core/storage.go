package core

import "context"

// Ledger is the capability the pipeline receives for expense data. Records
// come back newest-first; InsertFront is the one permitted mutation from the
// intent pipeline.
type Ledger interface {
	List(ctx context.Context) ([]ExpenseRecord, error)
	InsertFront(ctx context.Context, rec ExpenseRecord) error
	Delete(ctx context.Context, id int64) error
}

// HistoryStore persists the bounded conversation log per session. Load must
// treat a corrupt payload as empty history rather than returning it as an
// error the caller would have to branch on.
type HistoryStore interface {
	Load(ctx context.Context, sessionID string) ([]ChatMessage, error)
	Save(ctx context.Context, sessionID string, msgs []ChatMessage) error
	Clear(ctx context.Context, sessionID string) error
}
