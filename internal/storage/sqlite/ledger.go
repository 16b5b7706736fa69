package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/pennybot/internal/core"
	"github.com/sandevgo/pennybot/pkg/log"
)

// Ledger is the expense repository. Records are keyed by their creation
// instant in unix milliseconds, so newest-first ordering is just id DESC.
type Ledger struct {
	db *sql.DB
}

var _ core.Ledger = (*Ledger)(nil)

func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) List(ctx context.Context) ([]core.ExpenseRecord, error) {
	query := `SELECT id, date, time, amount, category, note FROM expenses ORDER BY id DESC`

	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var records []core.ExpenseRecord
	for rows.Next() {
		var rec core.ExpenseRecord
		var tm, note sql.NullString

		if err := rows.Scan(&rec.ID, &rec.Date, &tm, &rec.Amount, &rec.Category, &note); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		rec.Time = tm.String
		rec.Note = note.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Int("count", len(records)).Msg("loaded expenses")
	return records, nil
}

func (l *Ledger) InsertFront(ctx context.Context, rec core.ExpenseRecord) error {
	query := `INSERT INTO expenses (id, date, time, amount, category, note) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := l.db.ExecContext(ctx, query, rec.ID, rec.Date, rec.Time, rec.Amount, rec.Category, rec.Note)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

func (l *Ledger) Delete(ctx context.Context, id int64) error {
	_, err := l.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}
