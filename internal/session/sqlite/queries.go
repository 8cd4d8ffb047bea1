package sqlite

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type queries struct {
	db DBTX
}

const getSlot = `SELECT value FROM session_slots WHERE name = ?`

func (q *queries) GetSlot(ctx context.Context, name string) (string, error) {
	var value string
	err := q.db.QueryRowContext(ctx, getSlot, name).Scan(&value)
	return value, err
}

const upsertSlot = `
INSERT INTO session_slots (name, value, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(name) DO UPDATE SET
    value = excluded.value,
    updated_at = CURRENT_TIMESTAMP
`

func (q *queries) UpsertSlot(ctx context.Context, name, value string) error {
	_, err := q.db.ExecContext(ctx, upsertSlot, name, value)
	return err
}

const deleteSlot = `DELETE FROM session_slots WHERE name = ?`

func (q *queries) DeleteSlot(ctx context.Context, name string) error {
	_, err := q.db.ExecContext(ctx, deleteSlot, name)
	return err
}
