// Package sqlite persists session slots in a local SQLite file so a console
// login survives between clinicctl invocations.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/clinic/pkg/session"
	_ "modernc.org/sqlite"
)

type Store struct {
	db    *sql.DB
	q     *queries
	dsn   string
	slots session.Slots
}

var _ session.Store = (*Store)(nil)

// NewStore opens dsn and applies pending migrations. namespace selects the
// slot names (session.DefaultNamespace when empty).
func NewStore(dsn, namespace string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// A single connection keeps ":memory:" databases shared and serialises
	// writers, which SQLite does anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{
		db:    db,
		q:     &queries{db: db},
		dsn:   dsn,
		slots: session.SlotsFor(namespace),
	}

	if err := s.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply session migrations: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Slots returns the slot names this store writes.
func (s *Store) Slots() session.Slots { return s.slots }

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(q *queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(&queries{db: tx}); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) SetSession(ctx context.Context, sess session.Session) error {
	kv, err := session.Encode(s.slots, sess)
	if err != nil {
		return err
	}

	return s.WithTx(ctx, func(q *queries) error {
		for _, name := range s.slots.All() {
			if err := q.UpsertSlot(ctx, name, kv[name]); err != nil {
				return fmt.Errorf("failed to set slot[%s]: %w", name, err)
			}
		}
		return nil
	})
}

func (s *Store) AccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, s.slots.AccessToken)
}

func (s *Store) RefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, s.slots.RefreshToken)
}

func (s *Store) User(ctx context.Context) (*session.User, error) {
	raw, err := s.get(ctx, s.slots.User)
	if err != nil {
		return nil, err
	}
	return session.DecodeUser(raw)
}

func (s *Store) Clear(ctx context.Context) error {
	return s.WithTx(ctx, func(q *queries) error {
		for _, name := range s.slots.All() {
			if err := q.DeleteSlot(ctx, name); err != nil {
				return fmt.Errorf("failed to clear slot[%s]: %w", name, err)
			}
		}
		return nil
	})
}

// get returns "" for a missing slot.
func (s *Store) get(ctx context.Context, name string) (string, error) {
	v, err := s.q.GetSlot(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get slot[%s]: %w", name, err)
	}
	return v, nil
}
