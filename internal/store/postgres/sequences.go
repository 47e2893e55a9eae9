package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/pharmacy-inventory/internal/store"
)

// Counters live in the sequences table, one row per name and day. Allocation runs in
// a READ COMMITTED transaction: the row lock taken by the increment serializes
// creators of the same day, and a rollback of the caller's insert also rolls back
// the increment.
var sequenceTx = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

// Next increments the day's counter and runs fn with the new value in the same
// transaction.
func (s *Store) Next(ctx context.Context, key store.SequenceKey, seed store.SeedFunc, fn func(ctx context.Context, seq int) error) error {
	return s.inTx(ctx, sequenceTx, func(ctx context.Context) error {
		seq, err := s.increment(ctx, key)
		if errors.Is(err, pgx.ErrNoRows) {
			if err := s.ensureSequence(ctx, key, seed); err != nil {
				return err
			}
			seq, err = s.increment(ctx, key)
		}
		if err != nil {
			return fmt.Errorf("store/postgres: next %s/%s: %w", key.Name, key.Day, classify(err))
		}
		return fn(ctx, seq)
	})
}

// Claim locks the day's counter, runs fn, then lifts the counter to at least seq.
func (s *Store) Claim(ctx context.Context, key store.SequenceKey, seq int, seed store.SeedFunc, fn func(ctx context.Context) error) error {
	return s.inTx(ctx, sequenceTx, func(ctx context.Context) error {
		if err := s.ensureSequence(ctx, key, seed); err != nil {
			return err
		}
		q := s.conn(ctx)
		var current int
		err := q.QueryRow(ctx, `SELECT value FROM sequences WHERE name = $1 AND day = $2 FOR UPDATE`, key.Name, key.Day).Scan(&current)
		if err != nil {
			return fmt.Errorf("store/postgres: lock %s/%s: %w", key.Name, key.Day, classify(err))
		}
		if err := fn(ctx); err != nil {
			return err
		}
		if seq <= current {
			return nil
		}
		_, err = q.Exec(ctx, `UPDATE sequences SET value = $3 WHERE name = $1 AND day = $2`, key.Name, key.Day, seq)
		return classify(err)
	})
}

func (s *Store) increment(ctx context.Context, key store.SequenceKey) (int, error) {
	var seq int
	err := s.conn(ctx).QueryRow(ctx,
		`UPDATE sequences SET value = value + 1 WHERE name = $1 AND day = $2 RETURNING value`,
		key.Name, key.Day).Scan(&seq)
	return seq, err
}

// ensureSequence creates the day's row seeded from existing data. Concurrent
// creators race on the primary key and all but one insert nothing.
func (s *Store) ensureSequence(ctx context.Context, key store.SequenceKey, seed store.SeedFunc) error {
	start := 0
	if seed != nil {
		var err error
		if start, err = seed(ctx); err != nil {
			return err
		}
	}
	_, err := s.conn(ctx).Exec(ctx,
		`INSERT INTO sequences (name, day, value) VALUES ($1, $2, $3) ON CONFLICT (name, day) DO NOTHING`,
		key.Name, key.Day, start)
	if err != nil {
		return fmt.Errorf("store/postgres: seed %s/%s: %w", key.Name, key.Day, classify(err))
	}
	return nil
}
