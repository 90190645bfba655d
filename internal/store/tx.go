package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Tx is a single store-level transaction. Every operation in the ops
// package runs inside exactly one Tx so that precondition checks and
// their dependent writes are atomic against concurrent operations.
//
// A Tx is not safe for concurrent use; it belongs to the goroutine
// that began it.
type Tx struct {
	tx *sql.Tx
}

// Begin starts a transaction. Transactions open as BEGIN IMMEDIATE
// (via the connection's txlock setting), so the write lock is taken up
// front.
//
// The store's single-connection pool plus the busy timeout pragma mean
// concurrent transactions from other goroutines or processes either
// serialize or fail with a busy error, which IsConflict recognizes.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Commit commits the transaction. A busy/locked failure here is a
// conflict; the caller retries the whole operation.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Rollback aborts the transaction. Safe to call after Commit (no-op).
func (t *Tx) Rollback() error {
	err := t.tx.Rollback()
	if err == sql.ErrTxDone {
		return nil
	}
	return err
}

// Timestamps are stored as RFC 3339 UTC text with a fixed nine-digit
// fractional second so lexical and chronological order agree. The
// scan queries compare and sort created_at as strings; a layout that
// trims trailing zeros (RFC3339Nano) would sort "00:00:00.5Z" before
// "00:00:00Z".
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func encodeTime(ts time.Time) string {
	return ts.UTC().Format(timeLayout)
}

func decodeTime(s string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode timestamp %q: %w", s, err)
	}
	return ts, nil
}
