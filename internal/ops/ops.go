package ops

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ordercore/internal/guard"
	"ordercore/internal/rules"
	"ordercore/internal/store"
)

// DefaultRetryAttempts bounds how many times a conflicted transaction
// is re-run before Conflict is surfaced to the caller.
const DefaultRetryAttempts = 3

// retryBackoff is the pause between conflict retries. Kept short: the
// store's own busy timeout already absorbs most contention.
const retryBackoff = 25 * time.Millisecond

// IDGenerator mints row identifiers.
// Implemented by UUIDv7Generator (production) and testutil.SequenceIDs (tests).
type IDGenerator interface {
	NewID() string
}

// UUIDv7Generator generates time-sortable UUIDv7 identifiers, so row
// ids sort by creation time.
type UUIDv7Generator struct{}

// NewID creates a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// CustomerDirectory resolves customer references. Customer management
// lives outside this core; the default implementation reads the local
// customers table, but callers may plug in a remote directory.
type CustomerDirectory interface {
	// Exists reports whether the customer reference resolves.
	Exists(ctx context.Context, id string) (bool, error)
}

// storeDirectory resolves customers against the local store.
type storeDirectory struct {
	s *store.Store
}

func (d storeDirectory) Exists(ctx context.Context, id string) (bool, error) {
	tx, err := d.s.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	_, err = tx.GetCustomer(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Ops exposes the operation library over a store and a rule set.
//
// Ops holds no mutable state: all state lives in the store, so a single
// Ops value is safe for concurrent use and the process is freely
// replicable.
type Ops struct {
	store      *store.Store
	dispatcher *rules.Dispatcher
	customers  CustomerDirectory
	ids        IDGenerator
	now        func() time.Time
	attempts   int
	actor      string
}

// Option configures an Ops value.
type Option func(*Ops)

// WithRetryAttempts overrides the conflict retry bound.
func WithRetryAttempts(n int) Option {
	return func(o *Ops) { o.attempts = n }
}

// WithIDGenerator overrides identifier minting. Tests use a
// deterministic sequence.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *Ops) { o.ids = g }
}

// WithClock overrides the timestamp source. Tests use a deterministic
// stepping clock.
func WithClock(now func() time.Time) Option {
	return func(o *Ops) { o.now = now }
}

// WithCustomerDirectory overrides customer resolution.
func WithCustomerDirectory(d CustomerDirectory) Option {
	return func(o *Ops) { o.customers = d }
}

// WithDefaultActor sets the actor recorded when an operation does not
// carry one. Defaults to "system".
func WithDefaultActor(actor string) Option {
	return func(o *Ops) { o.actor = actor }
}

// New builds the operation library: it registers the full guard rule
// set on a fresh registry and wires a dispatcher over the store.
func New(s *store.Store, cfg guard.Config, opts ...Option) *Ops {
	reg := rules.NewRegistry()
	guard.RegisterAll(reg, cfg)

	o := &Ops{
		store:      s,
		dispatcher: rules.NewDispatcher(reg),
		ids:        UUIDv7Generator{},
		now:        time.Now,
		attempts:   DefaultRetryAttempts,
		actor:      "system",
	}
	o.customers = storeDirectory{s: s}

	for _, opt := range opts {
		opt(o)
	}
	return o
}

// runWrite executes fn inside one transaction, retrying the whole
// function on store conflicts up to the attempt bound.
//
// Rule rejections pass through untouched; other store failures are
// wrapped as StoreUnavailable. fn must be idempotent: on retry it is
// re-run from scratch against a fresh transaction.
func (o *Ops) runWrite(ctx context.Context, actor string, fn func(ctx context.Context, tx *store.Tx, rc *rules.Context) error) error {
	if actor == "" {
		actor = o.actor
	}
	rc := &rules.Context{Actor: actor, Now: o.now, NewID: o.ids.NewID}

	var lastErr error
	for attempt := 1; attempt <= o.attempts; attempt++ {
		err := o.tryWrite(ctx, fn, rc)
		if err == nil {
			return nil
		}

		var re *rules.Error
		if errors.As(err, &re) {
			return err
		}

		if store.IsConflict(err) {
			lastErr = err
			slog.Warn("transaction conflicted, retrying",
				"attempt", attempt,
				"max_attempts", o.attempts,
				"error", err,
			)
			select {
			case <-ctx.Done():
				return fmt.Errorf("retry cancelled: %w", ctx.Err())
			case <-time.After(retryBackoff):
			}
			continue
		}

		if ctx.Err() != nil {
			return err
		}
		return rules.NewStoreUnavailableError(err)
	}

	slog.Error("transaction conflict retries exhausted",
		"attempts", o.attempts,
		"error", lastErr,
	)
	return rules.NewConflictError(o.attempts)
}

// tryWrite is one attempt: begin, run, commit. Rollback on any failure
// is unconditional; a rolled-back attempt leaves no observable effect.
func (o *Ops) tryWrite(ctx context.Context, fn func(ctx context.Context, tx *store.Tx, rc *rules.Context) error, rc *rules.Context) error {
	tx, err := o.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(ctx, tx, rc); err != nil {
		return err
	}
	return tx.Commit()
}
