package rules

import (
	"context"
	"time"

	"ordercore/internal/record"
	"ordercore/internal/store"
)

// MutationKind distinguishes the three row change shapes.
type MutationKind int

const (
	// Insert creates a row. Before is nil, After is the new row.
	Insert MutationKind = iota + 1
	// Update replaces a row. Before and After are both set.
	Update
	// Delete removes a row. Before is the old row, After is nil.
	Delete
)

// String returns the lowercase name of the mutation kind.
func (k MutationKind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Update:
		return "update"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Mutation is one proposed row change inside a transaction.
//
// Before and After are snapshots, not live rows: rules may read them
// freely but must not mutate them. The dispatcher owns applying the
// change to the store after all rules accept.
type Mutation struct {
	Table  record.Table
	Kind   MutationKind
	Before record.Row // nil for Insert
	After  record.Row // nil for Delete
}

// Key returns the primary key of the mutated row.
func (m Mutation) Key() string {
	if m.After != nil {
		return m.After.RowKey()
	}
	if m.Before != nil {
		return m.Before.RowKey()
	}
	return ""
}

// Effects are follow-up mutations a rule wants applied in the same
// transaction. Effects are dispatched in order, each passing through
// the registry again.
type Effects []Mutation

// Context carries per-operation facts rules need: who is acting and
// how to mint timestamps and identifiers. Rules never reach for
// ambient globals, which keeps re-dispatch after a conflict retry
// deterministic within one attempt.
type Context struct {
	// Actor identifies who initiated the operation, recorded on
	// audit entries.
	Actor string

	// Now returns the operation's timestamp source.
	Now func() time.Time

	// NewID mints identifiers for rows created as rule effects.
	NewID func() string
}

// Rule validates a mutation and may derive effects from it.
//
// A rule either:
//   - rejects: returns a non-nil error, aborting the whole transaction
//     with no partial effects visible, or
//   - accepts: returns optional effects to apply in the same transaction.
//
// Rules must be idempotent with respect to re-evaluation (the engine
// re-runs rules when a conflicted transaction is retried) and must not
// perform their own commits; all writes go through returned effects.
type Rule func(ctx context.Context, tx *store.Tx, m Mutation, rc *Context) (Effects, error)
