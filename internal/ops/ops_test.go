package ops

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ordercore/internal/guard"
	"ordercore/internal/store"
	"ordercore/internal/testutil"
)

// newTestOps wires an in-memory store to the operation library with a
// deterministic clock and id sequence.
func newTestOps(t *testing.T, extra ...Option) *Ops {
	t.Helper()

	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := testutil.NewSteppingClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), time.Second)
	opts := []Option{
		WithClock(clock.Now),
		WithIDGenerator(testutil.NewSequenceIDs("row")),
	}
	opts = append(opts, extra...)

	return New(s, guard.Config{}, opts...)
}

func seedCustomer(t *testing.T, o *Ops) string {
	t.Helper()
	id, err := o.CreateCustomer(context.Background(), "Ada Lovelace", "ada@example.com")
	require.NoError(t, err)
	return id
}

func seedProduct(t *testing.T, o *Ops, priceCents, stock int64) string {
	t.Helper()
	id, err := o.CreateProduct(context.Background(), "widgets", priceCents, stock)
	require.NoError(t, err)
	return id
}

func seedPendingOrder(t *testing.T, o *Ops, customerID string) string {
	t.Helper()
	id, err := o.CreateOrder(context.Background(), customerID)
	require.NoError(t, err)
	return id
}

func productStock(t *testing.T, o *Ops, productID string) int64 {
	t.Helper()
	ctx := context.Background()
	tx, err := o.store.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()
	p, err := tx.GetProduct(ctx, productID)
	require.NoError(t, err)
	return p.StockQuantity
}
