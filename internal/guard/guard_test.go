package guard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ordercore/internal/record"
	"ordercore/internal/rules"
	"ordercore/internal/store"
)

// fixture wires a fresh in-memory store to a dispatcher carrying the
// full rule set, with deterministic ids and timestamps.
type fixture struct {
	s  *store.Store
	d  *rules.Dispatcher
	rc *rules.Context
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()

	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	reg := rules.NewRegistry()
	RegisterAll(reg, cfg)

	n := 0
	tick := 0
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rc := &rules.Context{
		Actor: "tester",
		Now: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
		NewID: func() string {
			n++
			return fmt.Sprintf("gen-%d", n)
		},
	}

	return &fixture{s: s, d: rules.NewDispatcher(reg), rc: rc}
}

// apply runs a single mutation in its own committed transaction.
func (f *fixture) apply(t *testing.T, m rules.Mutation) error {
	t.Helper()
	ctx := context.Background()

	tx, err := f.s.Begin(ctx)
	require.NoError(t, err)

	if err := f.d.Apply(ctx, tx, m, f.rc); err != nil {
		require.NoError(t, tx.Rollback())
		return err
	}
	require.NoError(t, tx.Commit())
	return nil
}

func (f *fixture) seedCustomer(t *testing.T, id string) {
	t.Helper()
	ctx := context.Background()
	tx, err := f.s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()
	c := &record.Customer{ID: id, Name: "Test", Email: id + "@example.com", CreatedAt: f.rc.Now()}
	require.NoError(t, tx.InsertCustomer(ctx, c))
	require.NoError(t, tx.Commit())
}

func (f *fixture) seedProduct(t *testing.T, id string, priceCents, stock int64) *record.Product {
	t.Helper()
	ctx := context.Background()
	tx, err := f.s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()
	now := f.rc.Now()
	p := &record.Product{ID: id, Category: "test", UnitPriceCents: priceCents, StockQuantity: stock, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, tx.InsertProduct(ctx, p))
	require.NoError(t, tx.Commit())
	return p
}

func (f *fixture) seedOrder(t *testing.T, id, customerID string, status record.Status) *record.Order {
	t.Helper()
	ctx := context.Background()
	tx, err := f.s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()
	now := f.rc.Now()
	o := &record.Order{ID: id, CustomerID: customerID, Status: status, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, tx.InsertOrder(ctx, o))
	require.NoError(t, tx.Commit())
	return o
}

func (f *fixture) getProduct(t *testing.T, id string) *record.Product {
	t.Helper()
	ctx := context.Background()
	tx, err := f.s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()
	p, err := tx.GetProduct(ctx, id)
	require.NoError(t, err)
	return p
}

func (f *fixture) getOrder(t *testing.T, id string) *record.Order {
	t.Helper()
	ctx := context.Background()
	tx, err := f.s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()
	o, err := tx.GetOrder(ctx, id)
	require.NoError(t, err)
	return o
}

// insertItem builds the line-item insert mutation the ops layer would
// construct, snapshotting the product's current unit price.
func (f *fixture) insertItem(t *testing.T, id, orderID string, p *record.Product, qty int64) rules.Mutation {
	t.Helper()
	li := &record.LineItem{
		ID: id, OrderID: orderID, ProductID: p.ID,
		Quantity: qty, UnitPriceCents: p.UnitPriceCents,
		CreatedAt: f.rc.Now(),
	}
	return rules.Mutation{Table: record.TableLineItem, Kind: rules.Insert, After: li}
}

func (f *fixture) statusChange(t *testing.T, orderID string, to record.Status) rules.Mutation {
	t.Helper()
	before := f.getOrder(t, orderID)
	after := *before
	after.Status = to
	after.UpdatedAt = f.rc.Now()
	return rules.Mutation{Table: record.TableOrder, Kind: rules.Update, Before: before, After: &after}
}
