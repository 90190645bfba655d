package rules

import (
	"context"
	"fmt"
	"log/slog"

	"ordercore/internal/record"
	"ordercore/internal/store"
)

// DefaultMaxEffects bounds the number of mutations one Apply call may
// cascade into. The domain rule set tops out at a handful of effects
// per mutation; hitting this limit means a rule is feeding itself.
const DefaultMaxEffects = 100

// Dispatcher routes mutations through the registry and applies accepted
// writes to the store, all inside the caller's transaction.
//
// A Dispatcher is stateless between Apply calls and safe for concurrent
// use; per-call state (the effect budget) lives on the stack.
type Dispatcher struct {
	registry   *Registry
	maxEffects int
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithMaxEffects overrides the effect cascade budget.
// Use a small value in tests to exercise quota enforcement.
func WithMaxEffects(n int) DispatcherOption {
	return func(d *Dispatcher) {
		d.maxEffects = n
	}
}

// NewDispatcher creates a dispatcher over a registry. The registry is
// sealed so its rule order can never change under a live dispatcher.
func NewDispatcher(registry *Registry, opts ...DispatcherOption) *Dispatcher {
	registry.Seal()
	d := &Dispatcher{
		registry:   registry,
		maxEffects: DefaultMaxEffects,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Apply runs all rules matching the mutation in registration order,
// writes the mutation, then recursively applies any effects the rules
// produced.
//
// The first rejection aborts with that rule's error and nothing is
// written; the caller must roll back the transaction. On success every
// accepted write, including cascaded effects, is pending in tx awaiting
// the caller's commit - no partial effects are ever visible outside
// the transaction.
func (d *Dispatcher) Apply(ctx context.Context, tx *store.Tx, m Mutation, rc *Context) error {
	budget := d.maxEffects
	return d.apply(ctx, tx, m, rc, &budget)
}

// apply is the recursive worker behind Apply. budget counts down across
// the whole cascade, not per level.
func (d *Dispatcher) apply(ctx context.Context, tx *store.Tx, m Mutation, rc *Context, budget *int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("dispatch cancelled: %w", err)
	}

	if *budget <= 0 {
		return NewEffectQuotaError(d.maxEffects, d.maxEffects)
	}
	*budget--

	// Evaluate all matching rules before writing anything. Effects are
	// collected in rule order so the cascade is deterministic.
	var effects Effects
	for _, rule := range d.registry.rulesFor(m) {
		more, err := rule(ctx, tx, m, rc)
		if err != nil {
			slog.Debug("rule rejected mutation",
				"table", string(m.Table),
				"kind", m.Kind.String(),
				"key", m.Key(),
				"error", err,
			)
			return err
		}
		effects = append(effects, more...)
	}

	if err := applyWrite(ctx, tx, m); err != nil {
		return fmt.Errorf("apply %s %s %s: %w", m.Kind, m.Table, m.Key(), err)
	}

	slog.Debug("mutation applied",
		"table", string(m.Table),
		"kind", m.Kind.String(),
		"key", m.Key(),
		"effects", len(effects),
	)

	for _, effect := range effects {
		if err := d.apply(ctx, tx, effect, rc, budget); err != nil {
			return err
		}
	}

	return nil
}

// applyWrite performs the store write for a mutation. The switch is the
// single place the engine knows about concrete tables.
func applyWrite(ctx context.Context, tx *store.Tx, m Mutation) error {
	switch m.Kind {
	case Insert:
		switch row := m.After.(type) {
		case *record.Customer:
			return tx.InsertCustomer(ctx, row)
		case *record.Product:
			return tx.InsertProduct(ctx, row)
		case *record.Order:
			return tx.InsertOrder(ctx, row)
		case *record.LineItem:
			return tx.InsertLineItem(ctx, row)
		case *record.AuditRecord:
			return tx.InsertAuditRecord(ctx, row)
		case *record.StockAlert:
			return tx.InsertStockAlert(ctx, row)
		}

	case Update:
		switch row := m.After.(type) {
		case *record.Product:
			return tx.UpdateProduct(ctx, row)
		case *record.Order:
			return tx.UpdateOrder(ctx, row)
		}

	case Delete:
		switch row := m.Before.(type) {
		case *record.LineItem:
			return tx.DeleteLineItem(ctx, row.ID)
		}
	}

	return fmt.Errorf("unsupported mutation: %s on %s", m.Kind, m.Table)
}
