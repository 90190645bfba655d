package ops

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ordercore/internal/record"
	"ordercore/internal/rules"
	"ordercore/internal/store"
)

// CreateOrder inserts a new order in pending status with total 0 and
// returns its id. Fails with UnknownCustomer when the customer
// reference does not resolve.
func (o *Ops) CreateOrder(ctx context.Context, customerID string) (string, error) {
	ok, err := o.customers.Exists(ctx, customerID)
	if err != nil {
		return "", rules.NewStoreUnavailableError(fmt.Errorf("resolve customer: %w", err))
	}
	if !ok {
		return "", rules.NewUnknownError(rules.CodeUnknownCustomer, "customer", customerID)
	}

	orderID := o.ids.NewID()
	err = o.runWrite(ctx, "", func(ctx context.Context, tx *store.Tx, rc *rules.Context) error {
		now := rc.Now()
		order := &record.Order{
			ID:         orderID,
			CustomerID: customerID,
			Status:     record.StatusPending,
			TotalCents: 0,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return o.dispatcher.Apply(ctx, tx, rules.Mutation{
			Table: record.TableOrder, Kind: rules.Insert, After: order,
		}, rc)
	})
	if err != nil {
		return "", err
	}

	slog.Info("order created", "order_id", orderID, "customer_id", customerID)
	return orderID, nil
}

// UpdateOrderStatus moves an order to newStatus. The transition must be
// legal; moving to cancelled restores stock for every line item; every
// successful transition appends exactly one audit record attributed to
// actor.
func (o *Ops) UpdateOrderStatus(ctx context.Context, orderID string, newStatus record.Status, actor string) error {
	if !record.ValidStatus(newStatus) {
		return rules.NewIllegalTransitionError(orderID, "", string(newStatus))
	}

	err := o.runWrite(ctx, actor, func(ctx context.Context, tx *store.Tx, rc *rules.Context) error {
		before, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return rules.NewUnknownError(rules.CodeUnknownOrder, "order", orderID)
			}
			return fmt.Errorf("read order: %w", err)
		}

		// The ledger rule lets status-preserving updates through so
		// total recalculation can ride the same mutation shape, so the
		// self-transition check has to happen here.
		if before.Status == newStatus {
			return rules.NewIllegalTransitionError(orderID, string(before.Status), string(newStatus))
		}

		after := *before
		after.Status = newStatus
		after.UpdatedAt = rc.Now()

		return o.dispatcher.Apply(ctx, tx, rules.Mutation{
			Table: record.TableOrder, Kind: rules.Update, Before: before, After: &after,
		}, rc)
	})
	if err != nil {
		return err
	}

	slog.Info("order status updated", "order_id", orderID, "status", string(newStatus), "actor", actor)
	return nil
}

// OrderDetail is an order together with its current line items.
type OrderDetail struct {
	Order record.Order
	Items []record.LineItem
}

// GetOrder returns an order and its line items. Read-only.
func (o *Ops) GetOrder(ctx context.Context, orderID string) (*OrderDetail, error) {
	tx, err := o.store.Begin(ctx)
	if err != nil {
		return nil, rules.NewStoreUnavailableError(err)
	}
	defer tx.Rollback()

	order, err := tx.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, rules.NewUnknownError(rules.CodeUnknownOrder, "order", orderID)
		}
		return nil, rules.NewStoreUnavailableError(err)
	}

	items, err := tx.ListLineItems(ctx, orderID)
	if err != nil {
		return nil, rules.NewStoreUnavailableError(err)
	}

	return &OrderDetail{Order: *order, Items: items}, nil
}
