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

// AddLineItem atomically validates stock, inserts a line item with the
// product's current unit price captured as an immutable snapshot,
// decrements stock, and recomputes the order total.
//
// Fails with InsufficientStock when quantity exceeds the available
// stock, OrderNotMutable when the order is not pending, and
// UnknownProduct/UnknownOrder on dangling references. On any failure
// no write is made visible.
func (o *Ops) AddLineItem(ctx context.Context, orderID, productID string, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("ops: quantity must be positive, got %d", quantity)
	}

	err := o.runWrite(ctx, "", func(ctx context.Context, tx *store.Tx, rc *rules.Context) error {
		product, err := tx.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return rules.NewUnknownError(rules.CodeUnknownProduct, "product", productID)
			}
			return fmt.Errorf("read product: %w", err)
		}

		item := &record.LineItem{
			ID:             rc.NewID(),
			OrderID:        orderID,
			ProductID:      productID,
			Quantity:       quantity,
			UnitPriceCents: product.UnitPriceCents,
			CreatedAt:      rc.Now(),
		}

		return o.dispatcher.Apply(ctx, tx, rules.Mutation{
			Table: record.TableLineItem, Kind: rules.Insert, After: item,
		}, rc)
	})
	if err != nil {
		return err
	}

	slog.Info("line item added",
		"order_id", orderID,
		"product_id", productID,
		"quantity", quantity,
	)
	return nil
}

// RemoveLineItem deletes a line item from a pending order, restoring
// the reserved stock and recomputing the order total. This is the
// corrective flow: line items are never edited in place, a correction
// is a removal followed by a fresh insertion.
func (o *Ops) RemoveLineItem(ctx context.Context, orderID, lineItemID string) error {
	err := o.runWrite(ctx, "", func(ctx context.Context, tx *store.Tx, rc *rules.Context) error {
		item, err := tx.GetLineItem(ctx, lineItemID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return rules.NewUnknownError(rules.CodeUnknownLineItem, "line item", lineItemID)
			}
			return fmt.Errorf("read line item: %w", err)
		}
		if item.OrderID != orderID {
			return rules.NewUnknownError(rules.CodeUnknownLineItem, "line item", lineItemID)
		}

		return o.dispatcher.Apply(ctx, tx, rules.Mutation{
			Table: record.TableLineItem, Kind: rules.Delete, Before: item,
		}, rc)
	})
	if err != nil {
		return err
	}

	slog.Info("line item removed", "order_id", orderID, "line_item_id", lineItemID)
	return nil
}
