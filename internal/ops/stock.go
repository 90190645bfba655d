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

// Restock adds inbound stock to a product. The update runs through the
// rule engine like any other stock movement, so a recovery to at/above
// the low-stock threshold silently re-arms the alert state machine.
func (o *Ops) Restock(ctx context.Context, productID string, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("ops: restock quantity must be positive, got %d", quantity)
	}

	err := o.runWrite(ctx, "", func(ctx context.Context, tx *store.Tx, rc *rules.Context) error {
		before, err := tx.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return rules.NewUnknownError(rules.CodeUnknownProduct, "product", productID)
			}
			return fmt.Errorf("read product: %w", err)
		}

		after := *before
		after.StockQuantity += quantity
		after.UpdatedAt = rc.Now()

		return o.dispatcher.Apply(ctx, tx, rules.Mutation{
			Table: record.TableProduct, Kind: rules.Update, Before: before, After: &after,
		}, rc)
	})
	if err != nil {
		return err
	}

	slog.Info("product restocked", "product_id", productID, "quantity", quantity)
	return nil
}
