package guard

import (
	"context"
	"errors"
	"fmt"

	"ordercore/internal/record"
	"ordercore/internal/rules"
	"ordercore/internal/store"
)

// reserveStock is the line-item insert rule. It enforces the stock
// precondition against the running balance inside the transaction,
// then derives the reservation and the new order total as effects.
//
// Because the check reads the product through the transaction, several
// inserts within one transaction are evaluated sequentially against
// the running balance: a transaction may legitimately exhaust stock
// across its own inserts but can never oversell.
func reserveStock(ctx context.Context, tx *store.Tx, m rules.Mutation, rc *rules.Context) (rules.Effects, error) {
	li, ok := m.After.(*record.LineItem)
	if !ok {
		return nil, fmt.Errorf("reserve stock: unexpected row type %T", m.After)
	}

	order, err := tx.GetOrder(ctx, li.OrderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, rules.NewUnknownError(rules.CodeUnknownOrder, "order", li.OrderID)
		}
		return nil, fmt.Errorf("reserve stock: read order: %w", err)
	}
	if order.Status != record.StatusPending {
		return nil, rules.NewOrderNotMutableError(order.ID, string(order.Status))
	}

	product, err := tx.GetProduct(ctx, li.ProductID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, rules.NewUnknownError(rules.CodeUnknownProduct, "product", li.ProductID)
		}
		return nil, fmt.Errorf("reserve stock: read product: %w", err)
	}

	if li.Quantity > product.StockQuantity {
		return nil, rules.NewInsufficientStockError(product.ID, li.Quantity, product.StockQuantity)
	}

	reserved := *product
	reserved.StockQuantity -= li.Quantity
	reserved.UpdatedAt = rc.Now()

	retotaled := *order
	retotaled.TotalCents += li.SubtotalCents()
	retotaled.UpdatedAt = rc.Now()

	return rules.Effects{
		{Table: record.TableProduct, Kind: rules.Update, Before: product, After: &reserved},
		{Table: record.TableOrder, Kind: rules.Update, Before: order, After: &retotaled},
	}, nil
}

// releaseStock is the line-item delete rule, used only by corrective
// flows. It returns the reserved quantity to stock and subtracts the
// item's subtotal from the order.
func releaseStock(ctx context.Context, tx *store.Tx, m rules.Mutation, rc *rules.Context) (rules.Effects, error) {
	li, ok := m.Before.(*record.LineItem)
	if !ok {
		return nil, fmt.Errorf("release stock: unexpected row type %T", m.Before)
	}

	order, err := tx.GetOrder(ctx, li.OrderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, rules.NewUnknownError(rules.CodeUnknownOrder, "order", li.OrderID)
		}
		return nil, fmt.Errorf("release stock: read order: %w", err)
	}
	if order.Status != record.StatusPending {
		return nil, rules.NewOrderNotMutableError(order.ID, string(order.Status))
	}

	product, err := tx.GetProduct(ctx, li.ProductID)
	if err != nil {
		return nil, fmt.Errorf("release stock: read product: %w", err)
	}

	released := *product
	released.StockQuantity += li.Quantity
	released.UpdatedAt = rc.Now()

	retotaled := *order
	retotaled.TotalCents -= li.SubtotalCents()
	retotaled.UpdatedAt = rc.Now()

	return rules.Effects{
		{Table: record.TableProduct, Kind: rules.Update, Before: product, After: &released},
		{Table: record.TableOrder, Kind: rules.Update, Before: order, After: &retotaled},
	}, nil
}

// restoreStockOnCancel is an order-update rule. When an order moves to
// cancelled it returns every line item's reserved quantity to stock,
// restoring the full reservation before commit.
//
// Quantities are accumulated per product first so two line items for
// the same product produce a single update against the current balance.
func restoreStockOnCancel(ctx context.Context, tx *store.Tx, m rules.Mutation, rc *rules.Context) (rules.Effects, error) {
	before, bok := m.Before.(*record.Order)
	after, aok := m.After.(*record.Order)
	if !bok || !aok {
		return nil, fmt.Errorf("restore stock: unexpected row types %T, %T", m.Before, m.After)
	}

	if after.Status != record.StatusCancelled || before.Status == record.StatusCancelled {
		return nil, nil
	}

	items, err := tx.ListLineItems(ctx, after.ID)
	if err != nil {
		return nil, fmt.Errorf("restore stock: list line items: %w", err)
	}

	restoring := map[string]int64{}
	productOrder := []string{}
	for _, li := range items {
		if _, seen := restoring[li.ProductID]; !seen {
			productOrder = append(productOrder, li.ProductID)
		}
		restoring[li.ProductID] += li.Quantity
	}

	var effects rules.Effects
	for _, productID := range productOrder {
		product, err := tx.GetProduct(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("restore stock: read product %s: %w", productID, err)
		}
		restored := *product
		restored.StockQuantity += restoring[productID]
		restored.UpdatedAt = rc.Now()
		effects = append(effects, rules.Mutation{
			Table: record.TableProduct, Kind: rules.Update,
			Before: product, After: &restored,
		})
	}

	return effects, nil
}

// guardStockNonNegative is the product-update backstop: no committed
// state may hold negative stock. The reservation rule checks first, so
// tripping this means a rule set bug or a bad direct stock adjustment.
func guardStockNonNegative(ctx context.Context, tx *store.Tx, m rules.Mutation, rc *rules.Context) (rules.Effects, error) {
	after, ok := m.After.(*record.Product)
	if !ok {
		return nil, fmt.Errorf("stock guard: unexpected row type %T", m.After)
	}
	if after.StockQuantity < 0 {
		var available int64
		if before, ok := m.Before.(*record.Product); ok {
			available = before.StockQuantity
		}
		return nil, rules.NewInsufficientStockError(after.ID, available-after.StockQuantity, available)
	}
	return nil, nil
}
