package store

import (
	"context"
	"fmt"

	"ordercore/internal/record"
)

// InsertCustomer inserts a customer row.
func (t *Tx) InsertCustomer(ctx context.Context, c *record.Customer) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, created_at)
		VALUES (?, ?, ?, ?)
	`, c.ID, c.Name, c.Email, encodeTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// InsertProduct inserts a product row.
func (t *Tx) InsertProduct(ctx context.Context, p *record.Product) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO products (id, category, unit_price_cents, stock_quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.Category, p.UnitPriceCents, p.StockQuantity, encodeTime(p.CreatedAt), encodeTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// UpdateProduct replaces the mutable columns of a product row.
// The stock_quantity CHECK constraint is the last line of defense;
// the inventory guard rejects negative stock before it gets here.
func (t *Tx) UpdateProduct(ctx context.Context, p *record.Product) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE products
		SET category = ?, unit_price_cents = ?, stock_quantity = ?, updated_at = ?
		WHERE id = ?
	`, p.Category, p.UnitPriceCents, p.StockQuantity, encodeTime(p.UpdatedAt), p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireOneRow(res.RowsAffected())
}

// InsertOrder inserts an order row.
func (t *Tx) InsertOrder(ctx context.Context, o *record.Order) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, status, total_cents, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, o.ID, o.CustomerID, string(o.Status), o.TotalCents, encodeTime(o.CreatedAt), encodeTime(o.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// UpdateOrder replaces the mutable columns of an order row.
func (t *Tx) UpdateOrder(ctx context.Context, o *record.Order) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE orders
		SET status = ?, total_cents = ?, updated_at = ?
		WHERE id = ?
	`, string(o.Status), o.TotalCents, encodeTime(o.UpdatedAt), o.ID)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return requireOneRow(res.RowsAffected())
}

// InsertLineItem inserts a line item row. Line items are never updated
// in place; corrections delete and re-insert.
func (t *Tx) InsertLineItem(ctx context.Context, li *record.LineItem) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price_cents, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, li.ID, li.OrderID, li.ProductID, li.Quantity, li.UnitPriceCents, encodeTime(li.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert line item: %w", err)
	}
	return nil
}

// DeleteLineItem removes a line item row.
func (t *Tx) DeleteLineItem(ctx context.Context, id string) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM order_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete line item: %w", err)
	}
	return requireOneRow(res.RowsAffected())
}

// InsertAuditRecord appends to the audit ledger. There is deliberately
// no update or delete counterpart for this table.
func (t *Tx) InsertAuditRecord(ctx context.Context, a *record.AuditRecord) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO audit_records
		(id, order_id, action, old_status, new_status, old_total_cents, new_total_cents, actor, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.OrderID, a.Action, string(a.OldStatus), string(a.NewStatus),
		a.OldTotalCents, a.NewTotalCents, a.Actor, encodeTime(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

// InsertStockAlert appends to the stock alert log. There is deliberately
// no update or delete counterpart for this table.
func (t *Tx) InsertStockAlert(ctx context.Context, a *record.StockAlert) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO stock_alerts (id, product_id, stock_quantity, created_at)
		VALUES (?, ?, ?, ?)
	`, a.ID, a.ProductID, a.StockQuantity, encodeTime(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert stock alert: %w", err)
	}
	return nil
}

// requireOneRow converts an update/delete that matched nothing into
// ErrNotFound so callers can surface a referential error.
func requireOneRow(n int64, err error) error {
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
