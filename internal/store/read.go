package store

import (
	"context"
	"database/sql"
	"fmt"

	"ordercore/internal/record"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// GetCustomer returns the customer with the given id, or ErrNotFound.
func (t *Tx) GetCustomer(ctx context.Context, id string) (*record.Customer, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT id, name, email, created_at
		FROM customers WHERE id = ?
	`, id)
	return scanCustomer(row)
}

// GetProduct returns the product with the given id, or ErrNotFound.
//
// Reads inside a transaction observe that transaction's own earlier
// writes, so repeated reads of a product see the running stock balance,
// not the pre-transaction one.
func (t *Tx) GetProduct(ctx context.Context, id string) (*record.Product, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT id, category, unit_price_cents, stock_quantity, created_at, updated_at
		FROM products WHERE id = ?
	`, id)
	return scanProduct(row)
}

// GetOrder returns the order with the given id, or ErrNotFound.
func (t *Tx) GetOrder(ctx context.Context, id string) (*record.Order, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT id, customer_id, status, total_cents, created_at, updated_at
		FROM orders WHERE id = ?
	`, id)
	return scanOrder(row)
}

// GetLineItem returns the line item with the given id, or ErrNotFound.
func (t *Tx) GetLineItem(ctx context.Context, id string) (*record.LineItem, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price_cents, created_at
		FROM order_items WHERE id = ?
	`, id)
	return scanLineItem(row)
}

// ListLineItems returns an order's current line items in insertion order.
// Returns an empty slice (not nil) when the order has no items.
func (t *Tx) ListLineItems(ctx context.Context, orderID string) ([]record.LineItem, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price_cents, created_at
		FROM order_items
		WHERE order_id = ?
		ORDER BY created_at ASC, id COLLATE BINARY ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query line items: %w", err)
	}
	defer rows.Close()

	items := []record.LineItem{}
	for rows.Next() {
		li, err := scanLineItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line items: %w", err)
	}
	return items, nil
}

func scanCustomer(row rowScanner) (*record.Customer, error) {
	var c record.Customer
	var createdAt string
	err := row.Scan(&c.ID, &c.Name, &c.Email, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan customer: %w", err)
	}
	if c.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanProduct(row rowScanner) (*record.Product, error) {
	var p record.Product
	var createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.Category, &p.UnitPriceCents, &p.StockQuantity, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	if p.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanOrder(row rowScanner) (*record.Order, error) {
	var o record.Order
	var status, createdAt, updatedAt string
	err := row.Scan(&o.ID, &o.CustomerID, &status, &o.TotalCents, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}
	o.Status = record.Status(status)
	if o.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if o.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func scanLineItem(row rowScanner) (*record.LineItem, error) {
	var li record.LineItem
	var createdAt string
	err := row.Scan(&li.ID, &li.OrderID, &li.ProductID, &li.Quantity, &li.UnitPriceCents, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan line item: %w", err)
	}
	if li.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	return &li, nil
}
