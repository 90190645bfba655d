package ops

import (
	"context"
	"fmt"

	"ordercore/internal/record"
	"ordercore/internal/rules"
	"ordercore/internal/store"
)

// Catalog and customer management sit outside the consistency core: no
// invariant rule watches these inserts. They exist so the CLI can seed
// a working system without a separate admin tool.

// CreateCustomer inserts a customer and returns its id.
func (o *Ops) CreateCustomer(ctx context.Context, name, email string) (string, error) {
	id := o.ids.NewID()
	err := o.runWrite(ctx, "", func(ctx context.Context, tx *store.Tx, rc *rules.Context) error {
		return tx.InsertCustomer(ctx, &record.Customer{
			ID:        id,
			Name:      name,
			Email:     email,
			CreatedAt: rc.Now(),
		})
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// CreateProduct inserts a product with an initial stock level and
// returns its id.
func (o *Ops) CreateProduct(ctx context.Context, category string, unitPriceCents, initialStock int64) (string, error) {
	if unitPriceCents < 0 {
		return "", fmt.Errorf("ops: unit price must not be negative, got %d", unitPriceCents)
	}
	if initialStock < 0 {
		return "", fmt.Errorf("ops: initial stock must not be negative, got %d", initialStock)
	}

	id := o.ids.NewID()
	err := o.runWrite(ctx, "", func(ctx context.Context, tx *store.Tx, rc *rules.Context) error {
		now := rc.Now()
		return tx.InsertProduct(ctx, &record.Product{
			ID:             id,
			Category:       category,
			UnitPriceCents: unitPriceCents,
			StockQuantity:  initialStock,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	})
	if err != nil {
		return "", err
	}
	return id, nil
}
