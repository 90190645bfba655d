package guard

import (
	"context"
	"fmt"

	"ordercore/internal/record"
	"ordercore/internal/rules"
	"ordercore/internal/store"
)

// deriveLowStockAlert builds the product-update rule that emits a
// StockAlert when stock crosses from at/above the threshold to below it.
//
// The two-sided edge check makes the per-product state machine
// {normal, alerted} without any stored state:
//
//	normal  → alerted : before >= threshold, after < threshold → alert
//	alerted → alerted : both below threshold → nothing (no duplicates)
//	alerted → normal  : after >= threshold → nothing (silent re-arm)
//
// A product that recovers to at/above the threshold and crosses down
// again therefore produces a second, distinct alert.
func deriveLowStockAlert(threshold int64) rules.Rule {
	return func(ctx context.Context, tx *store.Tx, m rules.Mutation, rc *rules.Context) (rules.Effects, error) {
		before, bok := m.Before.(*record.Product)
		after, aok := m.After.(*record.Product)
		if !bok || !aok {
			return nil, fmt.Errorf("low stock alert: unexpected row types %T, %T", m.Before, m.After)
		}

		if before.StockQuantity < threshold || after.StockQuantity >= threshold {
			return nil, nil
		}

		alert := &record.StockAlert{
			ID:            rc.NewID(),
			ProductID:     after.ID,
			StockQuantity: after.StockQuantity,
			CreatedAt:     rc.Now(),
		}

		return rules.Effects{
			{Table: record.TableAlert, Kind: rules.Insert, After: alert},
		}, nil
	}
}
