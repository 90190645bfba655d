// Package guard holds the domain rule set: the inventory guard
// protecting stock non-negativity and order totals, the audit ledger
// rule, and the low-stock alert deriver.
//
// Rules are registered in a fixed order by RegisterAll; that order is
// part of the engine's determinism contract and must not change
// casually.
package guard

import (
	"ordercore/internal/record"
	"ordercore/internal/rules"
)

// DefaultLowStockThreshold is the stock level below which an alert is
// raised. Chosen by the domain.
const DefaultLowStockThreshold = 10

// Config tunes the rule set.
type Config struct {
	// LowStockThreshold is the alerting boundary. Zero means
	// DefaultLowStockThreshold.
	LowStockThreshold int64
}

func (c Config) threshold() int64 {
	if c.LowStockThreshold <= 0 {
		return DefaultLowStockThreshold
	}
	return c.LowStockThreshold
}

// RegisterAll attaches the full rule set to a registry:
//
//	line item insert  → reserve stock, derive order total
//	line item delete  → release stock, derive order total
//	order update      → transition legality + audit entry, then
//	                    stock restoration on cancellation
//	product update    → non-negative stock backstop, then
//	                    low-stock alert derivation
func RegisterAll(reg *rules.Registry, cfg Config) {
	reg.Register(record.TableLineItem, rules.Insert, reserveStock)
	reg.Register(record.TableLineItem, rules.Delete, releaseStock)

	reg.Register(record.TableOrder, rules.Update, auditStatusChange)
	reg.Register(record.TableOrder, rules.Update, restoreStockOnCancel)

	reg.Register(record.TableProduct, rules.Update, guardStockNonNegative)
	reg.Register(record.TableProduct, rules.Update, deriveLowStockAlert(cfg.threshold()))
}
