package ops

import (
	"context"

	"ordercore/internal/record"
	"ordercore/internal/rules"
	"ordercore/internal/store"
)

// ListAuditRecords returns audit ledger entries matching the filter.
// Read-only, for the reporting layer.
func (o *Ops) ListAuditRecords(ctx context.Context, f store.AuditFilter) ([]record.AuditRecord, error) {
	records, err := o.store.ScanAuditRecords(ctx, f)
	if err != nil {
		return nil, rules.NewStoreUnavailableError(err)
	}
	return records, nil
}

// ListStockAlerts returns stock alerts matching the filter.
// Read-only, for the reporting layer.
func (o *Ops) ListStockAlerts(ctx context.Context, f store.AlertFilter) ([]record.StockAlert, error) {
	alerts, err := o.store.ScanStockAlerts(ctx, f)
	if err != nil {
		return nil, rules.NewStoreUnavailableError(err)
	}
	return alerts, nil
}
