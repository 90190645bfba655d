package store

import (
	"context"
	"fmt"
	"time"

	"ordercore/internal/record"
)

// Read-only scans for the reporting layer. These never interact with
// the rule engine; they mutate nothing.

// SalesDay is one row of the sales report aggregation.
type SalesDay struct {
	Date          string // YYYY-MM-DD, UTC
	OrderCount    int64
	RevenueCents  int64
	AvgOrderCents int64
}

// SalesReport aggregates committed, non-cancelled orders created in
// [start, end] by calendar day. Days with no orders are omitted.
func (s *Store) SalesReport(ctx context.Context, start, end time.Time) ([]SalesDay, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT substr(created_at, 1, 10) AS day,
		       COUNT(*),
		       COALESCE(SUM(total_cents), 0)
		FROM orders
		WHERE status != ?
		  AND created_at >= ?
		  AND created_at <= ?
		GROUP BY day
		ORDER BY day ASC
	`, string(record.StatusCancelled), encodeTime(start), encodeTime(end))
	if err != nil {
		return nil, fmt.Errorf("query sales report: %w", err)
	}
	defer rows.Close()

	report := []SalesDay{}
	for rows.Next() {
		var d SalesDay
		if err := rows.Scan(&d.Date, &d.OrderCount, &d.RevenueCents); err != nil {
			return nil, fmt.Errorf("scan sales day: %w", err)
		}
		if d.OrderCount > 0 {
			d.AvgOrderCents = d.RevenueCents / d.OrderCount
		}
		report = append(report, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales report: %w", err)
	}
	return report, nil
}

// AuditFilter narrows an audit ledger scan. Zero values mean "no filter".
type AuditFilter struct {
	OrderID string
	Since   time.Time
	Until   time.Time
}

// ScanAuditRecords returns audit records matching the filter in
// chronological order. Returns an empty slice (not nil) on no match.
func (s *Store) ScanAuditRecords(ctx context.Context, f AuditFilter) ([]record.AuditRecord, error) {
	query := `
		SELECT id, order_id, action, old_status, new_status,
		       old_total_cents, new_total_cents, actor, created_at
		FROM audit_records
		WHERE 1=1
	`
	args := []any{}
	if f.OrderID != "" {
		query += " AND order_id = ?"
		args = append(args, f.OrderID)
	}
	if !f.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, encodeTime(f.Since))
	}
	if !f.Until.IsZero() {
		query += " AND created_at <= ?"
		args = append(args, encodeTime(f.Until))
	}
	query += " ORDER BY created_at ASC, id COLLATE BINARY ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit records: %w", err)
	}
	defer rows.Close()

	records := []record.AuditRecord{}
	for rows.Next() {
		var a record.AuditRecord
		var oldStatus, newStatus, createdAt string
		if err := rows.Scan(&a.ID, &a.OrderID, &a.Action, &oldStatus, &newStatus,
			&a.OldTotalCents, &a.NewTotalCents, &a.Actor, &createdAt); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		a.OldStatus = record.Status(oldStatus)
		a.NewStatus = record.Status(newStatus)
		if a.CreatedAt, err = decodeTime(createdAt); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit records: %w", err)
	}
	return records, nil
}

// AlertFilter narrows a stock alert scan. Zero values mean "no filter".
type AlertFilter struct {
	ProductID string
	Since     time.Time
	Until     time.Time
}

// ScanStockAlerts returns stock alerts matching the filter in
// chronological order. Returns an empty slice (not nil) on no match.
func (s *Store) ScanStockAlerts(ctx context.Context, f AlertFilter) ([]record.StockAlert, error) {
	query := `
		SELECT id, product_id, stock_quantity, created_at
		FROM stock_alerts
		WHERE 1=1
	`
	args := []any{}
	if f.ProductID != "" {
		query += " AND product_id = ?"
		args = append(args, f.ProductID)
	}
	if !f.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, encodeTime(f.Since))
	}
	if !f.Until.IsZero() {
		query += " AND created_at <= ?"
		args = append(args, encodeTime(f.Until))
	}
	query += " ORDER BY created_at ASC, id COLLATE BINARY ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stock alerts: %w", err)
	}
	defer rows.Close()

	alerts := []record.StockAlert{}
	for rows.Next() {
		var a record.StockAlert
		var createdAt string
		if err := rows.Scan(&a.ID, &a.ProductID, &a.StockQuantity, &createdAt); err != nil {
			return nil, fmt.Errorf("scan stock alert: %w", err)
		}
		if a.CreatedAt, err = decodeTime(createdAt); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock alerts: %w", err)
	}
	return alerts, nil
}
