package store

import (
	"context"
	"testing"
	"time"

	"ordercore/internal/record"
)

func day(d int, hour int) time.Time {
	return time.Date(2026, 3, d, hour, 0, 0, 0, time.UTC)
}

func seedOrders(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	defer tx.Rollback()

	cust := &record.Customer{ID: "c1", Name: "Ada", Email: "a@example.com", CreatedAt: day(1, 0)}
	if err := tx.InsertCustomer(ctx, cust); err != nil {
		t.Fatalf("InsertCustomer failed: %v", err)
	}

	orders := []record.Order{
		{ID: "o1", CustomerID: "c1", Status: record.StatusDelivered, TotalCents: 10000, CreatedAt: day(1, 9)},
		{ID: "o2", CustomerID: "c1", Status: record.StatusPending, TotalCents: 5000, CreatedAt: day(1, 14)},
		{ID: "o3", CustomerID: "c1", Status: record.StatusCancelled, TotalCents: 9999, CreatedAt: day(1, 15)},
		{ID: "o4", CustomerID: "c1", Status: record.StatusShipped, TotalCents: 3000, CreatedAt: day(3, 8)},
	}
	for i := range orders {
		orders[i].UpdatedAt = orders[i].CreatedAt
		if err := tx.InsertOrder(ctx, &orders[i]); err != nil {
			t.Fatalf("InsertOrder %s failed: %v", orders[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
}

func TestSalesReport_AggregatesByDay(t *testing.T) {
	s := openTestStore(t)
	seedOrders(t, s)

	report, err := s.SalesReport(context.Background(), day(1, 0), day(4, 0))
	if err != nil {
		t.Fatalf("SalesReport failed: %v", err)
	}

	if len(report) != 2 {
		t.Fatalf("expected 2 report rows, got %d: %+v", len(report), report)
	}

	// Cancelled o3 is excluded from day 1.
	d1 := report[0]
	if d1.Date != "2026-03-01" || d1.OrderCount != 2 || d1.RevenueCents != 15000 || d1.AvgOrderCents != 7500 {
		t.Errorf("unexpected day 1 row: %+v", d1)
	}

	d3 := report[1]
	if d3.Date != "2026-03-03" || d3.OrderCount != 1 || d3.RevenueCents != 3000 || d3.AvgOrderCents != 3000 {
		t.Errorf("unexpected day 3 row: %+v", d3)
	}
}

func TestSalesReport_EmptyRange(t *testing.T) {
	s := openTestStore(t)
	seedOrders(t, s)

	report, err := s.SalesReport(context.Background(), day(10, 0), day(11, 0))
	if err != nil {
		t.Fatalf("SalesReport failed: %v", err)
	}
	if len(report) != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
	if report == nil {
		t.Error("SalesReport should return empty slice, not nil")
	}
}

func TestScanAuditRecords_Filters(t *testing.T) {
	s := openTestStore(t)
	seedOrders(t, s)
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	records := []record.AuditRecord{
		{ID: "a1", OrderID: "o1", Action: record.ActionStatusChange,
			OldStatus: record.StatusPending, NewStatus: record.StatusProcessing,
			Actor: "ops", CreatedAt: day(1, 10)},
		{ID: "a2", OrderID: "o1", Action: record.ActionStatusChange,
			OldStatus: record.StatusProcessing, NewStatus: record.StatusShipped,
			Actor: "ops", CreatedAt: day(2, 10)},
		{ID: "a3", OrderID: "o3", Action: record.ActionStatusChange,
			OldStatus: record.StatusPending, NewStatus: record.StatusCancelled,
			Actor: "ada", CreatedAt: day(1, 16)},
	}
	for i := range records {
		if err := tx.InsertAuditRecord(ctx, &records[i]); err != nil {
			t.Fatalf("InsertAuditRecord failed: %v", err)
		}
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	byOrder, err := s.ScanAuditRecords(ctx, AuditFilter{OrderID: "o1"})
	if err != nil {
		t.Fatalf("ScanAuditRecords failed: %v", err)
	}
	if len(byOrder) != 2 || byOrder[0].ID != "a1" || byOrder[1].ID != "a2" {
		t.Errorf("unexpected order filter result: %+v", byOrder)
	}

	byDate, err := s.ScanAuditRecords(ctx, AuditFilter{Since: day(2, 0)})
	if err != nil {
		t.Fatalf("ScanAuditRecords failed: %v", err)
	}
	if len(byDate) != 1 || byDate[0].ID != "a2" {
		t.Errorf("unexpected date filter result: %+v", byDate)
	}
}

func TestScanStockAlerts_Filters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	now := day(1, 0)
	p := &record.Product{ID: "p1", UnitPriceCents: 100, StockQuantity: 5, CreatedAt: now, UpdatedAt: now}
	if err := tx.InsertProduct(ctx, p); err != nil {
		t.Fatalf("InsertProduct failed: %v", err)
	}
	p2 := &record.Product{ID: "p2", UnitPriceCents: 100, StockQuantity: 5, CreatedAt: now, UpdatedAt: now}
	if err := tx.InsertProduct(ctx, p2); err != nil {
		t.Fatalf("InsertProduct failed: %v", err)
	}
	alerts := []record.StockAlert{
		{ID: "s1", ProductID: "p1", StockQuantity: 8, CreatedAt: day(1, 9)},
		{ID: "s2", ProductID: "p2", StockQuantity: 3, CreatedAt: day(2, 9)},
	}
	for i := range alerts {
		if err := tx.InsertStockAlert(ctx, &alerts[i]); err != nil {
			t.Fatalf("InsertStockAlert failed: %v", err)
		}
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	got, err := s.ScanStockAlerts(ctx, AlertFilter{ProductID: "p1"})
	if err != nil {
		t.Fatalf("ScanStockAlerts failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "s1" {
		t.Errorf("unexpected product filter result: %+v", got)
	}

	all, err := s.ScanStockAlerts(ctx, AlertFilter{})
	if err != nil {
		t.Fatalf("ScanStockAlerts failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 alerts, got %+v", all)
	}
}

// Rows carrying fractional-second timestamps must be included at both
// ends of a scan range, and within-second ordering must hold.
func TestSalesReport_FractionalTimestampBoundaries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	defer tx.Rollback()

	cust := &record.Customer{ID: "c1", Name: "Ada", Email: "a@example.com", CreatedAt: day(1, 0)}
	if err := tx.InsertCustomer(ctx, cust); err != nil {
		t.Fatalf("InsertCustomer failed: %v", err)
	}

	orders := []record.Order{
		{ID: "o-whole", CustomerID: "c1", Status: record.StatusDelivered, TotalCents: 1000,
			CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "o-frac", CustomerID: "c1", Status: record.StatusDelivered, TotalCents: 2000,
			CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 500_000_000, time.UTC)},
		{ID: "o-last", CustomerID: "c1", Status: record.StatusDelivered, TotalCents: 4000,
			CreatedAt: time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)},
	}
	for i := range orders {
		orders[i].UpdatedAt = orders[i].CreatedAt
		if err := tx.InsertOrder(ctx, &orders[i]); err != nil {
			t.Fatalf("InsertOrder %s failed: %v", orders[i].ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 1, 23, 59, 59, 999_999_999, time.UTC)
	report, err := s.SalesReport(ctx, start, end)
	if err != nil {
		t.Fatalf("SalesReport failed: %v", err)
	}
	if len(report) != 1 {
		t.Fatalf("expected 1 report row, got %d: %+v", len(report), report)
	}
	if report[0].OrderCount != 3 || report[0].RevenueCents != 7000 {
		t.Errorf("boundary rows missing from aggregation: %+v", report[0])
	}
}

func TestScanStockAlerts_WithinSecondOrdering(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	defer tx.Rollback()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	prod := &record.Product{ID: "p1", UnitPriceCents: 100, StockQuantity: 5, CreatedAt: now, UpdatedAt: now}
	if err := tx.InsertProduct(ctx, prod); err != nil {
		t.Fatalf("InsertProduct failed: %v", err)
	}

	// Inserted out of order; the fractional timestamp decides.
	alerts := []record.StockAlert{
		{ID: "a-mid", ProductID: "p1", StockQuantity: 8, CreatedAt: now.Add(250 * time.Millisecond)},
		{ID: "a-first", ProductID: "p1", StockQuantity: 9, CreatedAt: now},
		{ID: "a-late", ProductID: "p1", StockQuantity: 7, CreatedAt: now.Add(900 * time.Millisecond)},
	}
	for i := range alerts {
		if err := tx.InsertStockAlert(ctx, &alerts[i]); err != nil {
			t.Fatalf("InsertStockAlert %s failed: %v", alerts[i].ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	got, err := s.ScanStockAlerts(ctx, AlertFilter{ProductID: "p1"})
	if err != nil {
		t.Fatalf("ScanStockAlerts failed: %v", err)
	}
	want := []string{"a-first", "a-mid", "a-late"}
	if len(got) != len(want) {
		t.Fatalf("expected %d alerts, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}
