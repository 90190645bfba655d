package record

import "time"

// Table identifies one of the logical tables in the record store.
type Table string

const (
	TableCustomer  Table = "customers"
	TableProduct   Table = "products"
	TableOrder     Table = "orders"
	TableLineItem  Table = "order_items"
	TableAudit     Table = "audit_records"
	TableAlert     Table = "stock_alerts"
)

// Row is implemented by every record type so mutations can carry
// typed snapshots without the engine knowing each concrete type.
type Row interface {
	// RowTable returns the logical table the row belongs to.
	RowTable() Table

	// RowKey returns the row's primary key.
	RowKey() string
}

// Customer is a buyer reference. Customers are managed outside the
// consistency core; they exist here so order creation has something
// to resolve against.
type Customer struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

func (c *Customer) RowTable() Table { return TableCustomer }
func (c *Customer) RowKey() string  { return c.ID }

// Product is a sellable item with a guarded stock quantity.
//
// StockQuantity must be >= 0 at every committed state. It is mutated
// only through guarded operations (reservation, restore, restock),
// never set directly by callers.
type Product struct {
	ID             string
	Category       string
	UnitPriceCents int64
	StockQuantity  int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (p *Product) RowTable() Table { return TableProduct }
func (p *Product) RowKey() string  { return p.ID }

// Order is a customer order. TotalCents is derived from the order's
// current line items and is never set directly by callers.
type Order struct {
	ID         string
	CustomerID string
	Status     Status
	TotalCents int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (o *Order) RowTable() Table { return TableOrder }
func (o *Order) RowKey() string  { return o.ID }

// LineItem is one product entry on an order.
//
// UnitPriceCents is captured at insertion time and never changes,
// even if the product's price changes later. Line items are never
// updated in place; corrections are modeled as removal + re-insertion.
type LineItem struct {
	ID             string
	OrderID        string
	ProductID      string
	Quantity       int64
	UnitPriceCents int64
	CreatedAt      time.Time
}

func (li *LineItem) RowTable() Table { return TableLineItem }
func (li *LineItem) RowKey() string  { return li.ID }

// SubtotalCents returns the line item's contribution to the order total.
func (li *LineItem) SubtotalCents() int64 {
	return li.Quantity * li.UnitPriceCents
}

// AuditRecord is one entry in the append-only order history.
// Audit records are created only as rule effects and are never
// updated or deleted.
type AuditRecord struct {
	ID            string
	OrderID       string
	Action        string
	OldStatus     Status
	NewStatus     Status
	OldTotalCents int64
	NewTotalCents int64
	Actor         string
	CreatedAt     time.Time
}

func (a *AuditRecord) RowTable() Table { return TableAudit }
func (a *AuditRecord) RowKey() string  { return a.ID }

// ActionStatusChange is the action kind recorded for status transitions.
const ActionStatusChange = "status_change"

// StockAlert records a product's stock crossing below the low-stock
// threshold. Created only by the alert rule; informational, never mutated.
type StockAlert struct {
	ID            string
	ProductID     string
	StockQuantity int64
	CreatedAt     time.Time
}

func (s *StockAlert) RowTable() Table { return TableAlert }
func (s *StockAlert) RowKey() string  { return s.ID }
