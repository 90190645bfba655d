package ops

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ordercore/internal/rules"
	"ordercore/internal/store"
)

// GetSalesReport aggregates committed, non-cancelled orders created in
// [start, end] by day. Read-only: it never interacts with the rule
// engine.
func (o *Ops) GetSalesReport(ctx context.Context, start, end time.Time) ([]store.SalesDay, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("ops: report range end %s precedes start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	report, err := o.store.SalesReport(ctx, start, end)
	if err != nil {
		return nil, rules.NewStoreUnavailableError(err)
	}
	return report, nil
}

// reportPrinter renders grouped numbers for report output.
var reportPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCents renders integer cents as a grouped dollar amount,
// e.g. 1234567 -> "$12,345.67".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return reportPrinter.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// RenderSalesReport formats report rows as an aligned text table.
func RenderSalesReport(report []store.SalesDay) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %8s %14s %14s\n", "DATE", "ORDERS", "REVENUE", "AVG ORDER")
	for _, d := range report {
		fmt.Fprintf(&b, "%-12s %8d %14s %14s\n",
			d.Date, d.OrderCount, FormatCents(d.RevenueCents), FormatCents(d.AvgOrderCents))
	}
	if len(report) == 0 {
		b.WriteString("(no orders in range)\n")
	}
	return b.String()
}
