package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ordercore/internal/ops"
	"ordercore/internal/record"
	"ordercore/internal/store"
)

// LedgerOptions holds shared flags for the audit and alerts commands.
type LedgerOptions struct {
	*RootOptions
	Since string
	Until string
}

func (o *LedgerOptions) window() (since, until time.Time, err error) {
	if o.Since != "" {
		since, err = time.ParseInLocation(dayLayout, o.Since, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --since %q: expected YYYY-MM-DD", o.Since)
		}
	}
	if o.Until != "" {
		until, err = time.ParseInLocation(dayLayout, o.Until, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --until %q: expected YYYY-MM-DD", o.Until)
		}
		until = until.Add(24*time.Hour - time.Nanosecond)
	}
	return since, until, nil
}

func addWindowFlags(cmd *cobra.Command, opts *LedgerOptions) {
	cmd.Flags().StringVar(&opts.Since, "since", "", "earliest day to include, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.Until, "until", "", "latest day to include, YYYY-MM-DD")
}

// NewAuditCommand creates the audit command.
func NewAuditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LedgerOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "audit [order-id]",
		Short: "List status-change audit records",
		Long: `List audit ledger entries in chronological order, optionally
restricted to one order and a date window.

Example:
  ordercore audit 018f3b9e-... --since 2026-03-01`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.Formatter(cmd)

			since, until, err := opts.window()
			if err != nil {
				return err
			}
			filter := store.AuditFilter{Since: since, Until: until}
			if len(args) == 1 {
				filter.OrderID = args[0]
			}

			op, closeFn, err := opts.openOps()
			if err != nil {
				return f.ReportError(err)
			}
			defer closeFn()

			records, err := op.ListAuditRecords(cmd.Context(), filter)
			if err != nil {
				return f.ReportError(err)
			}
			return f.SuccessText(renderAuditRecords(records), records)
		},
	}

	addWindowFlags(cmd, opts)
	return cmd
}

func renderAuditRecords(records []record.AuditRecord) string {
	if len(records) == 0 {
		return "(no audit records)\n"
	}
	var b strings.Builder
	for _, r := range records {
		fmt.Fprintf(&b, "%s  order=%s %s -> %s  total %s -> %s  by %s\n",
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.OrderID, r.OldStatus, r.NewStatus,
			ops.FormatCents(r.OldTotalCents), ops.FormatCents(r.NewTotalCents),
			r.Actor)
	}
	return b.String()
}

// NewAlertsCommand creates the alerts command.
func NewAlertsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LedgerOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "alerts [product-id]",
		Short: "List low-stock alerts",
		Long: `List low-stock alerts in chronological order, optionally
restricted to one product and a date window.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.Formatter(cmd)

			since, until, err := opts.window()
			if err != nil {
				return err
			}
			filter := store.AlertFilter{Since: since, Until: until}
			if len(args) == 1 {
				filter.ProductID = args[0]
			}

			op, closeFn, err := opts.openOps()
			if err != nil {
				return f.ReportError(err)
			}
			defer closeFn()

			alerts, err := op.ListStockAlerts(cmd.Context(), filter)
			if err != nil {
				return f.ReportError(err)
			}
			return f.SuccessText(renderAlerts(alerts), alerts)
		},
	}

	addWindowFlags(cmd, opts)
	return cmd
}

func renderAlerts(alerts []record.StockAlert) string {
	if len(alerts) == 0 {
		return "(no alerts)\n"
	}
	var b strings.Builder
	for _, a := range alerts {
		fmt.Fprintf(&b, "%s  product=%s stock=%d\n",
			a.CreatedAt.UTC().Format(time.RFC3339), a.ProductID, a.StockQuantity)
	}
	return b.String()
}
