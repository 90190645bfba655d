package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ordercore/internal/ops"
)

const dayLayout = "2006-01-02"

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Start string
	End   string
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Daily sales report over a date range",
		Long: `Aggregate non-cancelled orders created in [start, end] by day:
order count, revenue, and average order value. Dates are UTC.

Example:
  ordercore report --start 2026-03-01 --end 2026-03-31`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Start, "start", "", "range start, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&opts.End, "end", "", "range end, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func runReport(opts *ReportOptions, cmd *cobra.Command) error {
	f := opts.Formatter(cmd)

	start, err := time.ParseInLocation(dayLayout, opts.Start, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid --start %q: expected YYYY-MM-DD", opts.Start)
	}
	end, err := time.ParseInLocation(dayLayout, opts.End, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid --end %q: expected YYYY-MM-DD", opts.End)
	}
	// Include the whole end day.
	end = end.Add(24*time.Hour - time.Nanosecond)

	op, closeFn, err := opts.openOps()
	if err != nil {
		return f.ReportError(err)
	}
	defer closeFn()

	report, err := op.GetSalesReport(cmd.Context(), start, end)
	if err != nil {
		return f.ReportError(err)
	}
	return f.SuccessText(ops.RenderSalesReport(report), report)
}
