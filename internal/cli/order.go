package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ordercore/internal/ops"
	"ordercore/internal/record"
)

// NewCreateOrderCommand creates the create-order command.
func NewCreateOrderCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create-order <customer-id>",
		Short: "Create a pending order for a customer",
		Long: `Create an empty pending order and print its id.

Example:
  ordercore create-order 018f3b9e-...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.Formatter(cmd)

			op, closeFn, err := rootOpts.openOps()
			if err != nil {
				return f.ReportError(err)
			}
			defer closeFn()

			id, err := op.CreateOrder(cmd.Context(), args[0])
			if err != nil {
				return f.ReportError(err)
			}
			return f.Success(map[string]string{"order_id": id})
		},
	}
}

// SetStatusOptions holds flags for the set-status command.
type SetStatusOptions struct {
	*RootOptions
	Actor string
}

// NewSetStatusCommand creates the set-status command.
func NewSetStatusCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SetStatusOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "set-status <order-id> <status>",
		Short: "Transition an order to a new status",
		Long: `Transition an order along the legal status flow
(pending -> processing -> shipped -> delivered, cancellation from
pending or processing). Each successful transition appends one audit
record; cancelling returns all reserved stock.

Example:
  ordercore set-status 018f3b9e-... processing --actor ops-team`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.Formatter(cmd)

			op, closeFn, err := opts.openOps()
			if err != nil {
				return f.ReportError(err)
			}
			defer closeFn()

			status := record.Status(args[1])
			if err := op.UpdateOrderStatus(cmd.Context(), args[0], status, opts.Actor); err != nil {
				return f.ReportError(err)
			}
			return f.Success(map[string]string{"order_id": args[0], "status": args[1]})
		},
	}

	cmd.Flags().StringVar(&opts.Actor, "actor", "cli", "actor recorded on the audit ledger")

	return cmd
}

// NewShowOrderCommand creates the show command.
func NewShowOrderCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <order-id>",
		Short:         "Show an order and its line items",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.Formatter(cmd)

			op, closeFn, err := rootOpts.openOps()
			if err != nil {
				return f.ReportError(err)
			}
			defer closeFn()

			detail, err := op.GetOrder(cmd.Context(), args[0])
			if err != nil {
				return f.ReportError(err)
			}
			return f.SuccessText(renderOrderDetail(detail), detail)
		},
	}
}

func renderOrderDetail(d *ops.OrderDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %s\n", d.Order.ID)
	fmt.Fprintf(&b, "  customer: %s\n", d.Order.CustomerID)
	fmt.Fprintf(&b, "  status:   %s\n", d.Order.Status)
	fmt.Fprintf(&b, "  total:    %s\n", ops.FormatCents(d.Order.TotalCents))
	if len(d.Items) == 0 {
		b.WriteString("  (no line items)\n")
		return b.String()
	}
	fmt.Fprintf(&b, "  items:\n")
	for _, li := range d.Items {
		fmt.Fprintf(&b, "    %s  product=%s qty=%d unit=%s subtotal=%s\n",
			li.ID, li.ProductID, li.Quantity,
			ops.FormatCents(li.UnitPriceCents), ops.FormatCents(li.SubtotalCents()))
	}
	return b.String()
}
