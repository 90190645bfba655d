package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewAddItemCommand creates the add-item command.
func NewAddItemCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add-item <order-id> <product-id> <quantity>",
		Short: "Add a line item to a pending order",
		Long: `Add a line item to a pending order. The product's current unit
price is captured on the item, stock is reserved, and the order total
is recomputed, all in one transaction. Fails without side effects when
stock is insufficient or the order is no longer pending.

Example:
  ordercore add-item 018f3b9e-... 018f3ba1-... 3`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.Formatter(cmd)

			qty, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid quantity %q: expected integer", args[2])
			}

			op, closeFn, err := rootOpts.openOps()
			if err != nil {
				return f.ReportError(err)
			}
			defer closeFn()

			if err := op.AddLineItem(cmd.Context(), args[0], args[1], qty); err != nil {
				return f.ReportError(err)
			}
			return f.Success(map[string]string{
				"order_id":   args[0],
				"product_id": args[1],
				"quantity":   args[2],
			})
		},
	}
}

// NewRemoveItemCommand creates the remove-item command.
func NewRemoveItemCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-item <order-id> <line-item-id>",
		Short: "Remove a line item from a pending order",
		Long: `Remove a line item, releasing its stock reservation and
recomputing the order total. Corrections are remove plus add-item;
line items are never edited in place.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.Formatter(cmd)

			op, closeFn, err := rootOpts.openOps()
			if err != nil {
				return f.ReportError(err)
			}
			defer closeFn()

			if err := op.RemoveLineItem(cmd.Context(), args[0], args[1]); err != nil {
				return f.ReportError(err)
			}
			return f.Success(map[string]string{
				"order_id":     args[0],
				"line_item_id": args[1],
			})
		},
	}
}
