package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewRestockCommand creates the restock command.
func NewRestockCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restock <product-id> <quantity>",
		Short: "Add inbound stock to a product",
		Long: `Increase a product's stock. Restocking above the low-stock
threshold re-arms the alert for that product.

Example:
  ordercore restock 018f3ba1-... 50`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.Formatter(cmd)

			qty, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid quantity %q: expected integer", args[1])
			}

			op, closeFn, err := rootOpts.openOps()
			if err != nil {
				return f.ReportError(err)
			}
			defer closeFn()

			if err := op.Restock(cmd.Context(), args[0], qty); err != nil {
				return f.ReportError(err)
			}
			return f.Success(map[string]string{
				"product_id": args[0],
				"quantity":   args[1],
			})
		},
	}
}
