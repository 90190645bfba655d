package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// AddCustomerOptions holds flags for the add-customer command.
type AddCustomerOptions struct {
	*RootOptions
	Email string
}

// NewAddCustomerCommand creates the add-customer command.
func NewAddCustomerCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddCustomerOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add-customer <name>",
		Short: "Register a customer",
		Long: `Register a customer and print its id.

Example:
  ordercore add-customer "Ada Lovelace" --email ada@example.com`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return addCustomer(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "customer email (required)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func addCustomer(opts *AddCustomerOptions, name string, cmd *cobra.Command) error {
	f := opts.Formatter(cmd)

	op, closeFn, err := opts.openOps()
	if err != nil {
		return f.ReportError(err)
	}
	defer closeFn()

	id, err := op.CreateCustomer(cmd.Context(), name, opts.Email)
	if err != nil {
		return f.ReportError(err)
	}
	return f.Success(map[string]string{"customer_id": id})
}

// AddProductOptions holds flags for the add-product command.
type AddProductOptions struct {
	*RootOptions
	Category string
	Stock    int64
}

// NewAddProductCommand creates the add-product command.
func NewAddProductCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddProductOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add-product <price-cents>",
		Short: "Register a product",
		Long: `Register a product with a unit price in integer cents and print its id.

Example:
  ordercore add-product 2500 --category widgets --stock 100`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			priceCents, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || priceCents < 0 {
				return fmt.Errorf("invalid price %q: expected non-negative integer cents", args[0])
			}
			return addProduct(opts, priceCents, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "general", "product category")
	cmd.Flags().Int64Var(&opts.Stock, "stock", 0, "initial stock quantity")

	return cmd
}

func addProduct(opts *AddProductOptions, priceCents int64, cmd *cobra.Command) error {
	f := opts.Formatter(cmd)

	if opts.Stock < 0 {
		return f.ReportError(fmt.Errorf("initial stock must not be negative, got %d", opts.Stock))
	}

	op, closeFn, err := opts.openOps()
	if err != nil {
		return f.ReportError(err)
	}
	defer closeFn()

	id, err := op.CreateProduct(cmd.Context(), opts.Category, priceCents, opts.Stock)
	if err != nil {
		return f.ReportError(err)
	}
	return f.Success(map[string]string{"product_id": id})
}
