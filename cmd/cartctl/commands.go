package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storefront/internal/domain"
	"storefront/internal/shopify"
)

func (a *app) productsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List catalog products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			products, err := a.backend.FetchProducts(ctx)
			if err != nil {
				return describe(err)
			}
			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), products)
			}
			if len(products) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no products")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VARIANT\tTITLE\tFROM\tAVAILABLE")
			for _, p := range products {
				variant, available := "-", false
				if p.FirstVariant != nil {
					variant = shopify.TrimGID(shopify.TypeProductVariant, p.FirstVariant.ID)
					available = p.FirstVariant.AvailableForSale
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", variant, p.Title, p.MinVariantPrice, available)
			}
			return w.Flush()
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := a.load(ctx); err != nil {
				return describe(err)
			}
			return a.printCart(cmd.OutOrStdout(), a.store.Snapshot().Cart)
		},
	}
}

func (a *app) addCmd() *cobra.Command {
	var quantity int
	cmd := &cobra.Command{
		Use:   "add <variant-id>",
		Short: "Add a product variant to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := a.load(ctx); err != nil {
				return describe(err)
			}
			c, err := a.store.AddProduct(ctx, args[0], quantity)
			if err != nil {
				return describe(err)
			}
			return a.printCart(cmd.OutOrStdout(), c)
		},
	}
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "Quantity to add")
	return cmd
}

func (a *app) updateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <line-id> <quantity>",
		Short: "Change the quantity of a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity %q is not a number", args[1])
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := a.load(ctx); err != nil {
				return describe(err)
			}
			c, err := a.store.UpdateQuantity(ctx, args[0], quantity)
			if err != nil {
				return describe(err)
			}
			return a.printCart(cmd.OutOrStdout(), c)
		},
	}
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <line-id>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := a.load(ctx); err != nil {
				return describe(err)
			}
			c, err := a.store.RemoveProduct(ctx, args[0])
			if err != nil {
				return describe(err)
			}
			return a.printCart(cmd.OutOrStdout(), c)
		},
	}
}

func (a *app) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the current cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := a.store.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cart cleared")
			return nil
		},
	}
}

func (a *app) printCart(out io.Writer, c domain.Cart) error {
	if a.asJSON {
		return writeJSON(out, c)
	}
	if !c.Exists() {
		fmt.Fprintln(out, "cart is empty")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LINE\tPRODUCT\tVARIANT\tQTY\tPRICE\tTOTAL")
	for _, l := range c.Lines {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			shopify.TrimGID(shopify.TypeCartLine, l.ID),
			l.Merchandise.Product.Title,
			l.Merchandise.Title,
			l.Quantity,
			l.Merchandise.Price,
			l.Total(),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(c.Lines) > 0 {
		fmt.Fprintf(out, "\n%d items, subtotal %s\n", c.TotalQuantity(), c.Subtotal())
	}
	if c.CheckoutURL != "" {
		fmt.Fprintf(out, "checkout: %s\n", c.CheckoutURL)
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
