package commands

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
)

func (c *cli) cartCmd() *cobra.Command {
	show := func(ctx context.Context, _ []string) error {
		cart, err := c.app.Cart.GetCart(ctx)
		if err != nil {
			return err
		}
		printCart(c.out, cart)
		return nil
	}

	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the cart",
		Args:  cobra.NoArgs,
		RunE:  c.authed(show),
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE:  c.authed(show),
	})

	var add models.AddToCartRequest
	addCmd := &cobra.Command{
		Use:   "add <productId>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: c.authed(func(ctx context.Context, args []string) error {
			add.ProductID = args[0]
			cart, err := c.app.Cart.AddToCart(ctx, add)
			if err != nil {
				return err
			}
			printCart(c.out, cart)
			return nil
		}),
	}
	addCmd.Flags().IntVarP(&add.Quantity, "qty", "q", 1, "quantity")
	addCmd.Flags().StringVar(&add.Color, "color", "", "colour variant")
	addCmd.Flags().StringVar(&add.Size, "size", "", "size variant")

	removeCmd := &cobra.Command{
		Use:   "remove <productId>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: c.authed(func(ctx context.Context, args []string) error {
			cart, err := c.app.Cart.RemoveFromCart(ctx, args[0])
			if err != nil {
				return err
			}
			printCart(c.out, cart)
			return nil
		}),
	}

	qtyCmd := &cobra.Command{
		Use:   "qty <productId> <quantity>",
		Short: "Set the quantity of a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: c.authed(func(ctx context.Context, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return c.reject(ctx, "Quantity must be a number")
			}
			cart, err := c.app.Cart.UpdateCartItemQuantity(ctx, args[0], n)
			if err != nil {
				return err
			}
			printCart(c.out, cart)
			return nil
		}),
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: c.authed(func(ctx context.Context, _ []string) error {
			return c.app.Cart.ClearCart(ctx)
		}),
	}

	cmd.AddCommand(addCmd, removeCmd, qtyCmd, clearCmd)
	return cmd
}
