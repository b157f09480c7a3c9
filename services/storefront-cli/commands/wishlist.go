package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
)

func (c *cli) wishlistCmd() *cobra.Command {
	show := func(ctx context.Context, _ []string) error {
		w, err := c.app.Wishlist.GetWishlist(ctx)
		if err != nil {
			return err
		}
		printWishlist(c.out, w)
		return nil
	}

	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Show or change the wishlist",
		Args:  cobra.NoArgs,
		RunE:  c.authed(show),
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the wishlist",
		Args:  cobra.NoArgs,
		RunE:  c.authed(show),
	})

	var item models.WishlistItem
	addCmd := &cobra.Command{
		Use:   "add <productId>",
		Short: "Save a product to the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: c.authed(func(ctx context.Context, args []string) error {
			item.ProductID = args[0]
			w, err := c.app.Wishlist.AddToWishlist(ctx, item)
			if err != nil {
				return err
			}
			printWishlist(c.out, w)
			return nil
		}),
	}
	addCmd.Flags().StringVar(&item.Name, "name", "", "product name")
	addCmd.Flags().IntVar(&item.Price, "price", 0, "product price")
	addCmd.Flags().StringVar(&item.Image, "image", "", "product image URL")
	addCmd.Flags().StringVar(&item.Color, "color", "", "colour variant")
	addCmd.Flags().StringVar(&item.Size, "size", "", "size variant")

	removeCmd := &cobra.Command{
		Use:   "remove <productId>",
		Short: "Remove a product from the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: c.authed(func(ctx context.Context, args []string) error {
			if _, err := c.app.Wishlist.GetWishlist(ctx); err != nil {
				return err
			}
			// A failed removal still prints the reconciled list.
			w, err := c.app.Wishlist.RemoveFromWishlist(ctx, args[0])
			if c.app.LoggedIn() {
				printWishlist(c.out, w)
			}
			return err
		}),
	}

	cmd.AddCommand(addCmd, removeCmd)
	return cmd
}
