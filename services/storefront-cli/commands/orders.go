package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
)

func (c *cli) ordersCmd() *cobra.Command {
	var filter string
	list := func(ctx context.Context, _ []string) error {
		if _, err := c.studentID(ctx); err != nil {
			return err
		}
		if _, err := c.app.FetchOrders(ctx); err != nil {
			return err
		}
		printOrders(c.out, c.app.Orders.Filtered(models.OrderFilter(filter)))
		return nil
	}

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List, place and cancel orders",
		Args:  cobra.NoArgs,
		RunE:  c.authed(list),
	}
	cmd.PersistentFlags().StringVar(&filter, "filter", string(models.FilterAll), "All, PendingOrShipped or an exact status")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List orders",
		Args:  cobra.NoArgs,
		RunE:  c.authed(list),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "summary",
		Short: "Order counts and spend",
		Args:  cobra.NoArgs,
		RunE: c.authed(func(ctx context.Context, _ []string) error {
			if _, err := c.studentID(ctx); err != nil {
				return err
			}
			if _, err := c.app.FetchOrders(ctx); err != nil {
				return err
			}
			printSummary(c.out, c.app.Orders.Summary())
			return nil
		}),
	})

	var reason string
	cancelCmd := &cobra.Command{
		Use:   "cancel <orderId>",
		Short: "Cancel a pending order",
		Args:  cobra.ExactArgs(1),
		RunE: c.authed(func(ctx context.Context, args []string) error {
			if _, err := c.studentID(ctx); err != nil {
				return err
			}
			// Load the list so the pending check runs before the request.
			if _, err := c.app.FetchOrders(ctx); err != nil {
				return err
			}
			order, err := c.app.CancelOrder(ctx, args[0], reason)
			if err != nil {
				return err
			}
			printOrders(c.out, []models.Order{order})
			return nil
		}),
	}
	cancelCmd.Flags().StringVarP(&reason, "reason", "r", "", "why the order is cancelled")

	var (
		shipping models.ShippingInfo
		payment  string
	)
	checkoutCmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the current cart",
		Args:  cobra.NoArgs,
		RunE: c.authed(func(ctx context.Context, _ []string) error {
			if shipping.FullName == "" || shipping.Address == "" {
				return c.reject(ctx, "Shipping name and address are required")
			}
			if _, err := c.studentID(ctx); err != nil {
				return err
			}
			if _, err := c.app.Cart.GetCart(ctx); err != nil {
				return err
			}
			order, err := c.app.Checkout(ctx, shipping, payment)
			if err != nil {
				return err
			}
			printOrders(c.out, []models.Order{order})
			return nil
		}),
	}
	f := checkoutCmd.Flags()
	f.StringVar(&shipping.FullName, "name", "", "recipient name")
	f.StringVar(&shipping.Email, "email", "", "contact email")
	f.StringVar(&shipping.Phone, "phone", "", "contact phone")
	f.StringVar(&shipping.Address, "address", "", "street address")
	f.StringVar(&shipping.City, "city", "", "city")
	f.StringVar(&shipping.PostalCode, "postal-code", "", "postal code")
	f.StringVar(&shipping.Country, "country", "", "country")
	f.StringVar(&payment, "payment", "cod", "payment method")

	cmd.AddCommand(cancelCmd, checkoutCmd)
	return cmd
}
