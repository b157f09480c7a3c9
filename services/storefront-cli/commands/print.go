package commands

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
)

func table(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func printCart(out io.Writer, cart models.Cart) {
	if len(cart.Items) == 0 {
		fmt.Fprintln(out, "Your cart is empty")
		return
	}
	w := table(out)
	fmt.Fprintln(w, "PRODUCT\tNAME\tVARIANT\tQTY\tPRICE\tTOTAL")
	for _, item := range cart.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			item.ProductID, item.Name, variant(item.Color, item.Size), item.Quantity, item.Price, item.LineTotal())
	}
	w.Flush()
	fmt.Fprintf(out, "Subtotal: %d\nShipping: %d\nTotal:    %d\n", cart.Total(), cart.ShippingCost, cart.GrandTotal())
}

func printWishlist(out io.Writer, wl models.Wishlist) {
	if len(wl.Items) == 0 {
		fmt.Fprintln(out, "Your wishlist is empty")
		return
	}
	w := table(out)
	fmt.Fprintln(w, "PRODUCT\tNAME\tVARIANT\tPRICE")
	for _, item := range wl.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", item.ProductID, item.Name, variant(item.Color, item.Size), item.Price)
	}
	w.Flush()
}

func printOrders(out io.Writer, orders []models.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(out, "No orders found")
		return
	}
	w := table(out)
	fmt.Fprintln(w, "ORDER\tSTATUS\tITEMS\tTOTAL\tPLACED")
	for _, o := range orders {
		placed := "-"
		if !o.CreatedAt.IsZero() {
			placed = o.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		items := 0
		for _, item := range o.Items {
			items += item.Quantity
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", o.ID, o.Status, items, o.TotalAmount, placed)
	}
	w.Flush()
}

func printSummary(out io.Writer, s models.OrderSummary) {
	fmt.Fprintf(out, "Orders:       %d\nTotal spent:  %d\nItems bought: %d\n", s.Count, s.TotalSpent, s.ItemsBought)

	statuses := make([]string, 0, len(s.ByStatus))
	for status := range s.ByStatus {
		statuses = append(statuses, string(status))
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		fmt.Fprintf(out, "  %-10s %d\n", status, s.ByStatus[models.OrderStatus(status)])
	}
}

func printDoctors(out io.Writer, doctors []models.Doctor) {
	if len(doctors) == 0 {
		fmt.Fprintln(out, "No doctors found")
		return
	}
	w := table(out)
	fmt.Fprintln(w, "DOCTOR\tNAME\tSPECIALITY\tEXPERIENCE\tFEES\tAVAILABLE")
	for _, d := range doctors {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%t\n", d.ID, d.Name, d.Speciality, d.Experience, d.Fees, d.Available)
	}
	w.Flush()
}

func printProfile(out io.Writer, p models.Profile) {
	w := table(out)
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(w, "%s:\t%s\n", k, v)
		}
	}
	row("Name", p.Name)
	row("Email", p.Email)
	row("Phone", p.Phone)
	row("Address", joinNonEmpty(p.Address.Line1, p.Address.Line2))
	row("Speciality", p.Speciality)
	row("About", p.About)
	if p.Fees > 0 {
		row("Fees", fmt.Sprint(p.Fees))
	}
	w.Flush()
}

func variant(color, size string) string {
	if v := joinNonEmpty(color, size); v != "" {
		return v
	}
	return "-"
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + ", " + b
}
