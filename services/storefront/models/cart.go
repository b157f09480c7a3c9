package models

// DefaultShippingCost is the fallback assumed after clearing a cart, until
// the next fetch reports the server's value.
const DefaultShippingCost = 500

type CartItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name,omitempty"`
	Image     string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
	Price     int    `json:"price"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
}

// LineTotal is price times quantity.
func (i CartItem) LineTotal() int {
	return i.Price * i.Quantity
}

type Cart struct {
	Items        []CartItem `json:"items"`
	ShippingCost int        `json:"shippingCost"`
}

// EmptyCart is the local state after ClearCart.
func EmptyCart() Cart {
	return Cart{Items: []CartItem{}, ShippingCost: DefaultShippingCost}
}

// Total is the items total, shipping excluded.
func (c Cart) Total() int {
	total := 0
	for _, item := range c.Items {
		total += item.LineTotal()
	}
	return total
}

// GrandTotal is Total plus shipping.
func (c Cart) GrandTotal() int {
	return c.Total() + c.ShippingCost
}

func (c Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c Cart) Find(productID string) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return CartItem{}, false
}

// Clone returns a copy whose item slice is not shared with c.
func (c Cart) Clone() Cart {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return c
}

type AddToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}
