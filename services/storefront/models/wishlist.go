package models

type WishlistItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Image     string `json:"image,omitempty"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
}

type Wishlist struct {
	Items []WishlistItem `json:"items"`
}

func EmptyWishlist() Wishlist {
	return Wishlist{Items: []WishlistItem{}}
}

func (w Wishlist) Contains(productID string) bool {
	for _, item := range w.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// Without returns a copy of w lacking productID.
func (w Wishlist) Without(productID string) Wishlist {
	items := make([]WishlistItem, 0, len(w.Items))
	for _, item := range w.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	return Wishlist{Items: items}
}

func (w Wishlist) Clone() Wishlist {
	items := make([]WishlistItem, len(w.Items))
	copy(items, w.Items)
	return Wishlist{Items: items}
}

// ProductIDs lists the ids in order.
func (w Wishlist) ProductIDs() []string {
	ids := make([]string, 0, len(w.Items))
	for _, item := range w.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}
