package stores

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
)

type CartStore struct {
	r *resource[models.Cart]
}

func NewCartStore(deps Deps) *CartStore {
	return &CartStore{r: newResource("cart", deps, models.EmptyCart, models.Cart.Clone)}
}

// Cart returns a copy of the cached cart.
func (s *CartStore) Cart() models.Cart { return s.r.current() }

// IsLoading reports whether any cart request is in flight.
func (s *CartStore) IsLoading() bool { return s.r.loading() }

// Reset empties the cache and ignores responses still in flight.
func (s *CartStore) Reset() { s.r.reset() }

func (s *CartStore) GetCart(ctx context.Context) (models.Cart, error) {
	return s.send(ctx, "get cart", http.MethodGet, "/api/cart", nil, "")
}

func (s *CartStore) AddToCart(ctx context.Context, req models.AddToCartRequest) (models.Cart, error) {
	if strings.TrimSpace(req.ProductID) == "" {
		return s.Cart(), s.r.invalid(ctx, "add to cart", "Product is required")
	}
	if req.Quantity < 1 {
		return s.Cart(), s.r.invalid(ctx, "add to cart", "Quantity must be at least 1")
	}
	return s.send(ctx, "add to cart", http.MethodPost, "/api/cart/add", req, "Item added to cart")
}

func (s *CartStore) RemoveFromCart(ctx context.Context, productID string) (models.Cart, error) {
	path := "/api/cart/remove/" + url.PathEscape(productID)
	return s.send(ctx, "remove from cart", http.MethodDelete, path, nil, "Item removed from cart")
}

// UpdateCartItemQuantity never sends a request for newQuantity < 1.
func (s *CartStore) UpdateCartItemQuantity(ctx context.Context, productID string, newQuantity int) (models.Cart, error) {
	if newQuantity < 1 {
		return s.Cart(), s.r.invalid(ctx, "update quantity", "Quantity must be at least 1")
	}
	path := "/api/cart/update/" + url.PathEscape(productID)
	return s.send(ctx, "update quantity", http.MethodPatch, path, models.UpdateQuantityRequest{Quantity: newQuantity}, "")
}

// ClearCart empties the server cart. The local cart becomes models.EmptyCart,
// whose shipping cost may differ from the server's until the next GetCart.
func (s *CartStore) ClearCart(ctx context.Context) error {
	id := s.r.begin()
	defer s.r.end()

	var resp models.Envelope
	if err := s.r.deps.Client.Do(ctx, http.MethodDelete, "/api/cart/clear", nil, &resp); err != nil {
		return s.r.fail(ctx, "clear cart", err)
	}
	s.r.applyIf(ctx, id, models.EmptyCart())
	s.r.notify(ctx, successOr(resp.Message, "Cart cleared"))
	return nil
}

// send replaces the cache with the cart in the response. A stale response is
// still returned to the caller.
func (s *CartStore) send(ctx context.Context, op, method, path string, body any, success string) (models.Cart, error) {
	id := s.r.begin()
	defer s.r.end()

	var resp models.CartResponse
	if err := s.r.deps.Client.Do(ctx, method, path, body, &resp); err != nil {
		return s.Cart(), s.r.fail(ctx, op, err)
	}
	if resp.Cart == nil {
		return s.Cart(), s.r.fail(ctx, op, missing("cart"))
	}

	cart := resp.Cart.Clone()
	s.r.applyIf(ctx, id, cart)
	if success != "" {
		s.r.notify(ctx, successOr(resp.Message, success))
	}
	return cart.Clone(), nil
}
