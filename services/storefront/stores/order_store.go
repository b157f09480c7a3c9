package stores

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
)

type OrderStore struct {
	r *resource[[]models.Order]
}

func NewOrderStore(deps Deps) *OrderStore {
	empty := func() []models.Order { return []models.Order{} }
	return &OrderStore{r: newResource("orders", deps, empty, slices.Clone[[]models.Order])}
}

func (s *OrderStore) Orders() []models.Order { return s.r.current() }

func (s *OrderStore) IsLoading() bool { return s.r.loading() }

func (s *OrderStore) Reset() { s.r.reset() }

// Filtered applies filter to the cached orders.
func (s *OrderStore) Filtered(filter models.OrderFilter) []models.Order {
	return models.FilterOrders(s.Orders(), filter)
}

func (s *OrderStore) Summary() models.OrderSummary {
	return models.SummarizeOrders(s.Orders())
}

func (s *OrderStore) Find(orderID string) (models.Order, bool) {
	for _, o := range s.Orders() {
		if o.ID == orderID {
			return o, true
		}
	}
	return models.Order{}, false
}

// CreateOrder posts order as built by the caller, totals included; the
// backend stores them without recomputing.
func (s *OrderStore) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	const op = "create order"
	if len(order.Items) == 0 {
		return models.Order{}, s.r.invalid(ctx, op, "Your cart is empty")
	}
	for _, item := range order.Items {
		if item.Quantity < 1 {
			return models.Order{}, s.r.invalid(ctx, op, "Quantity must be at least 1")
		}
	}

	s.r.track()
	defer s.r.end()

	var resp models.OrderResponse
	if err := s.r.deps.Client.Do(ctx, http.MethodPost, "/api/orders/create", order, &resp); err != nil {
		return models.Order{}, s.r.fail(ctx, op, err)
	}
	if resp.Order == nil {
		return models.Order{}, s.r.fail(ctx, op, missing("order"))
	}
	s.r.notify(ctx, successOr(resp.Message, "Order placed successfully"))
	return *resp.Order, nil
}

// FetchOrders replaces the cached list. On failure the list is reset to empty
// rather than keeping the last known value.
func (s *OrderStore) FetchOrders(ctx context.Context, studentID string) ([]models.Order, error) {
	const op = "fetch orders"
	if strings.TrimSpace(studentID) == "" {
		return s.Orders(), s.r.invalid(ctx, op, "Please login to view your orders")
	}

	id := s.r.begin()
	defer s.r.end()

	var resp models.OrdersResponse
	err := s.r.deps.Client.Do(ctx, http.MethodGet, "/api/orders/student/"+url.PathEscape(studentID), nil, &resp)
	if err != nil {
		err = s.r.fail(ctx, op, err)
		s.r.applyIf(ctx, id, []models.Order{})
		return []models.Order{}, err
	}

	orders := slices.Clone(resp.Orders)
	if orders == nil {
		orders = []models.Order{}
	}
	s.r.applyIf(ctx, id, orders)
	return slices.Clone(orders), nil
}

// CancelOrder refetches the order list once the backend accepts the
// cancellation. Nothing changes locally before that.
func (s *OrderStore) CancelOrder(ctx context.Context, userID, orderID, reason string) (models.Order, error) {
	const op = "cancel order"
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.Order{}, s.r.invalid(ctx, op, "Please provide a cancellation reason")
	}
	if cached, ok := s.Find(orderID); ok && cached.Status != "" && !cached.Status.CanTransitionTo(models.OrderStatusCancelled) {
		return models.Order{}, s.r.invalid(ctx, op, "Only pending orders can be cancelled")
	}

	path := "/api/orders/" + url.PathEscape(userID) + "/" + url.PathEscape(orderID) + "/cancel"
	var resp models.OrderResponse
	s.r.track()
	err := s.r.deps.Client.Do(ctx, http.MethodPatch, path, models.CancelOrderRequest{Reason: reason}, &resp)
	s.r.end()
	if err != nil {
		return models.Order{}, s.r.fail(ctx, op, err)
	}
	s.r.notify(ctx, successOr(resp.Message, "Order cancelled"))

	_, _ = s.FetchOrders(ctx, userID)

	if resp.Order != nil {
		return *resp.Order, nil
	}
	if o, ok := s.Find(orderID); ok {
		return o, nil
	}
	return models.Order{ID: orderID, UserID: userID, Status: models.OrderStatusCancelled, CancellationReason: reason}, nil
}
