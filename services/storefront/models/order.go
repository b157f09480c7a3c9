package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped: {OrderStatusDelivered},
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type ShippingInfo struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type OrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity"`
	Price     int    `json:"price"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
}

// Order is immutable after creation except for its status. Items and
// shipping info are snapshots, not references to live products.
type Order struct {
	ID                 string       `json:"_id,omitempty"`
	UserID             string       `json:"userId"`
	Items              []OrderItem  `json:"items"`
	ShippingInfo       ShippingInfo `json:"shippingInfo"`
	Subtotal           int          `json:"subtotal"`
	ShippingCost       int          `json:"shippingCost"`
	TotalAmount        int          `json:"totalAmount"`
	PaymentMethod      string       `json:"paymentMethod,omitempty"`
	Status             OrderStatus  `json:"status,omitempty"`
	CancellationReason string       `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time    `json:"createdAt,omitzero"`
}

// NewOrderFromCart snapshots cart and shipping into an order and computes
// its totals on the client. The backend stores them as submitted.
func NewOrderFromCart(userID string, cart Cart, info ShippingInfo, paymentMethod string) Order {
	items := make([]OrderItem, 0, len(cart.Items))
	for _, ci := range cart.Items {
		items = append(items, OrderItem{
			ProductID: ci.ProductID,
			Name:      ci.Name,
			Quantity:  ci.Quantity,
			Price:     ci.Price,
			Color:     ci.Color,
			Size:      ci.Size,
		})
	}
	subtotal := cart.Total()
	return Order{
		UserID:        userID,
		Items:         items,
		ShippingInfo:  info,
		Subtotal:      subtotal,
		ShippingCost:  cart.ShippingCost,
		TotalAmount:   subtotal + cart.ShippingCost,
		PaymentMethod: paymentMethod,
		Status:        OrderStatusPending,
	}
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// OrderFilter selects orders for the order pages: All, PendingOrShipped, or
// any exact status string.
type OrderFilter string

const (
	FilterAll              OrderFilter = "All"
	FilterPendingOrShipped OrderFilter = "PendingOrShipped"
)

// FilterOrders returns the orders matching filter, in their original order.
// An empty filter behaves like All.
func FilterOrders(orders []Order, filter OrderFilter) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		switch filter {
		case FilterAll, "":
			out = append(out, o)
		case FilterPendingOrShipped:
			if o.Status == OrderStatusPending || o.Status == OrderStatusShipped {
				out = append(out, o)
			}
		default:
			if string(o.Status) == string(filter) {
				out = append(out, o)
			}
		}
	}
	return out
}

// OrderSummary feeds the order analytics page.
type OrderSummary struct {
	Count       int                 `json:"count"`
	ByStatus    map[OrderStatus]int `json:"byStatus"`
	TotalSpent  int                 `json:"totalSpent"`
	ItemsBought int                 `json:"itemsBought"`
}

// SummarizeOrders counts orders per status. Cancelled orders count towards
// Count and ByStatus only.
func SummarizeOrders(orders []Order) OrderSummary {
	s := OrderSummary{ByStatus: make(map[OrderStatus]int)}
	for _, o := range orders {
		s.Count++
		s.ByStatus[o.Status]++
		if o.Status == OrderStatusCancelled {
			continue
		}
		s.TotalSpent += o.TotalAmount
		for _, item := range o.Items {
			s.ItemsBought += item.Quantity
		}
	}
	return s
}
