package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
)

func sampleOrders() []models.Order {
	return []models.Order{
		{ID: "o1", Status: models.OrderStatusPending, TotalAmount: 1500, Items: []models.OrderItem{{Quantity: 1}}},
		{ID: "o2", Status: models.OrderStatusShipped, TotalAmount: 2500, Items: []models.OrderItem{{Quantity: 2}}},
		{ID: "o3", Status: models.OrderStatusDelivered, TotalAmount: 1000, Items: []models.OrderItem{{Quantity: 1}, {Quantity: 3}}},
		{ID: "o4", Status: models.OrderStatusCancelled, TotalAmount: 9000, Items: []models.OrderItem{{Quantity: 5}}},
	}
}

func ids(orders []models.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func TestFilterOrders(t *testing.T) {
	orders := sampleOrders()

	tests := []struct {
		name   string
		filter models.OrderFilter
		want   []string
	}{
		{"all", models.FilterAll, []string{"o1", "o2", "o3", "o4"}},
		{"empty means all", "", []string{"o1", "o2", "o3", "o4"}},
		{"pending or shipped", models.FilterPendingOrShipped, []string{"o1", "o2"}},
		{"exact status", models.OrderFilter(models.OrderStatusDelivered), []string{"o3"}},
		{"unknown status", "Lost", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(models.FilterOrders(orders, tt.filter)))
		})
	}
}

func TestFilterOrders_DoesNotMutateInput(t *testing.T) {
	orders := sampleOrders()
	_ = models.FilterOrders(orders, models.FilterPendingOrShipped)
	assert.Len(t, orders, 4)
}

func TestSummarizeOrders(t *testing.T) {
	s := models.SummarizeOrders(sampleOrders())

	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 5000, s.TotalSpent)
	assert.Equal(t, 7, s.ItemsBought)
	assert.Equal(t, 1, s.ByStatus[models.OrderStatusCancelled])
	assert.Equal(t, 1, s.ByStatus[models.OrderStatusPending])
}

func TestOrderStatus_Transitions(t *testing.T) {
	assert.True(t, models.OrderStatusPending.CanTransitionTo(models.OrderStatusShipped))
	assert.True(t, models.OrderStatusPending.CanTransitionTo(models.OrderStatusCancelled))
	assert.True(t, models.OrderStatusShipped.CanTransitionTo(models.OrderStatusDelivered))

	assert.False(t, models.OrderStatusShipped.CanTransitionTo(models.OrderStatusCancelled))
	assert.False(t, models.OrderStatusDelivered.CanTransitionTo(models.OrderStatusPending))
	assert.False(t, models.OrderStatusCancelled.CanTransitionTo(models.OrderStatusPending))
}

func TestNewOrderFromCart(t *testing.T) {
	cart := models.Cart{
		Items: []models.CartItem{
			{ProductID: "p1", Name: "Journal", Quantity: 2, Price: 1500, Color: "blue"},
			{ProductID: "p2", Name: "Candle", Quantity: 1, Price: 2000},
		},
		ShippingCost: 500,
	}
	info := models.ShippingInfo{FullName: "Ann", City: "Colombo"}

	order := models.NewOrderFromCart("stu-1", cart, info, "cod")

	assert.Equal(t, "stu-1", order.UserID)
	assert.Equal(t, 5000, order.Subtotal)
	assert.Equal(t, 500, order.ShippingCost)
	assert.Equal(t, 5500, order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "Colombo", order.ShippingInfo.City)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "blue", order.Items[0].Color)

	cart.Items[0].Quantity = 10
	assert.Equal(t, 2, order.Items[0].Quantity)
}

func TestOrder_NewOrderOmitsServerFields(t *testing.T) {
	order := models.NewOrderFromCart("stu-1", models.Cart{Items: []models.CartItem{{ProductID: "p1", Quantity: 1, Price: 1}}}, models.ShippingInfo{}, "")

	b, err := json.Marshal(order)
	assert.NoError(t, err)

	var raw map[string]any
	assert.NoError(t, json.Unmarshal(b, &raw))
	assert.NotContains(t, raw, "_id")
	assert.NotContains(t, raw, "createdAt")
	assert.Equal(t, float64(1), raw["totalAmount"])
}
