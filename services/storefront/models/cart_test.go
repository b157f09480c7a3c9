package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
)

func TestCart_Totals(t *testing.T) {
	cart := models.Cart{
		Items: []models.CartItem{
			{ProductID: "p1", Quantity: 2, Price: 1000},
			{ProductID: "p2", Quantity: 1, Price: 3000},
		},
		ShippingCost: 350,
	}

	assert.Equal(t, 5000, cart.Total())
	assert.Equal(t, 5350, cart.GrandTotal())
	assert.Equal(t, 3, cart.ItemCount())
}

func TestEmptyCart(t *testing.T) {
	cart := models.EmptyCart()

	assert.Empty(t, cart.Items)
	assert.NotNil(t, cart.Items)
	assert.Equal(t, 500, cart.ShippingCost)
	assert.Equal(t, 0, cart.Total())

	b, err := json.Marshal(cart)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"shippingCost":500}`, string(b))
}

func TestCart_CloneDoesNotShareItems(t *testing.T) {
	cart := models.Cart{Items: []models.CartItem{{ProductID: "p1", Quantity: 1, Price: 10}}}
	clone := cart.Clone()
	clone.Items[0].Quantity = 9

	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestCart_Find(t *testing.T) {
	cart := models.Cart{Items: []models.CartItem{{ProductID: "p1", Quantity: 1}}}

	item, ok := cart.Find("p1")
	assert.True(t, ok)
	assert.Equal(t, "p1", item.ProductID)

	_, ok = cart.Find("nope")
	assert.False(t, ok)
}

func TestWishlist_Helpers(t *testing.T) {
	w := models.Wishlist{Items: []models.WishlistItem{{ProductID: "a"}, {ProductID: "b"}}}

	assert.True(t, w.Contains("a"))
	assert.False(t, w.Contains("c"))

	without := w.Without("a")
	assert.Equal(t, []string{"b"}, without.ProductIDs())
	assert.Equal(t, []string{"a", "b"}, w.ProductIDs())
}

func TestProfileResponse_Profile(t *testing.T) {
	var student models.ProfileResponse
	assert.NoError(t, json.Unmarshal([]byte(`{"success":true,"userData":{"_id":"s1","name":"Ann"}}`), &student))
	assert.Equal(t, "s1", student.Profile().ID)

	var doctor models.ProfileResponse
	assert.NoError(t, json.Unmarshal([]byte(`{"success":true,"profileData":{"_id":"d1","fees":40}}`), &doctor))
	assert.Equal(t, 40, doctor.Profile().Fees)

	assert.Nil(t, models.ProfileResponse{}.Profile())
}

func TestAvailableDoctors(t *testing.T) {
	doctors := []models.Doctor{{ID: "1", Available: true}, {ID: "2"}, {ID: "3", Available: true}}

	got := models.AvailableDoctors(doctors)
	assert.Len(t, got, 2)
	assert.Equal(t, "3", got[1].ID)
}
