package models

// Envelope is the {success, message} frame every backend response carries.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (e Envelope) Succeeded() bool { return e.Success }

func (e Envelope) Reason() string { return e.Message }

// CartResponse is returned by every /api/cart endpoint except clear.
type CartResponse struct {
	Envelope
	Cart *Cart `json:"cart,omitempty"`
}

type WishlistResponse struct {
	Envelope
	Wishlist *Wishlist `json:"wishlist,omitempty"`
}

type OrderResponse struct {
	Envelope
	Order *Order `json:"order,omitempty"`
}

type OrdersResponse struct {
	Envelope
	Orders []Order `json:"orders"`
}

type DoctorsResponse struct {
	Envelope
	Doctors []Doctor `json:"doctors"`
}

// ProfileResponse covers both roles: students get userData, doctors profileData.
type ProfileResponse struct {
	Envelope
	UserData    *Profile `json:"userData,omitempty"`
	ProfileData *Profile `json:"profileData,omitempty"`
}

// Profile returns whichever profile key the backend filled.
func (r ProfileResponse) Profile() *Profile {
	if r.UserData != nil {
		return r.UserData
	}
	return r.ProfileData
}
