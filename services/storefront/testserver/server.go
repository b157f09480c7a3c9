// Package testserver is an in-memory fake of the MindConnect REST backend
// for tests. It keeps per-user carts, wishlists, orders and profiles, can be
// told to fail specific routes and records every request it receives.
package testserver

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
)

const notAuthorized = "Not Authorized Login Again"

type Product struct {
	ID    string
	Name  string
	Price int
	Stock int
	Image string
}

// Request is one recorded call. Route is the gin route template, such as
// "/api/cart/update/:productId".
type Request struct {
	Method string
	Path   string
	Route  string
	Auth   string
	Body   []byte
}

type failure struct {
	status  int
	message string
	times   int
}

type Server struct {
	*httptest.Server

	mu           sync.Mutex
	tokens       map[string]string
	products     map[string]Product
	shippingCost int
	carts        map[string]*models.Cart
	wishlists    map[string]*models.Wishlist
	orders       map[string][]models.Order
	profiles     map[string]models.Profile
	doctors      []models.Doctor
	failures     map[string]*failure
	hooks        map[string]func(Request)
	requests     []Request
}

// New starts a fake backend whose carts report shippingCost.
func New(shippingCost int) *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		tokens:       make(map[string]string),
		products:     make(map[string]Product),
		shippingCost: shippingCost,
		carts:        make(map[string]*models.Cart),
		wishlists:    make(map[string]*models.Wishlist),
		orders:       make(map[string][]models.Order),
		profiles:     make(map[string]models.Profile),
		doctors:      []models.Doctor{},
		failures:     make(map[string]*failure),
		hooks:        make(map[string]func(Request)),
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(s.record(), s.inject())

	r.GET("/api/doctor/list", s.listDoctors)

	api := r.Group("/api")
	api.Use(s.auth())
	{
		api.GET("/cart", s.getCart)
		api.POST("/cart/add", s.addToCart)
		api.DELETE("/cart/remove/:productId", s.removeFromCart)
		api.PATCH("/cart/update/:productId", s.updateQuantity)
		api.DELETE("/cart/clear", s.clearCart)

		api.GET("/wishlist", s.getWishlist)
		api.POST("/wishlist/add", s.addToWishlist)
		api.DELETE("/wishlist/remove/:productId", s.removeFromWishlist)

		api.POST("/orders/create", s.createOrder)
		api.GET("/orders/student/:studentId", s.listOrders)
		api.PATCH("/orders/:userId/:orderId/cancel", s.cancelOrder)

		api.GET("/student/get-profile", s.getProfile("userData"))
		api.POST("/student/update-profile", s.updateProfile)
		api.GET("/doctor/profile", s.getProfile("profileData"))
		api.POST("/doctor/update-profile", s.updateProfile)
	}
	return r
}

// AddUser registers token as a valid session for userID with an empty
// profile.
func (s *Server) AddUser(token, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = userID
	if _, ok := s.profiles[userID]; !ok {
		s.profiles[userID] = models.Profile{ID: userID}
	}
}

// Revoke makes the backend answer 401 for token.
func (s *Server) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

func (s *Server) AddProduct(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *Server) SetShippingCost(cost int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shippingCost = cost
	for _, c := range s.carts {
		c.ShippingCost = cost
	}
}

func (s *Server) SetDoctors(doctors ...models.Doctor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doctors = append([]models.Doctor{}, doctors...)
}

func (s *Server) SetProfile(p models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
}

// SeedCart replaces the server cart of userID.
func (s *Server) SeedCart(userID string, items ...models.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[userID] = &models.Cart{Items: append([]models.CartItem{}, items...), ShippingCost: s.shippingCost}
}

func (s *Server) SeedWishlist(userID string, items ...models.WishlistItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wishlists[userID] = &models.Wishlist{Items: append([]models.WishlistItem{}, items...)}
}

func (s *Server) SeedOrders(userID string, orders ...models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[userID] = append([]models.Order{}, orders...)
}

func (s *Server) Cart(userID string) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartFor(userID).Clone()
}

func (s *Server) Wishlist(userID string) models.Wishlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlistFor(userID).Clone()
}

func (s *Server) Orders(userID string) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Order{}, s.orders[userID]...)
}

// Fail makes the next times calls of method+route answer status with an
// error envelope. A negative times fails forever.
func (s *Server) Fail(method, route string, times, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+route] = &failure{status: status, message: message, times: times}
}

// Before runs fn ahead of every call of method+route, outside the server lock.
// Tests use it to hold a response back.
func (s *Server) Before(method, route string, fn func(Request)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks[method+" "+route] = fn
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request{}, s.requests...)
}

// Count returns how many calls hit method+route.
func (s *Server) Count(method, route string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Route == route {
			n++
		}
	}
	return n
}

func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}
		req := Request{
			Method: c.Request.Method,
			Path:   c.Request.URL.Path,
			Route:  c.FullPath(),
			Auth:   c.GetHeader("Authorization"),
			Body:   body,
		}

		s.mu.Lock()
		s.requests = append(s.requests, req)
		hook := s.hooks[req.Method+" "+req.Route]
		s.mu.Unlock()

		if hook != nil {
			hook(req)
		}
		c.Next()
	}
}

func (s *Server) inject() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Request.Method + " " + c.FullPath()

		s.mu.Lock()
		f, ok := s.failures[key]
		if ok && f.times == 0 {
			ok = false
		}
		if ok && f.times > 0 {
			f.times--
		}
		s.mu.Unlock()

		if ok {
			c.AbortWithStatusJSON(f.status, gin.H{"success": false, "message": f.message})
			return
		}
		c.Next()
	}
}

func (s *Server) auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")

		s.mu.Lock()
		userID, ok := s.tokens[token]
		s.mu.Unlock()

		if token == "" || !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": notAuthorized})
			return
		}
		c.Set("userId", userID)
		c.Next()
	}
}

func (s *Server) cartFor(userID string) *models.Cart {
	c, ok := s.carts[userID]
	if !ok {
		c = &models.Cart{Items: []models.CartItem{}, ShippingCost: s.shippingCost}
		s.carts[userID] = c
	}
	return c
}

func (s *Server) wishlistFor(userID string) *models.Wishlist {
	w, ok := s.wishlists[userID]
	if !ok {
		w = &models.Wishlist{Items: []models.WishlistItem{}}
		s.wishlists[userID] = w
	}
	return w
}
