package testserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
)

func reject(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": false, "message": message})
}

func (s *Server) getCart(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartFor(c.GetString("userId")).Clone()
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": cart})
}

func (s *Server) addToCart(c *gin.Context) {
	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[req.ProductID]
	if !ok {
		reject(c, "Product not found")
		return
	}
	if req.Quantity < 1 {
		reject(c, "Quantity must be at least 1")
		return
	}

	cart := s.cartFor(c.GetString("userId"))
	for i, item := range cart.Items {
		if item.ProductID == req.ProductID && item.Color == req.Color && item.Size == req.Size {
			if item.Quantity+req.Quantity > product.Stock {
				reject(c, "Insufficient stock")
				return
			}
			cart.Items[i].Quantity += req.Quantity
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart updated", "cart": cart.Clone()})
			return
		}
	}
	if req.Quantity > product.Stock {
		reject(c, "Insufficient stock")
		return
	}
	cart.Items = append(cart.Items, models.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Image:     product.Image,
		Quantity:  req.Quantity,
		Price:     product.Price,
		Color:     req.Color,
		Size:      req.Size,
	})
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item added to cart", "cart": cart.Clone()})
}

func (s *Server) removeFromCart(c *gin.Context) {
	productID := c.Param("productId")

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartFor(c.GetString("userId"))
	if _, ok := cart.Find(productID); !ok {
		reject(c, "Item not found in cart")
		return
	}
	items := []models.CartItem{}
	for _, item := range cart.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	cart.Items = items
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item removed from cart", "cart": cart.Clone()})
}

func (s *Server) updateQuantity(c *gin.Context) {
	productID := c.Param("productId")
	var req models.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Quantity < 1 {
		reject(c, "Quantity must be at least 1")
		return
	}
	if p, ok := s.products[productID]; ok && req.Quantity > p.Stock {
		reject(c, "Insufficient stock")
		return
	}
	cart := s.cartFor(c.GetString("userId"))
	for i, item := range cart.Items {
		if item.ProductID == productID {
			cart.Items[i].Quantity = req.Quantity
			c.JSON(http.StatusOK, gin.H{"success": true, "cart": cart.Clone()})
			return
		}
	}
	reject(c, "Item not found in cart")
}

func (s *Server) clearCart(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartFor(c.GetString("userId")).Items = []models.CartItem{}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart cleared"})
}

func (s *Server) getWishlist(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"success": true, "wishlist": s.wishlistFor(c.GetString("userId")).Clone()})
}

func (s *Server) addToWishlist(c *gin.Context) {
	var item models.WishlistItem
	if err := c.ShouldBindJSON(&item); err != nil || item.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.wishlistFor(c.GetString("userId"))
	if w.Contains(item.ProductID) {
		reject(c, "Item already in wishlist")
		return
	}
	w.Items = append(w.Items, item)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Added to wishlist", "wishlist": w.Clone()})
}

func (s *Server) removeFromWishlist(c *gin.Context) {
	productID := c.Param("productId")

	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.wishlistFor(c.GetString("userId"))
	if !w.Contains(productID) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Item not found in wishlist"})
		return
	}
	*w = w.Without(productID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Removed from wishlist"})
}

// createOrder stores the order as submitted; totals are not recomputed.
func (s *Server) createOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}
	if len(order.Items) == 0 {
		reject(c, "Order has no items")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if order.UserID == "" {
		order.UserID = c.GetString("userId")
	}
	order.ID = uuid.NewString()
	order.Status = models.OrderStatusPending
	order.CreatedAt = time.Now().UTC()
	s.orders[order.UserID] = append(s.orders[order.UserID], order)
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Order placed successfully", "order": order})
}

func (s *Server) listOrders(c *gin.Context) {
	studentID := c.Param("studentId")
	if studentID != c.GetString("userId") {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Forbidden"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	orders := append([]models.Order{}, s.orders[studentID]...)
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

func (s *Server) cancelOrder(c *gin.Context) {
	userID, orderID := c.Param("userId"), c.Param("orderId")
	var req models.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Reason) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Cancellation reason is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.orders[userID]
	for i := range orders {
		if orders[i].ID != orderID {
			continue
		}
		if !orders[i].Status.CanTransitionTo(models.OrderStatusCancelled) {
			reject(c, "Order cannot be cancelled")
			return
		}
		orders[i].Status = models.OrderStatusCancelled
		orders[i].CancellationReason = req.Reason
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order cancelled", "order": orders[i]})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
}

func (s *Server) listDoctors(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"success": true, "doctors": append([]models.Doctor{}, s.doctors...)})
}

func (s *Server) getProfile(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"success": true, key: s.profiles[c.GetString("userId")]})
	}
}

func (s *Server) updateProfile(c *gin.Context) {
	var p models.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = c.GetString("userId")
	s.profiles[p.ID] = p
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile Updated"})
}
