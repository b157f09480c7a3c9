package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/bff-service/controllers"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/bff-service/middleware"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/bff-service/sessions"
)

func RegisterRoutes(r *gin.Engine, ctrl *controllers.BFFController, reg *sessions.Registry) {
	r.GET("/health", ctrl.Health)

	// Session lifecycle - no session required
	public := r.Group("/bff")
	public.Use(middleware.Notices())
	{
		public.POST("/session", ctrl.CreateSession)
		public.DELETE("/session", ctrl.DeleteSession)
	}

	// Session-scoped routes
	protected := r.Group("/bff")
	protected.Use(middleware.Notices(), middleware.RequireSession(reg))
	{
		// Home page: profile + doctors
		protected.GET("/home", ctrl.Home)

		// Profile settings
		protected.GET("/profile", ctrl.GetProfile)
		protected.PUT("/profile", ctrl.UpdateProfile)
		protected.GET("/doctors", ctrl.Doctors)

		// Cart page
		protected.GET("/cart", ctrl.GetCart)
		protected.POST("/cart/add", ctrl.AddToCart)
		protected.DELETE("/cart/remove/:product_id", ctrl.RemoveCartItem)
		protected.PATCH("/cart/update/:product_id", ctrl.UpdateCartItem)
		protected.DELETE("/cart/clear", ctrl.ClearCart)

		// Wishlist page
		protected.GET("/wishlist", ctrl.GetWishlist)
		protected.POST("/wishlist/add", ctrl.AddToWishlist)
		protected.DELETE("/wishlist/remove/:product_id", ctrl.RemoveFromWishlist)

		// Orders and order analytics
		protected.GET("/orders", ctrl.Orders)
		protected.GET("/orders/summary", ctrl.OrderSummary)
		protected.POST("/orders/checkout", ctrl.Checkout)
		protected.PATCH("/orders/:id/cancel", ctrl.CancelOrder)
	}
}
