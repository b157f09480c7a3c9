package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	awspkg "github.com/Tiyani-source/MindMattersProject-sub002/pkg/aws"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/bff-service/events"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/bff-service/idempotency"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/bff-service/middleware"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/bff-service/sessions"
	apperrors "github.com/Tiyani-source/MindMattersProject-sub002/services/common/errors"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/common/logger"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/appcontext"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/clients"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
)

const IdempotencyHeader = "Idempotency-Key"

type BFFController struct {
	sessions     *sessions.Registry
	idem         *idempotency.Store
	events       *events.Publisher
	metrics      clients.MetricsRecorder
	cookieSecure bool
	cookieTTL    time.Duration
	log          *zap.Logger
}

type Options struct {
	Idempotency  *idempotency.Store
	Events       *events.Publisher
	Metrics      clients.MetricsRecorder
	CookieSecure bool
	CookieTTL    time.Duration
	Logger       *zap.Logger
}

func NewBFFController(reg *sessions.Registry, opts Options) *BFFController {
	return &BFFController{
		sessions:     reg,
		idem:         opts.Idempotency,
		events:       opts.Events,
		metrics:      opts.Metrics,
		cookieSecure: opts.CookieSecure,
		cookieTTL:    opts.CookieTTL,
		log:          logger.OrNop(opts.Logger),
	}
}

func (b *BFFController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": b.sessions.Len()})
}

// respond writes the storefront envelope plus the notices raised so far.
func respond(c *gin.Context, status int, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = status < 400
	body["notices"] = middleware.CollectedNotices(c)
	c.JSON(status, body)
}

func fail(c *gin.Context, err error) {
	respond(c, apperrors.StatusFor(err), gin.H{"message": apperrors.Message(err)})
}

func badRequest(c *gin.Context, msg string) {
	fail(c, apperrors.Validation(msg))
}

func (b *BFFController) app(c *gin.Context) (*appcontext.AppContext, bool) {
	app, err := middleware.GetAppContext(c)
	if err != nil {
		logger.Error(c, "session middleware missing", err)
		fail(c, err)
		return nil, false
	}
	return app, true
}

type createSessionRequest struct {
	Token string `json:"token" binding:"required"`
}

// CreateSession exchanges a backend token for a BFF session cookie.
func (b *BFFController) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Token is required")
		return
	}

	ctx := c.Request.Context()
	id, app, err := b.sessions.Create(ctx)
	if err != nil {
		logger.Error(c, "failed to create session", err)
		fail(c, err)
		return
	}

	err = app.Login(ctx, req.Token)
	if !app.LoggedIn() {
		b.sessions.Remove(id)
		fail(c, err)
		return
	}
	if err != nil {
		logger.Warn(c, "session started with partial data", zap.Error(err))
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, id, int(b.cookieTTL.Seconds()), "/", "", b.cookieSecure, true)

	body := gin.H{
		"sessionId": id,
		"cart":      app.Cart.Cart(),
		"wishlist":  app.Wishlist.Wishlist(),
		"doctors":   app.Doctors.Doctors(),
	}
	if p, ok := app.Profile.Profile(); ok {
		body["profile"] = p
	}
	respond(c, http.StatusCreated, body)
}

func (b *BFFController) DeleteSession(c *gin.Context) {
	id := middleware.SessionID(c)
	if app, err := b.sessions.Get(c.Request.Context(), id); err == nil {
		_ = app.Logout(c.Request.Context())
	}
	b.sessions.Remove(id)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", b.cookieSecure, true)
	respond(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// Home loads the profile and the doctor list concurrently.
func (b *BFFController) Home(c *gin.Context) {
	app, ok := b.app(c)
	if !ok {
		return
	}

	var (
		profile models.Profile
		doctors []models.Doctor
	)
	ctx := c.Request.Context()
	var g errgroup.Group
	g.Go(func() (err error) {
		profile, err = app.Profile.LoadProfileData(ctx)
		return err
	})
	g.Go(func() (err error) {
		doctors, err = app.Doctors.GetDoctorsData(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"profile":   profile,
		"doctors":   doctors,
		"cartCount": app.Cart.Cart().ItemCount(),
		"timestamp": time.Now().UTC(),
	})
}

func (b *BFFController) GetProfile(c *gin.Context) {
	app, ok := b.app(c)
	if !ok {
		return
	}
	p, err := app.Profile.LoadProfileData(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"profile": p})
}

func (b *BFFController) UpdateProfile(c *gin.Context) {
	app, ok := b.app(c)
	if !ok {
		return
	}
	var p models.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "invalid profile payload")
		return
	}
	updated, err := app.Profile.UpdateProfile(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"profile": updated})
}

func (b *BFFController) Doctors(c *gin.Context) {
	app, ok := b.app(c)
	if !ok {
		return
	}
	doctors, err := app.Doctors.GetDoctorsData(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if c.Query("available") == "true" {
		doctors = models.AvailableDoctors(doctors)
	}
	respond(c, http.StatusOK, gin.H{"doctors": doctors})
}

func (b *BFFController) cartResult(c *gin.Context, cart models.Cart, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"cart":       cart,
		"total":      cart.Total(),
		"grandTotal": cart.GrandTotal(),
	})
}

func (b *BFFController) GetCart(c *gin.Context) {
	app, ok := b.app(c)
	if !ok {
		return
	}
	cart, err := app.Cart.GetCart(c.Request.Context())
	b.cartResult(c, cart, err)
}

func (b *BFFController) AddToCart(c *gin.Context) {
	app, ok := b.app(c)
	if !ok {
		return
	}
	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid cart payload")
		return
	}
	cart, err := app.Cart.AddToCart(c.Request.Context(), req)
	b.cartResult(c, cart, err)
}

func (b *BFFController) RemoveCartItem(c *gin.Context) {
	app, ok := b.app(c)
	if !ok {
		return
	}
	cart, err := app.Cart.RemoveFromCart(c.Request.Context(), c.Param("product_id"))
	b.cartResult(c, cart, err)
}

func (b *BFFController) UpdateCartItem(c *gin.Context) {
	app, ok := b.app(c)
	if !ok {
		return
	}
	var req models.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid quantity payload")
		return
	}
	cart, err := app.Cart.UpdateCartItemQuantity(c.Request.Context(), c.Param("product_id"), req.Quantity)
	b.cartResult(c, cart, err)
}

func (b *BFFController) ClearCart(c *gin.Context) {
	app, ok := b.app(c)
	if !ok {
		return
	}
	if err := app.Cart.ClearCart(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	b.cartResult(c, app.Cart.Cart(), nil)
}

func (b *BFFController) wishlistResult(c *gin.Context, w models.Wishlist, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"wishlist": w})
}

func (b *BFFController) GetWishlist(c *gin.Context) {
	app, ok := b.app(c)
	if !ok {
		return
	}
	w, err := app.Wishlist.GetWishlist(c.Request.Context())
	b.wishlistResult(c, w, err)
}

func (b *BFFController) AddToWishlist(c *gin.Context) {
	app, ok := b.app(c)
	if !ok {
		return
	}
	var item models.WishlistItem
	if err := c.ShouldBindJSON(&item); err != nil {
		badRequest(c, "invalid wishlist payload")
		return
	}
	w, err := app.Wishlist.AddToWishlist(c.Request.Context(), item)
	b.wishlistResult(c, w, err)
}

// RemoveFromWishlist answers with the reconciled wishlist even on failure.
func (b *BFFController) RemoveFromWishlist(c *gin.Context) {
	app, ok := b.app(c)
	if !ok {
		return
	}
	w, err := app.Wishlist.RemoveFromWishlist(c.Request.Context(), c.Param("product_id"))
	removal := app.Wishlist.LastRemoval()
	if err != nil {
		respond(c, apperrors.StatusFor(err), gin.H{
			"message":  apperrors.Message(err),
			"wishlist": w,
			"removal":  removal.Phase,
		})
		return
	}
	respond(c, http.StatusOK, gin.H{"wishlist": w, "removal": removal.Phase})
}

func (b *BFFController) Orders(c *gin.Context) {
	app, ok := b.app(c)
	if !ok {
		return
	}
	orders, err := app.FetchOrders(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	filter := models.OrderFilter(c.DefaultQuery("filter", string(models.FilterAll)))
	respond(c, http.StatusOK, gin.H{
		"orders": models.FilterOrders(orders, filter),
		"filter": filter,
	})
}

func (b *BFFController) OrderSummary(c *gin.Context) {
	app, ok := b.app(c)
	if !ok {
		return
	}
	if _, err := app.FetchOrders(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"summary": app.Orders.Summary()})
}

type checkoutRequest struct {
	ShippingInfo  models.ShippingInfo `json:"shippingInfo"`
	PaymentMethod string              `json:"paymentMethod"`
}

// Checkout places an order from the session's cart. A repeated
// Idempotency-Key replays the first order instead of placing another.
func (b *BFFController) Checkout(c *gin.Context) {
	app, ok := b.app(c)
	if !ok {
		return
	}
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid checkout payload")
		return
	}
	if strings.TrimSpace(req.ShippingInfo.FullName) == "" || strings.TrimSpace(req.ShippingInfo.Address) == "" {
		badRequest(c, "Shipping name and address are required")
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "cod"
	}

	ctx := c.Request.Context()
	key := strings.TrimSpace(c.GetHeader(IdempotencyHeader))
	if key != "" && b.idem != nil {
		key = app.StudentID() + ":" + key
		existing, err := b.idem.Begin(ctx, key)
		switch {
		case errors.Is(err, idempotency.ErrInProgress):
			fail(c, apperrors.Rejected("Checkout already in progress"))
			return
		case err != nil:
			logger.Error(c, "idempotency lookup failed", err)
			fail(c, apperrors.New(apperrors.KindInternal, 0, "Something went wrong", err))
			return
		case existing != nil:
			c.Header("Idempotent-Replayed", "true")
			respond(c, http.StatusOK, gin.H{"order": existing})
			return
		}
	} else {
		key = ""
	}

	order, err := app.Checkout(ctx, req.ShippingInfo, req.PaymentMethod)
	if err != nil {
		if key != "" {
			_ = b.idem.Abort(context.WithoutCancel(ctx), key)
		}
		fail(c, err)
		return
	}
	if key != "" {
		if err := b.idem.Complete(context.WithoutCancel(ctx), key, order); err != nil {
			logger.Error(c, "failed to store idempotent order", err, zap.String("order_id", order.ID))
		}
	}

	b.events.OrderPlaced(ctx, order)
	b.count(ctx, awspkg.MetricOrdersCreated)
	respond(c, http.StatusCreated, gin.H{"order": order})
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (b *BFFController) CancelOrder(c *gin.Context) {
	app, ok := b.app(c)
	if !ok {
		return
	}
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid cancel payload")
		return
	}
	order, err := app.CancelOrder(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	b.events.OrderCancelled(c.Request.Context(), order)
	b.count(c.Request.Context(), awspkg.MetricOrdersCancelled)
	respond(c, http.StatusOK, gin.H{"order": order, "orders": app.Orders.Orders()})
}

func (b *BFFController) count(ctx context.Context, metric string) {
	if b.metrics == nil {
		return
	}
	_ = b.metrics.RecordCount(context.WithoutCancel(ctx), metric, map[string]string{"Service": "bff-service"})
}
