// Package appcontext composes the storefront stores around one session and
// coordinates the token lifecycle: a new token triggers the dependent
// fetches, and losing it (logout or any 401) resets every store.
package appcontext

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/common/auth"
	apperrors "github.com/Tiyani-source/MindMattersProject-sub002/services/common/errors"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/common/logger"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/clients"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/notify"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/session"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/stores"
)

type Options struct {
	BackendURL string
	Timeout    time.Duration
	Role       models.Role
	Storage    session.Storage
	Notifier   notify.Notifier
	Logger     *zap.Logger
	HTTPClient *http.Client
	Metrics    clients.MetricsRecorder
}

type AppContext struct {
	Session  *session.Manager
	Cart     *stores.CartStore
	Wishlist *stores.WishlistStore
	Orders   *stores.OrderStore
	Profile  *stores.ProfileStore
	Doctors  *stores.DoctorStore

	log *zap.Logger
}

// New loads the persisted token from opts.Storage. It does not fetch
// anything; call Refresh once a token is present.
func New(ctx context.Context, opts Options) (*AppContext, error) {
	log := logger.OrNop(opts.Logger)
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NewLogNotifier(log)
	}

	mgr, err := session.NewManager(ctx, opts.Storage, log)
	if err != nil {
		return nil, err
	}

	clientOpts := []clients.Option{clients.WithLogger(log)}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, clients.WithHTTPClient(opts.HTTPClient))
	}
	if opts.Metrics != nil {
		clientOpts = append(clientOpts, clients.WithMetrics(opts.Metrics))
	}
	client := clients.NewAPIClient(opts.BackendURL, opts.Timeout, mgr, clientOpts...)

	deps := stores.Deps{Client: client, Session: mgr, Notifier: opts.Notifier, Logger: log}
	a := &AppContext{
		Session:  mgr,
		Cart:     stores.NewCartStore(deps),
		Wishlist: stores.NewWishlistStore(deps),
		Orders:   stores.NewOrderStore(deps),
		Profile:  stores.NewProfileStore(deps, opts.Role),
		Doctors:  stores.NewDoctorStore(deps),
		log:      log,
	}
	mgr.OnChange(func(token string) {
		if token == "" {
			a.reset()
		}
	})
	return a, nil
}

func (a *AppContext) reset() {
	a.Cart.Reset()
	a.Wishlist.Reset()
	a.Orders.Reset()
	a.Profile.Reset()
	a.Doctors.Reset()
	a.log.Info("storefront state reset")
}

// Login stores token and loads everything that depends on it.
func (a *AppContext) Login(ctx context.Context, token string) error {
	if token == "" {
		return apperrors.Validation("Token is required")
	}
	if err := a.Session.SetToken(ctx, token); err != nil {
		return apperrors.New(apperrors.KindInternal, 0, "Failed to persist session", err)
	}
	return a.Refresh(ctx)
}

func (a *AppContext) Logout(ctx context.Context) error {
	return a.Session.Clear(ctx)
}

func (a *AppContext) LoggedIn() bool {
	return a.Session.LoggedIn()
}

// IsLoading reports whether any store has a request in flight.
func (a *AppContext) IsLoading() bool {
	return a.Cart.IsLoading() || a.Wishlist.IsLoading() || a.Orders.IsLoading() ||
		a.Profile.IsLoading() || a.Doctors.IsLoading()
}

// Refresh loads the profile, doctors, cart and wishlist concurrently. Each
// fetch runs to completion; failures are joined.
func (a *AppContext) Refresh(ctx context.Context) error {
	if !a.LoggedIn() {
		return apperrors.Unauthorized(notify.LoginAgain)
	}

	var (
		g    errgroup.Group
		errs = make([]error, 4)
	)
	g.Go(func() error { _, errs[0] = a.Profile.LoadProfileData(ctx); return nil })
	g.Go(func() error { _, errs[1] = a.Doctors.GetDoctorsData(ctx); return nil })
	g.Go(func() error { _, errs[2] = a.Cart.GetCart(ctx); return nil })
	g.Go(func() error { _, errs[3] = a.Wishlist.GetWishlist(ctx); return nil })
	_ = g.Wait()

	return errors.Join(errs...)
}

// StudentID is the loaded profile id, else the id claim of the token.
func (a *AppContext) StudentID() string {
	if p, ok := a.Profile.Profile(); ok && p.ID != "" {
		return p.ID
	}
	return auth.SubjectOf(a.Session.Token())
}

func (a *AppContext) FetchOrders(ctx context.Context) ([]models.Order, error) {
	return a.Orders.FetchOrders(ctx, a.StudentID())
}

func (a *AppContext) CancelOrder(ctx context.Context, orderID, reason string) (models.Order, error) {
	return a.Orders.CancelOrder(ctx, a.StudentID(), orderID, reason)
}

// Checkout reloads the cart and turns it into an order, then clears the cart
// and reloads the order list. The order stands even if the follow-ups fail.
func (a *AppContext) Checkout(ctx context.Context, shipping models.ShippingInfo, paymentMethod string) (models.Order, error) {
	cart, err := a.Cart.GetCart(ctx)
	if err != nil {
		return models.Order{}, err
	}
	order := models.NewOrderFromCart(a.StudentID(), cart, shipping, paymentMethod)

	created, err := a.Orders.CreateOrder(ctx, order)
	if err != nil {
		return models.Order{}, err
	}
	if err := a.Cart.ClearCart(ctx); err != nil {
		logger.For(ctx, a.log).Warn("cart not cleared after checkout", zap.String("order_id", created.ID), zap.Error(err))
	}
	if _, err := a.FetchOrders(ctx); err != nil {
		logger.For(ctx, a.log).Warn("orders not refreshed after checkout", zap.String("order_id", created.ID), zap.Error(err))
	}
	return created, nil
}
