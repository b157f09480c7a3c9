package stores

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	apperrors "github.com/Tiyani-source/MindMattersProject-sub002/services/common/errors"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
)

// RemovalPhase tracks an optimistic wishlist removal.
type RemovalPhase string

const (
	RemovalIdle       RemovalPhase = "idle"
	RemovalPending    RemovalPhase = "pending"
	RemovalCommitted  RemovalPhase = "committed"
	RemovalRolledBack RemovalPhase = "rolled_back"
)

// Removal describes the most recent RemoveFromWishlist call.
type Removal struct {
	Phase      RemovalPhase
	ProductID  string
	Optimistic models.Wishlist
	Err        error
}

type WishlistStore struct {
	r *resource[models.Wishlist]

	removalMu sync.RWMutex
	removal   Removal
}

func NewWishlistStore(deps Deps) *WishlistStore {
	return &WishlistStore{
		r:       newResource("wishlist", deps, models.EmptyWishlist, models.Wishlist.Clone),
		removal: Removal{Phase: RemovalIdle},
	}
}

func (s *WishlistStore) Wishlist() models.Wishlist { return s.r.current() }

func (s *WishlistStore) IsLoading() bool { return s.r.loading() }

func (s *WishlistStore) LastRemoval() Removal {
	s.removalMu.RLock()
	defer s.removalMu.RUnlock()
	r := s.removal
	r.Optimistic = r.Optimistic.Clone()
	return r
}

func (s *WishlistStore) Reset() {
	s.r.reset()
	s.setRemoval(Removal{Phase: RemovalIdle})
}

func (s *WishlistStore) GetWishlist(ctx context.Context) (models.Wishlist, error) {
	_, w, err := s.fetch(ctx)
	if err != nil {
		return s.Wishlist(), err
	}
	return w, nil
}

// AddToWishlist surfaces the backend's duplicate rejection as a Rejected error.
func (s *WishlistStore) AddToWishlist(ctx context.Context, item models.WishlistItem) (models.Wishlist, error) {
	if strings.TrimSpace(item.ProductID) == "" {
		return s.Wishlist(), s.r.invalid(ctx, "add to wishlist", "Product is required")
	}

	id := s.r.begin()
	var resp models.WishlistResponse
	err := s.r.deps.Client.Do(ctx, http.MethodPost, "/api/wishlist/add", item, &resp)
	s.r.end()
	if err != nil {
		return s.Wishlist(), s.r.fail(ctx, "add to wishlist", err)
	}
	s.r.notify(ctx, successOr(resp.Message, "Added to wishlist"))

	if resp.Wishlist == nil {
		return s.GetWishlist(ctx)
	}
	w := resp.Wishlist.Clone()
	s.r.applyIf(ctx, id, w)
	return w.Clone(), nil
}

// RemoveFromWishlist removes productID locally at once, then lets a
// reconciliation fetch overwrite the cache with the server's set. When the
// removal fails and the reconciliation fetch fails too, the pre-removal
// snapshot is restored. The removal's own error is returned in every failure
// case. A 401 skips reconciliation since the session is already gone.
func (s *WishlistStore) RemoveFromWishlist(ctx context.Context, productID string) (models.Wishlist, error) {
	const op = "remove from wishlist"

	snapshot := s.Wishlist()
	optimistic := snapshot.Without(productID)

	id := s.r.begin()
	s.r.applyIf(ctx, id, optimistic)
	s.setRemoval(Removal{Phase: RemovalPending, ProductID: productID, Optimistic: optimistic.Clone()})

	var resp models.Envelope
	err := s.r.deps.Client.Do(ctx, http.MethodDelete, "/api/wishlist/remove/"+url.PathEscape(productID), nil, &resp)
	s.r.end()

	if err == nil {
		s.r.notify(ctx, successOr(resp.Message, "Removed from wishlist"))
		s.setRemoval(Removal{Phase: RemovalCommitted, ProductID: productID, Optimistic: optimistic.Clone()})
		if _, w, ferr := s.fetch(ctx); ferr == nil {
			return w, nil
		}
		return s.Wishlist(), nil
	}

	err = s.r.fail(ctx, op, err)
	defer s.setRemoval(Removal{Phase: RemovalRolledBack, ProductID: productID, Optimistic: optimistic.Clone(), Err: err})

	if apperrors.KindOf(err) == apperrors.KindUnauthorized {
		s.r.applyIf(ctx, id, snapshot)
		return s.Wishlist(), err
	}

	fetchID, w, ferr := s.fetch(ctx)
	if ferr != nil {
		s.r.applyIf(ctx, fetchID, snapshot)
		return s.Wishlist(), err
	}
	return w, err
}

func (s *WishlistStore) fetch(ctx context.Context) (uint64, models.Wishlist, error) {
	id := s.r.begin()
	defer s.r.end()

	var resp models.WishlistResponse
	if err := s.r.deps.Client.Do(ctx, http.MethodGet, "/api/wishlist", nil, &resp); err != nil {
		return id, models.Wishlist{}, s.r.fail(ctx, "get wishlist", err)
	}
	if resp.Wishlist == nil {
		return id, models.Wishlist{}, s.r.fail(ctx, "get wishlist", missing("wishlist"))
	}
	w := resp.Wishlist.Clone()
	s.r.applyIf(ctx, id, w)
	return id, w.Clone(), nil
}

func (s *WishlistStore) setRemoval(r Removal) {
	s.removalMu.Lock()
	defer s.removalMu.Unlock()
	s.removal = r
}
