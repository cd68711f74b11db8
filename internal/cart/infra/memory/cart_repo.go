package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

// CartRepo keeps carts in a map guarded by a RWMutex. Carts are copied on the way
// in and out so callers never share item slices with the store.
type CartRepo struct {
	mu    sync.RWMutex
	carts map[string]domain.Cart
}

func NewCartRepo() *CartRepo {
	return &CartRepo{carts: make(map[string]domain.Cart)}
}

func (r *CartRepo) Get(ctx context.Context, userID string) (domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[userID]
	if !ok {
		return domain.Cart{}, app.ErrNotFound
	}
	return clone(cart), nil
}

func (r *CartRepo) Save(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.carts[cart.UserID]; ok {
		cart.ID = existing.ID
		cart.CreatedAt = existing.CreatedAt
	}
	if cart.ID == "" {
		cart.ID = uuid.NewString()
	}
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	r.carts[cart.UserID] = clone(cart)
	return clone(cart), nil
}

func (r *CartRepo) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}

func clone(c domain.Cart) domain.Cart {
	c.Items = slices.Clone(c.Items)
	return c
}
