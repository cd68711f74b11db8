package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

// CartRepo stores each cart as one JSON document under cart:<userID>.
// A single SET per save keeps a cart write atomic.
type CartRepo struct {
	rdb goredis.UniversalClient
	ttl time.Duration
}

// NewCartRepo builds the store. A zero ttl keeps carts forever; otherwise every
// save refreshes the expiry.
func NewCartRepo(rdb goredis.UniversalClient, ttl time.Duration) *CartRepo {
	return &CartRepo{rdb: rdb, ttl: ttl}
}

type cartDoc struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Items     []itemDoc `json:"items"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type itemDoc struct {
	ProductID    string `json:"productId"`
	Quantity     int32  `json:"quantity"`
	SelectedSize string `json:"selectedSize,omitempty"`
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

func (r *CartRepo) Get(ctx context.Context, userID string) (domain.Cart, error) {
	raw, err := r.rdb.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.Cart{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Cart{}, errors.Wrapf(err, "redis get cart %s", userID)
	}

	var doc cartDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Cart{}, errors.Wrapf(err, "decode cart %s", userID)
	}
	return fromDoc(doc), nil
}

func (r *CartRepo) Save(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	now := time.Now().UTC()
	if cart.ID == "" {
		cart.ID = uuid.NewString()
	}
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	data, err := json.Marshal(toDoc(cart))
	if err != nil {
		return domain.Cart{}, errors.Wrap(err, "encode cart")
	}
	if err := r.rdb.Set(ctx, cartKey(cart.UserID), data, r.ttl).Err(); err != nil {
		return domain.Cart{}, errors.Wrapf(err, "redis set cart %s", cart.UserID)
	}
	return cart, nil
}

func (r *CartRepo) Delete(ctx context.Context, userID string) error {
	if err := r.rdb.Del(ctx, cartKey(userID)).Err(); err != nil {
		return errors.Wrapf(err, "redis del cart %s", userID)
	}
	return nil
}

func toDoc(c domain.Cart) cartDoc {
	items := make([]itemDoc, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, itemDoc{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			SelectedSize: it.SelectedSize,
		})
	}
	return cartDoc{
		ID:        c.ID,
		UserID:    c.UserID,
		Items:     items,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func fromDoc(d cartDoc) domain.Cart {
	var items []domain.CartItem
	for _, it := range d.Items {
		items = append(items, domain.CartItem{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			SelectedSize: it.SelectedSize,
		})
	}
	return domain.Cart{
		ID:        d.ID,
		UserID:    d.UserID,
		Items:     items,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
