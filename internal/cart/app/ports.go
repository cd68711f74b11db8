package app

import (
	"context"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

// CartRepo persists whole carts keyed by user. Get returns ErrNotFound when the
// user has no cart.
type CartRepo interface {
	Get(ctx context.Context, userID string) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) (domain.Cart, error)
	Delete(ctx context.Context, userID string) error
}

// ProductReader resolves products for matching and display. It returns ErrNotFound
// for products that no longer exist.
type ProductReader interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

type Product struct {
	ID         string
	Title      string
	Image      string
	Category   string
	Price      int64
	SalePrice  int64
	TotalStock int32
}
