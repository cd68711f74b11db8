package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dwikikusuma/storefront/internal/checkout/domain"
)

type CartReader interface {
	GetCart(ctx context.Context, userID string) ([]CartItem, error)
}

type CartItem struct {
	ProductID    string
	SelectedSize string
	Quantity     int64
}

type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

type Product struct {
	ID        string
	Title     string
	Price     int64
	SalePrice int64
}

type Service struct {
	Cart    CartReader
	Catalog CatalogReader

	maxConcurrent int
}

func NewService(cart CartReader, catalog CatalogReader, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}

	return &Service{
		Cart:          cart,
		Catalog:       catalog,
		maxConcurrent: maxConcurrent,
	}
}

var ErrEmptyCart = errors.New("cart is empty")

// Quote prices every cart line at its sale price when one is set.
func (s *Service) Quote(ctx context.Context, userID string) (domain.Quote, error) {
	items, err := s.Cart.GetCart(ctx, userID)
	if err != nil {
		return domain.Quote{}, err
	}

	if len(items) == 0 {
		return domain.Quote{}, ErrEmptyCart
	}

	lines := make([]domain.QuoteLine, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range items {
		g.Go(func() error {
			it := items[idx]
			if it.Quantity <= 0 {
				return fmt.Errorf("quantity must be greater than zero: %d", it.Quantity)
			}

			product, err := s.Catalog.GetProduct(ctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("failed to get product %s: %w", it.ProductID, err)
			}

			unit := product.Price
			if product.SalePrice > 0 {
				unit = product.SalePrice
			}
			lines[idx] = domain.QuoteLine{
				ProductID:    product.ID,
				SelectedSize: it.SelectedSize,
				Title:        product.Title,
				Quantity:     it.Quantity,
				UnitPrice:    unit,
				ListPrice:    product.Price,
				LineTotal:    unit * it.Quantity,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Quote{}, err
	}

	quote := domain.Quote{UserID: userID, Lines: lines}
	for _, line := range lines {
		quote.Subtotal += line.ListPrice * line.Quantity
		quote.Total += line.LineTotal
	}
	quote.Savings = quote.Subtotal - quote.Total

	return quote, nil
}
