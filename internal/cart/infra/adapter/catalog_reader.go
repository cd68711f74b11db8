package adapter

import (
	"context"
	"errors"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
)

// CatalogServiceReader lets the cart resolve products through the catalog service.
type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) GetProduct(ctx context.Context, productID string) (cartapp.Product, error) {
	p, err := r.svc.GetProduct(ctx, productID)
	if errors.Is(err, catalogapp.ErrNotFound) || errors.Is(err, catalogapp.ErrInvalidInput) {
		return cartapp.Product{}, cartapp.ErrNotFound
	}
	if err != nil {
		return cartapp.Product{}, err
	}

	return cartapp.Product{
		ID:         p.ID,
		Title:      p.Title,
		Image:      p.Image,
		Category:   p.Category,
		Price:      p.Price,
		SalePrice:  p.SalePrice,
		TotalStock: p.TotalStock,
	}, nil
}
