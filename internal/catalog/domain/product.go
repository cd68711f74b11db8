package domain

import "time"

// SizeBearingCategory is the only category whose garment size is part of a cart line's identity.
const SizeBearingCategory = "Clothes"

type Product struct {
	ID          string
	Title       string
	Description string
	Image       string
	Category    string
	Brand       string
	// Prices are in minor units.
	Price      int64
	SalePrice  int64
	TotalStock int32
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p Product) SizeBearing() bool {
	return p.Category == SizeBearingCategory
}

// EffectivePrice is the sale price when one is set, the list price otherwise.
func (p Product) EffectivePrice() int64 {
	if p.SalePrice > 0 {
		return p.SalePrice
	}
	return p.Price
}
