package domain

import (
	"errors"
	"math"
	"time"
)

// SizeBearingCategory mirrors the catalog category whose size is part of a line's identity.
const SizeBearingCategory = "Clothes"

// MaxLineQuantity caps the quantity a single line can hold.
const MaxLineQuantity = math.MaxInt32

var ErrQuantityTooLarge = errors.New("line quantity too large")

// CartItem is one (product, size) line. An empty SelectedSize means no size.
type CartItem struct {
	ProductID    string
	Quantity     int32
	SelectedSize string
}

type Cart struct {
	ID        string
	UserID    string
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Matches reports whether item is the line for productID and size. Size only counts
// for the size-bearing category; other products match on productID alone.
func Matches(item CartItem, productID, category, size string) bool {
	return item.ProductID == productID &&
		(category != SizeBearingCategory || item.SelectedSize == size)
}

// IndexOf returns the index of the first line matching productID/size, or -1.
func (c *Cart) IndexOf(productID, category, size string) int {
	for i, it := range c.Items {
		if Matches(it, productID, category, size) {
			return i
		}
	}
	return -1
}

// Add merges qty into the matching line or appends a new one. The size is kept on
// new lines only for size-bearing products. A merge that would pass MaxLineQuantity
// leaves the cart unchanged and returns ErrQuantityTooLarge.
func (c *Cart) Add(productID, category, size string, qty int32) error {
	if idx := c.IndexOf(productID, category, size); idx >= 0 {
		if c.Items[idx].Quantity > MaxLineQuantity-qty {
			return ErrQuantityTooLarge
		}
		c.Items[idx].Quantity += qty
		return nil
	}
	if category != SizeBearingCategory {
		size = ""
	}
	c.Items = append(c.Items, CartItem{
		ProductID:    productID,
		Quantity:     qty,
		SelectedSize: size,
	})
	return nil
}

// UpdateResult describes what SetQuantity touched.
type UpdateResult struct {
	Found bool
	// Conflict is set when a line was moved onto a size that already had its own
	// line, so that line was overwritten instead.
	Conflict bool
	// SourceRemoved is set when the moved line was dropped (merge mode).
	SourceRemoved bool
}

// SetQuantity overwrites a line's quantity. For size-bearing products a line that
// already carries size takes the quantity directly. Otherwise the line being moved
// (the one sized fromSize, or the product's first line when fromSize is empty) gets
// the quantity and is moved to size. Moving onto an existing size is a conflict: the
// target is overwritten and the moved line is removed only if mergeSource is set.
func (c *Cart) SetQuantity(productID, category, size, fromSize string, qty int32, mergeSource bool) UpdateResult {
	sizeBearing := category == SizeBearingCategory
	if !sizeBearing {
		size, fromSize = "", ""
	}

	src := -1
	for i, it := range c.Items {
		if it.ProductID == productID && (fromSize == "" || it.SelectedSize == fromSize) {
			src = i
			break
		}
	}
	if src < 0 {
		return UpdateResult{}
	}

	if size != "" {
		if dst := c.IndexOf(productID, category, size); dst >= 0 {
			c.Items[dst].Quantity = qty
			res := UpdateResult{Found: true}
			if fromSize != "" && fromSize != size {
				res.Conflict = true
				if mergeSource {
					c.Items = append(c.Items[:src], c.Items[src+1:]...)
					res.SourceRemoved = true
				}
			}
			return res
		}
	}

	c.Items[src].Quantity = qty
	if size != "" {
		c.Items[src].SelectedSize = size
	}
	return UpdateResult{Found: true}
}

// RemoveProduct drops every line of productID regardless of size and returns how many went.
func (c *Cart) RemoveProduct(productID string) int {
	return c.Retain(func(it CartItem) bool { return it.ProductID != productID })
}

// Retain keeps the lines for which keep returns true and returns the number removed.
func (c *Cart) Retain(keep func(CartItem) bool) int {
	kept := c.Items[:0]
	for _, it := range c.Items {
		if keep(it) {
			kept = append(kept, it)
		}
	}
	removed := len(c.Items) - len(kept)
	for i := len(kept); i < len(c.Items); i++ {
		c.Items[i] = CartItem{}
	}
	c.Items = kept
	return removed
}

// TotalQuantity sums quantities across lines.
func (c Cart) TotalQuantity() int64 {
	var n int64
	for _, it := range c.Items {
		n += int64(it.Quantity)
	}
	return n
}
