package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	line := CartItem{ProductID: "p", SelectedSize: "M", Quantity: 1}

	tests := []struct {
		name     string
		product  string
		category string
		size     string
		want     bool
	}{
		{"clothes same size", "p", SizeBearingCategory, "M", true},
		{"clothes other size", "p", SizeBearingCategory, "L", false},
		{"clothes no size", "p", SizeBearingCategory, "", false},
		{"other category ignores size", "p", "Shoes", "L", true},
		{"other product", "q", "Shoes", "M", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(line, tt.product, tt.category, tt.size))
		})
	}
}

func TestAddMergesNonSizeProduct(t *testing.T) {
	var c Cart
	c.Add("lamp", "Home", "", 2)
	c.Add("lamp", "Home", "XL", 3)

	require.Len(t, c.Items, 1)
	assert.Equal(t, int32(5), c.Items[0].Quantity)
	assert.Empty(t, c.Items[0].SelectedSize)
}

func TestAddKeepsSizesApart(t *testing.T) {
	var c Cart
	c.Add("tee", SizeBearingCategory, "M", 1)
	c.Add("tee", SizeBearingCategory, "L", 1)
	c.Add("tee", SizeBearingCategory, "M", 2)

	require.Len(t, c.Items, 2)
	assert.Equal(t, CartItem{ProductID: "tee", SelectedSize: "M", Quantity: 3}, c.Items[0])
	assert.Equal(t, CartItem{ProductID: "tee", SelectedSize: "L", Quantity: 1}, c.Items[1])
}

func TestAddClothesWithoutSizeIsItsOwnLine(t *testing.T) {
	var c Cart
	c.Add("tee", SizeBearingCategory, "", 1)
	c.Add("tee", SizeBearingCategory, "", 1)
	c.Add("tee", SizeBearingCategory, "S", 1)

	require.Len(t, c.Items, 2)
	assert.Equal(t, int32(2), c.Items[0].Quantity)
}

func TestAddRejectsOverflow(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add("lamp", "Home", "", MaxLineQuantity))

	err := c.Add("lamp", "Home", "", 1)
	assert.ErrorIs(t, err, ErrQuantityTooLarge)
	assert.Equal(t, []CartItem{{ProductID: "lamp", Quantity: MaxLineQuantity}}, c.Items)

	require.NoError(t, c.Add("tee", SizeBearingCategory, "M", MaxLineQuantity-1))
	require.NoError(t, c.Add("tee", SizeBearingCategory, "M", 1))
	assert.Equal(t, int32(MaxLineQuantity), c.Items[1].Quantity)
}

func TestSetQuantity(t *testing.T) {
	t.Run("missing product", func(t *testing.T) {
		var c Cart
		assert.False(t, c.SetQuantity("x", "Home", "", "", 1, false).Found)
	})

	t.Run("plain overwrite", func(t *testing.T) {
		var c Cart
		c.Add("lamp", "Home", "", 2)
		res := c.SetQuantity("lamp", "Home", "XL", "", 7, false)
		assert.Equal(t, UpdateResult{Found: true}, res)
		assert.Equal(t, int32(7), c.Items[0].Quantity)
		assert.Empty(t, c.Items[0].SelectedSize)
	})

	t.Run("resize first line", func(t *testing.T) {
		var c Cart
		c.Add("tee", SizeBearingCategory, "M", 1)
		res := c.SetQuantity("tee", SizeBearingCategory, "L", "", 4, false)
		assert.Equal(t, UpdateResult{Found: true}, res)
		assert.Equal(t, CartItem{ProductID: "tee", SelectedSize: "L", Quantity: 4}, c.Items[0])
	})

	t.Run("same size is not a conflict", func(t *testing.T) {
		var c Cart
		c.Add("tee", SizeBearingCategory, "M", 1)
		res := c.SetQuantity("tee", SizeBearingCategory, "M", "", 9, false)
		assert.False(t, res.Conflict)
		assert.Equal(t, int32(9), c.Items[0].Quantity)
	})

	t.Run("existing size overwrites that line", func(t *testing.T) {
		for _, merge := range []bool{false, true} {
			var c Cart
			c.Add("tee", SizeBearingCategory, "M", 1)
			c.Add("tee", SizeBearingCategory, "L", 2)
			res := c.SetQuantity("tee", SizeBearingCategory, "L", "", 5, merge)
			assert.Equal(t, UpdateResult{Found: true}, res)
			assert.Equal(t, []CartItem{
				{ProductID: "tee", SelectedSize: "M", Quantity: 1},
				{ProductID: "tee", SelectedSize: "L", Quantity: 5},
			}, c.Items)
		}
	})

	t.Run("resize named line", func(t *testing.T) {
		var c Cart
		c.Add("tee", SizeBearingCategory, "M", 1)
		c.Add("tee", SizeBearingCategory, "L", 2)
		res := c.SetQuantity("tee", SizeBearingCategory, "XL", "L", 3, false)
		assert.Equal(t, UpdateResult{Found: true}, res)
		assert.Equal(t, CartItem{ProductID: "tee", SelectedSize: "M", Quantity: 1}, c.Items[0])
		assert.Equal(t, CartItem{ProductID: "tee", SelectedSize: "XL", Quantity: 3}, c.Items[1])
	})

	t.Run("unknown source size", func(t *testing.T) {
		var c Cart
		c.Add("tee", SizeBearingCategory, "M", 1)
		assert.False(t, c.SetQuantity("tee", SizeBearingCategory, "L", "S", 3, false).Found)
	})

	t.Run("conflict leaves source", func(t *testing.T) {
		var c Cart
		c.Add("tee", SizeBearingCategory, "M", 1)
		c.Add("tee", SizeBearingCategory, "L", 2)
		res := c.SetQuantity("tee", SizeBearingCategory, "L", "M", 5, false)
		assert.Equal(t, UpdateResult{Found: true, Conflict: true}, res)
		require.Len(t, c.Items, 2)
		assert.Equal(t, int32(1), c.Items[0].Quantity)
		assert.Equal(t, int32(5), c.Items[1].Quantity)
	})

	t.Run("conflict with merge drops source", func(t *testing.T) {
		var c Cart
		c.Add("tee", SizeBearingCategory, "M", 1)
		c.Add("tee", SizeBearingCategory, "L", 2)
		res := c.SetQuantity("tee", SizeBearingCategory, "L", "M", 5, true)
		assert.Equal(t, UpdateResult{Found: true, Conflict: true, SourceRemoved: true}, res)
		require.Len(t, c.Items, 1)
		assert.Equal(t, CartItem{ProductID: "tee", SelectedSize: "L", Quantity: 5}, c.Items[0])
	})
}

func TestRemoveProductDropsAllSizes(t *testing.T) {
	var c Cart
	c.Add("tee", SizeBearingCategory, "M", 1)
	c.Add("lamp", "Home", "", 1)
	c.Add("tee", SizeBearingCategory, "L", 1)

	assert.Equal(t, 2, c.RemoveProduct("tee"))
	require.Len(t, c.Items, 1)
	assert.Equal(t, "lamp", c.Items[0].ProductID)

	assert.Zero(t, c.RemoveProduct("tee"))
	assert.Equal(t, int64(1), c.TotalQuantity())
}
