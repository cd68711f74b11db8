// Package repotest holds the behavior every cart store must share.
package repotest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

func Run(t *testing.T, newRepo func(t *testing.T) app.CartRepo) {
	t.Run("get missing", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Get(context.Background(), uuid.NewString())
		assert.ErrorIs(t, err, app.ErrNotFound)
	})

	t.Run("save assigns id and round trips lines in order", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		userID := uuid.NewString()

		saved, err := repo.Save(ctx, domain.Cart{
			UserID: userID,
			Items: []domain.CartItem{
				{ProductID: "tee", Quantity: 2, SelectedSize: "M"},
				{ProductID: "lamp", Quantity: 1},
				{ProductID: "tee", Quantity: 1, SelectedSize: "L"},
			},
		})
		require.NoError(t, err)
		require.NotEmpty(t, saved.ID)
		assert.False(t, saved.CreatedAt.IsZero())

		got, err := repo.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, saved.ID, got.ID)
		assert.Equal(t, userID, got.UserID)
		assert.Equal(t, []domain.CartItem{
			{ProductID: "tee", Quantity: 2, SelectedSize: "M"},
			{ProductID: "lamp", Quantity: 1},
			{ProductID: "tee", Quantity: 1, SelectedSize: "L"},
		}, got.Items)
	})

	t.Run("resave replaces lines and keeps id", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		userID := uuid.NewString()

		first, err := repo.Save(ctx, domain.Cart{UserID: userID, Items: []domain.CartItem{
			{ProductID: "a", Quantity: 1},
			{ProductID: "b", Quantity: 1},
		}})
		require.NoError(t, err)

		cart, err := repo.Get(ctx, userID)
		require.NoError(t, err)
		cart.RemoveProduct("a")
		cart.Items[0].Quantity = 4

		second, err := repo.Save(ctx, cart)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		got, err := repo.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, []domain.CartItem{{ProductID: "b", Quantity: 4}}, got.Items)
	})

	t.Run("empty cart persists", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		userID := uuid.NewString()

		_, err := repo.Save(ctx, domain.Cart{UserID: userID})
		require.NoError(t, err)

		got, err := repo.Get(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, got.Items)
	})

	t.Run("delete", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		userID := uuid.NewString()

		_, err := repo.Save(ctx, domain.Cart{UserID: userID, Items: []domain.CartItem{{ProductID: "a", Quantity: 1}}})
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, userID))
		_, err = repo.Get(ctx, userID)
		assert.ErrorIs(t, err, app.ErrNotFound)

		require.NoError(t, repo.Delete(ctx, userID))
	})
}
