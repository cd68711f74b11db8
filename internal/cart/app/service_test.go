package app_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/cart/infra/memory"
	"github.com/dwikikusuma/storefront/pkg/logger"
)

type fakeProducts struct {
	mu       sync.Mutex
	products map[string]app.Product
	err      error
}

func newFakeProducts(ps ...app.Product) *fakeProducts {
	f := &fakeProducts{products: map[string]app.Product{}}
	for _, p := range ps {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProducts) GetProduct(ctx context.Context, id string) (app.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return app.Product{}, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return app.Product{}, app.ErrNotFound
	}
	return p, nil
}

func (f *fakeProducts) drop(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
}

var (
	tee  = app.Product{ID: "tee", Title: "Tee", Category: domain.SizeBearingCategory, Price: 2000, SalePrice: 1500}
	lamp = app.Product{ID: "lamp", Title: "Lamp", Category: "Home", Price: 5000}
)

type failingRepo struct{ app.CartRepo }

func (failingRepo) Save(ctx context.Context, c domain.Cart) (domain.Cart, error) {
	return domain.Cart{}, errors.New("disk full")
}

func newService(t *testing.T, opts app.Options) (*app.Service, *memory.CartRepo, *fakeProducts) {
	t.Helper()
	repo := memory.NewCartRepo()
	products := newFakeProducts(tee, lamp)
	opts.Logger = logger.Discard()
	return app.NewService(repo, products, opts), repo, products
}

func add(userID, productID string, qty int32, size string) app.ItemInput {
	return app.ItemInput{UserID: userID, ProductID: productID, Quantity: qty, SelectedSize: size}
}

func move(userID, productID string, qty int32, from, to string) app.ItemInput {
	in := add(userID, productID, qty, to)
	in.FromSize = from
	return in
}

func TestAddItemValidation(t *testing.T) {
	svc, _, _ := newService(t, app.Options{})
	ctx := context.Background()

	cases := map[string]app.ItemInput{
		"missing user":      add("", "tee", 1, ""),
		"missing product":   add("u1", "  ", 1, ""),
		"zero quantity":     add("u1", "tee", 0, ""),
		"negative quantity": add("u1", "tee", -2, ""),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.AddItem(ctx, in)
			assert.ErrorIs(t, err, app.ErrValidation)
		})
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _, _ := newService(t, app.Options{})
	_, err := svc.AddItem(context.Background(), add("u1", "ghost", 1, ""))
	assert.ErrorIs(t, err, app.ErrNotFound)
}

func TestAddItemSameNonSizeProductMerges(t *testing.T) {
	svc, _, _ := newService(t, app.Options{})
	ctx := context.Background()

	_, err := svc.AddItem(ctx, add("u1", "lamp", 2, ""))
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, add("u1", "lamp", 3, "XL"))
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, domain.CartItem{ProductID: "lamp", Quantity: 5}, cart.Items[0])
}

func TestAddItemSizesStayDistinct(t *testing.T) {
	svc, _, _ := newService(t, app.Options{})
	ctx := context.Background()

	_, err := svc.AddItem(ctx, add("u1", "tee", 1, "M"))
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, add("u1", "tee", 1, "L"))
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, "M", cart.Items[0].SelectedSize)
	assert.Equal(t, "L", cart.Items[1].SelectedSize)
}

func TestAddItemRejectsQuantityOverflow(t *testing.T) {
	svc, repo, _ := newService(t, app.Options{})
	ctx := context.Background()

	_, err := svc.AddItem(ctx, add("u1", "lamp", math.MaxInt32, ""))
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, add("u1", "lamp", 1, ""))
	assert.ErrorIs(t, err, app.ErrValidation)

	stored, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []domain.CartItem{{ProductID: "lamp", Quantity: math.MaxInt32}}, stored.Items)
}

func TestAddItemSurfacesUpstream(t *testing.T) {
	repo := failingRepo{memory.NewCartRepo()}
	svc := app.NewService(repo, newFakeProducts(lamp), app.Options{Logger: logger.Discard()})

	_, err := svc.AddItem(context.Background(), add("u1", "lamp", 1, ""))
	assert.ErrorIs(t, err, app.ErrUpstream)

	products := newFakeProducts()
	products.err = errors.New("catalog timeout")
	svc = app.NewService(memory.NewCartRepo(), products, app.Options{Logger: logger.Discard()})
	_, err = svc.AddItem(context.Background(), add("u1", "lamp", 1, ""))
	assert.ErrorIs(t, err, app.ErrUpstream)
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("no cart", func(t *testing.T) {
		svc, _, _ := newService(t, app.Options{})
		_, err := svc.UpdateQuantity(ctx, add("u1", "lamp", 1, ""))
		assert.ErrorIs(t, err, app.ErrNotFound)
	})

	t.Run("no line", func(t *testing.T) {
		svc, _, _ := newService(t, app.Options{})
		_, err := svc.AddItem(ctx, add("u1", "lamp", 1, ""))
		require.NoError(t, err)
		_, err = svc.UpdateQuantity(ctx, add("u1", "tee", 1, "M"))
		assert.ErrorIs(t, err, app.ErrNotFound)
	})

	t.Run("validation", func(t *testing.T) {
		svc, _, _ := newService(t, app.Options{})
		_, err := svc.UpdateQuantity(ctx, add("u1", "lamp", 0, ""))
		assert.ErrorIs(t, err, app.ErrValidation)
	})

	t.Run("overwrites quantity and size", func(t *testing.T) {
		svc, _, _ := newService(t, app.Options{})
		_, err := svc.AddItem(ctx, add("u1", "tee", 1, "M"))
		require.NoError(t, err)

		cart, err := svc.UpdateQuantity(ctx, add("u1", "tee", 4, "S"))
		require.NoError(t, err)
		assert.Equal(t, []domain.CartItem{{ProductID: "tee", Quantity: 4, SelectedSize: "S"}}, cart.Items)
	})

	t.Run("second size updates in place with merge enabled", func(t *testing.T) {
		svc, _, _ := newService(t, app.Options{MergeOnResize: true})
		_, err := svc.AddItem(ctx, add("u1", "tee", 1, "M"))
		require.NoError(t, err)
		_, err = svc.AddItem(ctx, add("u1", "tee", 1, "L"))
		require.NoError(t, err)

		cart, err := svc.UpdateQuantity(ctx, add("u1", "tee", 3, "L"))
		require.NoError(t, err)
		assert.Equal(t, []domain.CartItem{
			{ProductID: "tee", Quantity: 1, SelectedSize: "M"},
			{ProductID: "tee", Quantity: 3, SelectedSize: "L"},
		}, cart.Items)
	})

	t.Run("size conflict keeps source line", func(t *testing.T) {
		svc, repo, _ := newService(t, app.Options{})
		_, err := svc.AddItem(ctx, add("u1", "tee", 1, "M"))
		require.NoError(t, err)
		_, err = svc.AddItem(ctx, add("u1", "tee", 2, "L"))
		require.NoError(t, err)

		cart, err := svc.UpdateQuantity(ctx, move("u1", "tee", 6, "M", "L"))
		require.NoError(t, err)
		assert.Equal(t, []domain.CartItem{
			{ProductID: "tee", Quantity: 1, SelectedSize: "M"},
			{ProductID: "tee", Quantity: 6, SelectedSize: "L"},
		}, cart.Items)

		stored, err := repo.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, cart.Items, stored.Items)
	})

	t.Run("size conflict merges when enabled", func(t *testing.T) {
		svc, _, _ := newService(t, app.Options{MergeOnResize: true})
		_, err := svc.AddItem(ctx, add("u1", "tee", 1, "M"))
		require.NoError(t, err)
		_, err = svc.AddItem(ctx, add("u1", "tee", 2, "L"))
		require.NoError(t, err)

		cart, err := svc.UpdateQuantity(ctx, move("u1", "tee", 6, "M", "L"))
		require.NoError(t, err)
		assert.Equal(t, []domain.CartItem{{ProductID: "tee", Quantity: 6, SelectedSize: "L"}}, cart.Items)
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, app.Options{})

	_, err := svc.RemoveItem(ctx, "u1", "tee")
	assert.ErrorIs(t, err, app.ErrNotFound)

	for _, in := range []app.ItemInput{add("u1", "tee", 1, "M"), add("u1", "tee", 1, "L"), add("u1", "lamp", 1, "")} {
		_, err := svc.AddItem(ctx, in)
		require.NoError(t, err)
	}

	view, err := svc.RemoveItem(ctx, "u1", "tee")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "lamp", view.Items[0].ProductID)
	assert.Equal(t, "Lamp", view.Items[0].Title)

	view, err = svc.RemoveItem(ctx, "u1", "tee")
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)

	_, err = svc.RemoveItem(ctx, "", "tee")
	assert.ErrorIs(t, err, app.ErrValidation)
}

func TestListItemsJoinsAndCompacts(t *testing.T) {
	ctx := context.Background()
	svc, repo, products := newService(t, app.Options{MaxConcurrent: 2})

	_, err := svc.ListItems(ctx, "u1")
	assert.ErrorIs(t, err, app.ErrNotFound)

	for _, in := range []app.ItemInput{add("u1", "tee", 2, "M"), add("u1", "lamp", 1, ""), add("u1", "tee", 1, "L")} {
		_, err := svc.AddItem(ctx, in)
		require.NoError(t, err)
	}

	view, err := svc.ListItems(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, view.Items, 3)
	assert.Equal(t, "u1", view.UserID)
	assert.NotEmpty(t, view.CartID)
	assert.Equal(t, app.Line{
		ProductID: "tee", Quantity: 2, SelectedSize: "M",
		Title: "Tee", Category: domain.SizeBearingCategory, Price: 2000, SalePrice: 1500,
	}, view.Items[0])

	products.drop("tee")

	view, err = svc.ListItems(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "lamp", view.Items[0].ProductID)

	stored, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []domain.CartItem{{ProductID: "lamp", Quantity: 1}}, stored.Items)
}

func TestListItemsUpstreamFailure(t *testing.T) {
	ctx := context.Background()
	svc, _, products := newService(t, app.Options{})

	_, err := svc.AddItem(ctx, add("u1", "lamp", 1, ""))
	require.NoError(t, err)

	products.err = errors.New("catalog down")
	_, err = svc.ListItems(ctx, "u1")
	assert.ErrorIs(t, err, app.ErrUpstream)
}

func TestClearCartAndGetCart(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, app.Options{})

	_, err := svc.AddItem(ctx, add("u1", "lamp", 1, ""))
	require.NoError(t, err)
	require.NoError(t, svc.ClearCart(ctx, "u1"))
	require.NoError(t, svc.ClearCart(ctx, "u1"))

	cart, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, "u1", cart.UserID)

	assert.ErrorIs(t, svc.ClearCart(ctx, " "), app.ErrValidation)
}

func TestConcurrentAddsAcrossUsers(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, app.Options{})

	const users = 20
	ids := make([]string, users)
	for i := range ids {
		ids[i] = uuid.NewString()
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		g.Go(func() error {
			for i := 0; i < 5; i++ {
				if _, err := svc.AddItem(gctx, add(id, "lamp", 1, "")); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for _, id := range ids {
		cart, err := svc.GetCart(ctx, id)
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, int32(5), cart.Items[0].Quantity)
	}
}
