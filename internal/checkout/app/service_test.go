package app

import (
	"context"
	"errors"
	"testing"
)

type fakeCart []CartItem

func (f fakeCart) GetCart(ctx context.Context, userID string) ([]CartItem, error) { return f, nil }

type fakeCatalog map[string]Product

func (f fakeCatalog) GetProduct(ctx context.Context, id string) (Product, error) {
	p, ok := f[id]
	if !ok {
		return Product{}, errors.New("missing")
	}
	return p, nil
}

var catalog = fakeCatalog{
	"tee":  {ID: "tee", Title: "Tee", Price: 2000, SalePrice: 1500},
	"lamp": {ID: "lamp", Title: "Lamp", Price: 5000},
}

func TestQuote(t *testing.T) {
	svc := NewService(fakeCart{
		{ProductID: "tee", SelectedSize: "M", Quantity: 2},
		{ProductID: "lamp", Quantity: 1},
	}, catalog, 0)

	q, err := svc.Quote(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(q.Lines))
	}
	if q.Lines[0].UnitPrice != 1500 || q.Lines[0].LineTotal != 3000 {
		t.Fatalf("sale price not applied: %+v", q.Lines[0])
	}
	if q.Subtotal != 9000 || q.Total != 8000 || q.Savings != 1000 {
		t.Fatalf("unexpected totals: subtotal=%d total=%d savings=%d", q.Subtotal, q.Total, q.Savings)
	}
}

func TestQuoteEmptyCart(t *testing.T) {
	svc := NewService(fakeCart{}, catalog, 2)
	if _, err := svc.Quote(context.Background(), "u1"); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestQuoteMissingProduct(t *testing.T) {
	svc := NewService(fakeCart{{ProductID: "ghost", Quantity: 1}}, catalog, 2)
	if _, err := svc.Quote(context.Background(), "u1"); err == nil {
		t.Fatal("expected error for unknown product")
	}
}
