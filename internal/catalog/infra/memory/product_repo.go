package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dwikikusuma/storefront/internal/catalog/app"
	"github.com/dwikikusuma/storefront/internal/catalog/domain"
)

// ProductRepo keeps products in memory, ordered by ID for cursor pagination.
type ProductRepo struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewProductRepo(seed ...domain.Product) *ProductRepo {
	r := &ProductRepo{products: make(map[string]domain.Product, len(seed))}
	for _, p := range seed {
		r.put(p)
	}
	return r
}

func (r *ProductRepo) put(p domain.Product) domain.Product {
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.products[p.ID] = p
	return p
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = ""
	return r.put(p), nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, app.ErrNotFound
	}
	return p, nil
}

// Delete is used by admin tooling and tests to make a product stop resolving.
func (r *ProductRepo) Delete(ctx context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
}

func (r *ProductRepo) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	cursor = strings.TrimSpace(cursor)

	r.mu.RLock()
	ids := make([]string, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]domain.Product, 0, limit)
	for _, id := range ids {
		if cursor != "" && id <= cursor {
			continue
		}
		p := r.products[id]
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Title), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	r.mu.RUnlock()

	var next string
	if len(out) == limit && limit > 0 {
		next = out[len(out)-1].ID
	}
	return out, next, nil
}
