package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

type Options struct {
	// MergeOnResize removes the moved line when an update moves it onto a size
	// that already has a line. Off by default.
	MergeOnResize bool
	// MaxConcurrent bounds product lookups while joining a cart.
	MaxConcurrent int
	Logger        *slog.Logger
}

type Service struct {
	repo     CartRepo
	products ProductReader
	opts     Options
	log      *slog.Logger
}

func NewService(repo CartRepo, products ProductReader, opts Options) *Service {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 10
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:     repo,
		products: products,
		opts:     opts,
		log:      log,
	}
}

type ItemInput struct {
	UserID       string
	ProductID    string
	Quantity     int32
	SelectedSize string
	// FromSize names the line an update moves to SelectedSize. Ignored by AddItem.
	FromSize string
}

func (in ItemInput) normalize() (ItemInput, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.SelectedSize = strings.TrimSpace(in.SelectedSize)
	in.FromSize = strings.TrimSpace(in.FromSize)
	if in.UserID == "" || in.ProductID == "" {
		return in, invalid("userId and productId are required")
	}
	if in.Quantity <= 0 {
		return in, invalid("quantity must be greater than zero")
	}
	return in, nil
}

// Line is a cart line joined with the product fields the storefront displays.
type Line struct {
	ProductID    string
	Quantity     int32
	SelectedSize string
	Title        string
	Image        string
	Category     string
	Price        int64
	SalePrice    int64
	TotalStock   int32
}

type CartView struct {
	CartID string
	UserID string
	Items  []Line
}

func (s *Service) AddItem(ctx context.Context, in ItemInput) (domain.Cart, error) {
	in, err := in.normalize()
	if err != nil {
		return domain.Cart{}, err
	}

	product, err := s.product(ctx, in.ProductID)
	if err != nil {
		return domain.Cart{}, err
	}

	cart, err := s.repo.Get(ctx, in.UserID)
	switch {
	case errors.Is(err, ErrNotFound):
		cart = domain.Cart{UserID: in.UserID}
	case err != nil:
		return domain.Cart{}, upstream("load cart", err)
	}

	if err := cart.Add(in.ProductID, product.Category, in.SelectedSize, in.Quantity); err != nil {
		if errors.Is(err, domain.ErrQuantityTooLarge) {
			return domain.Cart{}, invalid("quantity for %s would exceed %d", in.ProductID, domain.MaxLineQuantity)
		}
		return domain.Cart{}, err
	}

	saved, err := s.repo.Save(ctx, cart)
	if err != nil {
		return domain.Cart{}, upstream("save cart", err)
	}
	return saved, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, in ItemInput) (domain.Cart, error) {
	in, err := in.normalize()
	if err != nil {
		return domain.Cart{}, err
	}

	cart, err := s.cart(ctx, in.UserID)
	if err != nil {
		return domain.Cart{}, err
	}

	product, err := s.product(ctx, in.ProductID)
	if err != nil {
		return domain.Cart{}, err
	}

	res := cart.SetQuantity(in.ProductID, product.Category, in.SelectedSize, in.FromSize, in.Quantity, s.opts.MergeOnResize)
	if !res.Found {
		return domain.Cart{}, notFound("cart item %s", in.ProductID)
	}
	if res.Conflict {
		s.log.WarnContext(ctx, "size update landed on an existing line",
			slog.String("user_id", in.UserID),
			slog.String("product_id", in.ProductID),
			slog.String("from_size", in.FromSize),
			slog.String("size", in.SelectedSize),
			slog.Bool("source_removed", res.SourceRemoved))
	}

	saved, err := s.repo.Save(ctx, cart)
	if err != nil {
		return domain.Cart{}, upstream("save cart", err)
	}
	return saved, nil
}

// RemoveItem drops every line of the product and returns the joined cart.
// Removing a product that is not in the cart is not an error.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (CartView, error) {
	userID = strings.TrimSpace(userID)
	productID = strings.TrimSpace(productID)
	if userID == "" || productID == "" {
		return CartView{}, invalid("userId and productId are required")
	}

	cart, err := s.cart(ctx, userID)
	if err != nil {
		return CartView{}, err
	}

	if cart.RemoveProduct(productID) > 0 {
		cart, err = s.repo.Save(ctx, cart)
		if err != nil {
			return CartView{}, upstream("save cart", err)
		}
	}
	return s.join(ctx, cart)
}

// ListItems returns the joined cart. Lines whose product no longer resolves are
// dropped and the stored cart is compacted.
func (s *Service) ListItems(ctx context.Context, userID string) (CartView, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return CartView{}, invalid("userId is required")
	}

	cart, err := s.cart(ctx, userID)
	if err != nil {
		return CartView{}, err
	}
	return s.join(ctx, cart)
}

// GetCart returns the stored cart, or an empty one when the user has none.
func (s *Service) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	cart, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return domain.Cart{UserID: userID}, nil
	}
	if err != nil {
		return domain.Cart{}, upstream("load cart", err)
	}
	return cart, nil
}

func (s *Service) ClearCart(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return invalid("userId is required")
	}
	if err := s.repo.Delete(ctx, userID); err != nil && !errors.Is(err, ErrNotFound) {
		return upstream("delete cart", err)
	}
	return nil
}

func (s *Service) cart(ctx context.Context, userID string) (domain.Cart, error) {
	cart, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return domain.Cart{}, notFound("cart for user %s", userID)
	}
	if err != nil {
		return domain.Cart{}, upstream("load cart", err)
	}
	return cart, nil
}

func (s *Service) product(ctx context.Context, productID string) (Product, error) {
	p, err := s.products.GetProduct(ctx, productID)
	if errors.Is(err, ErrNotFound) {
		return Product{}, notFound("product %s", productID)
	}
	if err != nil {
		return Product{}, upstream("get product", err)
	}
	return p, nil
}

func (s *Service) join(ctx context.Context, cart domain.Cart) (CartView, error) {
	var (
		mu       sync.Mutex
		products = make(map[string]Product, len(cart.Items))
		missing  = make(map[string]bool)
	)

	seen := make(map[string]bool, len(cart.Items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxConcurrent)

	for _, it := range cart.Items {
		id := it.ProductID
		if seen[id] {
			continue
		}
		seen[id] = true

		g.Go(func() error {
			p, err := s.products.GetProduct(gctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, ErrNotFound):
				missing[id] = true
			case err != nil:
				return upstream("get product "+id, err)
			default:
				products[id] = p
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return CartView{}, err
	}

	if len(missing) > 0 {
		cart.Retain(func(it domain.CartItem) bool { return !missing[it.ProductID] })
		saved, err := s.repo.Save(ctx, cart)
		if err != nil {
			return CartView{}, upstream("compact cart", err)
		}
		cart = saved
		s.log.InfoContext(ctx, "dropped cart lines for missing products",
			slog.String("user_id", cart.UserID),
			slog.Int("products", len(missing)))
	}

	lines := make([]Line, 0, len(cart.Items))
	for _, it := range cart.Items {
		p := products[it.ProductID]
		lines = append(lines, Line{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			SelectedSize: it.SelectedSize,
			Title:        p.Title,
			Image:        p.Image,
			Category:     p.Category,
			Price:        p.Price,
			SalePrice:    p.SalePrice,
			TotalStock:   p.TotalStock,
		})
	}

	return CartView{CartID: cart.ID, UserID: cart.UserID, Items: lines}, nil
}
