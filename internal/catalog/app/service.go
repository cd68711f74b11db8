package app

import (
	"context"
	"errors"
	"strings"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo: repo,
	}
}

type CreateProductInput struct {
	Title       string
	Description string
	Image       string
	Category    string
	Brand       string
	Price       int64
	SalePrice   int64
	TotalStock  int32
}

func (s *Service) CreateProduct(ctx context.Context, in CreateProductInput) (domain.Product, error) {
	title := strings.TrimSpace(in.Title)
	category := strings.TrimSpace(in.Category)

	if title == "" || category == "" || in.Price <= 0 || in.SalePrice < 0 || in.TotalStock < 0 {
		return domain.Product{}, ErrInvalidInput
	}

	p := domain.Product{
		Title:       title,
		Description: in.Description,
		Image:       in.Image,
		Category:    category,
		Brand:       strings.TrimSpace(in.Brand),
		Price:       in.Price,
		SalePrice:   in.SalePrice,
		TotalStock:  in.TotalStock,
	}

	product, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, query, limit, cursor)
}
