package sqldb

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/dwikikusuma/storefront/internal/catalog/app"
	"github.com/dwikikusuma/storefront/internal/catalog/domain"
)

type productRecord struct {
	ID          string `gorm:"primaryKey;size:36"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	Image       string `gorm:"size:512"`
	Category    string `gorm:"size:64;index"`
	Brand       string `gorm:"size:64"`
	Price       int64
	SalePrice   int64
	TotalStock  int32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (productRecord) TableName() string {
	return "products"
}

type ProductRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&productRecord{})
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	rec := toRecord(p)
	rec.ID = uuid.NewString()
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Product{}, errors.Wrap(err, "create product")
	}
	return toDomain(rec), nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var rec productRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, errors.Wrapf(err, "get product %s", id)
	}
	return toDomain(rec), nil
}

func (r *ProductRepo) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	q := r.db.WithContext(ctx).Model(&productRecord{}).Order("id").Limit(limit)

	if query = strings.TrimSpace(query); query != "" {
		like := "%" + query + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	if cursor = strings.TrimSpace(cursor); cursor != "" {
		if _, err := uuid.Parse(cursor); err != nil {
			return nil, "", app.ErrInvalidInput
		}
		q = q.Where("id > ?", cursor)
	}

	var rows []productRecord
	if err := q.Find(&rows).Error; err != nil {
		return nil, "", errors.Wrap(err, "list products")
	}

	out := make([]domain.Product, 0, len(rows))
	var nextCursor string
	for _, row := range rows {
		out = append(out, toDomain(row))
		nextCursor = row.ID
	}

	if len(out) < limit {
		nextCursor = ""
	}

	return out, nextCursor, nil
}

func toRecord(p domain.Product) productRecord {
	return productRecord{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Image:       p.Image,
		Category:    p.Category,
		Brand:       p.Brand,
		Price:       p.Price,
		SalePrice:   p.SalePrice,
		TotalStock:  p.TotalStock,
	}
}

func toDomain(rec productRecord) domain.Product {
	return domain.Product{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Image:       rec.Image,
		Category:    rec.Category,
		Brand:       rec.Brand,
		Price:       rec.Price,
		SalePrice:   rec.SalePrice,
		TotalStock:  rec.TotalStock,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}
