package sqldb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

type cartRecord struct {
	ID        string           `gorm:"primaryKey;size:36"`
	UserID    string           `gorm:"size:64;uniqueIndex;not null"`
	Items     []cartItemRecord `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (cartRecord) TableName() string {
	return "carts"
}

type cartItemRecord struct {
	ID           uint   `gorm:"primaryKey"`
	CartID       string `gorm:"size:36;index;not null"`
	Position     int    `gorm:"not null"`
	ProductID    string `gorm:"size:64;not null"`
	SelectedSize string `gorm:"size:32"`
	Quantity     int32  `gorm:"not null"`
}

func (cartItemRecord) TableName() string {
	return "cart_items"
}

// CartRepo stores carts in two tables. Save rewrites a cart's lines inside one
// transaction so readers never see a half-applied cart.
type CartRepo struct {
	db *gorm.DB
}

func NewCartRepo(db *gorm.DB) *CartRepo {
	return &CartRepo{db: db}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&cartRecord{}, &cartItemRecord{})
}

func (r *CartRepo) Get(ctx context.Context, userID string) (domain.Cart, error) {
	var rec cartRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("user_id = ?", userID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Cart{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Cart{}, errors.Wrapf(err, "get cart for %s", userID)
	}
	return toDomain(rec), nil
}

func (r *CartRepo) Save(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing cartRecord
		err := tx.Where("user_id = ?", cart.UserID).First(&existing).Error
		switch {
		case err == nil:
			cart.ID = existing.ID
			cart.CreatedAt = existing.CreatedAt
		case errors.Is(err, gorm.ErrRecordNotFound):
			if cart.ID == "" {
				cart.ID = uuid.NewString()
			}
		default:
			return err
		}

		now := time.Now().UTC()
		if cart.CreatedAt.IsZero() {
			cart.CreatedAt = now
		}
		cart.UpdatedAt = now

		rec := cartRecord{
			ID:        cart.ID,
			UserID:    cart.UserID,
			CreatedAt: cart.CreatedAt,
			UpdatedAt: cart.UpdatedAt,
		}
		if err := tx.Omit("Items").Save(&rec).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&cartItemRecord{}).Error; err != nil {
			return err
		}

		if len(cart.Items) == 0 {
			return nil
		}
		items := make([]cartItemRecord, 0, len(cart.Items))
		for i, it := range cart.Items {
			items = append(items, cartItemRecord{
				CartID:       cart.ID,
				Position:     i,
				ProductID:    it.ProductID,
				SelectedSize: it.SelectedSize,
				Quantity:     it.Quantity,
			})
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return domain.Cart{}, errors.Wrapf(err, "save cart for %s", cart.UserID)
	}
	return cart, nil
}

func (r *CartRepo) Delete(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec cartRecord
		err := tx.Where("user_id = ?", userID).First(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", rec.ID).Delete(&cartItemRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&rec).Error
	})
	if err != nil {
		return errors.Wrapf(err, "delete cart for %s", userID)
	}
	return nil
}

func toDomain(rec cartRecord) domain.Cart {
	var items []domain.CartItem
	for _, it := range rec.Items {
		items = append(items, domain.CartItem{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			SelectedSize: it.SelectedSize,
		})
	}
	return domain.Cart{
		ID:        rec.ID,
		UserID:    rec.UserID,
		Items:     items,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}
