package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/director74/pos-terminal/internal/entity"
)

// CartRepository интерфейс репозитория для работы с корзиной
type CartRepository interface {
	GetItems(ctx context.Context, cartID string) ([]entity.CartItem, error)
	GetItem(ctx context.Context, cartID, productID string) (*entity.CartItem, error)
	Create(ctx context.Context, item *entity.CartItem) error
	Update(ctx context.Context, item *entity.CartItem) error
	Delete(ctx context.Context, cartID, productID string) error
	ClearByCartID(ctx context.Context, cartID string) error
}

// ErrCartItemNotFound ошибка, когда позиция корзины не найдена
var ErrCartItemNotFound = errors.New("позиция корзины не найдена")

// CartRepositoryImpl реализация репозитория корзины на GORM
type CartRepositoryImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &CartRepositoryImpl{
		db: db,
	}
}

func (r *CartRepositoryImpl) GetItems(ctx context.Context, cartID string) ([]entity.CartItem, error) {
	var items []entity.CartItem
	result := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

func (r *CartRepositoryImpl) GetItem(ctx context.Context, cartID, productID string) (*entity.CartItem, error) {
	var item entity.CartItem
	result := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, result.Error
	}
	return &item, nil
}

func (r *CartRepositoryImpl) Create(ctx context.Context, item *entity.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *CartRepositoryImpl) Update(ctx context.Context, item *entity.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *CartRepositoryImpl) Delete(ctx context.Context, cartID, productID string) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&entity.CartItem{}).Error
}

// ClearByCartID удаляет все позиции корзины
func (r *CartRepositoryImpl) ClearByCartID(ctx context.Context, cartID string) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&entity.CartItem{}).Error
}
