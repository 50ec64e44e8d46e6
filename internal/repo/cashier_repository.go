package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/director74/pos-terminal/internal/entity"
)

// CashierRepository интерфейс репозитория для работы с кассирами
type CashierRepository interface {
	Create(ctx context.Context, cashier *entity.Cashier) error
	GetByID(ctx context.Context, id uint) (*entity.Cashier, error)
	GetByUsername(ctx context.Context, username string) (*entity.Cashier, error)
}

// ErrCashierNotFound ошибка, когда кассир не найден
var ErrCashierNotFound = errors.New("кассир не найден")

// CashierRepositoryImpl реализация репозитория кассиров на GORM
type CashierRepositoryImpl struct {
	db *gorm.DB
}

func NewCashierRepository(db *gorm.DB) CashierRepository {
	return &CashierRepositoryImpl{
		db: db,
	}
}

func (r *CashierRepositoryImpl) Create(ctx context.Context, cashier *entity.Cashier) error {
	return r.db.WithContext(ctx).Create(cashier).Error
}

func (r *CashierRepositoryImpl) GetByID(ctx context.Context, id uint) (*entity.Cashier, error) {
	var cashier entity.Cashier
	result := r.db.WithContext(ctx).First(&cashier, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCashierNotFound
		}
		return nil, result.Error
	}
	return &cashier, nil
}

func (r *CashierRepositoryImpl) GetByUsername(ctx context.Context, username string) (*entity.Cashier, error) {
	var cashier entity.Cashier
	result := r.db.WithContext(ctx).First(&cashier, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCashierNotFound
		}
		return nil, result.Error
	}
	return &cashier, nil
}
