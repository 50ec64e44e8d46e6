package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/director74/pos-terminal/internal/entity"
)

// TransactionRepository интерфейс репозитория для работы с платежными транзакциями
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	UpdateStatus(ctx context.Context, id string, status entity.TransactionStatus, authCode, failureReason string) error
	ListByOrderID(ctx context.Context, orderID string) ([]entity.Transaction, error)
}

// ErrTransactionNotFound ошибка, когда транзакция не найдена
var ErrTransactionNotFound = errors.New("транзакция не найдена")

// TransactionRepositoryImpl реализация репозитория транзакций на GORM
type TransactionRepositoryImpl struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &TransactionRepositoryImpl{
		db: db,
	}
}

func (r *TransactionRepositoryImpl) Create(ctx context.Context, tx *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *TransactionRepositoryImpl) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var tx entity.Transaction
	result := r.db.WithContext(ctx).First(&tx, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return &tx, nil
}

// UpdateStatus переводит транзакцию в терминальный статус с деталями исхода
func (r *TransactionRepositoryImpl) UpdateStatus(ctx context.Context, id string, status entity.TransactionStatus, authCode, failureReason string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         status,
			"auth_code":      authCode,
			"failure_reason": failureReason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepositoryImpl) ListByOrderID(ctx context.Context, orderID string) ([]entity.Transaction, error) {
	var txs []entity.Transaction
	result := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&txs)
	if result.Error != nil {
		return nil, result.Error
	}
	return txs, nil
}
