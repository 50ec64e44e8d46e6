package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/director74/pos-terminal/internal/entity"
)

// ProductRepository интерфейс репозитория для работы с каталогом товаров
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	List(ctx context.Context, category string, limit, offset int) ([]entity.Product, int64, error)
	Search(ctx context.Context, query string, limit int) ([]entity.Product, error)
	Count(ctx context.Context) (int64, error)
	Upsert(ctx context.Context, product *entity.Product) error
}

// ErrProductNotFound ошибка, когда товар не найден
var ErrProductNotFound = errors.New("товар не найден")

// ProductRepositoryImpl реализация репозитория каталога на GORM
type ProductRepositoryImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &ProductRepositoryImpl{
		db: db,
	}
}

func (r *ProductRepositoryImpl) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepositoryImpl) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var product entity.Product
	result := r.db.WithContext(ctx).First(&product, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, result.Error
	}
	return &product, nil
}

func (r *ProductRepositoryImpl) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	var product entity.Product
	result := r.db.WithContext(ctx).First(&product, "barcode = ?", barcode)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, result.Error
	}
	return &product, nil
}

// List возвращает страницу каталога, при пустой категории — весь каталог
func (r *ProductRepositoryImpl) List(ctx context.Context, category string, limit, offset int) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := query.
		Limit(limit).
		Offset(offset).
		Order("name ASC").
		Find(&products)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return products, total, nil
}

// Search ищет товары по подстроке названия без учета регистра
func (r *ProductRepositoryImpl) Search(ctx context.Context, query string, limit int) ([]entity.Product, error) {
	var products []entity.Product
	result := r.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+query+"%").
		Order("name ASC").
		Limit(limit).
		Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}
	return products, nil
}

func (r *ProductRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&entity.Product{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// Upsert вставляет товар либо обновляет существующий по первичному ключу.
// Используется консьюмером синхронизации каталога.
func (r *ProductRepositoryImpl) Upsert(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(product).Error
}
