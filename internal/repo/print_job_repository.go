package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/director74/pos-terminal/internal/entity"
)

// PrintJobRepository интерфейс репозитория для работы с печатными заданиями
type PrintJobRepository interface {
	Create(ctx context.Context, job *entity.PrintJob) error
	GetByID(ctx context.Context, id string) (*entity.PrintJob, error)
	UpdateStatus(ctx context.Context, id string, status entity.PrintJobStatus, errMsg string) error
	ListPending(ctx context.Context, limit int) ([]entity.PrintJob, error)
	ListByOrderID(ctx context.Context, orderID string) ([]entity.PrintJob, error)
}

// ErrPrintJobNotFound ошибка, когда печатное задание не найдено
var ErrPrintJobNotFound = errors.New("печатное задание не найдено")

// PrintJobRepositoryImpl реализация репозитория печатных заданий на GORM
type PrintJobRepositoryImpl struct {
	db *gorm.DB
}

func NewPrintJobRepository(db *gorm.DB) PrintJobRepository {
	return &PrintJobRepositoryImpl{
		db: db,
	}
}

func (r *PrintJobRepositoryImpl) Create(ctx context.Context, job *entity.PrintJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *PrintJobRepositoryImpl) GetByID(ctx context.Context, id string) (*entity.PrintJob, error) {
	var job entity.PrintJob
	result := r.db.WithContext(ctx).First(&job, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPrintJobNotFound
		}
		return nil, result.Error
	}
	return &job, nil
}

func (r *PrintJobRepositoryImpl) UpdateStatus(ctx context.Context, id string, status entity.PrintJobStatus, errMsg string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.PrintJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status": status,
			"error":  errMsg,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPrintJobNotFound
	}
	return nil
}

// ListPending возвращает невыполненные задания в порядке постановки
func (r *PrintJobRepositoryImpl) ListPending(ctx context.Context, limit int) ([]entity.PrintJob, error) {
	var jobs []entity.PrintJob
	result := r.db.WithContext(ctx).
		Where("status IN ?", []entity.PrintJobStatus{entity.PrintJobStatusQueued, entity.PrintJobStatusPrinting}).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs)
	if result.Error != nil {
		return nil, result.Error
	}
	return jobs, nil
}

func (r *PrintJobRepositoryImpl) ListByOrderID(ctx context.Context, orderID string) ([]entity.PrintJob, error) {
	var jobs []entity.PrintJob
	result := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&jobs)
	if result.Error != nil {
		return nil, result.Error
	}
	return jobs, nil
}
