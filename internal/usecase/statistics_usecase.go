package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/internal/repo"
)

// StatisticsUseCase статистика продаж за период
type StatisticsUseCase struct {
	orderRepo repo.OrderRepository
}

// NewStatisticsUseCase создает usecase статистики продаж
func NewStatisticsUseCase(orderRepo repo.OrderRepository) *StatisticsUseCase {
	return &StatisticsUseCase{
		orderRepo: orderRepo,
	}
}

// GetSales возвращает агрегаты продаж за период [from, to)
func (uc *StatisticsUseCase) GetSales(ctx context.Context, from, to time.Time) (*entity.SalesStatistics, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("конец периода должен быть позже начала")
	}

	stats, err := uc.orderRepo.AggregateSales(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("ошибка при расчете статистики продаж: %w", err)
	}
	return stats, nil
}

// GetSalesToday возвращает агрегаты продаж за текущий день
func (uc *StatisticsUseCase) GetSalesToday(ctx context.Context) (*entity.SalesStatistics, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return uc.GetSales(ctx, from, from.AddDate(0, 0, 1))
}
