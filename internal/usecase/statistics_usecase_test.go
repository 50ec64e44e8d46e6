package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/pkg/money"
)

func TestGetSalesInvalidPeriod(t *testing.T) {
	uc := NewStatisticsUseCase(new(MockOrderRepository))

	now := time.Now()
	_, err := uc.GetSales(context.Background(), now, now)
	assert.Error(t, err)

	_, err = uc.GetSales(context.Background(), now, now.Add(-time.Hour))
	assert.Error(t, err)
}

func TestGetSalesDelegatesToRepository(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	uc := NewStatisticsUseCase(orderRepo)

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	expected := &entity.SalesStatistics{
		OrdersCount:  3,
		Revenue:      money.FromUnits(135, 0),
		AverageCheck: money.FromUnits(45, 0),
		ByMethod:     map[string]int64{"card": 2, "cash": 1},
	}
	orderRepo.On("AggregateSales", mock.Anything, from, to).Return(expected, nil)

	stats, err := uc.GetSales(context.Background(), from, to)
	assert.NoError(t, err)
	assert.Equal(t, expected, stats)
}

func TestGetSalesTodayUsesDayBounds(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	uc := NewStatisticsUseCase(orderRepo)

	orderRepo.On("AggregateSales", mock.Anything, mock.Anything, mock.Anything).Return(&entity.SalesStatistics{}, nil)

	_, err := uc.GetSalesToday(context.Background())
	assert.NoError(t, err)

	from := orderRepo.Calls[0].Arguments.Get(1).(time.Time)
	to := orderRepo.Calls[0].Arguments.Get(2).(time.Time)
	assert.Equal(t, 0, from.Hour())
	assert.Equal(t, 0, from.Minute())
	assert.Equal(t, 24*time.Hour, to.Sub(from))
}
