package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/pkg/money"
)

// Управляемый каталог для синхронизации: запоминает водяные знаки
// запросов и отдает заранее заданные партии товаров
type stubSyncCatalog struct {
	mu      sync.Mutex
	sinces  []time.Time
	batches [][]entity.Product
	err     error
}

func (s *stubSyncCatalog) FetchProducts(ctx context.Context, category string) ([]entity.Product, error) {
	return nil, nil
}

func (s *stubSyncCatalog) FetchProductByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	return nil, errors.New("не поддерживается")
}

func (s *stubSyncCatalog) SyncProducts(ctx context.Context, updatedSince time.Time) ([]entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.sinces = append(s.sinces, updatedSince)
	if len(s.batches) == 0 {
		return nil, nil
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch, nil
}

func (s *stubSyncCatalog) requestedSinces() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Time, len(s.sinces))
	copy(out, s.sinces)
	return out
}

func TestRefreshUpsertsAndAdvancesWatermark(t *testing.T) {
	productRepo := newFakeProductRepo()
	catalog := &stubSyncCatalog{batches: [][]entity.Product{
		{
			{ID: "p1", Name: "Капучино", Price: money.FromUnits(25, 0), Barcode: "111", InStock: true},
			{ID: "p2", Name: "Круассан", Price: money.FromUnits(15, 0), Barcode: "222", InStock: true},
		},
		{
			{ID: "p1", Name: "Капучино большой", Price: money.FromUnits(28, 0), Barcode: "111", InStock: true},
		},
	}}
	uc := NewCatalogUseCase(productRepo, catalog)

	// Первая синхронизация идет без водяного знака: каталог целиком
	synced, err := uc.Refresh(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, synced)
	assert.False(t, uc.LastSync().IsZero())

	count, _ := productRepo.Count(context.Background())
	assert.Equal(t, int64(2), count)

	// Вторая передает знак первой и вливает только изменения
	synced, err = uc.Refresh(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, synced)

	updated, err := productRepo.GetByID(context.Background(), "p1")
	assert.NoError(t, err)
	assert.Equal(t, "Капучино большой", updated.Name)

	sinces := catalog.requestedSinces()
	assert.Len(t, sinces, 2)
	assert.True(t, sinces[0].IsZero())
	assert.False(t, sinces[1].IsZero())
}

func TestRefreshErrorKeepsWatermark(t *testing.T) {
	productRepo := newFakeProductRepo()
	catalog := &stubSyncCatalog{err: errors.New("каталог недоступен")}
	uc := NewCatalogUseCase(productRepo, catalog)

	_, err := uc.Refresh(context.Background())
	assert.Error(t, err)
	assert.True(t, uc.LastSync().IsZero())
}
