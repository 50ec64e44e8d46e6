package usecase

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/director74/pos-terminal/internal/repo"
)

// CatalogUseCase инкрементальная синхронизация локального каталога с
// внешним. Водяной знак последней синхронизации хранится в памяти:
// после перезапуска терминала первый запрос выгружает каталог целиком.
type CatalogUseCase struct {
	productRepo    repo.ProductRepository
	catalogService CatalogService
	logger         *log.Logger

	mu       sync.Mutex
	lastSync time.Time
}

// NewCatalogUseCase создает usecase синхронизации каталога
func NewCatalogUseCase(productRepo repo.ProductRepository, catalogService CatalogService) *CatalogUseCase {
	return &CatalogUseCase{
		productRepo:    productRepo,
		catalogService: catalogService,
		logger:         log.New(os.Stdout, "[Catalog] ", log.LstdFlags),
	}
}

// Refresh запрашивает у каталога товары, измененные после водяного
// знака, и вливает их в локальную базу. Знак передвигается на момент
// начала запроса: изменения, пришедшие во время синхронизации, заберет
// следующий запуск.
func (uc *CatalogUseCase) Refresh(ctx context.Context) (int, error) {
	uc.mu.Lock()
	since := uc.lastSync
	uc.mu.Unlock()

	started := time.Now()
	products, err := uc.catalogService.SyncProducts(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("ошибка синхронизации каталога: %w", err)
	}

	for i := range products {
		if products[i].ID == "" {
			products[i].ID = uuid.NewString()
		}
		if err := uc.productRepo.Upsert(ctx, &products[i]); err != nil {
			return 0, fmt.Errorf("ошибка обновления товара %s: %w", products[i].ID, err)
		}
	}

	uc.mu.Lock()
	uc.lastSync = started
	uc.mu.Unlock()

	uc.logger.Printf("синхронизация каталога: обновлено товаров %d", len(products))
	return len(products), nil
}

// LastSync возвращает водяной знак последней успешной синхронизации
func (uc *CatalogUseCase) LastSync() time.Time {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.lastSync
}
