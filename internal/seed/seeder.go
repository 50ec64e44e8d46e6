package seed

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/internal/repo"
	"github.com/director74/pos-terminal/internal/usecase"
	"github.com/director74/pos-terminal/pkg/money"
)

// Seeder наполняет пустой каталог терминала. Сначала пробует внешний
// каталог, при его недоступности ставит демонстрационный набор товаров.
type Seeder struct {
	productRepo    repo.ProductRepository
	catalogService usecase.CatalogService
	logger         *log.Logger
}

func NewSeeder(productRepo repo.ProductRepository, catalogService usecase.CatalogService) *Seeder {
	return &Seeder{
		productRepo:    productRepo,
		catalogService: catalogService,
		logger:         log.New(os.Stdout, "[Seed] ", log.LstdFlags),
	}
}

// SeedIfEmpty наполняет каталог, только если он пуст. Повторный запуск
// терминала существующие товары не трогает.
func (s *Seeder) SeedIfEmpty(ctx context.Context) error {
	count, err := s.productRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := s.fetchOrDefault(ctx)
	for i := range products {
		if products[i].ID == "" {
			products[i].ID = uuid.NewString()
		}
		if err := s.productRepo.Upsert(ctx, &products[i]); err != nil {
			return err
		}
	}

	s.logger.Printf("каталог наполнен, товаров: %d", len(products))
	return nil
}

func (s *Seeder) fetchOrDefault(ctx context.Context) []entity.Product {
	if s.catalogService != nil {
		products, err := s.catalogService.FetchProducts(ctx, "")
		if err == nil && len(products) > 0 {
			return products
		}
		if err != nil {
			s.logger.Printf("внешний каталог недоступен, используется локальный набор: %v", err)
		}
	}
	return defaultProducts()
}

// defaultProducts демонстрационный каталог для работы без внешних систем
func defaultProducts() []entity.Product {
	return []entity.Product{
		{Name: "Эспрессо", Description: "Двойной эспрессо 60 мл", Price: money.FromUnits(120, 0), Category: "Кофе", Barcode: "4600000000017", InStock: true},
		{Name: "Капучино", Description: "Капучино 300 мл", Price: money.FromUnits(180, 0), Category: "Кофе", Barcode: "4600000000024", InStock: true},
		{Name: "Латте", Description: "Латте 400 мл", Price: money.FromUnits(210, 0), Category: "Кофе", Barcode: "4600000000031", InStock: true},
		{Name: "Чай черный", Description: "Чай черный 400 мл", Price: money.FromUnits(90, 0), Category: "Чай", Barcode: "4600000000048", InStock: true},
		{Name: "Круассан", Description: "Круассан с маслом", Price: money.FromUnits(150, 0), Category: "Выпечка", Barcode: "4600000000055", InStock: true},
		{Name: "Сырники", Description: "Сырники со сметаной, 3 шт", Price: money.FromUnits(240, 50), Category: "Кухня", Barcode: "4600000000062", InStock: true},
		{Name: "Сэндвич с курицей", Description: "Сэндвич с курицей и соусом", Price: money.FromUnits(280, 0), Category: "Кухня", Barcode: "4600000000079", InStock: true},
		{Name: "Вода негазированная", Description: "Вода 500 мл", Price: money.FromUnits(75, 0), Category: "Напитки", Barcode: "4600000000086", InStock: true},
		{Name: "Сок апельсиновый", Description: "Сок 250 мл", Price: money.FromUnits(130, 0), Category: "Напитки", Barcode: "4600000000093", InStock: true},
		{Name: "Чизкейк", Description: "Чизкейк классический", Price: money.FromUnits(260, 0), Category: "Десерты", Barcode: "4600000000109", InStock: true},
	}
}
