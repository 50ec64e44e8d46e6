package usecase

import (
	"context"
	"time"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/pkg/money"
)

// PaymentResult исход проведения оплаты во внешнем процессинге
type PaymentResult struct {
	Approved      bool
	AuthCode      string
	FailureReason string
}

// PaymentService интерфейс внешнего платежного процессинга
type PaymentService interface {
	Charge(ctx context.Context, transactionID string, amount money.Money, method entity.PaymentMethod) (*PaymentResult, error)
}

// PrinterStatus состояние принтера по данным сервиса печати
type PrinterStatus struct {
	Online     bool
	PaperOut   bool
	StatusText string
}

// PrintService интерфейс внешнего сервиса печати
type PrintService interface {
	Submit(ctx context.Context, job *entity.PrintJob) error
	Status(ctx context.Context, printerName string) (*PrinterStatus, error)
}

// CatalogService интерфейс внешнего каталога товаров. SyncProducts
// отдает только товары, измененные после водяного знака updatedSince;
// нулевое значение запрашивает каталог целиком.
type CatalogService interface {
	FetchProducts(ctx context.Context, category string) ([]entity.Product, error)
	FetchProductByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	SyncProducts(ctx context.Context, updatedSince time.Time) ([]entity.Product, error)
}

// EventPublisher интерфейс публикации доменных событий в брокер
type EventPublisher interface {
	PublishMessage(exchange, routingKey string, message interface{}) error
	PublishMessageWithRetry(exchange, routingKey string, message interface{}, retries int) error
}
