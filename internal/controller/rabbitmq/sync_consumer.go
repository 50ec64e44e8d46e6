package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/internal/repo"
	"github.com/director74/pos-terminal/pkg/money"
	"github.com/director74/pos-terminal/pkg/rabbitmq"
)

// SyncConsumer обработчик сообщений синхронизации каталога из внешней
// системы. Каждое сообщение вставляет либо обновляет один товар.
type SyncConsumer struct {
	productRepo repo.ProductRepository
	rabbitMQ    *rabbitmq.RabbitMQ
	logger      *log.Logger
}

// NewSyncConsumer создает новый обработчик синхронизации каталога
func NewSyncConsumer(productRepo repo.ProductRepository, rabbitMQ *rabbitmq.RabbitMQ, logger *log.Logger) *SyncConsumer {
	if logger == nil {
		logger = log.New(log.Writer(), "[CatalogSync] ", log.LstdFlags)
	}
	return &SyncConsumer{
		productRepo: productRepo,
		rabbitMQ:    rabbitMQ,
		logger:      logger,
	}
}

// Setup подписывает обработчик на очередь синхронизации
func (c *SyncConsumer) Setup(queueName string) error {
	return c.rabbitMQ.ConsumeMessages(queueName, "pos-catalog-sync", c.HandleProductSync)
}

// HandleProductSync обрабатывает сообщение catalog.sync
func (c *SyncConsumer) HandleProductSync(data []byte) error {
	var msg entity.SyncProductMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.logger.Printf("[ERROR] Не удалось десериализовать сообщение catalog.sync: %v", err)
		return fmt.Errorf("ошибка десериализации catalog.sync: %w", err)
	}

	if msg.ID == "" {
		c.logger.Printf("[WARN] Получено сообщение catalog.sync без идентификатора товара, игнорируем")
		return nil
	}
	if msg.PriceCents < 0 {
		c.logger.Printf("[WARN] ProductID=%s: отрицательная цена в catalog.sync, игнорируем", msg.ID)
		return nil
	}

	product := &entity.Product{
		ID:          msg.ID,
		Name:        msg.Name,
		Description: msg.Description,
		Price:       money.FromCents(msg.PriceCents),
		Category:    msg.Category,
		Barcode:     msg.Barcode,
		ImageURL:    msg.ImageURL,
		InStock:     msg.InStock,
	}

	if err := c.productRepo.Upsert(context.Background(), product); err != nil {
		c.logger.Printf("[ERROR] ProductID=%s: ошибка обновления товара из catalog.sync: %v", msg.ID, err)
		return fmt.Errorf("ошибка обновления товара: %w", err)
	}

	c.logger.Printf("[INFO] ProductID=%s: товар синхронизирован", msg.ID)
	return nil
}
