package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/pkg/money"
)

// OrderRepository интерфейс репозитория для работы с заказами
type OrderRepository interface {
	CreateWithItems(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetByNumber(ctx context.Context, number string) (*entity.Order, error)
	List(ctx context.Context, limit, offset int) ([]entity.Order, int64, error)
	MarkPrinted(ctx context.Context, orderID string, printedAt time.Time) error
	AggregateSales(ctx context.Context, from, to time.Time) (*entity.SalesStatistics, error)
}

// ErrOrderNotFound ошибка, когда заказ не найден
var ErrOrderNotFound = errors.New("заказ не найден")

// OrderRepositoryImpl реализация репозитория заказов на GORM
type OrderRepositoryImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &OrderRepositoryImpl{
		db: db,
	}
}

// CreateWithItems сохраняет шапку заказа и его позиции в одной транзакции:
// заказ без позиций либо позиции без заказа в базе не появляются.
func (r *OrderRepositoryImpl) CreateWithItems(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := order.Items
		order.Items = nil
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		order.Items = items
		return nil
	})
}

func (r *OrderRepositoryImpl) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var order entity.Order
	result := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, result.Error
	}
	return &order, nil
}

// GetByNumber ищет заказ по человекочитаемому номеру с чека
func (r *OrderRepositoryImpl) GetByNumber(ctx context.Context, number string) (*entity.Order, error) {
	var order entity.Order
	result := r.db.WithContext(ctx).Preload("Items").First(&order, "order_number = ?", number)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, result.Error
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) List(ctx context.Context, limit, offset int) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := r.db.WithContext(ctx).
		Preload("Items").
		Limit(limit).
		Offset(offset).
		Order("created_at DESC").
		Find(&orders)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return orders, total, nil
}

// MarkPrinted проставляет отметку печати чека. Единственная мутация
// сохраненного заказа: суммы, позиции и статус после оплаты не меняются.
func (r *OrderRepositoryImpl) MarkPrinted(ctx context.Context, orderID string, printedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("id = ?", orderID).
		Update("printed_at", printedAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// AggregateSales собирает агрегаты продаж по завершенным заказам за период
func (r *OrderRepositoryImpl) AggregateSales(ctx context.Context, from, to time.Time) (*entity.SalesStatistics, error) {
	stats := &entity.SalesStatistics{
		ByMethod: make(map[string]int64),
	}

	completed := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("status = ? AND created_at >= ? AND created_at < ?", entity.OrderStatusCompleted, from, to)

	var totals struct {
		Count   int64
		Revenue int64
	}
	if err := completed.
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	stats.OrdersCount = totals.Count
	stats.Revenue = money.FromCents(totals.Revenue)
	if totals.Count > 0 {
		stats.AverageCheck = money.FromCents(totals.Revenue / totals.Count)
	}

	var methods []struct {
		PaymentMethod string
		Count         int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("status = ? AND created_at >= ? AND created_at < ?", entity.OrderStatusCompleted, from, to).
		Select("payment_method, COUNT(*) AS count").
		Group("payment_method").
		Scan(&methods).Error; err != nil {
		return nil, err
	}
	for _, m := range methods {
		stats.ByMethod[m.PaymentMethod] = m.Count
	}

	var top []struct {
		ProductID string
		Name      string
		Quantity  int64
		Revenue   int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entity.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status = ? AND orders.created_at >= ? AND orders.created_at < ?", entity.OrderStatusCompleted, from, to).
		Select("order_items.product_id, order_items.name, SUM(order_items.quantity) AS quantity, SUM(order_items.price * order_items.quantity) AS revenue").
		Group("order_items.product_id, order_items.name").
		Order("quantity DESC").
		Limit(10).
		Scan(&top).Error; err != nil {
		return nil, err
	}
	for _, t := range top {
		stats.TopProducts = append(stats.TopProducts, entity.ProductSalesStat{
			ProductID: t.ProductID,
			Name:      t.Name,
			Quantity:  t.Quantity,
			Revenue:   money.FromCents(t.Revenue),
		})
	}

	var days []struct {
		Day     time.Time
		Orders  int64
		Revenue int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("status = ? AND created_at >= ? AND created_at < ?", entity.OrderStatusCompleted, from, to).
		Select("DATE_TRUNC('day', created_at) AS day, COUNT(*) AS orders, COALESCE(SUM(total), 0) AS revenue").
		Group("day").
		Order("day ASC").
		Scan(&days).Error; err != nil {
		return nil, err
	}
	for _, d := range days {
		stats.RevenueByDay = append(stats.RevenueByDay, entity.DailyRevenueStat{
			Day:     d.Day.Format("2006-01-02"),
			Orders:  d.Orders,
			Revenue: money.FromCents(d.Revenue),
		})
	}

	return stats, nil
}
