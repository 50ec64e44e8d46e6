package entity

import (
	"time"

	"github.com/director74/pos-terminal/pkg/money"
)

// OrderStatus статус заказа
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderItem позиция заказа. Копируется из корзины по значению в момент
// оформления: последующие изменения каталога на сохраненный заказ не влияют.
type OrderItem struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	OrderID   string      `json:"order_id" gorm:"type:varchar(36);not null;index"`
	ProductID string      `json:"product_id" gorm:"type:varchar(36);not null"`
	Name      string      `json:"name" gorm:"not null"`
	Price     money.Money `json:"price" gorm:"type:bigint;not null"`
	Quantity  int         `json:"quantity" gorm:"not null"`
	CreatedAt time.Time   `json:"created_at"`
}

// Order заказ: шапка и позиции сохраняются в одной транзакции
type Order struct {
	ID              string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber     string      `json:"order_number" gorm:"uniqueIndex;not null"`
	Items           []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	Subtotal        money.Money `json:"subtotal" gorm:"type:bigint;not null"`
	DiscountPercent float64     `json:"discount_percent" gorm:"not null;default:0"`
	DiscountAmount  money.Money `json:"discount_amount" gorm:"type:bigint;not null;default:0"`
	Total           money.Money `json:"total" gorm:"type:bigint;not null"`
	Status          OrderStatus `json:"status" gorm:"not null;default:'pending'"`
	PaymentMethod   string      `json:"payment_method"`
	CashierID       uint        `json:"cashier_id" gorm:"index"`
	PrintedAt       *time.Time  `json:"printed_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// GetOrderResponse ответ со сведениями о заказе
type GetOrderResponse struct {
	ID              string      `json:"id"`
	OrderNumber     string      `json:"order_number"`
	Items           []OrderItem `json:"items"`
	Subtotal        money.Money `json:"subtotal"`
	DiscountPercent float64     `json:"discount_percent"`
	DiscountAmount  money.Money `json:"discount_amount"`
	Total           money.Money `json:"total"`
	Status          OrderStatus `json:"status"`
	PaymentMethod   string      `json:"payment_method"`
	PrintedAt       *time.Time  `json:"printed_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// ListOrdersResponse список заказов с общим количеством
type ListOrdersResponse struct {
	Orders []GetOrderResponse `json:"orders"`
	Total  int64              `json:"total"`
}

// SalesStatistics агрегаты продаж за период
type SalesStatistics struct {
	OrdersCount  int64              `json:"orders_count"`
	Revenue      money.Money        `json:"revenue"`
	AverageCheck money.Money        `json:"average_check"`
	ByMethod     map[string]int64   `json:"by_method"`
	TopProducts  []ProductSalesStat `json:"top_products"`
	RevenueByDay []DailyRevenueStat `json:"revenue_by_day"`
}

// ProductSalesStat продажи отдельного товара за период
type ProductSalesStat struct {
	ProductID string      `json:"product_id"`
	Name      string      `json:"name"`
	Quantity  int64       `json:"quantity"`
	Revenue   money.Money `json:"revenue"`
}

// DailyRevenueStat выручка за календарный день
type DailyRevenueStat struct {
	Day     string      `json:"day"`
	Orders  int64       `json:"orders"`
	Revenue money.Money `json:"revenue"`
}
