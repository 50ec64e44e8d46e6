package entity

import (
	"time"

	"github.com/director74/pos-terminal/pkg/money"
)

// CartItem позиция корзины. Пара (CartID, ProductID) уникальна: повторное
// добавление того же товара увеличивает количество существующей позиции.
type CartItem struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	CartID    string      `json:"cart_id" gorm:"type:varchar(36);not null;index:idx_cart_product,unique"`
	ProductID string      `json:"product_id" gorm:"type:varchar(36);not null;index:idx_cart_product,unique"`
	Name      string      `json:"name" gorm:"not null"`
	Price     money.Money `json:"price" gorm:"type:bigint;not null"`
	Quantity  int         `json:"quantity" gorm:"not null"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Subtotal стоимость позиции с учетом количества
func (c CartItem) Subtotal() money.Money {
	return c.Price.MulQty(c.Quantity)
}
