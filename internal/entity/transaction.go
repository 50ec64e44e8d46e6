package entity

import (
	"time"

	"github.com/director74/pos-terminal/pkg/money"
)

// PaymentMethod способ оплаты
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodQR   PaymentMethod = "qr"
)

// TransactionStatus статус платежной транзакции
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusApproved  TransactionStatus = "approved"
	TransactionStatusDeclined  TransactionStatus = "declined"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Transaction попытка оплаты заказа. Каждый повтор после отказа создает
// новую транзакцию, история попыток сохраняется целиком.
type Transaction struct {
	ID            string            `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID       string            `json:"order_id" gorm:"type:varchar(36);not null;index"`
	Amount        money.Money       `json:"amount" gorm:"type:bigint;not null"`
	Method        PaymentMethod     `json:"method" gorm:"not null"`
	Status        TransactionStatus `json:"status" gorm:"not null;default:'pending'"`
	AuthCode      string            `json:"auth_code"`
	FailureReason string            `json:"failure_reason"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ListTransactionsResponse список транзакций заказа
type ListTransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
	Total        int64         `json:"total"`
}
