package usecase

import (
	"github.com/director74/pos-terminal/internal/entity"
)

// PaymentIntent команда экрана оплаты
type PaymentIntent interface {
	isPaymentIntent()
}

// InitializePayment загружает зафиксированный чек в экран оплаты
type InitializePayment struct {
	Draft     OrderDraft
	CashierID uint
}

// SelectPaymentMethod выбирает способ оплаты
type SelectPaymentMethod struct {
	Method entity.PaymentMethod
}

// ProcessPayment запускает проведение оплаты. Пока попытка не завершена,
// повторные запуски игнорируются.
type ProcessPayment struct{}

// ConfirmPayment подтверждает успешную оплату и завершает заказ
type ConfirmPayment struct{}

// CancelPayment отменяет оплату и возвращает к продаже
type CancelPayment struct{}

// RetryPayment повторяет отклоненную оплату новой транзакцией
type RetryPayment struct{}

func (InitializePayment) isPaymentIntent()   {}
func (SelectPaymentMethod) isPaymentIntent() {}
func (ProcessPayment) isPaymentIntent()      {}
func (ConfirmPayment) isPaymentIntent()      {}
func (CancelPayment) isPaymentIntent()       {}
func (RetryPayment) isPaymentIntent()        {}

// PaymentState состояние экрана оплаты
type PaymentState struct {
	Draft         OrderDraft           `json:"draft"`
	Method        entity.PaymentMethod `json:"method"`
	Processing    bool                 `json:"processing"`
	OrderID       string               `json:"order_id,omitempty"`
	OrderNumber   string               `json:"order_number,omitempty"`
	TransactionID string               `json:"transaction_id,omitempty"`
	Declined      bool                 `json:"declined"`
	DeclineReason string               `json:"decline_reason,omitempty"`
	Error         string               `json:"error,omitempty"`
}

// PaymentEffect одноразовый сигнал экрана оплаты
type PaymentEffect interface {
	Kind() string
}

// NavigateToPrinter переход к печати чека оплаченного заказа
type NavigateToPrinter struct {
	OrderID string `json:"order_id"`
}

// NavigateBackToPos возврат к экрану продажи
type NavigateBackToPos struct{}

// PaymentDeclined оплата отклонена, возможен повтор
type PaymentDeclined struct {
	Reason string `json:"reason"`
}

// ShowPaymentError показ сообщения об ошибке
type ShowPaymentError struct {
	Message string `json:"message"`
}

func (NavigateToPrinter) Kind() string { return "navigate_to_printer" }
func (NavigateBackToPos) Kind() string { return "navigate_back_to_pos" }
func (PaymentDeclined) Kind() string   { return "payment_declined" }
func (ShowPaymentError) Kind() string  { return "show_error" }
