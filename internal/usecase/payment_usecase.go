package usecase

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/internal/repo"
	"github.com/director74/pos-terminal/pkg/mvi"
)

// PaymentCompletedEvent событие успешной оплаты заказа для брокера
type PaymentCompletedEvent struct {
	OrderID       string `json:"order_id"`
	OrderNumber   string `json:"order_number"`
	TransactionID string `json:"transaction_id"`
	TotalCents    int64  `json:"total_cents"`
	Method        string `json:"method"`
	CompletedAt   string `json:"completed_at"`
}

// PaymentFailedEvent событие отклоненной оплаты для брокера
type PaymentFailedEvent struct {
	TransactionID string `json:"transaction_id"`
	AmountCents   int64  `json:"amount_cents"`
	Method        string `json:"method"`
	Reason        string `json:"reason"`
	FailedAt      string `json:"failed_at"`
}

// PaymentCancelledEvent событие отмены оплаты до проведения
type PaymentCancelledEvent struct {
	CartID      string `json:"cart_id"`
	AmountCents int64  `json:"amount_cents"`
	CancelledAt string `json:"cancelled_at"`
}

// PaymentUseCase экран оплаты: проведение платежа, сохранение заказа и
// публикация события оплаты
type PaymentUseCase struct {
	store           *mvi.Store[PaymentIntent, PaymentState, PaymentEffect]
	orderRepo       repo.OrderRepository
	txRepo          repo.TransactionRepository
	cartRepo        repo.CartRepository
	paymentService  PaymentService
	publisher       EventPublisher
	paymentExchange string
	cashierID       atomic.Uint32
	processing      atomic.Bool
	logger          *log.Logger
}

// NewPaymentUseCase создает usecase экрана оплаты
func NewPaymentUseCase(
	orderRepo repo.OrderRepository,
	txRepo repo.TransactionRepository,
	cartRepo repo.CartRepository,
	paymentService PaymentService,
	publisher EventPublisher,
	paymentExchange string,
) *PaymentUseCase {
	uc := &PaymentUseCase{
		store: mvi.NewStore[PaymentIntent, PaymentState, PaymentEffect](PaymentState{
			Method: entity.PaymentMethodCash,
		}),
		orderRepo:       orderRepo,
		txRepo:          txRepo,
		cartRepo:        cartRepo,
		paymentService:  paymentService,
		publisher:       publisher,
		paymentExchange: paymentExchange,
		logger:          log.New(os.Stdout, "[Payment] ", log.LstdFlags),
	}
	uc.store.Bind(uc.handle)
	uc.store.OnPanic(func(recovered interface{}) {
		uc.processing.Store(false)
		uc.store.SendEffect(ShowPaymentError{Message: "внутренняя ошибка терминала"})
	})
	return uc
}

// Store возвращает контейнер состояния экрана
func (uc *PaymentUseCase) Store() *mvi.Store[PaymentIntent, PaymentState, PaymentEffect] {
	return uc.store
}

// Close останавливает обработку интентов
func (uc *PaymentUseCase) Close() {
	uc.store.Close()
}

func (uc *PaymentUseCase) handle(ctx context.Context, intent PaymentIntent) {
	switch i := intent.(type) {
	case InitializePayment:
		uc.initialize(i.Draft, i.CashierID)
	case SelectPaymentMethod:
		uc.selectMethod(i.Method)
	case ProcessPayment:
		uc.processPayment(ctx)
	case RetryPayment:
		uc.retryPayment(ctx)
	case ConfirmPayment:
		uc.confirmPayment()
	case CancelPayment:
		uc.cancelPayment()
	}
}

func (uc *PaymentUseCase) initialize(draft OrderDraft, cashierID uint) {
	uc.cashierID.Store(uint32(cashierID))
	uc.store.SetState(PaymentState{
		Draft:  draft,
		Method: entity.PaymentMethodCash,
	})
}

func (uc *PaymentUseCase) selectMethod(method entity.PaymentMethod) {
	switch method {
	case entity.PaymentMethodCash, entity.PaymentMethodCard, entity.PaymentMethodQR:
	default:
		uc.store.SendEffect(ShowPaymentError{Message: "неизвестный способ оплаты"})
		return
	}
	uc.store.UpdateState(func(s PaymentState) PaymentState {
		s.Method = method
		return s
	})
}

// processPayment проводит оплату. Защита от двойного запуска построена
// на атомарном переключателе: пока попытка не завершена, повторный
// интент не создает ни второй транзакции, ни второго заказа.
func (uc *PaymentUseCase) processPayment(ctx context.Context) {
	if !uc.processing.CompareAndSwap(false, true) {
		return
	}
	defer uc.processing.Store(false)

	state := uc.store.State()
	if len(state.Draft.Items) == 0 {
		uc.store.SendEffect(ShowPaymentError{Message: "нет чека для оплаты"})
		return
	}
	if state.OrderID != "" {
		uc.store.SendEffect(ShowPaymentError{Message: "заказ уже оплачен"})
		return
	}

	uc.store.UpdateState(func(s PaymentState) PaymentState {
		s.Processing = true
		s.Declined = false
		s.DeclineReason = ""
		s.Error = ""
		return s
	})
	defer uc.store.UpdateState(func(s PaymentState) PaymentState {
		s.Processing = false
		return s
	})

	orderID := uuid.NewString()
	tx := &entity.Transaction{
		ID:      uuid.NewString(),
		OrderID: orderID,
		Amount:  state.Draft.Total,
		Method:  state.Method,
		Status:  entity.TransactionStatusPending,
	}
	if err := uc.txRepo.Create(ctx, tx); err != nil {
		uc.fail("ошибка создания транзакции", err)
		return
	}

	result, err := uc.paymentService.Charge(ctx, tx.ID, tx.Amount, tx.Method)
	if err != nil {
		if updErr := uc.txRepo.UpdateStatus(ctx, tx.ID, entity.TransactionStatusDeclined, "", err.Error()); updErr != nil {
			uc.logger.Printf("ошибка обновления транзакции %s: %v", tx.ID, updErr)
		}
		uc.fail("платежный процессинг недоступен", err)
		return
	}

	if !result.Approved {
		if updErr := uc.txRepo.UpdateStatus(ctx, tx.ID, entity.TransactionStatusDeclined, "", result.FailureReason); updErr != nil {
			uc.logger.Printf("ошибка обновления транзакции %s: %v", tx.ID, updErr)
		}
		uc.store.UpdateState(func(s PaymentState) PaymentState {
			s.Declined = true
			s.DeclineReason = result.FailureReason
			s.TransactionID = tx.ID
			return s
		})
		uc.store.SendEffect(PaymentDeclined{Reason: result.FailureReason})

		event := PaymentFailedEvent{
			TransactionID: tx.ID,
			AmountCents:   tx.Amount.Cents(),
			Method:        string(state.Method),
			Reason:        result.FailureReason,
			FailedAt:      time.Now().UTC().Format(time.RFC3339),
		}
		if err := uc.publisher.PublishMessage(uc.paymentExchange, "payment.failed", event); err != nil {
			uc.logger.Printf("ошибка публикации события отказа по транзакции %s: %v", tx.ID, err)
		}
		return
	}

	if err := uc.txRepo.UpdateStatus(ctx, tx.ID, entity.TransactionStatusApproved, result.AuthCode, ""); err != nil {
		uc.logger.Printf("ошибка обновления транзакции %s: %v", tx.ID, err)
	}

	// Заказ сохраняется сразу завершенным: оплата принята, продажа
	// состоялась. Печать чека исход продажи уже не меняет.
	order := &entity.Order{
		ID:              orderID,
		OrderNumber:     newOrderNumber(),
		Items:           state.Draft.Items,
		Subtotal:        state.Draft.Subtotal,
		DiscountPercent: state.Draft.DiscountPercent,
		DiscountAmount:  state.Draft.DiscountAmount,
		Total:           state.Draft.Total,
		Status:          entity.OrderStatusCompleted,
		PaymentMethod:   string(state.Method),
		CashierID:       uint(uc.cashierID.Load()),
	}
	if err := uc.orderRepo.CreateWithItems(ctx, order); err != nil {
		uc.fail("ошибка сохранения заказа", err)
		return
	}

	// Корзина очищается только после сохранения заказа: при сбое
	// сохранения чек не теряется
	if err := uc.cartRepo.ClearByCartID(ctx, state.Draft.CartID); err != nil {
		uc.logger.Printf("ошибка очистки корзины %s: %v", state.Draft.CartID, err)
	}

	event := PaymentCompletedEvent{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		TransactionID: tx.ID,
		TotalCents:    order.Total.Cents(),
		Method:        string(state.Method),
		CompletedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := uc.publisher.PublishMessageWithRetry(uc.paymentExchange, "payment.completed", event, 3); err != nil {
		uc.logger.Printf("ошибка публикации события оплаты заказа %s: %v", order.ID, err)
	}

	uc.store.UpdateState(func(s PaymentState) PaymentState {
		s.OrderID = order.ID
		s.OrderNumber = order.OrderNumber
		s.TransactionID = tx.ID
		return s
	})
	uc.store.SendEffect(NavigateToPrinter{OrderID: order.ID})
}

// retryPayment повторяет отклоненную оплату. Каждая попытка создает
// новую транзакцию, история попыток сохраняется.
func (uc *PaymentUseCase) retryPayment(ctx context.Context) {
	state := uc.store.State()
	if !state.Declined {
		uc.store.SendEffect(ShowPaymentError{Message: "нет отклоненной оплаты для повтора"})
		return
	}
	uc.processPayment(ctx)
}

// confirmPayment повторно переводит к печати уже оплаченного заказа.
// Заказ завершается в момент проведения оплаты, здесь ничего не пишется.
func (uc *PaymentUseCase) confirmPayment() {
	state := uc.store.State()
	if state.OrderID == "" {
		uc.store.SendEffect(ShowPaymentError{Message: "заказ еще не оплачен"})
		return
	}

	uc.store.SendEffect(NavigateToPrinter{OrderID: state.OrderID})
}

// cancelPayment возвращает к продаже. Уже оплаченный заказ отменой
// экрана не затрагивается.
func (uc *PaymentUseCase) cancelPayment() {
	state := uc.store.State()
	if state.Processing {
		uc.store.SendEffect(ShowPaymentError{Message: "дождитесь завершения оплаты"})
		return
	}
	if state.OrderID != "" {
		uc.store.SendEffect(ShowPaymentError{Message: "заказ уже оплачен, отмена недоступна"})
		return
	}
	uc.store.SetState(PaymentState{Method: entity.PaymentMethodCash})
	uc.store.SendEffect(NavigateBackToPos{})

	if len(state.Draft.Items) > 0 {
		event := PaymentCancelledEvent{
			CartID:      state.Draft.CartID,
			AmountCents: state.Draft.Total.Cents(),
			CancelledAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := uc.publisher.PublishMessage(uc.paymentExchange, "payment.cancelled", event); err != nil {
			uc.logger.Printf("ошибка публикации события отмены оплаты: %v", err)
		}
	}
}

func (uc *PaymentUseCase) fail(message string, err error) {
	uc.logger.Printf("%s: %v", message, err)
	uc.store.UpdateState(func(s PaymentState) PaymentState {
		s.Error = message
		return s
	})
	uc.store.SendEffect(ShowPaymentError{Message: message})
}

// newOrderNumber генерирует человекочитаемый номер заказа
func newOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%04d", time.Now().UnixMilli(), rand.Intn(10000))
}
