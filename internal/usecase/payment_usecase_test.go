package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/pkg/money"
)

// Мок для OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateWithItems(ctx context.Context, order *entity.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByNumber(ctx context.Context, number string) (*entity.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, limit, offset int) ([]entity.Order, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]entity.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) MarkPrinted(ctx context.Context, orderID string, printedAt time.Time) error {
	args := m.Called(ctx, orderID, printedAt)
	return args.Error(0)
}

func (m *MockOrderRepository) AggregateSales(ctx context.Context, from, to time.Time) (*entity.SalesStatistics, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SalesStatistics), args.Error(1)
}

// Мок для TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, id string, status entity.TransactionStatus, authCode, failureReason string) error {
	args := m.Called(ctx, id, status, authCode, failureReason)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListByOrderID(ctx context.Context, orderID string) ([]entity.Transaction, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]entity.Transaction), args.Error(1)
}

// Мок для EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishMessage(exchange, routingKey string, message interface{}) error {
	args := m.Called(exchange, routingKey, message)
	return args.Error(0)
}

func (m *MockPublisher) PublishMessageWithRetry(exchange, routingKey string, message interface{}, retries int) error {
	args := m.Called(exchange, routingKey, message, retries)
	return args.Error(0)
}

// Управляемый платежный процессинг: результаты задаются заранее, вызов
// может блокироваться до явного разрешения
type stubPaymentService struct {
	mu      sync.Mutex
	results []*PaymentResult
	err     error
	calls   int
	gate    chan struct{}
}

func (s *stubPaymentService) Charge(ctx context.Context, transactionID string, amount money.Money, method entity.PaymentMethod) (*PaymentResult, error) {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	idx := s.calls - 1
	if idx >= len(s.results) {
		idx = len(s.results) - 1
	}
	return s.results[idx], nil
}

func (s *stubPaymentService) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testDraft() OrderDraft {
	subtotal := money.FromUnits(25, 0).MulQty(2)
	discount := subtotal.Percent(10)
	return OrderDraft{
		CartID: "cart-1",
		Items: []entity.OrderItem{
			{ProductID: "p1", Name: "Капучино", Price: money.FromUnits(25, 0), Quantity: 2},
		},
		Subtotal:        subtotal,
		DiscountPercent: 10,
		DiscountAmount:  discount,
		Total:           subtotal.Sub(discount),
	}
}

func newTestPayment(t *testing.T, svc PaymentService) (*PaymentUseCase, *MockOrderRepository, *MockTransactionRepository, *MockPublisher, *fakeCartRepo) {
	t.Helper()
	orderRepo := new(MockOrderRepository)
	txRepo := new(MockTransactionRepository)
	publisher := new(MockPublisher)
	cartRepo := newFakeCartRepo()

	uc := NewPaymentUseCase(orderRepo, txRepo, cartRepo, svc, publisher, "pos_events")
	t.Cleanup(uc.Close)
	return uc, orderRepo, txRepo, publisher, cartRepo
}

// initPayment инициализирует экран и дожидается применения интента:
// интенты обрабатываются асинхронно, порядок независимых команд не
// гарантирован
func initPayment(t *testing.T, uc *PaymentUseCase, draft OrderDraft, cashierID uint) {
	t.Helper()
	uc.Store().Dispatch(InitializePayment{Draft: draft, CashierID: cashierID})
	assert.Eventually(t, func() bool {
		return len(uc.Store().State().Draft.Items) == len(draft.Items)
	}, time.Second, 5*time.Millisecond)
}

func TestProcessPaymentSuccess(t *testing.T) {
	svc := &stubPaymentService{results: []*PaymentResult{{Approved: true, AuthCode: "A1"}}}
	uc, orderRepo, txRepo, publisher, cartRepo := newTestPayment(t, svc)

	cartRepo.Create(context.Background(), &entity.CartItem{CartID: "cart-1", ProductID: "p1", Quantity: 2})

	txRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	txRepo.On("UpdateStatus", mock.Anything, mock.Anything, entity.TransactionStatusApproved, "A1", "").Return(nil)
	orderRepo.On("CreateWithItems", mock.Anything, mock.Anything).Return(nil)
	publisher.On("PublishMessageWithRetry", "pos_events", "payment.completed", mock.Anything, 3).Return(nil)

	initPayment(t, uc, testDraft(), 5)
	uc.Store().Dispatch(ProcessPayment{})

	eff := awaitEffect(t, uc.Store().Effects())
	nav, ok := eff.(NavigateToPrinter)
	assert.True(t, ok)
	assert.NotEmpty(t, nav.OrderID)

	st := uc.Store().State()
	assert.Equal(t, nav.OrderID, st.OrderID)
	assert.NotEmpty(t, st.OrderNumber)
	assert.False(t, st.Processing)

	// Заказ сохранен одним вызовом вместе с позициями, со снимком сумм
	// чека, и сразу завершенным: он попадает в статистику продаж без
	// дополнительных шагов
	orderRepo.AssertNumberOfCalls(t, "CreateWithItems", 1)
	savedOrder := orderRepo.Calls[0].Arguments.Get(1).(*entity.Order)
	assert.Equal(t, int64(4500), savedOrder.Total.Cents())
	assert.Equal(t, entity.OrderStatusCompleted, savedOrder.Status)
	assert.Equal(t, uint(5), savedOrder.CashierID)
	assert.Len(t, savedOrder.Items, 1)

	// Корзина очищена после сохранения заказа
	items, _ := cartRepo.GetItems(context.Background(), "cart-1")
	assert.Empty(t, items)

	publisher.AssertCalled(t, "PublishMessageWithRetry", "pos_events", "payment.completed", mock.Anything, 3)
}

func TestDoubleProcessPaymentCreatesOneTransaction(t *testing.T) {
	gate := make(chan struct{})
	svc := &stubPaymentService{
		results: []*PaymentResult{{Approved: true, AuthCode: "A1"}},
		gate:    gate,
	}
	uc, orderRepo, txRepo, publisher, _ := newTestPayment(t, svc)

	txRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	txRepo.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	orderRepo.On("CreateWithItems", mock.Anything, mock.Anything).Return(nil)
	publisher.On("PublishMessageWithRetry", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	initPayment(t, uc, testDraft(), 0)

	// Вторая команда приходит, пока первая оплата еще в процессинге
	uc.Store().Dispatch(ProcessPayment{})
	assert.Eventually(t, func() bool {
		return len(txRepo.Calls) >= 1
	}, time.Second, 5*time.Millisecond)
	uc.Store().Dispatch(ProcessPayment{})
	time.Sleep(50 * time.Millisecond)

	close(gate)

	eff := awaitEffect(t, uc.Store().Effects())
	_, ok := eff.(NavigateToPrinter)
	assert.True(t, ok)

	assert.Equal(t, 1, svc.callCount())
	txRepo.AssertNumberOfCalls(t, "Create", 1)
	orderRepo.AssertNumberOfCalls(t, "CreateWithItems", 1)
}

func TestDeclinedPaymentThenRetry(t *testing.T) {
	svc := &stubPaymentService{results: []*PaymentResult{
		{Approved: false, FailureReason: "недостаточно средств"},
		{Approved: true, AuthCode: "A2"},
	}}
	uc, orderRepo, txRepo, publisher, _ := newTestPayment(t, svc)

	txRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	txRepo.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	orderRepo.On("CreateWithItems", mock.Anything, mock.Anything).Return(nil)
	publisher.On("PublishMessageWithRetry", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	publisher.On("PublishMessage", "pos_events", "payment.failed", mock.Anything).Return(nil)

	initPayment(t, uc, testDraft(), 0)
	uc.Store().Dispatch(ProcessPayment{})

	eff := awaitEffect(t, uc.Store().Effects())
	declined, ok := eff.(PaymentDeclined)
	assert.True(t, ok)
	assert.Equal(t, "недостаточно средств", declined.Reason)
	assert.True(t, uc.Store().State().Declined)

	uc.Store().Dispatch(RetryPayment{})

	eff = awaitEffect(t, uc.Store().Effects())
	_, ok = eff.(NavigateToPrinter)
	assert.True(t, ok)

	// Каждая попытка оплаты создает отдельную транзакцию
	txRepo.AssertNumberOfCalls(t, "Create", 2)
	firstTx := txRepo.Calls[0].Arguments.Get(1).(*entity.Transaction)
	var secondTx *entity.Transaction
	for _, call := range txRepo.Calls {
		if call.Method == "Create" {
			secondTx = call.Arguments.Get(1).(*entity.Transaction)
		}
	}
	assert.NotEqual(t, firstTx.ID, secondTx.ID)
}

func TestProcessPaymentWithoutDraftRejected(t *testing.T) {
	svc := &stubPaymentService{results: []*PaymentResult{{Approved: true}}}
	uc, _, _, _, _ := newTestPayment(t, svc)

	uc.Store().Dispatch(ProcessPayment{})

	eff := awaitEffect(t, uc.Store().Effects())
	assert.Equal(t, "show_error", eff.Kind())
	assert.Equal(t, 0, svc.callCount())
}

func TestProcessingErrorDoesNotSaveOrder(t *testing.T) {
	svc := &stubPaymentService{err: errors.New("тайм-аут процессинга")}
	uc, orderRepo, txRepo, _, _ := newTestPayment(t, svc)

	txRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	txRepo.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	initPayment(t, uc, testDraft(), 0)
	uc.Store().Dispatch(ProcessPayment{})

	eff := awaitEffect(t, uc.Store().Effects())
	assert.Equal(t, "show_error", eff.Kind())

	orderRepo.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything)
}

func TestCancelPaymentBeforeProcessing(t *testing.T) {
	svc := &stubPaymentService{results: []*PaymentResult{{Approved: true}}}
	uc, _, _, publisher, _ := newTestPayment(t, svc)

	published := make(chan struct{})
	publisher.On("PublishMessage", "pos_events", "payment.cancelled", mock.Anything).
		Run(func(mock.Arguments) { close(published) }).
		Return(nil)

	initPayment(t, uc, testDraft(), 0)
	uc.Store().Dispatch(CancelPayment{})

	eff := awaitEffect(t, uc.Store().Effects())
	_, ok := eff.(NavigateBackToPos)
	assert.True(t, ok)
	assert.Equal(t, 0, svc.callCount())

	select {
	case <-published:
	case <-time.After(time.Second):
		t.Fatal("событие отмены оплаты не опубликовано")
	}
}

func TestConfirmPaymentReturnsToPrinter(t *testing.T) {
	svc := &stubPaymentService{results: []*PaymentResult{{Approved: true, AuthCode: "A1"}}}
	uc, orderRepo, txRepo, publisher, _ := newTestPayment(t, svc)

	txRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	txRepo.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	orderRepo.On("CreateWithItems", mock.Anything, mock.Anything).Return(nil)
	publisher.On("PublishMessageWithRetry", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	initPayment(t, uc, testDraft(), 0)
	uc.Store().Dispatch(ProcessPayment{})
	awaitEffect(t, uc.Store().Effects())

	orderID := uc.Store().State().OrderID
	uc.Store().Dispatch(ConfirmPayment{})

	eff := awaitEffect(t, uc.Store().Effects())
	nav, ok := eff.(NavigateToPrinter)
	assert.True(t, ok)
	assert.Equal(t, orderID, nav.OrderID)

	// Заказ завершен еще при оплате, подтверждение в базу не пишет
	orderRepo.AssertNumberOfCalls(t, "CreateWithItems", 1)
	orderRepo.AssertNotCalled(t, "MarkPrinted", mock.Anything, mock.Anything, mock.Anything)
}
