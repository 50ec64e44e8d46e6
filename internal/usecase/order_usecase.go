package usecase

import (
	"context"
	"fmt"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/internal/repo"
)

// OrderUseCase история заказов терминала
type OrderUseCase struct {
	orderRepo    repo.OrderRepository
	txRepo       repo.TransactionRepository
	printJobRepo repo.PrintJobRepository
}

// NewOrderUseCase создает usecase истории заказов
func NewOrderUseCase(orderRepo repo.OrderRepository, txRepo repo.TransactionRepository, printJobRepo repo.PrintJobRepository) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:    orderRepo,
		txRepo:       txRepo,
		printJobRepo: printJobRepo,
	}
}

// GetOrder возвращает заказ с позициями
func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*entity.GetOrderResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toOrderResponse(order)
	return &resp, nil
}

// GetOrderByNumber возвращает заказ по номеру с чека
func (uc *OrderUseCase) GetOrderByNumber(ctx context.Context, number string) (*entity.GetOrderResponse, error) {
	order, err := uc.orderRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	resp := toOrderResponse(order)
	return &resp, nil
}

// ListOrders возвращает страницу истории заказов
func (uc *OrderUseCase) ListOrders(ctx context.Context, limit, offset int) (*entity.ListOrdersResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	orders, total, err := uc.orderRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка заказов: %w", err)
	}

	resp := &entity.ListOrdersResponse{
		Orders: make([]entity.GetOrderResponse, 0, len(orders)),
		Total:  total,
	}
	for i := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(&orders[i]))
	}
	return resp, nil
}

// ListTransactions возвращает все попытки оплаты заказа
func (uc *OrderUseCase) ListTransactions(ctx context.Context, orderID string) (*entity.ListTransactionsResponse, error) {
	if _, err := uc.orderRepo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}

	txs, err := uc.txRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении транзакций заказа: %w", err)
	}
	return &entity.ListTransactionsResponse{
		Transactions: txs,
		Total:        int64(len(txs)),
	}, nil
}

// ListPrintJobs возвращает печатные задания заказа
func (uc *OrderUseCase) ListPrintJobs(ctx context.Context, orderID string) ([]entity.PrintJob, error) {
	if _, err := uc.orderRepo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return uc.printJobRepo.ListByOrderID(ctx, orderID)
}

// ListPendingPrintJobs возвращает незавершенные печатные задания терминала
func (uc *OrderUseCase) ListPendingPrintJobs(ctx context.Context, limit int) ([]entity.PrintJob, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.printJobRepo.ListPending(ctx, limit)
}

func toOrderResponse(order *entity.Order) entity.GetOrderResponse {
	return entity.GetOrderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		Items:           order.Items,
		Subtotal:        order.Subtotal,
		DiscountPercent: order.DiscountPercent,
		DiscountAmount:  order.DiscountAmount,
		Total:           order.Total,
		Status:          order.Status,
		PaymentMethod:   order.PaymentMethod,
		PrintedAt:       order.PrintedAt,
		CreatedAt:       order.CreatedAt,
	}
}
