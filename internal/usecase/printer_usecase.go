package usecase

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/internal/repo"
	"github.com/director74/pos-terminal/pkg/mvi"
)

// PrinterUseCase экран печати: чеки, кухонные талоны, повтор и пропуск
// печати. Сбой печати не блокирует завершение продажи.
type PrinterUseCase struct {
	store        *mvi.Store[PrinterIntent, PrinterState, PrinterEffect]
	printJobRepo repo.PrintJobRepository
	orderRepo    repo.OrderRepository
	printService PrintService
	logger       *log.Logger
}

// NewPrinterUseCase создает usecase экрана печати
func NewPrinterUseCase(printJobRepo repo.PrintJobRepository, orderRepo repo.OrderRepository, printService PrintService) *PrinterUseCase {
	uc := &PrinterUseCase{
		store: mvi.NewStore[PrinterIntent, PrinterState, PrinterEffect](PrinterState{
			PrinterName: "main",
			Copies:      1,
		}),
		printJobRepo: printJobRepo,
		orderRepo:    orderRepo,
		printService: printService,
		logger:       log.New(os.Stdout, "[Printer] ", log.LstdFlags),
	}
	uc.store.Bind(uc.handle)
	uc.store.OnPanic(func(recovered interface{}) {
		uc.store.SendEffect(ShowPrinterError{Message: "внутренняя ошибка терминала"})
	})
	return uc
}

// Store возвращает контейнер состояния экрана
func (uc *PrinterUseCase) Store() *mvi.Store[PrinterIntent, PrinterState, PrinterEffect] {
	return uc.store
}

// Close останавливает обработку интентов
func (uc *PrinterUseCase) Close() {
	uc.store.Close()
}

func (uc *PrinterUseCase) handle(ctx context.Context, intent PrinterIntent) {
	switch i := intent.(type) {
	case PrintReceipt:
		uc.printOrder(ctx, i.OrderID, entity.PrintJobTypeReceipt)
	case PrintKitchenOrder:
		uc.printOrder(ctx, i.OrderID, entity.PrintJobTypeKitchen)
	case CheckPrinterStatus:
		uc.checkStatus(ctx)
	case RetryPrint:
		uc.retryPrint(ctx)
	case SkipPrinting:
		uc.skipPrinting(ctx)
	case SelectPrinter:
		uc.selectPrinter(i.PrinterName)
	case SetCopies:
		uc.setCopies(i.Copies)
	}
}

func (uc *PrinterUseCase) printOrder(ctx context.Context, orderID string, jobType entity.PrintJobType) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		uc.store.SendEffect(ShowPrinterError{Message: "заказ не найден"})
		return
	}

	var content string
	if jobType == entity.PrintJobTypeReceipt {
		content = receiptContent(order)
	} else {
		content = kitchenContent(order)
	}

	uc.submitJob(ctx, orderID, jobType, content)
}

// submitJob ставит задание в очередь и отправляет принтеру. Содержимое
// фиксируется в задании: повтор печатает ровно тот же текст.
func (uc *PrinterUseCase) submitJob(ctx context.Context, orderID string, jobType entity.PrintJobType, content string) {
	state := uc.store.State()
	if state.PrinterName == "" {
		uc.store.SendEffect(ShowPrinterError{Message: "принтер не выбран"})
		return
	}

	job := &entity.PrintJob{
		ID:          uuid.NewString(),
		OrderID:     orderID,
		Type:        jobType,
		PrinterName: state.PrinterName,
		Content:     content,
		Copies:      state.Copies,
		Status:      entity.PrintJobStatusQueued,
	}
	if err := uc.printJobRepo.Create(ctx, job); err != nil {
		uc.logger.Printf("ошибка сохранения печатного задания: %v", err)
		uc.store.SendEffect(ShowPrinterError{Message: "не удалось поставить печать в очередь"})
		return
	}

	uc.store.UpdateState(func(s PrinterState) PrinterState {
		s.Printing = true
		s.LastJobID = job.ID
		s.LastJobType = jobType
		s.LastOrderID = orderID
		s.LastContent = content
		s.LastStatus = entity.PrintJobStatusPrinting
		s.Error = ""
		return s
	})

	if err := uc.printJobRepo.UpdateStatus(ctx, job.ID, entity.PrintJobStatusPrinting, ""); err != nil {
		uc.logger.Printf("ошибка обновления печатного задания %s: %v", job.ID, err)
	}

	if err := uc.printService.Submit(ctx, job); err != nil {
		uc.logger.Printf("ошибка печати задания %s: %v", job.ID, err)
		if updErr := uc.printJobRepo.UpdateStatus(ctx, job.ID, entity.PrintJobStatusFailed, err.Error()); updErr != nil {
			uc.logger.Printf("ошибка обновления печатного задания %s: %v", job.ID, updErr)
		}
		uc.store.UpdateState(func(s PrinterState) PrinterState {
			s.Printing = false
			s.LastStatus = entity.PrintJobStatusFailed
			s.Error = "печать не удалась"
			return s
		})
		uc.store.SendEffect(PrintFailed{JobID: job.ID, Reason: err.Error()})
		return
	}

	if err := uc.printJobRepo.UpdateStatus(ctx, job.ID, entity.PrintJobStatusDone, ""); err != nil {
		uc.logger.Printf("ошибка обновления печатного задания %s: %v", job.ID, err)
	}

	uc.store.UpdateState(func(s PrinterState) PrinterState {
		s.Printing = false
		s.LastStatus = entity.PrintJobStatusDone
		return s
	})
	uc.store.SendEffect(PrintCompleted{JobID: job.ID})

	if jobType == entity.PrintJobTypeReceipt {
		if err := uc.orderRepo.MarkPrinted(ctx, orderID, time.Now()); err != nil {
			uc.logger.Printf("ошибка отметки печати заказа %s: %v", orderID, err)
		}
		uc.store.SendEffect(NavigateToNewSale{})
	}
}

// retryPrint повторяет последнюю неудачную печать новым заданием с тем
// же содержимым
func (uc *PrinterUseCase) retryPrint(ctx context.Context) {
	state := uc.store.State()
	if state.LastStatus != entity.PrintJobStatusFailed || state.LastContent == "" {
		uc.store.SendEffect(ShowPrinterError{Message: "нет неудачной печати для повтора"})
		return
	}
	uc.submitJob(ctx, state.LastOrderID, state.LastJobType, state.LastContent)
}

// skipPrinting пропускает печать: продажа завершается без чека
func (uc *PrinterUseCase) skipPrinting(ctx context.Context) {
	state := uc.store.State()
	if state.LastJobID != "" && state.LastStatus == entity.PrintJobStatusFailed {
		if err := uc.printJobRepo.UpdateStatus(ctx, state.LastJobID, entity.PrintJobStatusCancelled, ""); err != nil {
			uc.logger.Printf("ошибка отмены печатного задания %s: %v", state.LastJobID, err)
		}
	}

	uc.store.UpdateState(func(s PrinterState) PrinterState {
		s.Printing = false
		s.Error = ""
		return s
	})
	uc.store.SendEffect(NavigateToNewSale{})
}

func (uc *PrinterUseCase) checkStatus(ctx context.Context) {
	state := uc.store.State()
	status, err := uc.printService.Status(ctx, state.PrinterName)
	if err != nil {
		uc.logger.Printf("ошибка опроса принтера %s: %v", state.PrinterName, err)
		uc.store.UpdateState(func(s PrinterState) PrinterState {
			s.PrinterOnline = false
			s.Error = "принтер недоступен"
			return s
		})
		return
	}

	uc.store.UpdateState(func(s PrinterState) PrinterState {
		s.PrinterOnline = status.Online && !status.PaperOut
		s.Error = ""
		return s
	})
}

func (uc *PrinterUseCase) selectPrinter(name string) {
	if name == "" {
		uc.store.SendEffect(ShowPrinterError{Message: "имя принтера не задано"})
		return
	}
	uc.store.UpdateState(func(s PrinterState) PrinterState {
		s.PrinterName = name
		s.PrinterOnline = false
		return s
	})
}

// setCopies устанавливает количество копий; значения вне [1, 10]
// отклоняются без изменения состояния
func (uc *PrinterUseCase) setCopies(copies int) {
	if copies < MinCopies || copies > MaxCopies {
		uc.store.SendEffect(ShowPrinterError{Message: fmt.Sprintf("количество копий должно быть от %d до %d", MinCopies, MaxCopies)})
		return
	}
	uc.store.UpdateState(func(s PrinterState) PrinterState {
		s.Copies = copies
		return s
	})
}

// receiptContent формирует текст кассового чека
func receiptContent(order *entity.Order) string {
	var b strings.Builder
	b.WriteString("================================\n")
	b.WriteString("            КАССОВЫЙ ЧЕК\n")
	b.WriteString(fmt.Sprintf("Заказ: %s\n", order.OrderNumber))
	b.WriteString(fmt.Sprintf("Дата:  %s\n", order.CreatedAt.Format("02.01.2006 15:04")))
	b.WriteString("--------------------------------\n")
	for _, item := range order.Items {
		b.WriteString(fmt.Sprintf("%s\n", item.Name))
		b.WriteString(fmt.Sprintf("  %d x %s = %s\n", item.Quantity, item.Price, item.Price.MulQty(item.Quantity)))
	}
	b.WriteString("--------------------------------\n")
	b.WriteString(fmt.Sprintf("Подытог:           %s\n", order.Subtotal))
	if !order.DiscountAmount.IsZero() {
		b.WriteString(fmt.Sprintf("Скидка %.1f%%:       -%s\n", order.DiscountPercent, order.DiscountAmount))
	}
	b.WriteString(fmt.Sprintf("ИТОГО:             %s\n", order.Total))
	b.WriteString(fmt.Sprintf("Оплата: %s\n", order.PaymentMethod))
	b.WriteString("================================\n")
	b.WriteString("      Спасибо за покупку!\n")
	return b.String()
}

// kitchenContent формирует кухонный талон: только позиции и количество
func kitchenContent(order *entity.Order) string {
	var b strings.Builder
	b.WriteString("*** КУХНЯ ***\n")
	b.WriteString(fmt.Sprintf("Заказ: %s\n", order.OrderNumber))
	b.WriteString("--------------------------------\n")
	for _, item := range order.Items {
		b.WriteString(fmt.Sprintf("%d x %s\n", item.Quantity, item.Name))
	}
	return b.String()
}
