package usecase

import (
	"github.com/director74/pos-terminal/internal/entity"
)

// Границы количества копий чека
const (
	MinCopies = 1
	MaxCopies = 10
)

// PrinterIntent команда экрана печати
type PrinterIntent interface {
	isPrinterIntent()
}

// PrintReceipt печатает чек заказа
type PrintReceipt struct {
	OrderID string
}

// PrintKitchenOrder печатает кухонный талон заказа
type PrintKitchenOrder struct {
	OrderID string
}

// CheckPrinterStatus опрашивает состояние принтера
type CheckPrinterStatus struct{}

// RetryPrint повторяет последнюю неудачную печать тем же содержимым
type RetryPrint struct{}

// SkipPrinting пропускает печать и завершает продажу
type SkipPrinting struct{}

// SelectPrinter выбирает активный принтер
type SelectPrinter struct {
	PrinterName string
}

// SetCopies устанавливает количество копий, значения вне [1, 10]
// отклоняются
type SetCopies struct {
	Copies int
}

func (PrintReceipt) isPrinterIntent()       {}
func (PrintKitchenOrder) isPrinterIntent()  {}
func (CheckPrinterStatus) isPrinterIntent() {}
func (RetryPrint) isPrinterIntent()         {}
func (SkipPrinting) isPrinterIntent()       {}
func (SelectPrinter) isPrinterIntent()      {}
func (SetCopies) isPrinterIntent()          {}

// PrinterState состояние экрана печати
type PrinterState struct {
	PrinterName   string                `json:"printer_name"`
	PrinterOnline bool                  `json:"printer_online"`
	Copies        int                   `json:"copies"`
	Printing      bool                  `json:"printing"`
	LastJobID     string                `json:"last_job_id,omitempty"`
	LastJobType   entity.PrintJobType   `json:"last_job_type,omitempty"`
	LastOrderID   string                `json:"last_order_id,omitempty"`
	LastContent   string                `json:"-"`
	LastStatus    entity.PrintJobStatus `json:"last_status,omitempty"`
	Error         string                `json:"error,omitempty"`
}

// PrinterEffect одноразовый сигнал экрана печати
type PrinterEffect interface {
	Kind() string
}

// NavigateToNewSale печать завершена либо пропущена, возврат к продаже
type NavigateToNewSale struct{}

// ShowPrinterError показ сообщения об ошибке
type ShowPrinterError struct {
	Message string `json:"message"`
}

// PrintCompleted задание напечатано
type PrintCompleted struct {
	JobID string `json:"job_id"`
}

// PrintFailed печать не удалась, возможен повтор
type PrintFailed struct {
	JobID  string `json:"job_id"`
	Reason string `json:"reason"`
}

func (NavigateToNewSale) Kind() string { return "navigate_to_new_sale" }
func (ShowPrinterError) Kind() string  { return "show_error" }
func (PrintCompleted) Kind() string    { return "print_completed" }
func (PrintFailed) Kind() string       { return "print_failed" }
