package entity

import (
	"time"
)

// PrintJobType тип печатного задания
type PrintJobType string

const (
	PrintJobTypeReceipt PrintJobType = "receipt"
	PrintJobTypeKitchen PrintJobType = "kitchen"
)

// PrintJobStatus статус печатного задания
type PrintJobStatus string

const (
	PrintJobStatusQueued    PrintJobStatus = "queued"
	PrintJobStatusPrinting  PrintJobStatus = "printing"
	PrintJobStatusDone      PrintJobStatus = "done"
	PrintJobStatusFailed    PrintJobStatus = "failed"
	PrintJobStatusCancelled PrintJobStatus = "cancelled"
)

// PrintJob задание на печать. Содержимое фиксируется при постановке в
// очередь, повтор после сбоя отправляет то же содержимое новым заданием.
type PrintJob struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID     string         `json:"order_id" gorm:"type:varchar(36);not null;index"`
	Type        PrintJobType   `json:"type" gorm:"not null"`
	PrinterName string         `json:"printer_name" gorm:"not null"`
	Content     string         `json:"content" gorm:"type:text;not null"`
	Copies      int            `json:"copies" gorm:"not null;default:1"`
	Status      PrintJobStatus `json:"status" gorm:"not null;default:'queued'"`
	Error       string         `json:"error"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
