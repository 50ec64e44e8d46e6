package usecase

import (
	"github.com/director74/pos-terminal/internal/entity"
)

// ScannerIntent команда экрана сканера
type ScannerIntent interface {
	isScannerIntent()
}

// StartScanning включает сканер
type StartScanning struct{}

// StopScanning выключает сканер
type StopScanning struct{}

// BarcodeDetected сканер распознал штрихкод
type BarcodeDetected struct {
	Barcode string
}

// ToggleFlash переключает подсветку сканера
type ToggleFlash struct{}

func (StartScanning) isScannerIntent()   {}
func (StopScanning) isScannerIntent()    {}
func (BarcodeDetected) isScannerIntent() {}
func (ToggleFlash) isScannerIntent()     {}

// ScannerState состояние экрана сканера
type ScannerState struct {
	Scanning    bool            `json:"scanning"`
	FlashOn     bool            `json:"flash_on"`
	LastBarcode string          `json:"last_barcode,omitempty"`
	LastProduct *entity.Product `json:"last_product,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// ScannerEffect одноразовый сигнал экрана сканера
type ScannerEffect interface {
	Kind() string
}

// ScannedProductFound товар по штрихкоду найден
type ScannedProductFound struct {
	Product entity.Product `json:"product"`
}

// ScannedProductMissing товар по штрихкоду не найден
type ScannedProductMissing struct {
	Barcode string `json:"barcode"`
}

func (ScannedProductFound) Kind() string   { return "product_found" }
func (ScannedProductMissing) Kind() string { return "product_missing" }
