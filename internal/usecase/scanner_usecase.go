package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/internal/repo"
	"github.com/director74/pos-terminal/pkg/mvi"
)

// ScannerUseCase экран сканера штрихкодов. Распознанный штрихкод ищется
// в локальном каталоге; при промахе и заданном внешнем каталоге товар
// дотягивается оттуда и сохраняется локально. Найденный товар
// добавляется в корзину продажи.
type ScannerUseCase struct {
	store          *mvi.Store[ScannerIntent, ScannerState, ScannerEffect]
	productRepo    repo.ProductRepository
	catalogService CatalogService
	pos            *PosUseCase
}

// NewScannerUseCase создает usecase экрана сканера. catalogService может
// быть nil: терминал работает только по локальному каталогу.
func NewScannerUseCase(productRepo repo.ProductRepository, catalogService CatalogService, pos *PosUseCase) *ScannerUseCase {
	uc := &ScannerUseCase{
		store:          mvi.NewStore[ScannerIntent, ScannerState, ScannerEffect](ScannerState{}),
		productRepo:    productRepo,
		catalogService: catalogService,
		pos:            pos,
	}
	uc.store.Bind(uc.handle)
	return uc
}

// Store возвращает контейнер состояния экрана
func (uc *ScannerUseCase) Store() *mvi.Store[ScannerIntent, ScannerState, ScannerEffect] {
	return uc.store
}

// Close останавливает обработку интентов
func (uc *ScannerUseCase) Close() {
	uc.store.Close()
}

func (uc *ScannerUseCase) handle(ctx context.Context, intent ScannerIntent) {
	switch i := intent.(type) {
	case StartScanning:
		uc.store.UpdateState(func(s ScannerState) ScannerState {
			s.Scanning = true
			s.Error = ""
			return s
		})
	case StopScanning:
		uc.store.UpdateState(func(s ScannerState) ScannerState {
			s.Scanning = false
			s.FlashOn = false
			return s
		})
	case ToggleFlash:
		uc.store.UpdateState(func(s ScannerState) ScannerState {
			s.FlashOn = !s.FlashOn
			return s
		})
	case BarcodeDetected:
		uc.barcodeDetected(ctx, i.Barcode)
	}
}

func (uc *ScannerUseCase) barcodeDetected(ctx context.Context, barcode string) {
	if !uc.store.State().Scanning {
		return
	}

	product, err := uc.productRepo.GetByBarcode(ctx, barcode)
	if err != nil {
		product = uc.fetchRemote(ctx, barcode)
	}
	if product == nil {
		uc.store.UpdateState(func(s ScannerState) ScannerState {
			s.LastBarcode = barcode
			s.LastProduct = nil
			s.Error = "товар не найден"
			return s
		})
		uc.store.SendEffect(ScannedProductMissing{Barcode: barcode})
		return
	}

	uc.store.UpdateState(func(s ScannerState) ScannerState {
		s.LastBarcode = barcode
		s.LastProduct = product
		s.Error = ""
		return s
	})
	uc.store.SendEffect(ScannedProductFound{Product: *product})

	uc.pos.Store().Dispatch(AddToCart{ProductID: product.ID, Quantity: 1})
}

// fetchRemote дотягивает товар по штрихкоду из внешнего каталога и
// сохраняет его локально. nil, если внешнего каталога нет или товар не
// нашелся и там.
func (uc *ScannerUseCase) fetchRemote(ctx context.Context, barcode string) *entity.Product {
	if uc.catalogService == nil {
		return nil
	}

	product, err := uc.catalogService.FetchProductByBarcode(ctx, barcode)
	if err != nil || product == nil {
		return nil
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if err := uc.productRepo.Upsert(ctx, product); err != nil {
		return nil
	}
	return product
}
