package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/pkg/money"
)

// Управляемый внешний каталог: отдает заранее заданные товары по штрихкоду
type stubCatalogService struct {
	byBarcode map[string]entity.Product
}

func (s *stubCatalogService) FetchProducts(ctx context.Context, category string) ([]entity.Product, error) {
	return nil, nil
}

func (s *stubCatalogService) FetchProductByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	p, ok := s.byBarcode[barcode]
	if !ok {
		return nil, errors.New("товар не найден")
	}
	return &p, nil
}

func (s *stubCatalogService) SyncProducts(ctx context.Context, updatedSince time.Time) ([]entity.Product, error) {
	return nil, nil
}

func newTestScanner(t *testing.T) (*ScannerUseCase, *PosUseCase) {
	t.Helper()
	productRepo := newFakeProductRepo(testProducts()...)
	pos := NewPosUseCase(productRepo, newFakeCartRepo())
	uc := NewScannerUseCase(productRepo, nil, pos)
	t.Cleanup(func() {
		uc.Close()
		pos.Close()
	})
	return uc, pos
}

func TestBarcodeIgnoredWhenNotScanning(t *testing.T) {
	uc, _ := newTestScanner(t)

	uc.Store().Dispatch(BarcodeDetected{Barcode: "111"})
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, uc.Store().State().LastBarcode)
}

func TestBarcodeAddsProductToSale(t *testing.T) {
	uc, pos := newTestScanner(t)

	uc.Store().Dispatch(StartScanning{})
	assert.Eventually(t, func() bool {
		return uc.Store().State().Scanning
	}, time.Second, 5*time.Millisecond)

	uc.Store().Dispatch(BarcodeDetected{Barcode: "111"})

	eff := awaitEffect(t, uc.Store().Effects())
	found, ok := eff.(ScannedProductFound)
	assert.True(t, ok)
	assert.Equal(t, "p1", found.Product.ID)

	// Найденный товар попадает в корзину экрана продажи
	assert.Eventually(t, func() bool {
		st := pos.Store().State()
		return len(st.CartItems) == 1 && st.CartItems[0].ProductID == "p1"
	}, time.Second, 5*time.Millisecond)
}

func TestUnknownBarcodeFetchedFromRemoteCatalog(t *testing.T) {
	productRepo := newFakeProductRepo(testProducts()...)
	catalog := &stubCatalogService{byBarcode: map[string]entity.Product{
		"444": {ID: "p4", Name: "Маффин", Price: money.FromUnits(18, 0), Barcode: "444", InStock: true},
	}}
	pos := NewPosUseCase(productRepo, newFakeCartRepo())
	uc := NewScannerUseCase(productRepo, catalog, pos)
	t.Cleanup(func() {
		uc.Close()
		pos.Close()
	})

	uc.Store().Dispatch(StartScanning{})
	assert.Eventually(t, func() bool {
		return uc.Store().State().Scanning
	}, time.Second, 5*time.Millisecond)

	uc.Store().Dispatch(BarcodeDetected{Barcode: "444"})

	eff := awaitEffect(t, uc.Store().Effects())
	found, ok := eff.(ScannedProductFound)
	assert.True(t, ok)
	assert.Equal(t, "p4", found.Product.ID)

	// Дотянутый товар сохранен в локальном каталоге
	saved, err := productRepo.GetByBarcode(context.Background(), "444")
	assert.NoError(t, err)
	assert.Equal(t, "Маффин", saved.Name)
}

func TestToggleFlashAndStopResets(t *testing.T) {
	uc, _ := newTestScanner(t)

	uc.Store().Dispatch(StartScanning{})
	uc.Store().Dispatch(ToggleFlash{})
	assert.Eventually(t, func() bool {
		st := uc.Store().State()
		return st.Scanning && st.FlashOn
	}, time.Second, 5*time.Millisecond)

	// Выключение сканера гасит и подсветку
	uc.Store().Dispatch(StopScanning{})
	assert.Eventually(t, func() bool {
		st := uc.Store().State()
		return !st.Scanning && !st.FlashOn
	}, time.Second, 5*time.Millisecond)
}

func TestUnknownBarcodeReportsMissing(t *testing.T) {
	uc, _ := newTestScanner(t)

	uc.Store().Dispatch(StartScanning{})
	assert.Eventually(t, func() bool {
		return uc.Store().State().Scanning
	}, time.Second, 5*time.Millisecond)

	uc.Store().Dispatch(BarcodeDetected{Barcode: "000"})

	eff := awaitEffect(t, uc.Store().Effects())
	missing, ok := eff.(ScannedProductMissing)
	assert.True(t, ok)
	assert.Equal(t, "000", missing.Barcode)
}
