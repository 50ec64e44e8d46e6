package usecase

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/internal/repo"
	"github.com/director74/pos-terminal/pkg/money"
	"github.com/director74/pos-terminal/pkg/mvi"
	"github.com/director74/pos-terminal/pkg/outcome"
)

// PosUseCase экран продажи: каталог, корзина, скидка и переход к оплате
type PosUseCase struct {
	store       *mvi.Store[PosIntent, PosState, PosEffect]
	productRepo repo.ProductRepository
	cartRepo    repo.CartRepository
	logger      *log.Logger
}

// NewPosUseCase создает usecase экрана продажи и привязывает обработчик
// интентов к контейнеру состояния
func NewPosUseCase(productRepo repo.ProductRepository, cartRepo repo.CartRepository) *PosUseCase {
	uc := &PosUseCase{
		store: mvi.NewStore[PosIntent, PosState, PosEffect](PosState{
			CartID: uuid.NewString(),
		}),
		productRepo: productRepo,
		cartRepo:    cartRepo,
		logger:      log.New(os.Stdout, "[POS] ", log.LstdFlags),
	}
	uc.store.Bind(uc.handle)
	uc.store.OnPanic(func(recovered interface{}) {
		uc.store.SendEffect(ShowPosError{Message: "внутренняя ошибка терминала"})
	})
	return uc
}

// Store возвращает контейнер состояния экрана
func (uc *PosUseCase) Store() *mvi.Store[PosIntent, PosState, PosEffect] {
	return uc.store
}

// Close останавливает обработку интентов
func (uc *PosUseCase) Close() {
	uc.store.Close()
}

func (uc *PosUseCase) handle(ctx context.Context, intent PosIntent) {
	switch i := intent.(type) {
	case LoadProducts:
		uc.loadProducts(ctx, i.Category)
	case SearchProducts:
		uc.searchProducts(ctx, i.Query)
	case ScanBarcode:
		uc.scanBarcode(ctx, i.Barcode)
	case AddToCart:
		uc.addToCart(ctx, i.ProductID, i.Quantity)
	case UpdateCartQuantity:
		uc.updateQuantity(ctx, i.ProductID, i.Quantity)
	case RemoveFromCart:
		uc.removeFromCart(ctx, i.ProductID)
	case ClearCart:
		uc.clearCart(ctx)
	case ApplyDiscount:
		uc.applyDiscount(ctx, i.Percent)
	case ProceedToCheckout:
		uc.proceedToCheckout(ctx)
	case CancelOrder:
		uc.cancelOrder(ctx)
	case StartNewSale:
		uc.startNewSale()
	}
}

func (uc *PosUseCase) loadProducts(ctx context.Context, category string) {
	uc.store.UpdateState(func(s PosState) PosState {
		s.Products = outcome.Pending[[]entity.Product]()
		s.Error = ""
		return s
	})

	products, _, err := uc.productRepo.List(ctx, category, 500, 0)
	if err != nil {
		uc.logger.Printf("ошибка загрузки каталога: %v", err)
		uc.store.UpdateState(func(s PosState) PosState {
			s.Products = outcome.Failed[[]entity.Product](err)
			return s
		})
		uc.store.SendEffect(ShowPosError{Message: "не удалось загрузить каталог"})
		return
	}

	uc.store.UpdateState(func(s PosState) PosState {
		s.Products = outcome.Succeeded(products)
		return s
	})
}

// searchProducts ищет товары по подстроке названия; пустой запрос
// перечитывает каталог целиком
func (uc *PosUseCase) searchProducts(ctx context.Context, query string) {
	if query == "" {
		uc.loadProducts(ctx, "")
		return
	}

	uc.store.UpdateState(func(s PosState) PosState {
		s.Products = outcome.Pending[[]entity.Product]()
		s.Error = ""
		return s
	})

	products, err := uc.productRepo.Search(ctx, query, 100)
	if err != nil {
		uc.logger.Printf("ошибка поиска по каталогу: %v", err)
		uc.store.UpdateState(func(s PosState) PosState {
			s.Products = outcome.Failed[[]entity.Product](err)
			return s
		})
		uc.store.SendEffect(ShowPosError{Message: "не удалось выполнить поиск"})
		return
	}

	uc.store.UpdateState(func(s PosState) PosState {
		s.Products = outcome.Succeeded(products)
		return s
	})
}

func (uc *PosUseCase) scanBarcode(ctx context.Context, barcode string) {
	product, err := uc.productRepo.GetByBarcode(ctx, barcode)
	if err != nil {
		uc.store.SendEffect(ProductNotFound{Barcode: barcode})
		return
	}
	uc.addToCart(ctx, product.ID, 1)
	uc.store.SendEffect(ShowPosToast{Message: fmt.Sprintf("добавлен товар: %s", product.Name)})
}

// addToCart добавляет товар в корзину либо увеличивает количество
// существующей позиции того же товара
func (uc *PosUseCase) addToCart(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		quantity = 1
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		uc.store.SendEffect(ShowPosError{Message: "товар не найден"})
		return
	}
	if !product.InStock {
		uc.store.SendEffect(ShowPosError{Message: fmt.Sprintf("товара нет в наличии: %s", product.Name)})
		return
	}

	cartID := uc.store.State().CartID
	existing, err := uc.cartRepo.GetItem(ctx, cartID, productID)
	switch {
	case err == nil:
		existing.Quantity += quantity
		if err := uc.cartRepo.Update(ctx, existing); err != nil {
			uc.failCart(err)
			return
		}
	case err == repo.ErrCartItemNotFound:
		item := &entity.CartItem{
			CartID:    cartID,
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  quantity,
		}
		if err := uc.cartRepo.Create(ctx, item); err != nil {
			uc.failCart(err)
			return
		}
	default:
		uc.failCart(err)
		return
	}

	uc.refreshCart(ctx, cartID)
}

// updateQuantity устанавливает количество позиции; ноль и отрицательные
// значения удаляют позицию
func (uc *PosUseCase) updateQuantity(ctx context.Context, productID string, quantity int) {
	cartID := uc.store.State().CartID

	if quantity <= 0 {
		uc.removeFromCart(ctx, productID)
		return
	}

	item, err := uc.cartRepo.GetItem(ctx, cartID, productID)
	if err != nil {
		uc.store.SendEffect(ShowPosError{Message: "позиция корзины не найдена"})
		return
	}

	item.Quantity = quantity
	if err := uc.cartRepo.Update(ctx, item); err != nil {
		uc.failCart(err)
		return
	}

	uc.refreshCart(ctx, cartID)
}

func (uc *PosUseCase) removeFromCart(ctx context.Context, productID string) {
	cartID := uc.store.State().CartID
	if err := uc.cartRepo.Delete(ctx, cartID, productID); err != nil {
		uc.failCart(err)
		return
	}
	uc.refreshCart(ctx, cartID)
}

func (uc *PosUseCase) clearCart(ctx context.Context) {
	cartID := uc.store.State().CartID
	if err := uc.cartRepo.ClearByCartID(ctx, cartID); err != nil {
		uc.failCart(err)
		return
	}
	uc.refreshCart(ctx, cartID)
}

// applyDiscount применяет процентную скидку на чек. Значения вне
// диапазона [0, 100] отклоняются, состояние не меняется.
func (uc *PosUseCase) applyDiscount(ctx context.Context, percent float64) {
	if percent < 0 || percent > 100 {
		uc.store.SendEffect(ShowPosError{Message: "скидка должна быть в диапазоне от 0 до 100 процентов"})
		return
	}

	uc.store.UpdateState(func(s PosState) PosState {
		s.DiscountPercent = percent
		return recalcTotals(s)
	})
}

// proceedToCheckout фиксирует чек по значению и отправляет переход к
// оплате. Пустая корзина к оплате не переходит.
func (uc *PosUseCase) proceedToCheckout(ctx context.Context) {
	state := uc.store.State()

	items, err := uc.cartRepo.GetItems(ctx, state.CartID)
	if err != nil {
		uc.failCart(err)
		return
	}
	if len(items) == 0 {
		uc.store.SendEffect(ShowPosError{Message: "корзина пуста, оформление невозможно"})
		return
	}

	orderItems := make([]entity.OrderItem, 0, len(items))
	subtotal := money.FromCents(0)
	for _, it := range items {
		orderItems = append(orderItems, entity.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
		subtotal = subtotal.Add(it.Subtotal())
	}

	discount := subtotal.Percent(state.DiscountPercent)
	draft := OrderDraft{
		CartID:          state.CartID,
		Items:           orderItems,
		Subtotal:        subtotal,
		DiscountPercent: state.DiscountPercent,
		DiscountAmount:  discount,
		Total:           subtotal.Sub(discount),
	}

	uc.store.SendEffect(NavigateToPayment{OrderDraft: draft})
}

func (uc *PosUseCase) cancelOrder(ctx context.Context) {
	cartID := uc.store.State().CartID
	if err := uc.cartRepo.ClearByCartID(ctx, cartID); err != nil {
		uc.failCart(err)
		return
	}
	uc.startNewSale()
	uc.store.SendEffect(ShowPosToast{Message: "продажа отменена"})
}

// startNewSale начинает продажу заново: пустая корзина, новый
// идентификатор, скидка сброшена. Каталог в состоянии сохраняется.
func (uc *PosUseCase) startNewSale() {
	uc.store.UpdateState(func(s PosState) PosState {
		s.CartID = uuid.NewString()
		s.CartItems = nil
		s.Subtotal = 0
		s.DiscountPercent = 0
		s.DiscountAmount = 0
		s.Total = 0
		s.Error = ""
		return s
	})
}

// refreshCart перечитывает корзину после мутации и пересчитывает итоги
func (uc *PosUseCase) refreshCart(ctx context.Context, cartID string) {
	items, err := uc.cartRepo.GetItems(ctx, cartID)
	if err != nil {
		uc.failCart(err)
		return
	}

	uc.store.UpdateState(func(s PosState) PosState {
		s.CartItems = items
		s.Error = ""
		return recalcTotals(s)
	})
}

func (uc *PosUseCase) failCart(err error) {
	uc.logger.Printf("ошибка работы с корзиной: %v", err)
	uc.store.SendEffect(ShowPosError{Message: "ошибка работы с корзиной"})
}

// recalcTotals пересчитывает денежные поля по текущим позициям. Скидка
// округляется один раз на итоговой сумме чека.
func recalcTotals(s PosState) PosState {
	subtotal := money.FromCents(0)
	for _, it := range s.CartItems {
		subtotal = subtotal.Add(it.Subtotal())
	}
	s.Subtotal = subtotal
	s.DiscountAmount = subtotal.Percent(s.DiscountPercent)
	s.Total = subtotal.Sub(s.DiscountAmount)
	return s
}
