package usecase

import (
	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/pkg/money"
	"github.com/director74/pos-terminal/pkg/outcome"
)

// PosIntent команда экрана продажи
type PosIntent interface {
	isPosIntent()
}

// LoadProducts загружает каталог товаров
type LoadProducts struct {
	Category string
}

// SearchProducts ищет товары по подстроке названия; пустой запрос
// возвращает каталог целиком
type SearchProducts struct {
	Query string
}

// ScanBarcode ищет товар по штрихкоду и добавляет его в корзину
type ScanBarcode struct {
	Barcode string
}

// AddToCart добавляет товар в корзину; повторное добавление того же
// товара увеличивает количество существующей позиции
type AddToCart struct {
	ProductID string
	Quantity  int
}

// UpdateCartQuantity устанавливает количество позиции; значение <= 0
// удаляет позицию
type UpdateCartQuantity struct {
	ProductID string
	Quantity  int
}

// RemoveFromCart удаляет позицию корзины
type RemoveFromCart struct {
	ProductID string
}

// ClearCart очищает корзину целиком
type ClearCart struct{}

// ApplyDiscount применяет процентную скидку на чек, диапазон [0, 100]
type ApplyDiscount struct {
	Percent float64
}

// ProceedToCheckout фиксирует снимок корзины и переводит к оплате
type ProceedToCheckout struct{}

// CancelOrder отменяет текущую продажу и очищает корзину
type CancelOrder struct{}

// StartNewSale начинает новую продажу с пустой корзиной и новым
// идентификатором
type StartNewSale struct{}

func (LoadProducts) isPosIntent()       {}
func (SearchProducts) isPosIntent()     {}
func (ScanBarcode) isPosIntent()        {}
func (AddToCart) isPosIntent()          {}
func (UpdateCartQuantity) isPosIntent() {}
func (RemoveFromCart) isPosIntent()     {}
func (ClearCart) isPosIntent()          {}
func (ApplyDiscount) isPosIntent()      {}
func (ProceedToCheckout) isPosIntent()  {}
func (CancelOrder) isPosIntent()        {}
func (StartNewSale) isPosIntent()       {}

// PosState состояние экрана продажи. Денежные поля пересчитываются при
// каждой мутации корзины, снимок заменяется целиком.
type PosState struct {
	CartID          string                            `json:"cart_id"`
	Products        outcome.Outcome[[]entity.Product] `json:"products"`
	CartItems       []entity.CartItem                 `json:"cart_items"`
	Subtotal        money.Money                       `json:"subtotal"`
	DiscountPercent float64                           `json:"discount_percent"`
	DiscountAmount  money.Money                       `json:"discount_amount"`
	Total           money.Money                       `json:"total"`
	Error           string                            `json:"error,omitempty"`
}

// PosEffect одноразовый сигнал экрана продажи
type PosEffect interface {
	Kind() string
}

// NavigateToPayment переход к оплате зафиксированного чека
type NavigateToPayment struct {
	OrderDraft OrderDraft `json:"order_draft"`
}

// ShowPosError показ сообщения об ошибке
type ShowPosError struct {
	Message string `json:"message"`
}

// ShowPosToast короткое уведомление
type ShowPosToast struct {
	Message string `json:"message"`
}

// ProductNotFound сканер не нашел товар по штрихкоду
type ProductNotFound struct {
	Barcode string `json:"barcode"`
}

func (NavigateToPayment) Kind() string { return "navigate_to_payment" }
func (ShowPosError) Kind() string      { return "show_error" }
func (ShowPosToast) Kind() string      { return "show_toast" }
func (ProductNotFound) Kind() string   { return "product_not_found" }

// OrderDraft снимок чека, зафиксированный при переходе к оплате.
// Копируется по значению: дальнейшие мутации корзины на него не влияют.
type OrderDraft struct {
	CartID          string             `json:"cart_id"`
	Items           []entity.OrderItem `json:"items"`
	Subtotal        money.Money        `json:"subtotal"`
	DiscountPercent float64            `json:"discount_percent"`
	DiscountAmount  money.Money        `json:"discount_amount"`
	Total           money.Money        `json:"total"`
}
