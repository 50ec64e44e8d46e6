package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/director74/pos-terminal/internal/usecase"
	"github.com/director74/pos-terminal/pkg/auth"
)

// PosHandler обрабатывает запросы экрана продажи: интенты на входе,
// снимок состояния и эффекты на выходе
type PosHandler struct {
	posUseCase     *usecase.PosUseCase
	authMiddleware *auth.AuthMiddleware
}

func NewPosHandler(posUseCase *usecase.PosUseCase, authMiddleware *auth.AuthMiddleware) *PosHandler {
	return &PosHandler{
		posUseCase:     posUseCase,
		authMiddleware: authMiddleware,
	}
}

func (h *PosHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/pos")
	api.Use(h.authMiddleware.AuthRequired())
	{
		api.POST("/intents", h.DispatchIntent)
		api.GET("/state", h.GetState)
		api.GET("/effects", h.GetEffects)
	}
}

// posIntentRequest универсальный запрос интента экрана продажи
type posIntentRequest struct {
	Type      string  `json:"type" binding:"required"`
	Category  string  `json:"category"`
	Query     string  `json:"query"`
	Barcode   string  `json:"barcode"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Percent   float64 `json:"percent"`
}

func (h *PosHandler) DispatchIntent(c *gin.Context) {
	var req posIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var intent usecase.PosIntent
	switch req.Type {
	case "load_products":
		intent = usecase.LoadProducts{Category: req.Category}
	case "search_products":
		intent = usecase.SearchProducts{Query: req.Query}
	case "scan_barcode":
		intent = usecase.ScanBarcode{Barcode: req.Barcode}
	case "add_to_cart":
		intent = usecase.AddToCart{ProductID: req.ProductID, Quantity: req.Quantity}
	case "update_cart_quantity":
		intent = usecase.UpdateCartQuantity{ProductID: req.ProductID, Quantity: req.Quantity}
	case "remove_from_cart":
		intent = usecase.RemoveFromCart{ProductID: req.ProductID}
	case "clear_cart":
		intent = usecase.ClearCart{}
	case "apply_discount":
		intent = usecase.ApplyDiscount{Percent: req.Percent}
	case "proceed_to_checkout":
		intent = usecase.ProceedToCheckout{}
	case "cancel_order":
		intent = usecase.CancelOrder{}
	case "start_new_sale":
		intent = usecase.StartNewSale{}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("неизвестный интент: %s", req.Type)})
		return
	}

	h.posUseCase.Store().Dispatch(intent)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (h *PosHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.posUseCase.Store().State())
}

func (h *PosHandler) GetEffects(c *gin.Context) {
	effects := drainEffects(h.posUseCase.Store().Effects())
	c.JSON(http.StatusOK, gin.H{"effects": effects})
}
