package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/internal/usecase"
	"github.com/director74/pos-terminal/pkg/auth"
)

// PaymentHandler обрабатывает запросы экрана оплаты
type PaymentHandler struct {
	paymentUseCase *usecase.PaymentUseCase
	authMiddleware *auth.AuthMiddleware
}

func NewPaymentHandler(paymentUseCase *usecase.PaymentUseCase, authMiddleware *auth.AuthMiddleware) *PaymentHandler {
	return &PaymentHandler{
		paymentUseCase: paymentUseCase,
		authMiddleware: authMiddleware,
	}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/payment")
	api.Use(h.authMiddleware.AuthRequired())
	{
		api.POST("/intents", h.DispatchIntent)
		api.GET("/state", h.GetState)
		api.GET("/effects", h.GetEffects)
	}
}

// paymentIntentRequest универсальный запрос интента экрана оплаты
type paymentIntentRequest struct {
	Type   string              `json:"type" binding:"required"`
	Method string              `json:"method"`
	Draft  *usecase.OrderDraft `json:"draft"`
}

func (h *PaymentHandler) DispatchIntent(c *gin.Context) {
	var req paymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var intent usecase.PaymentIntent
	switch req.Type {
	case "initialize":
		if req.Draft == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "не передан чек для оплаты"})
			return
		}
		intent = usecase.InitializePayment{
			Draft:     *req.Draft,
			CashierID: auth.GetCashierID(c),
		}
	case "select_method":
		intent = usecase.SelectPaymentMethod{Method: entity.PaymentMethod(req.Method)}
	case "process":
		intent = usecase.ProcessPayment{}
	case "confirm":
		intent = usecase.ConfirmPayment{}
	case "cancel":
		intent = usecase.CancelPayment{}
	case "retry":
		intent = usecase.RetryPayment{}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("неизвестный интент: %s", req.Type)})
		return
	}

	h.paymentUseCase.Store().Dispatch(intent)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (h *PaymentHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.paymentUseCase.Store().State())
}

func (h *PaymentHandler) GetEffects(c *gin.Context) {
	effects := drainEffects(h.paymentUseCase.Store().Effects())
	c.JSON(http.StatusOK, gin.H{"effects": effects})
}
