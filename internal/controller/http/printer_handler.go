package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/director74/pos-terminal/internal/usecase"
	"github.com/director74/pos-terminal/pkg/auth"
)

// PrinterHandler обрабатывает запросы экрана печати
type PrinterHandler struct {
	printerUseCase *usecase.PrinterUseCase
	authMiddleware *auth.AuthMiddleware
}

func NewPrinterHandler(printerUseCase *usecase.PrinterUseCase, authMiddleware *auth.AuthMiddleware) *PrinterHandler {
	return &PrinterHandler{
		printerUseCase: printerUseCase,
		authMiddleware: authMiddleware,
	}
}

func (h *PrinterHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/printer")
	api.Use(h.authMiddleware.AuthRequired())
	{
		api.POST("/intents", h.DispatchIntent)
		api.GET("/state", h.GetState)
		api.GET("/effects", h.GetEffects)
	}
}

// printerIntentRequest универсальный запрос интента экрана печати
type printerIntentRequest struct {
	Type        string `json:"type" binding:"required"`
	OrderID     string `json:"order_id"`
	PrinterName string `json:"printer_name"`
	Copies      int    `json:"copies"`
}

func (h *PrinterHandler) DispatchIntent(c *gin.Context) {
	var req printerIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var intent usecase.PrinterIntent
	switch req.Type {
	case "print_receipt":
		intent = usecase.PrintReceipt{OrderID: req.OrderID}
	case "print_kitchen_order":
		intent = usecase.PrintKitchenOrder{OrderID: req.OrderID}
	case "check_status":
		intent = usecase.CheckPrinterStatus{}
	case "retry":
		intent = usecase.RetryPrint{}
	case "skip":
		intent = usecase.SkipPrinting{}
	case "select_printer":
		intent = usecase.SelectPrinter{PrinterName: req.PrinterName}
	case "set_copies":
		intent = usecase.SetCopies{Copies: req.Copies}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("неизвестный интент: %s", req.Type)})
		return
	}

	h.printerUseCase.Store().Dispatch(intent)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (h *PrinterHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.printerUseCase.Store().State())
}

func (h *PrinterHandler) GetEffects(c *gin.Context) {
	effects := drainEffects(h.printerUseCase.Store().Effects())
	c.JSON(http.StatusOK, gin.H{"effects": effects})
}
