package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/director74/pos-terminal/internal/usecase"
	"github.com/director74/pos-terminal/pkg/auth"
)

// ScannerHandler обрабатывает запросы экрана сканера штрихкодов
type ScannerHandler struct {
	scannerUseCase *usecase.ScannerUseCase
	authMiddleware *auth.AuthMiddleware
}

func NewScannerHandler(scannerUseCase *usecase.ScannerUseCase, authMiddleware *auth.AuthMiddleware) *ScannerHandler {
	return &ScannerHandler{
		scannerUseCase: scannerUseCase,
		authMiddleware: authMiddleware,
	}
}

func (h *ScannerHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/scanner")
	api.Use(h.authMiddleware.AuthRequired())
	{
		api.POST("/intents", h.DispatchIntent)
		api.GET("/state", h.GetState)
		api.GET("/effects", h.GetEffects)
	}
}

// scannerIntentRequest универсальный запрос интента экрана сканера
type scannerIntentRequest struct {
	Type    string `json:"type" binding:"required"`
	Barcode string `json:"barcode"`
}

func (h *ScannerHandler) DispatchIntent(c *gin.Context) {
	var req scannerIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var intent usecase.ScannerIntent
	switch req.Type {
	case "start":
		intent = usecase.StartScanning{}
	case "stop":
		intent = usecase.StopScanning{}
	case "barcode_detected":
		intent = usecase.BarcodeDetected{Barcode: req.Barcode}
	case "toggle_flash":
		intent = usecase.ToggleFlash{}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("неизвестный интент: %s", req.Type)})
		return
	}

	h.scannerUseCase.Store().Dispatch(intent)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (h *ScannerHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.scannerUseCase.Store().State())
}

func (h *ScannerHandler) GetEffects(c *gin.Context) {
	effects := drainEffects(h.scannerUseCase.Store().Effects())
	c.JSON(http.StatusOK, gin.H{"effects": effects})
}
