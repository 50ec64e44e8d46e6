package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/director74/pos-terminal/internal/usecase"
	"github.com/director74/pos-terminal/pkg/auth"
)

// CatalogHandler обрабатывает запросы синхронизации каталога терминала
type CatalogHandler struct {
	catalogUseCase *usecase.CatalogUseCase
	authMiddleware *auth.AuthMiddleware
}

func NewCatalogHandler(catalogUseCase *usecase.CatalogUseCase, authMiddleware *auth.AuthMiddleware) *CatalogHandler {
	return &CatalogHandler{
		catalogUseCase: catalogUseCase,
		authMiddleware: authMiddleware,
	}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/catalog")
	api.Use(h.authMiddleware.AuthRequired())
	{
		api.POST("/sync", h.Sync)
	}
}

// Sync запускает инкрементальную синхронизацию с внешним каталогом
func (h *CatalogHandler) Sync(c *gin.Context) {
	synced, err := h.catalogUseCase.Refresh(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"synced":    synced,
		"last_sync": h.catalogUseCase.LastSync().UTC().Format(time.RFC3339),
	})
}
