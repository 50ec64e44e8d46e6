package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/internal/repo"
	"github.com/director74/pos-terminal/internal/usecase"
	"github.com/director74/pos-terminal/pkg/auth"
)

// OrderHandler обрабатывает запросы истории заказов, статистики продаж
// и настроек терминала
type OrderHandler struct {
	orderUseCase      *usecase.OrderUseCase
	statisticsUseCase *usecase.StatisticsUseCase
	settingsUseCase   *usecase.SettingsUseCase
	authMiddleware    *auth.AuthMiddleware
}

func NewOrderHandler(
	orderUseCase *usecase.OrderUseCase,
	statisticsUseCase *usecase.StatisticsUseCase,
	settingsUseCase *usecase.SettingsUseCase,
	authMiddleware *auth.AuthMiddleware,
) *OrderHandler {
	return &OrderHandler{
		orderUseCase:      orderUseCase,
		statisticsUseCase: statisticsUseCase,
		settingsUseCase:   settingsUseCase,
		authMiddleware:    authMiddleware,
	}
}

func (h *OrderHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.HealthCheck)

	api := router.Group("/api/v1")
	api.Use(h.authMiddleware.AuthRequired())
	{
		api.GET("/orders", h.ListOrders)
		api.GET("/orders/:id", h.GetOrder)
		api.GET("/orders/:id/transactions", h.ListTransactions)
		api.GET("/orders/:id/print-jobs", h.ListPrintJobs)
		api.GET("/orders/number/:number", h.GetOrderByNumber)

		api.GET("/print-jobs/pending", h.ListPendingPrintJobs)

		api.GET("/statistics/sales", h.GetSales)
		api.GET("/statistics/sales/today", h.GetSalesToday)

		api.GET("/settings", h.GetSettings)
		api.PUT("/settings", h.UpdateSettings)
	}
}

func (h *OrderHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	resp, err := h.orderUseCase.ListOrders(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	resp, err := h.orderUseCase.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repo.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetOrderByNumber ищет заказ по номеру, напечатанному на чеке
func (h *OrderHandler) GetOrderByNumber(c *gin.Context) {
	resp, err := h.orderUseCase.GetOrderByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		if errors.Is(err, repo.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) ListTransactions(c *gin.Context) {
	resp, err := h.orderUseCase.ListTransactions(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repo.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) ListPrintJobs(c *gin.Context) {
	jobs, err := h.orderUseCase.ListPrintJobs(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repo.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "total": len(jobs)})
}

// ListPendingPrintJobs показывает очередь печати: задания, еще не
// завершенные принтером
func (h *OrderHandler) ListPendingPrintJobs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	jobs, err := h.orderUseCase.ListPendingPrintJobs(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "total": len(jobs)})
}

// GetSales статистика продаж за произвольный период, границы в RFC3339
func (h *OrderHandler) GetSales(c *gin.Context) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный формат параметра from"})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный формат параметра to"})
		return
	}

	stats, err := h.statisticsUseCase.GetSales(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *OrderHandler) GetSalesToday(c *gin.Context) {
	stats, err := h.statisticsUseCase.GetSalesToday(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *OrderHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsUseCase.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *OrderHandler) UpdateSettings(c *gin.Context) {
	var req entity.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.settingsUseCase.Update(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}
