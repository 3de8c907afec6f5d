package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"returns-service/internal/ledger"
	"returns-service/internal/models"
	"returns-service/internal/service"
	"returns-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	returnsService *service.ReturnsService
}

// NewHandler creates a new HTTP handler
func NewHandler(returnsService *service.ReturnsService) *Handler {
	return &Handler{
		returnsService: returnsService,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/returns", h.processReturn)
		v1.GET("/workers/:id/activity", h.getWorkerActivity)
		v1.PATCH("/returns/:id/status", h.updateReturnStatus)
		v1.GET("/stats", h.getStats)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// ProcessReturnRequest is the request body for processing a return.
type ProcessReturnRequest struct {
	Item     models.Item `json:"item" binding:"required"`
	WorkerID string      `json:"worker_id"`
}

// processReturn handles return submissions
func (h *Handler) processReturn(c *gin.Context) {
	var req ProcessReturnRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := req.Item.Validate(); err != nil {
		util.ReturnsFailedTotal.WithLabelValues("validation").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid item",
			"details": err.Error(),
		})
		return
	}

	result, err := h.returnsService.ProcessReturn(c.Request.Context(), req.Item, req.WorkerID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ledger.ErrBusy) {
			// Retryable: the serialization point timed out, nothing
			// was written.
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"error":   "Failed to process return",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// getWorkerActivity handles worker throughput queries
func (h *Handler) getWorkerActivity(c *gin.Context) {
	workerID := c.Param("id")
	day := c.Query("date")

	if day != "" {
		if _, err := time.Parse("2006-01-02", day); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date, expected YYYY-MM-DD",
			})
			return
		}
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit",
			})
			return
		}
		limit = parsed
	}

	activity, err := h.returnsService.GetWorkerActivity(c.Request.Context(), workerID, day, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to read worker activity",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, activity)
}

// UpdateStatusRequest is the request body for status transitions.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// updateReturnStatus handles record status transitions
func (h *Handler) updateReturnStatus(c *gin.Context) {
	recordID := c.Param("id")

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if req.Status != models.RecordStatusShipped {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Only the shipped transition is supported",
		})
		return
	}

	record, err := h.returnsService.MarkShipped(c.Request.Context(), recordID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		case errors.Is(err, ledger.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Invalid status transition"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to update status",
				"details": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

// getStats handles impact totals queries
func (h *Handler) getStats(c *gin.Context) {
	ctx := c.Request.Context()

	totals, err := h.returnsService.Stats(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to read stats",
			"details": err.Error(),
		})
		return
	}

	hubs, err := h.returnsService.HubThroughput(ctx, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to read hub throughput",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totals":         totals,
		"hub_throughput": hubs,
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
