package handlers

import (
	"net/http"
	"time"

	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/models"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/services"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// OrdersHandler handles order tracking HTTP requests
type OrdersHandler struct {
	progressService *services.ProgressService
	tracer          tracing.Tracer
}

// NewOrdersHandler creates a new orders handler
func NewOrdersHandler(progressService *services.ProgressService, tracer tracing.Tracer) *OrdersHandler {
	return &OrdersHandler{
		progressService: progressService,
		tracer:          tracer,
	}
}

// HandleListOrders returns every order in the dataset
func (h *OrdersHandler) HandleListOrders(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-list-orders")
	defer h.tracer.EndTransaction(txn)

	orders := h.progressService.ListOrders(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orders":  orders,
	})
}

// HandleApplyProgress applies a batch of production updates to one item
func (h *OrdersHandler) HandleApplyProgress(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-apply-progress")
	defer h.tracer.EndTransaction(txn)

	orderNumber := c.Param("orderNumber")
	itemID := c.Param("itemId")
	h.tracer.AddAttribute(txn, "order_number", orderNumber)
	h.tracer.AddAttribute(txn, "item_id", itemID)

	var batch models.ProgressBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		log.Error().Err(err).Msg("Invalid progress request body")
		h.tracer.RecordError(txn, err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid request body",
			"error":   err.Error(),
		})
		return
	}

	result, err := h.progressService.ApplyProgress(c.Request.Context(), orderNumber, itemID, batch)
	if err != nil {
		h.tracer.RecordError(txn, err)
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"operation_id": result.OperationID,
		"order":        result.Order,
		"updates":      result.Updates,
		"timestamp":    result.Timestamp.Format(time.RFC3339),
	})
}

// respondError maps the service error taxonomy onto transport status codes.
// Anything unclassified becomes a generic 500 without internal detail.
func (h *OrdersHandler) respondError(c *gin.Context, err error) {
	switch e := err.(type) {
	case *services.ValidationError:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": e.Message,
		})
	case *services.OrderNotFoundError:
		c.JSON(http.StatusNotFound, gin.H{
			"success":      false,
			"message":      e.Error(),
			"order_number": e.OrderNumber,
		})
	case *services.ItemNotFoundError:
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": e.Error(),
			"item_id": e.ItemID,
		})
	case *services.BottleNotFoundError:
		c.JSON(http.StatusNotFound, gin.H{
			"success":   false,
			"message":   e.Error(),
			"deco_code": e.DecoCode,
		})
	case *services.QuantityExceededError:
		c.JSON(http.StatusConflict, gin.H{
			"success":   false,
			"message":   e.Error(),
			"deco_code": e.DecoCode,
		})
	case *services.DatasetUnavailableError:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "order data is temporarily unavailable",
		})
	case *services.PersistenceError:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to save progress, no changes were applied",
		})
	default:
		log.Error().Err(err).Msg("Unclassified error applying progress")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "internal server error",
		})
	}
}

// RegisterRoutes registers the handler's routes
func (h *OrdersHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.GET("/orders", h.HandleListOrders)
	api.POST("/orders/:orderNumber/items/:itemId/progress", h.HandleApplyProgress)
}
