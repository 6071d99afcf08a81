package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"order-portal-backend/internal/models"
	"order-portal-backend/internal/services"
)

// OrdersHandler carries the admin per-order actions.
type OrdersHandler struct {
	service OrderService
	log     *zap.Logger
}

func NewOrdersHandler(service OrderService, log *zap.Logger) *OrdersHandler {
	return &OrdersHandler{
		service: service,
		log:     log,
	}
}

// AcknowledgeFeedback godoc
// @Summary     Mark an order's feedback as read
// @Description Clears the new-feedback flag after the admin has read the entries.
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Param       order_id path int true "Order ID"
// @Success     200 {object} map[string]interface{}
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /admin/orders/{order_id}/feedback/ack [post]
func (h *OrdersHandler) AcknowledgeFeedback(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid order id"})
		return
	}

	if err := h.service.AcknowledgeFeedback(c.Request.Context(), orderID); err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "order not found"})
			return
		}
		h.log.Error("feedback acknowledge failed", zap.Int64("order_id", orderID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to acknowledge feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order_id": orderID, "has_new_feedback": false})
}

// ApproveOrder godoc
// @Summary     Approve an order
// @Description Marks the engagement accepted. Only a Viewed or FeedbackReceived order can be approved.
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Param       order_id path int true "Order ID"
// @Success     200 {object} map[string]interface{}
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /admin/orders/{order_id}/approve [post]
func (h *OrdersHandler) ApproveOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid order id"})
		return
	}

	if err := h.service.ApproveOrder(c.Request.Context(), orderID); err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "order not found"})
		case errors.Is(err, services.ErrInvalidTransition):
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:   "invalid status transition",
				Message: "order must be viewed by the client before approval",
			})
		default:
			h.log.Error("order approval failed", zap.Int64("order_id", orderID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to approve order"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"order_id": orderID, "status": string(models.StatusApproved)})
}
