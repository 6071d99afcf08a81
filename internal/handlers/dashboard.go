package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"order-portal-backend/internal/models"
)

type DashboardHandler struct {
	service OrderService
	log     *zap.Logger
}

func NewDashboardHandler(service OrderService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		log:     log,
	}
}

// GetDashboard godoc
// @Summary     Admin dashboard
// @Description Returns every order, newest first, with its latest version and feedback entries. A store failure returns an error body, never a partial page.
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.DashboardResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /admin [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	orders, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		h.log.Error("dashboard load failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to load dashboard",
			Message: err.Error(),
		})
		return
	}

	response := models.DashboardResponse{
		Orders: make([]models.DashboardOrderResponse, 0, len(orders)),
	}
	for _, o := range orders {
		response.Orders = append(response.Orders, models.NewDashboardOrderResponse(o))
	}

	c.JSON(http.StatusOK, response)
}
