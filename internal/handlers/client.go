package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"order-portal-backend/internal/models"
	"order-portal-backend/internal/services"
)

// ClientHandler serves the token-holder routes. Possession of the token is
// the only credential; expiry is enforced by the service.
type ClientHandler struct {
	service OrderService
	log     *zap.Logger
}

func NewClientHandler(service OrderService, log *zap.Logger) *ClientHandler {
	return &ClientHandler{
		service: service,
		log:     log,
	}
}

// ViewOrder godoc
// @Summary     Client order view
// @Description Resolves an access token to the order and its full version history. The first open moves the order from Sent to Viewed.
// @Tags        client
// @Produce     json
// @Param       token path string true "Order access token"
// @Success     200 {object} models.ClientOrderResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     410 {object} models.ErrorResponse
// @Router      /orders/{token} [get]
func (h *ClientHandler) ViewOrder(c *gin.Context) {
	order, versions, err := h.service.ViewOrderByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.renderTokenError(c, err)
		return
	}

	response := models.ClientOrderResponse{
		ClientName: order.ClientName,
		Status:     string(order.Status),
		CreatedAt:  order.CreatedAt,
		Versions:   make([]models.VersionResponse, 0, len(versions)),
	}
	for _, v := range versions {
		response.Versions = append(response.Versions, models.VersionResponse{
			VersionNumber: v.VersionNumber,
			FileURL:       v.FileURL,
			UploadedAt:    v.UploadedAt,
		})
	}

	c.JSON(http.StatusOK, response)
}

// SubmitFeedback godoc
// @Summary     Submit feedback on an order
// @Description Records a client comment and raises the order's new-feedback flag.
// @Tags        client
// @Accept      json
// @Produce     json
// @Param       token path string true "Order access token"
// @Param       request body models.FeedbackRequest true "Feedback message"
// @Success     201 {object} models.FeedbackResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     410 {object} models.ErrorResponse
// @Router      /orders/{token}/feedback [post]
func (h *ClientHandler) SubmitFeedback(c *gin.Context) {
	var req models.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "message is required"})
		return
	}

	feedback, err := h.service.RecordFeedbackByToken(c.Request.Context(), c.Param("token"), req.Message)
	if err != nil {
		h.renderTokenError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.FeedbackResponse{
		ID:        feedback.ID,
		Message:   feedback.Message,
		CreatedAt: feedback.CreatedAt,
	})
}

func (h *ClientHandler) renderTokenError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "order not found"})
	case errors.Is(err, services.ErrTokenExpired):
		c.JSON(http.StatusGone, models.ErrorResponse{Error: "order link expired"})
	default:
		h.log.Error("client order access failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to load order"})
	}
}
