package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"order-portal-backend/internal/handlers"
	"order-portal-backend/internal/services"
)

func ordersRouter(svc *fakeOrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := handlers.NewOrdersHandler(svc, zap.NewNop())
	router.POST("/admin/orders/:order_id/feedback/ack", h.AcknowledgeFeedback)
	router.POST("/admin/orders/:order_id/approve", h.ApproveOrder)
	return router
}

func TestAcknowledgeFeedback(t *testing.T) {
	var gotID int64
	svc := &fakeOrderService{
		ackFn: func(orderID int64) error {
			gotID = orderID
			return nil
		},
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/orders/5/feedback/ack", nil)
	ordersRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5), gotID)
	assert.Contains(t, w.Body.String(), `"has_new_feedback":false`)
}

func TestAcknowledgeFeedback_NotFound(t *testing.T) {
	svc := &fakeOrderService{
		ackFn: func(int64) error { return services.ErrOrderNotFound },
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/orders/99/feedback/ack", nil)
	ordersRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApproveOrder(t *testing.T) {
	svc := &fakeOrderService{
		approveFn: func(int64) error { return nil },
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/orders/5/approve", nil)
	ordersRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"Approved"`)
}

func TestApproveOrder_InvalidTransition(t *testing.T) {
	svc := &fakeOrderService{
		approveFn: func(int64) error { return services.ErrInvalidTransition },
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/orders/5/approve", nil)
	ordersRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestApproveOrder_InvalidID(t *testing.T) {
	svc := &fakeOrderService{}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/orders/abc/approve", nil)
	ordersRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
