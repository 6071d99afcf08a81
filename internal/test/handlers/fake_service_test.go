package handlers_test

import (
	"context"

	"order-portal-backend/internal/models"
	"order-portal-backend/internal/services"
)

// fakeOrderService implements handlers.OrderService with per-method hooks.
type fakeOrderService struct {
	createOrderFn   func(clientName, clientPhone string, file services.UploadFile) (models.Order, error)
	appendVersionFn func(orderID int64, file services.UploadFile) (models.Version, error)
	dashboardFn     func() ([]models.DashboardOrder, error)
	viewOrderFn     func(token string) (models.Order, []models.Version, error)
	feedbackFn      func(token, message string) (models.Feedback, error)
	ackFn           func(orderID int64) error
	approveFn       func(orderID int64) error
}

func (f *fakeOrderService) CreateOrder(_ context.Context, clientName, clientPhone string, file services.UploadFile) (models.Order, error) {
	return f.createOrderFn(clientName, clientPhone, file)
}

func (f *fakeOrderService) AppendVersion(_ context.Context, orderID int64, file services.UploadFile) (models.Version, error) {
	return f.appendVersionFn(orderID, file)
}

func (f *fakeOrderService) Dashboard(_ context.Context) ([]models.DashboardOrder, error) {
	return f.dashboardFn()
}

func (f *fakeOrderService) ViewOrderByToken(_ context.Context, token string) (models.Order, []models.Version, error) {
	return f.viewOrderFn(token)
}

func (f *fakeOrderService) RecordFeedbackByToken(_ context.Context, token, message string) (models.Feedback, error) {
	return f.feedbackFn(token, message)
}

func (f *fakeOrderService) AcknowledgeFeedback(_ context.Context, orderID int64) error {
	return f.ackFn(orderID)
}

func (f *fakeOrderService) ApproveOrder(_ context.Context, orderID int64) error {
	return f.approveFn(orderID)
}
