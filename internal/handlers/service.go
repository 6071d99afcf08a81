package handlers

import (
	"context"

	"order-portal-backend/internal/models"
	"order-portal-backend/internal/services"
)

// OrderService is what the handlers need from the core service.
// *services.OrderService satisfies it; tests substitute fakes.
type OrderService interface {
	CreateOrder(ctx context.Context, clientName, clientPhone string, file services.UploadFile) (models.Order, error)
	AppendVersion(ctx context.Context, orderID int64, file services.UploadFile) (models.Version, error)
	Dashboard(ctx context.Context) ([]models.DashboardOrder, error)
	ViewOrderByToken(ctx context.Context, token string) (models.Order, []models.Version, error)
	RecordFeedbackByToken(ctx context.Context, token, message string) (models.Feedback, error)
	AcknowledgeFeedback(ctx context.Context, orderID int64) error
	ApproveOrder(ctx context.Context, orderID int64) error
}
