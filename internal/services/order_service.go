package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"order-portal-backend/internal/database"
	"order-portal-backend/internal/models"
	"order-portal-backend/internal/supabase"
	"order-portal-backend/internal/token"
)

var (
	ErrNoFileProvided    = errors.New("no file uploaded")
	ErrUploadFailed      = errors.New("upload failed")
	ErrOrderNotFound     = errors.New("order not found")
	ErrTokenExpired      = errors.New("order link expired")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// uploadRetries bounds retries of the storage upload. Only the upload is
// retried: it happens before any row exists, so a retry is idempotent.
const uploadRetries = 3

// Store is the persistence seam the service needs. *database.Store satisfies
// it; tests substitute an in-memory fake.
type Store interface {
	CreateOrderWithVersion(ctx context.Context, order models.Order, fileURL string, uploadedAt time.Time) (models.Order, models.Version, error)
	AppendVersion(ctx context.Context, orderID int64, fileURL string, uploadedAt time.Time) (models.Version, error)
	GetOrder(ctx context.Context, orderID int64) (models.Order, error)
	GetOrderByToken(ctx context.Context, token string) (models.Order, error)
	ListVersions(ctx context.Context, orderID int64) ([]models.Version, error)
	ListOrdersWithLatestVersion(ctx context.Context) ([]models.DashboardOrder, error)
	RecordFeedback(ctx context.Context, orderID int64, message string, status models.OrderStatus, createdAt time.Time) (models.Feedback, error)
	TransitionStatus(ctx context.Context, orderID int64, from []models.OrderStatus, to models.OrderStatus) (bool, error)
	AcknowledgeFeedback(ctx context.Context, orderID int64) (bool, error)
}

// Uploader pushes file bytes to external object storage and returns a durable
// opaque reference.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// Notifier broadcasts order lifecycle events. Delivery is best-effort.
type Notifier interface {
	PublishOrderEvent(orderID int64, event string, payload map[string]interface{}) error
}

// UploadFile carries one staged upload through the service.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type OrderService struct {
	store    Store
	uploader Uploader
	notifier Notifier
	tokens   *token.Generator
	log      *zap.Logger
}

func NewOrderService(store Store, uploader Uploader, notifier Notifier, tokens *token.Generator, log *zap.Logger) *OrderService {
	return &OrderService{
		store:    store,
		uploader: uploader,
		notifier: notifier,
		tokens:   tokens,
		log:      log,
	}
}

// CreateOrder uploads the initial deliverable, issues the client access
// token, and persists the order with its version-1 row. The upload completes
// before any row is written; an upload failure leaves the store untouched.
func (s *OrderService) CreateOrder(ctx context.Context, clientName, clientPhone string, file UploadFile) (models.Order, error) {
	if len(file.Data) == 0 {
		return models.Order{}, ErrNoFileProvided
	}

	fileURL, err := s.upload(ctx, file)
	if err != nil {
		return models.Order{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	tok := s.tokens.Issue()
	order := models.Order{
		ClientName:  clientName,
		ClientPhone: clientPhone,
		Token:       tok.Value,
		TokenExpiry: tok.ExpiresAt,
		Status:      models.StatusSent,
		CreatedAt:   tok.IssuedAt,
	}

	order, version, err := s.store.CreateOrderWithVersion(ctx, order, fileURL, tok.IssuedAt)
	if err != nil {
		// Known gap: the uploaded object is now orphaned. Log its reference
		// so it can be reaped; the upload is not retried past this point.
		s.log.Error("order insert failed after upload",
			zap.String("file_url", fileURL),
			zap.Error(err))
		return models.Order{}, fmt.Errorf("failed to create order: %w", err)
	}

	s.publish(order.ID, "order_created",
		supabase.OrderCreatedPayload(order.ID, order.ClientName, version.VersionNumber))
	return order, nil
}

// AppendVersion uploads a new revision and attaches it with the next version
// number. Appending re-delivers the order, so its status returns to Sent.
// Approved orders accept no further revisions.
func (s *OrderService) AppendVersion(ctx context.Context, orderID int64, file UploadFile) (models.Version, error) {
	if len(file.Data) == 0 {
		return models.Version{}, ErrNoFileProvided
	}

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		if database.IsNotFound(err) {
			return models.Version{}, ErrOrderNotFound
		}
		return models.Version{}, fmt.Errorf("failed to load order: %w", err)
	}
	if !order.Status.CanTransition(models.StatusSent) {
		return models.Version{}, ErrInvalidTransition
	}

	fileURL, err := s.upload(ctx, file)
	if err != nil {
		return models.Version{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	version, err := s.store.AppendVersion(ctx, orderID, fileURL, s.tokens.Now())
	if err != nil {
		s.log.Error("version insert failed after upload",
			zap.Int64("order_id", orderID),
			zap.String("file_url", fileURL),
			zap.Error(err))
		return models.Version{}, fmt.Errorf("failed to append version: %w", err)
	}

	if _, err := s.store.TransitionStatus(ctx, orderID,
		[]models.OrderStatus{models.StatusViewed, models.StatusFeedbackReceived}, models.StatusSent); err != nil {
		s.log.Warn("status reset after new version failed", zap.Int64("order_id", orderID), zap.Error(err))
	}

	s.publish(orderID, "version_appended", supabase.VersionAppendedPayload(orderID, version.VersionNumber))
	return version, nil
}

// Dashboard returns every order, newest first, with its latest version and
// feedback entries. Store errors propagate so the caller never renders a
// partial page.
func (s *OrderService) Dashboard(ctx context.Context) ([]models.DashboardOrder, error) {
	orders, err := s.store.ListOrdersWithLatestVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	return orders, nil
}

// ViewOrderByToken resolves a client access token to the order and its full
// version history. Past expiry the token is refused. The first successful
// view moves a Sent order to Viewed; that transition is best-effort and never
// fails the view itself.
func (s *OrderService) ViewOrderByToken(ctx context.Context, tokenValue string) (models.Order, []models.Version, error) {
	order, err := s.resolveToken(ctx, tokenValue)
	if err != nil {
		return models.Order{}, nil, err
	}

	if order.Status == models.StatusSent {
		moved, err := s.store.TransitionStatus(ctx, order.ID,
			[]models.OrderStatus{models.StatusSent}, models.StatusViewed)
		if err != nil {
			s.log.Warn("viewed transition failed", zap.Int64("order_id", order.ID), zap.Error(err))
		} else if moved {
			order.Status = models.StatusViewed
		}
	}

	versions, err := s.store.ListVersions(ctx, order.ID)
	if err != nil {
		return models.Order{}, nil, fmt.Errorf("failed to load versions: %w", err)
	}

	return order, versions, nil
}

// RecordFeedback stores a client comment, raises the order's new-feedback
// flag and moves it to FeedbackReceived where that transition is legal.
func (s *OrderService) RecordFeedback(ctx context.Context, orderID int64, message string) (models.Feedback, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		if database.IsNotFound(err) {
			return models.Feedback{}, ErrOrderNotFound
		}
		return models.Feedback{}, fmt.Errorf("failed to load order: %w", err)
	}
	return s.recordFeedback(ctx, order, message)
}

// RecordFeedbackByToken is the client-facing entry point: the token is the
// credential and expiry is enforced.
func (s *OrderService) RecordFeedbackByToken(ctx context.Context, tokenValue, message string) (models.Feedback, error) {
	order, err := s.resolveToken(ctx, tokenValue)
	if err != nil {
		return models.Feedback{}, err
	}
	return s.recordFeedback(ctx, order, message)
}

func (s *OrderService) recordFeedback(ctx context.Context, order models.Order, message string) (models.Feedback, error) {
	status := order.Status
	if status.CanTransition(models.StatusFeedbackReceived) {
		status = models.StatusFeedbackReceived
	}

	feedback, err := s.store.RecordFeedback(ctx, order.ID, message, status, s.tokens.Now())
	if err != nil {
		return models.Feedback{}, fmt.Errorf("failed to record feedback: %w", err)
	}

	s.publish(order.ID, "feedback_received", supabase.FeedbackReceivedPayload(order.ID, feedback.ID))
	return feedback, nil
}

// AcknowledgeFeedback clears an order's new-feedback flag after the admin has
// read the entries.
func (s *OrderService) AcknowledgeFeedback(ctx context.Context, orderID int64) error {
	ok, err := s.store.AcknowledgeFeedback(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to acknowledge feedback: %w", err)
	}
	if !ok {
		return ErrOrderNotFound
	}
	return nil
}

// ApproveOrder marks the engagement accepted. Only a Viewed or
// FeedbackReceived order can be approved; Approved is terminal.
func (s *OrderService) ApproveOrder(ctx context.Context, orderID int64) error {
	if _, err := s.store.GetOrder(ctx, orderID); err != nil {
		if database.IsNotFound(err) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to load order: %w", err)
	}

	moved, err := s.store.TransitionStatus(ctx, orderID,
		[]models.OrderStatus{models.StatusViewed, models.StatusFeedbackReceived}, models.StatusApproved)
	if err != nil {
		return fmt.Errorf("failed to approve order: %w", err)
	}
	if !moved {
		return ErrInvalidTransition
	}

	s.publish(orderID, "order_approved", supabase.OrderApprovedPayload(orderID))
	return nil
}

func (s *OrderService) resolveToken(ctx context.Context, tokenValue string) (models.Order, error) {
	order, err := s.store.GetOrderByToken(ctx, tokenValue)
	if err != nil {
		if database.IsNotFound(err) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, fmt.Errorf("failed to load order: %w", err)
	}
	if s.tokens.Now().After(order.TokenExpiry) {
		return models.Order{}, ErrTokenExpired
	}
	return order, nil
}

func (s *OrderService) upload(ctx context.Context, file UploadFile) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= uploadRetries; attempt++ {
		fileURL, err := s.uploader.Upload(ctx, file.Name, file.ContentType, file.Data)
		if err == nil {
			return fileURL, nil
		}
		lastErr = err
		s.log.Warn("upload attempt failed",
			zap.Int("attempt", attempt),
			zap.String("filename", file.Name),
			zap.Error(err))
		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

func (s *OrderService) publish(orderID int64, event string, payload map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishOrderEvent(orderID, event, payload); err != nil {
		s.log.Warn("realtime publish failed",
			zap.Int64("order_id", orderID),
			zap.String("event", event),
			zap.Error(err))
	}
}
