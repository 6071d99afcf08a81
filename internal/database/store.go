package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"order-portal-backend/internal/models"
)

// appendVersionRetries bounds how often an append recomputes the next version
// number after losing a concurrent-insert race on (order_id, version_number).
const appendVersionRetries = 3

// Store owns all durable order, version and feedback state.
type Store struct {
	db *sql.DB
}

func NewStore(connectionString string) (*Store, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// CreateOrderWithVersion inserts the order row and its version-1 row in one
// transaction: the durable store never holds an order without its initial
// version, nor a version without its order.
func (s *Store) CreateOrderWithVersion(ctx context.Context, order models.Order, fileURL string, uploadedAt time.Time) (models.Order, models.Version, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Order{}, models.Version{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (client_name, client_phone, token, token_expiry, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, order.ClientName, order.ClientPhone, order.Token, order.TokenExpiry, order.Status, order.CreatedAt).Scan(&order.ID)
	if err != nil {
		return models.Order{}, models.Version{}, fmt.Errorf("failed to insert order: %w", err)
	}

	version := models.Version{
		OrderID:       order.ID,
		FileURL:       fileURL,
		VersionNumber: 1,
		UploadedAt:    uploadedAt,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO versions (order_id, file_url, version_number, uploaded_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, version.OrderID, version.FileURL, version.VersionNumber, version.UploadedAt).Scan(&version.ID)
	if err != nil {
		return models.Order{}, models.Version{}, fmt.Errorf("failed to insert version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Order{}, models.Version{}, fmt.Errorf("failed to commit order creation: %w", err)
	}

	return order, version, nil
}

// AppendVersion inserts the next version row for an order. The version number
// is computed and inserted in a single statement; the UNIQUE (order_id,
// version_number) constraint rejects a concurrent append that computed the
// same number, and the insert is retried with a fresh computation.
func (s *Store) AppendVersion(ctx context.Context, orderID int64, fileURL string, uploadedAt time.Time) (models.Version, error) {
	var version models.Version
	for attempt := 0; attempt < appendVersionRetries; attempt++ {
		err := s.db.QueryRowContext(ctx, `
			INSERT INTO versions (order_id, file_url, version_number, uploaded_at)
			SELECT $1, $2, COALESCE(MAX(version_number), 0) + 1, $3
			FROM versions
			WHERE order_id = $1
			RETURNING id, order_id, file_url, version_number, uploaded_at
		`, orderID, fileURL, uploadedAt).Scan(
			&version.ID, &version.OrderID, &version.FileURL, &version.VersionNumber, &version.UploadedAt,
		)
		if err == nil {
			return version, nil
		}

		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgerrcode.UniqueViolation {
			continue
		}
		return models.Version{}, fmt.Errorf("failed to insert version: %w", err)
	}
	return models.Version{}, fmt.Errorf("failed to insert version for order %d: retries exhausted", orderID)
}

func (s *Store) GetOrder(ctx context.Context, orderID int64) (models.Order, error) {
	return s.getOrder(ctx, "id = $1", orderID)
}

func (s *Store) GetOrderByToken(ctx context.Context, token string) (models.Order, error) {
	return s.getOrder(ctx, "token = $1", token)
}

func (s *Store) getOrder(ctx context.Context, where string, arg interface{}) (models.Order, error) {
	var order models.Order
	err := s.db.QueryRowContext(ctx, `
		SELECT id, client_name, client_phone, token, token_expiry, status, has_new_feedback, created_at
		FROM orders
		WHERE `+where, arg).Scan(
		&order.ID, &order.ClientName, &order.ClientPhone, &order.Token,
		&order.TokenExpiry, &order.Status, &order.HasNewFeedback, &order.CreatedAt,
	)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (s *Store) ListVersions(ctx context.Context, orderID int64) ([]models.Version, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_id, file_url, version_number, uploaded_at
		FROM versions
		WHERE order_id = $1
		ORDER BY version_number ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	var versions []models.Version
	for rows.Next() {
		var v models.Version
		if err := rows.Scan(&v.ID, &v.OrderID, &v.FileURL, &v.VersionNumber, &v.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}

	return versions, nil
}

// ListOrdersWithLatestVersion returns every order, newest first, joined with
// its highest-numbered version and its feedback entries (newest first).
func (s *Store) ListOrdersWithLatestVersion(ctx context.Context) ([]models.DashboardOrder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.id, o.client_name, o.client_phone, o.token, o.token_expiry,
		       o.status, o.has_new_feedback, o.created_at,
		       v.file_url, v.version_number
		FROM orders o
		LEFT JOIN versions v
		  ON v.order_id = o.id
		 AND v.version_number = (SELECT MAX(version_number) FROM versions WHERE order_id = o.id)
		ORDER BY o.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.DashboardOrder
	for rows.Next() {
		var o models.DashboardOrder
		err := rows.Scan(
			&o.ID, &o.ClientName, &o.ClientPhone, &o.Token, &o.TokenExpiry,
			&o.Status, &o.HasNewFeedback, &o.CreatedAt,
			&o.LatestFile, &o.LatestVersion,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.Feedbacks = []models.Feedback{}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	grouped, err := s.feedbackByOrder(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if fb, ok := grouped[orders[i].ID]; ok {
			orders[i].Feedbacks = fb
		}
	}

	return orders, nil
}

func (s *Store) feedbackByOrder(ctx context.Context) (map[int64][]models.Feedback, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_id, message, created_at
		FROM feedback
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	grouped := make(map[int64][]models.Feedback)
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(&f.ID, &f.OrderID, &f.Message, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		grouped[f.OrderID] = append(grouped[f.OrderID], f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	return grouped, nil
}

// RecordFeedback inserts the feedback row, raises the new-feedback flag and
// moves the order to status in one transaction. Callers pass the order's
// current status when the feedback transition is not legal for it.
func (s *Store) RecordFeedback(ctx context.Context, orderID int64, message string, status models.OrderStatus, createdAt time.Time) (models.Feedback, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Feedback{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	feedback := models.Feedback{OrderID: orderID, Message: message, CreatedAt: createdAt}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO feedback (order_id, message, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, orderID, message, createdAt).Scan(&feedback.ID)
	if err != nil {
		return models.Feedback{}, fmt.Errorf("failed to insert feedback: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE orders
		SET has_new_feedback = TRUE, status = $1
		WHERE id = $2
	`, status, orderID)
	if err != nil {
		return models.Feedback{}, fmt.Errorf("failed to flag order feedback: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Feedback{}, fmt.Errorf("failed to commit feedback: %w", err)
	}

	return feedback, nil
}

// TransitionStatus moves an order to a new status only when its current
// status is one of from. Returns false when the order was not in any of the
// from states (or does not exist).
func (s *Store) TransitionStatus(ctx context.Context, orderID int64, from []models.OrderStatus, to models.OrderStatus) (bool, error) {
	fromStates := make([]string, len(from))
	for i, st := range from {
		fromStates[i] = string(st)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1
		WHERE id = $2 AND status = ANY($3)
	`, to, orderID, pq.Array(fromStates))
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// AcknowledgeFeedback clears the new-feedback flag. Returns false when no
// such order exists.
func (s *Store) AcknowledgeFeedback(ctx context.Context, orderID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET has_new_feedback = FALSE
		WHERE id = $1
	`, orderID)
	if err != nil {
		return false, fmt.Errorf("failed to clear feedback flag: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// IsNotFound reports whether err means the queried row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
