package models

import (
	"database/sql"
	"time"
)

type OrderStatus string

const (
	StatusSent             OrderStatus = "Sent"
	StatusViewed           OrderStatus = "Viewed"
	StatusFeedbackReceived OrderStatus = "FeedbackReceived"
	StatusApproved         OrderStatus = "Approved"
)

// CanTransition reports whether an order may move from its current status to
// next. Approved is terminal except that it is never a source of Sent.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	switch next {
	case StatusSent:
		// A new version re-delivers the order to the client.
		return s != StatusApproved
	case StatusViewed:
		return s == StatusSent
	case StatusFeedbackReceived:
		return s == StatusSent || s == StatusViewed
	case StatusApproved:
		return s == StatusViewed || s == StatusFeedbackReceived
	}
	return false
}

// Order is one client engagement: a client identity, an access token granting
// the client a view of the engagement, and one or more file versions.
type Order struct {
	ID             int64
	ClientName     string
	ClientPhone    string
	Token          string
	TokenExpiry    time.Time
	Status         OrderStatus
	HasNewFeedback bool
	CreatedAt      time.Time
}

// Version is one immutable, numbered file attachment belonging to an order.
// Version numbers start at 1 and are strictly increasing per order.
type Version struct {
	ID            int64
	OrderID       int64
	FileURL       string
	VersionNumber int
	UploadedAt    time.Time
}

type Feedback struct {
	ID        int64
	OrderID   int64
	Message   string
	CreatedAt time.Time
}

// DashboardOrder is the admin projection: an order joined with its latest
// version and its feedback entries. LatestFile and LatestVersion are null for
// an order with no versions.
type DashboardOrder struct {
	Order
	LatestFile    sql.NullString
	LatestVersion sql.NullInt32
	Feedbacks     []Feedback
}
