package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type DashboardResponse struct {
	Orders []DashboardOrderResponse `json:"orders"`
}

type DashboardOrderResponse struct {
	ID             int64              `json:"id"`
	ClientName     string             `json:"client_name"`
	ClientPhone    string             `json:"client_phone"`
	Token          string             `json:"token"`
	TokenExpiry    time.Time          `json:"token_expiry"`
	Status         string             `json:"status"`
	HasNewFeedback bool               `json:"has_new_feedback"`
	CreatedAt      time.Time          `json:"created_at"`
	LatestFile     *string            `json:"latest_file"`
	LatestVersion  *int               `json:"latest_version"`
	Feedbacks      []FeedbackResponse `json:"feedbacks"`
}

type FeedbackResponse struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ClientOrderResponse is what a token holder sees: no token or phone echo,
// just the engagement status and the version history.
type ClientOrderResponse struct {
	ClientName string            `json:"client_name"`
	Status     string            `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	Versions   []VersionResponse `json:"versions"`
}

type VersionResponse struct {
	VersionNumber int       `json:"version_number"`
	FileURL       string    `json:"file_url"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

type AppendVersionResponse struct {
	OrderID       int64  `json:"order_id"`
	VersionNumber int    `json:"version_number"`
	FileURL       string `json:"file_url"`
}

// NewDashboardOrderResponse flattens the store projection into the wire shape.
func NewDashboardOrderResponse(o DashboardOrder) DashboardOrderResponse {
	resp := DashboardOrderResponse{
		ID:             o.ID,
		ClientName:     o.ClientName,
		ClientPhone:    o.ClientPhone,
		Token:          o.Token,
		TokenExpiry:    o.TokenExpiry,
		Status:         string(o.Status),
		HasNewFeedback: o.HasNewFeedback,
		CreatedAt:      o.CreatedAt,
		Feedbacks:      make([]FeedbackResponse, 0, len(o.Feedbacks)),
	}
	if o.LatestFile.Valid {
		resp.LatestFile = &o.LatestFile.String
	}
	if o.LatestVersion.Valid {
		n := int(o.LatestVersion.Int32)
		resp.LatestVersion = &n
	}
	for _, f := range o.Feedbacks {
		resp.Feedbacks = append(resp.Feedbacks, FeedbackResponse{
			ID:        f.ID,
			Message:   f.Message,
			CreatedAt: f.CreatedAt,
		})
	}
	return resp
}
