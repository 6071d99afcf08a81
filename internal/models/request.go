package models

type FeedbackRequest struct {
	Message string `json:"message" binding:"required"`
}
