package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"order-portal-backend/internal/models"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from    models.OrderStatus
		to      models.OrderStatus
		allowed bool
	}{
		{models.StatusSent, models.StatusViewed, true},
		{models.StatusSent, models.StatusFeedbackReceived, true},
		{models.StatusSent, models.StatusApproved, false},
		{models.StatusSent, models.StatusSent, true},
		{models.StatusViewed, models.StatusFeedbackReceived, true},
		{models.StatusViewed, models.StatusApproved, true},
		{models.StatusViewed, models.StatusSent, true},
		{models.StatusViewed, models.StatusViewed, false},
		{models.StatusFeedbackReceived, models.StatusApproved, true},
		{models.StatusFeedbackReceived, models.StatusSent, true},
		{models.StatusFeedbackReceived, models.StatusViewed, false},
		{models.StatusApproved, models.StatusSent, false},
		{models.StatusApproved, models.StatusViewed, false},
		{models.StatusApproved, models.StatusFeedbackReceived, false},
		{models.StatusApproved, models.StatusApproved, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}
