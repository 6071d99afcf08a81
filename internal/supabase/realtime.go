package supabase

import (
	"fmt"

	"github.com/supabase-community/supabase-go"
)

// RealtimeClient notifies the live dashboard of order lifecycle events.
type RealtimeClient struct {
	client *supabase.Client
}

func NewRealtimeClient(client *supabase.Client) *RealtimeClient {
	return &RealtimeClient{
		client: client,
	}
}

func (r *RealtimeClient) PublishEvent(channel string, event string, payload map[string]interface{}) error {
	// Note: Supabase Go client doesn't have direct Realtime publish.
	// The row changes made by the store trigger Realtime automatically; this
	// is a placeholder for future explicit event publishing.
	return nil
}

func (r *RealtimeClient) PublishOrderEvent(orderID int64, event string, payload map[string]interface{}) error {
	channel := fmt.Sprintf("order:%d", orderID)
	return r.PublishEvent(channel, event, payload)
}

// Event payloads
func OrderCreatedPayload(orderID int64, clientName string, versionNumber int) map[string]interface{} {
	return map[string]interface{}{
		"order_id":       orderID,
		"client_name":    clientName,
		"status":         "Sent",
		"version_number": versionNumber,
	}
}

func VersionAppendedPayload(orderID int64, versionNumber int) map[string]interface{} {
	return map[string]interface{}{
		"order_id":       orderID,
		"status":         "Sent",
		"version_number": versionNumber,
	}
}

func FeedbackReceivedPayload(orderID, feedbackID int64) map[string]interface{} {
	return map[string]interface{}{
		"order_id":    orderID,
		"feedback_id": feedbackID,
	}
}

func OrderApprovedPayload(orderID int64) map[string]interface{} {
	return map[string]interface{}{
		"order_id": orderID,
		"status":   "Approved",
	}
}
