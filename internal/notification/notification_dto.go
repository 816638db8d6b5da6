package notification

import (
	"encoding/json"
	"time"
)

type NotificationResponse struct {
	ID        string          `json:"id"`
	EventType string          `json:"event_type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Read      bool            `json:"read"`
	ReadAt    *string         `json:"read_at,omitempty"`
	CreatedAt string          `json:"created_at"`
}

// PushMessage is the websocket frame sent to a connected employee.
type PushMessage struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		EventType: n.EventType,
		Title:     n.Title,
		Message:   n.Message,
		Payload:   json.RawMessage(n.Payload),
		Read:      n.ReadAt != nil,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		v := n.ReadAt.UTC().Format(time.RFC3339)
		resp.ReadAt = &v
	}
	return resp
}
