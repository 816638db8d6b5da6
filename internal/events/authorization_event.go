package events

import "time"

const AuthorizationLifecycleTopic = "hr.authorization.lifecycle.v1"

const (
	AuthorizationCreated  = "authorization.created"
	AuthorizationApproved = "authorization.approved"
	AuthorizationRejected = "authorization.rejected"
)

type AuthorizationEvent struct {
	EventType       string    `json:"event_type"`
	AuthorizationID string    `json:"authorization_id"`
	EmployeeID      string    `json:"employee_id"`
	Title           string    `json:"title"`
	Status          string    `json:"status"`
	ActorID         string    `json:"actor_id"`
	OccurredAt      time.Time `json:"occurred_at"`
}
