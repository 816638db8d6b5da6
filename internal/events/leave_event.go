package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const (
	LeaveCreated       = "leave.created"
	LeaveUpdated       = "leave.updated"
	LeaveDeleted       = "leave.deleted"
	LeaveHODApproved   = "leave.hod_approved"
	LeaveHODRejected   = "leave.hod_rejected"
	LeaveAdminApproved = "leave.admin_approved"
	LeaveAdminRejected = "leave.admin_rejected"
)

// LeaveEvent is the outbound notice for a leave change. Consumers must not
// assume every event is delivered.
type LeaveEvent struct {
	EventType   string    `json:"event_type"`
	LeaveID     string    `json:"leave_id"`
	EmployeeID  string    `json:"employee_id"`
	LeaveType   string    `json:"leave_type"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	HODStatus   string    `json:"hod_status"`
	AdminStatus string    `json:"admin_status"`
	ActorID     string    `json:"actor_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}
