package notification

import (
	"fmt"

	"go-leave-portal/internal/events"
)

func leaveMessage(ev events.LeaveEvent) (title, message string) {
	span := fmt.Sprintf("%s leave %s to %s", ev.LeaveType, ev.StartDate, ev.EndDate)
	switch ev.EventType {
	case events.LeaveCreated:
		return "Leave submitted", span + " is waiting for HOD review"
	case events.LeaveUpdated:
		return "Leave updated", span + " was changed"
	case events.LeaveDeleted:
		return "Leave withdrawn", span + " was withdrawn"
	case events.LeaveHODApproved:
		return "Approved by HOD", span + " is now waiting for admin review"
	case events.LeaveHODRejected:
		return "Rejected by HOD", span + " was rejected"
	case events.LeaveAdminApproved:
		return "Leave approved", span + " is fully approved"
	case events.LeaveAdminRejected:
		return "Rejected by admin", span + " was rejected"
	default:
		return "Leave update", span
	}
}

func authorizationMessage(ev events.AuthorizationEvent) (title, message string) {
	switch ev.EventType {
	case events.AuthorizationCreated:
		return "Request submitted", fmt.Sprintf("%q is waiting for review", ev.Title)
	case events.AuthorizationApproved:
		return "Request approved", fmt.Sprintf("%q was approved", ev.Title)
	case events.AuthorizationRejected:
		return "Request rejected", fmt.Sprintf("%q was rejected", ev.Title)
	default:
		return "Request update", ev.Title
	}
}
