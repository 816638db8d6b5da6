package leave

import (
	"time"
)

const dateLayout = "2006-01-02"

type CreateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,max=30"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"required,notblank"`
}

type UpdateLeaveRequest = CreateLeaveRequest

type DecisionRequest struct {
	Action  string `json:"action" binding:"required,oneof=approve reject"`
	Comment string `json:"comment" binding:"max=1000"`
}

type BulkDecisionRequest struct {
	Tier    string   `json:"tier" binding:"required,oneof=hod admin"`
	Action  string   `json:"action" binding:"required,oneof=approve reject"`
	IDs     []string `json:"ids" binding:"required,min=1,max=100,dive,uuid"`
	Comment string   `json:"comment" binding:"max=1000"`
}

type BulkFailure struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

type BulkDecisionResult struct {
	Succeeded []string      `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

type IssueTokenRequest struct {
	Tier       string `json:"tier" binding:"required,oneof=hod admin"`
	Action     string `json:"action" binding:"required,oneof=approve reject"`
	ApproverID string `json:"approver_id" binding:"required,uuid"`
}

type ApprovalTokenResponse struct {
	LeaveID   string `json:"leave_id"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type ConsumeTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type LeaveResponse struct {
	ID              string   `json:"id"`
	EmployeeID      string   `json:"employee_id"`
	LeaveType       string   `json:"leave_type"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
	NumberOfDays    int      `json:"number_of_days"`
	Reason          string   `json:"reason"`
	HODStatus       string   `json:"hod_status"`
	AdminStatus     string   `json:"admin_status"`
	FullyApproved   bool     `json:"fully_approved"`
	ApprovedTiers   []string `json:"approved_tiers"`
	ApprovedByHOD   *string  `json:"approved_by_hod,omitempty"`
	HODDecidedAt    *string  `json:"hod_decided_at,omitempty"`
	HODComment      *string  `json:"hod_comment,omitempty"`
	ApprovedByAdmin *string  `json:"approved_by_admin,omitempty"`
	AdminDecidedAt  *string  `json:"admin_decided_at,omitempty"`
	AdminComment    *string  `json:"admin_comment,omitempty"`
	CreatedAt       string   `json:"created_at"`
}

// OverlapDetails describes the colliding leave for the caller.
type OverlapDetails struct {
	LeaveID       string   `json:"leave_id"`
	LeaveType     string   `json:"leave_type"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	HODStatus     string   `json:"hod_status"`
	AdminStatus   string   `json:"admin_status"`
	ApprovedTiers []string `json:"approved_tiers"`
}

type StatusDetails struct {
	Tier   string `json:"tier"`
	Status string `json:"status"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}

func mapToResponse(l LeaveApplication) LeaveResponse {
	a := l.Approval()
	resp := LeaveResponse{
		ID:             l.ID.String(),
		EmployeeID:     l.EmployeeID.String(),
		LeaveType:      l.LeaveType,
		StartDate:      l.StartDate.Format(dateLayout),
		EndDate:        l.EndDate.Format(dateLayout),
		NumberOfDays:   l.NumberOfDays,
		Reason:         l.Reason,
		HODStatus:      string(l.HODStatus),
		AdminStatus:    string(l.AdminStatus),
		FullyApproved:  a.IsFullyApproved(),
		ApprovedTiers:  a.ApprovedTiers(),
		HODDecidedAt:   formatTime(l.HODDecidedAt),
		HODComment:     l.HODComment,
		AdminDecidedAt: formatTime(l.AdminDecidedAt),
		AdminComment:   l.AdminComment,
		CreatedAt:      l.CreatedAt.UTC().Format(time.RFC3339),
	}
	if l.ApprovedByHOD != nil {
		v := l.ApprovedByHOD.String()
		resp.ApprovedByHOD = &v
	}
	if l.ApprovedByAdmin != nil {
		v := l.ApprovedByAdmin.String()
		resp.ApprovedByAdmin = &v
	}
	return resp
}

func mapToListResponse(leaves []LeaveApplication) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}

func mapToOverlapDetails(l LeaveApplication) OverlapDetails {
	a := l.Approval()
	return OverlapDetails{
		LeaveID:       l.ID.String(),
		LeaveType:     l.LeaveType,
		StartDate:     l.StartDate.Format(dateLayout),
		EndDate:       l.EndDate.Format(dateLayout),
		HODStatus:     string(l.HODStatus),
		AdminStatus:   string(l.AdminStatus),
		ApprovedTiers: a.ApprovedTiers(),
	}
}
