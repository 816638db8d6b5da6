package authorization

import "time"

const dateLayout = "2006-01-02"

type CreateAuthorizationRequest struct {
	AuthorizationType string `json:"authorization_type" binding:"required,max=50"`
	Title             string `json:"title" binding:"required,notblank,max=200"`
	Reason            string `json:"reason" binding:"required,notblank"`
	Priority          string `json:"priority" binding:"omitempty,oneof=low medium high"`
	ExpiryDate        string `json:"expiry_date" binding:"omitempty"`
}

type UpdateAuthorizationRequest = CreateAuthorizationRequest

type DecisionRequest struct {
	Comment string `json:"comment" binding:"max=1000"`
}

type AuthorizationResponse struct {
	ID                string  `json:"id"`
	EmployeeID        string  `json:"employee_id"`
	AuthorizationType string  `json:"authorization_type"`
	Title             string  `json:"title"`
	Reason            string  `json:"reason"`
	Priority          string  `json:"priority"`
	Status            string  `json:"status"`
	ApprovedBy        *string `json:"approved_by,omitempty"`
	ApprovalComment   *string `json:"approval_comment,omitempty"`
	DecidedAt         *string `json:"decided_at,omitempty"`
	ExpiryDate        *string `json:"expiry_date,omitempty"`
	CreatedAt         string  `json:"created_at"`
}

type StatusDetails struct {
	Status string `json:"status"`
}

func mapToResponse(a AuthorizationRequest) AuthorizationResponse {
	resp := AuthorizationResponse{
		ID:                a.ID.String(),
		EmployeeID:        a.EmployeeID.String(),
		AuthorizationType: a.AuthorizationType,
		Title:             a.Title,
		Reason:            a.Reason,
		Priority:          a.Priority,
		Status:            string(a.Status),
		ApprovalComment:   a.ApprovalComment,
		CreatedAt:         a.CreatedAt.UTC().Format(time.RFC3339),
	}
	if a.ApprovedBy != nil {
		v := a.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if a.DecidedAt != nil {
		v := a.DecidedAt.UTC().Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	if a.ExpiryDate != nil {
		v := a.ExpiryDate.Format(dateLayout)
		resp.ExpiryDate = &v
	}
	return resp
}

func mapToListResponse(items []AuthorizationRequest) []AuthorizationResponse {
	resp := make([]AuthorizationResponse, len(items))
	for i, a := range items {
		resp[i] = mapToResponse(a)
	}
	return resp
}
