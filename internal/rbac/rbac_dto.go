package rbac

import "time"

type TierPolicyRequest struct {
	Role string `json:"role" binding:"required"`
	Tier string `json:"tier" binding:"required"`
}

type TierPolicyResponse struct {
	ID        string  `json:"id"`
	Role      string  `json:"role"`
	Tier      string  `json:"tier"`
	GrantedBy *string `json:"granted_by,omitempty"`
	CreatedAt string  `json:"created_at"`
}

func mapToResponse(row TierPolicyRow) TierPolicyResponse {
	resp := TierPolicyResponse{
		ID:        row.ID.String(),
		Role:      row.Role,
		Tier:      row.Tier,
		CreatedAt: row.CreatedAt.UTC().Format(time.RFC3339),
	}
	if row.GrantedBy != nil {
		v := row.GrantedBy.String()
		resp.GrantedBy = &v
	}
	return resp
}
