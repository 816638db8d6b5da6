package employee

type EmployeeResponse struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	DepartmentID string `json:"department_id,omitempty"`
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:       e.ID.String(),
		FullName: e.FullName,
		Email:    e.Email,
		Role:     e.Role,
	}
	if e.DepartmentID != nil {
		resp.DepartmentID = e.DepartmentID.String()
	}
	return resp
}

func mapToListResponse(items []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(items))
	for i, e := range items {
		resp[i] = mapToResponse(e)
	}
	return resp
}
