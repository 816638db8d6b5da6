package permission

type GrantRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Key    string `json:"permission_key" binding:"required"`
}

type GrantResponse struct {
	UserID    string  `json:"user_id"`
	Key       string  `json:"permission_key"`
	Granted   bool    `json:"granted"`
	GrantedBy *string `json:"granted_by,omitempty"`
	GrantedAt *string `json:"granted_at,omitempty"`
	RevokedAt *string `json:"revoked_at,omitempty"`
}

type PermissionResponse struct {
	ID       string `json:"id"`
	Key      string `json:"permission_key"`
	Category string `json:"category"`
	Label    string `json:"label"`
	IsActive bool   `json:"is_active"`
	Bypass   string `json:"bypass_policy"`
}

type MyPermissionsResponse struct {
	Role        string   `json:"role"`
	AdminBypass bool     `json:"admin_bypass"`
	GrantedKeys []string `json:"granted_keys"`
}
