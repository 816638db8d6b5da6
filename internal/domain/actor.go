package domain

// Actor is the authenticated principal behind an action. Handlers build it from
// the JWT claims; the core never parses HTTP itself.
type Actor struct {
	UserID string
	Role   string
}

type CheckRequest struct {
	Keys []string `json:"keys" binding:"required,min=1,dive,required"`
	Mode string   `json:"mode" binding:"omitempty,oneof=any all"`
}

type CheckResponse struct {
	Allowed bool `json:"allowed"`
}
