package domain

// Tier is one of the two independent approval stages of a leave application.
type Tier string

const (
	TierHOD   Tier = "hod"
	TierAdmin Tier = "admin"
)

func (t Tier) Valid() bool {
	return t == TierHOD || t == TierAdmin
}

// Decision is the action an approver takes on a pending tier.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func (d Decision) Valid() bool {
	return d == DecisionApprove || d == DecisionReject
}
