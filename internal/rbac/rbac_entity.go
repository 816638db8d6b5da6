package rbac

import (
	"time"

	"github.com/google/uuid"
)

// TierPolicyRow lets Role decide approval Tier. The table is the source of
// the enforcer's rules.
type TierPolicyRow struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Role      string     `gorm:"type:varchar(20);not null;uniqueIndex:uq_tier_policies_role_tier"`
	Tier      string     `gorm:"type:varchar(10);not null;uniqueIndex:uq_tier_policies_role_tier;index"`
	GrantedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
}

func (TierPolicyRow) TableName() string { return "tier_policies" }
