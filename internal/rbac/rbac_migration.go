package rbac

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&TierPolicyRow{}); err != nil {
		return err
	}
	return SeedDefaults(db)
}

// SeedDefaults writes DefaultAssignments into an empty table only, so policies
// removed by an admin do not come back on restart.
func SeedDefaults(db *gorm.DB) error {
	var count int64
	if err := db.Model(&TierPolicyRow{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rows := make([]TierPolicyRow, len(DefaultAssignments))
	for i, a := range DefaultAssignments {
		rows[i] = TierPolicyRow{ID: uuid.New(), Role: a.Role, Tier: string(a.Tier)}
	}
	return db.Create(&rows).Error
}
