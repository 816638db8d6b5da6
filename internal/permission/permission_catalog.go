package permission

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Catalog is the set of keys the portal checks. SeedCatalog inserts missing
// rows and leaves existing ones (including deactivated keys) untouched.
var Catalog = []Permission{
	{Key: KeyDashboardView, Category: "dashboard", Label: "View dashboard"},
	{Key: KeyEmployeeView, Category: "employee", Label: "View employees"},
	{Key: KeyLeaveCreate, Category: "leave", Label: "Apply for leave"},
	{Key: KeyLeaveViewAll, Category: "leave", Label: "View all leave applications"},
	{Key: KeyLeaveApprove, Category: "leave", Label: "Decide leave applications"},
	{Key: KeyBalanceView, Category: "balance", Label: "View any employee balance"},
	{Key: KeyAuthorizationCreate, Category: "authorization", Label: "Submit authorization requests"},
	{Key: KeyAuthorizationViewAll, Category: "authorization", Label: "View all authorization requests"},
	{Key: KeyAuthorizationApprove, Category: "authorization", Label: "Decide authorization requests"},
	{Key: KeyPermissionManage, Category: "permission", Label: "Grant and revoke permissions"},
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Permission{}, &UserPermission{}); err != nil {
		return err
	}
	return SeedCatalog(db)
}

func SeedCatalog(db *gorm.DB) error {
	rows := make([]Permission, len(Catalog))
	for i, p := range Catalog {
		p.IsActive = true
		rows[i] = p
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "permission_key"}},
		DoNothing: true,
	}).Create(&rows).Error
}
