package app

import (
	"go-leave-portal/internal/authorization"
	"go-leave-portal/internal/balance"
	"go-leave-portal/internal/employee"
	"go-leave-portal/internal/leave"
	"go-leave-portal/internal/messaging/kafka"
	"go-leave-portal/internal/notification"
	"go-leave-portal/internal/permission"
	"go-leave-portal/internal/rbac"

	"gorm.io/gorm"
)

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&employee.Employee{},
		&balance.LeaveBalance{},
		&authorization.AuthorizationRequest{},
		&notification.Notification{},
		&kafka.OutboxEvent{},
	); err != nil {
		return err
	}
	if err := permission.Migrate(db); err != nil {
		return err
	}
	if err := rbac.Migrate(db); err != nil {
		return err
	}
	return leave.Migrate(db)
}
