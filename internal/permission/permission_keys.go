package permission

import "go-leave-portal/internal/employee"

const (
	KeyDashboardView = "dashboard.view"
	KeyEmployeeView  = employee.ViewPermissionKey

	KeyLeaveCreate  = "leave.create"
	KeyLeaveViewAll = "leave.view_all"
	KeyLeaveApprove = "leave.approve"

	KeyBalanceView = "balance.view"

	KeyAuthorizationCreate  = "authorization.create"
	KeyAuthorizationViewAll = "authorization.view_all"
	KeyAuthorizationApprove = "authorization.approve"

	KeyPermissionManage = "permission.manage"
)
