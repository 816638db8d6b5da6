package rbac

import (
	"testing"

	"go-leave-portal/internal/domain"
	"go-leave-portal/internal/employee"
	"go-leave-portal/internal/rbac/infra"
	"go-leave-portal/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
)

func newTestPolicy(t *testing.T, policies [][]string) TierPolicy {
	t.Helper()
	e, err := infra.NewEnforcer(policies)
	assert.NoError(t, err)
	return newTierPolicy(e)
}

func TestTierPolicy_CanActAs(t *testing.T) {
	policy := newTestPolicy(t, DefaultTierPolicies)

	tests := []struct {
		name string
		role string
		tier domain.Tier
		want bool
	}{
		{"hod decides hod tier", employee.RoleHOD, domain.TierHOD, true},
		{"hod cannot decide admin tier", employee.RoleHOD, domain.TierAdmin, false},
		{"admin decides admin tier", employee.RoleAdmin, domain.TierAdmin, true},
		{"admin cannot decide hod tier", employee.RoleAdmin, domain.TierHOD, false},
		{"employee decides nothing", employee.RoleEmployee, domain.TierHOD, false},
		{"unknown tier", employee.RoleAdmin, domain.Tier("finance"), false},
		{"empty role", "", domain.TierHOD, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.CanActAs(tt.role, tt.tier))
		})
	}
}

func TestTierPolicy_Require(t *testing.T) {
	policy := newTestPolicy(t, DefaultTierPolicies)

	assert.NoError(t, policy.Require(employee.RoleHOD, domain.TierHOD))

	err := policy.Require(employee.RoleEmployee, domain.TierAdmin)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	appErr, ok := err.(*apperror.AppError)
	assert.True(t, ok)
	assert.Equal(t, apperror.PermissionDetails{RequiredPermission: "leave:decide_admin"}, appErr.Details)
}

func TestTierPolicy_CustomPolicies(t *testing.T) {
	// A deployment where admins may also stand in for HOD.
	policy := newTestPolicy(t, append([][]string{
		{employee.RoleAdmin, objectLeave, DecideAction(domain.TierHOD)},
	}, DefaultTierPolicies...))

	assert.True(t, policy.CanActAs(employee.RoleAdmin, domain.TierHOD))
}
