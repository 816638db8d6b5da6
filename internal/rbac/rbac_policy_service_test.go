package rbac_test

import (
	"context"
	"errors"
	"testing"

	"go-leave-portal/internal/domain"
	"go-leave-portal/internal/employee"
	"go-leave-portal/internal/rbac"
	rbacerrors "go-leave-portal/internal/rbac/errors"
	rbacMock "go-leave-portal/internal/rbac/mock"
	"go-leave-portal/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func policyRow(role string, tier domain.Tier) rbac.TierPolicyRow {
	return rbac.TierPolicyRow{ID: uuid.New(), Role: role, Tier: string(tier)}
}

func setupPolicyService(t *testing.T, rows []rbac.TierPolicyRow) (rbac.Service, *rbacMock.MockRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := rbacMock.NewMockRepository(ctrl)
	repo.EXPECT().List(gomock.Any()).Return(rows, nil)

	svc, err := rbac.NewService(context.Background(), repo)
	require.NoError(t, err)
	return svc, repo
}

func defaultRows() []rbac.TierPolicyRow {
	return []rbac.TierPolicyRow{
		policyRow(employee.RoleHOD, domain.TierHOD),
		policyRow(employee.RoleAdmin, domain.TierAdmin),
	}
}

func TestPolicyService_Load(t *testing.T) {
	t.Run("stored rows replace the defaults", func(t *testing.T) {
		svc, _ := setupPolicyService(t, []rbac.TierPolicyRow{
			policyRow(employee.RoleAdmin, domain.TierHOD),
			policyRow(employee.RoleAdmin, domain.TierAdmin),
		})

		assert.True(t, svc.CanActAs(employee.RoleAdmin, domain.TierHOD))
		assert.False(t, svc.CanActAs(employee.RoleHOD, domain.TierHOD))
	})

	t.Run("empty table falls back to defaults", func(t *testing.T) {
		svc, _ := setupPolicyService(t, nil)

		assert.True(t, svc.CanActAs(employee.RoleHOD, domain.TierHOD))
		assert.True(t, svc.CanActAs(employee.RoleAdmin, domain.TierAdmin))
		assert.False(t, svc.CanActAs(employee.RoleAdmin, domain.TierHOD))
	})

	t.Run("unknown rows are skipped", func(t *testing.T) {
		svc, _ := setupPolicyService(t, []rbac.TierPolicyRow{
			{ID: uuid.New(), Role: "contractor", Tier: "hod"},
			{ID: uuid.New(), Role: employee.RoleHOD, Tier: "finance"},
			policyRow(employee.RoleHOD, domain.TierHOD),
		})

		assert.True(t, svc.CanActAs(employee.RoleHOD, domain.TierHOD))
		assert.False(t, svc.CanActAs("contractor", domain.TierHOD))
	})

	t.Run("storage failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := rbacMock.NewMockRepository(ctrl)
		repo.EXPECT().List(gomock.Any()).Return(nil, errors.New("conn refused"))

		_, err := rbac.NewService(context.Background(), repo)
		assert.Equal(t, apperror.CodeInternalError, apperror.CodeOf(err))
	})

	t.Run("reload picks up rows written elsewhere", func(t *testing.T) {
		svc, repo := setupPolicyService(t, defaultRows())
		repo.EXPECT().List(gomock.Any()).Return(append(defaultRows(), policyRow(employee.RoleAdmin, domain.TierHOD)), nil)

		require.NoError(t, svc.Reload(context.Background()))
		assert.True(t, svc.CanActAs(employee.RoleAdmin, domain.TierHOD))
	})
}

func TestPolicyService_AddPolicy(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	admin := domain.Actor{UserID: adminID.String(), Role: employee.RoleAdmin}

	t.Run("stored and enforced", func(t *testing.T) {
		svc, repo := setupPolicyService(t, defaultRows())
		repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, row *rbac.TierPolicyRow) (bool, error) {
			assert.Equal(t, employee.RoleAdmin, row.Role)
			assert.Equal(t, "hod", row.Tier)
			require.NotNil(t, row.GrantedBy)
			assert.Equal(t, adminID, *row.GrantedBy)
			return true, nil
		})

		resp, err := svc.AddPolicy(ctx, admin, rbac.TierPolicyRequest{Role: employee.RoleAdmin, Tier: "hod"})

		require.NoError(t, err)
		assert.Equal(t, "hod", resp.Tier)
		require.NotNil(t, resp.GrantedBy)
		assert.Equal(t, adminID.String(), *resp.GrantedBy)
		assert.True(t, svc.CanActAs(employee.RoleAdmin, domain.TierHOD))
	})

	t.Run("duplicate", func(t *testing.T) {
		svc, repo := setupPolicyService(t, defaultRows())
		repo.EXPECT().Create(ctx, gomock.Any()).Return(false, nil)

		_, err := svc.AddPolicy(ctx, admin, rbac.TierPolicyRequest{Role: employee.RoleHOD, Tier: "hod"})
		assert.ErrorIs(t, err, rbacerrors.ErrPolicyExists)
	})

	t.Run("invalid input never reaches storage", func(t *testing.T) {
		svc, _ := setupPolicyService(t, defaultRows())

		_, err := svc.AddPolicy(ctx, admin, rbac.TierPolicyRequest{Role: "intern", Tier: "hod"})
		assert.ErrorIs(t, err, rbacerrors.ErrInvalidRole)

		_, err = svc.AddPolicy(ctx, admin, rbac.TierPolicyRequest{Role: employee.RoleHOD, Tier: "finance"})
		assert.ErrorIs(t, err, rbacerrors.ErrInvalidTier)
	})
}

func TestPolicyService_RemovePolicy(t *testing.T) {
	ctx := context.Background()
	admin := domain.Actor{UserID: uuid.NewString(), Role: employee.RoleAdmin}

	t.Run("removed and no longer enforced", func(t *testing.T) {
		svc, repo := setupPolicyService(t, append(defaultRows(), policyRow(employee.RoleAdmin, domain.TierHOD)))
		repo.EXPECT().DeleteUnlessLast(ctx, employee.RoleAdmin, "hod").Return(int64(1), nil)

		err := svc.RemovePolicy(ctx, admin, rbac.TierPolicyRequest{Role: employee.RoleAdmin, Tier: "hod"})

		require.NoError(t, err)
		assert.False(t, svc.CanActAs(employee.RoleAdmin, domain.TierHOD))
		assert.True(t, svc.CanActAs(employee.RoleHOD, domain.TierHOD))
	})

	t.Run("last role for a tier stays", func(t *testing.T) {
		svc, repo := setupPolicyService(t, defaultRows())
		row := policyRow(employee.RoleHOD, domain.TierHOD)
		repo.EXPECT().DeleteUnlessLast(ctx, employee.RoleHOD, "hod").Return(int64(0), nil)
		repo.EXPECT().Find(ctx, employee.RoleHOD, "hod").Return(&row, nil)

		err := svc.RemovePolicy(ctx, admin, rbac.TierPolicyRequest{Role: employee.RoleHOD, Tier: "hod"})

		assert.ErrorIs(t, err, rbacerrors.ErrLastTierPolicy)
		assert.True(t, svc.CanActAs(employee.RoleHOD, domain.TierHOD))
	})

	t.Run("missing", func(t *testing.T) {
		svc, repo := setupPolicyService(t, defaultRows())
		repo.EXPECT().DeleteUnlessLast(ctx, employee.RoleEmployee, "hod").Return(int64(0), nil)
		repo.EXPECT().Find(ctx, employee.RoleEmployee, "hod").Return(nil, gorm.ErrRecordNotFound)

		err := svc.RemovePolicy(ctx, admin, rbac.TierPolicyRequest{Role: employee.RoleEmployee, Tier: "hod"})
		assert.ErrorIs(t, err, rbacerrors.ErrPolicyNotFound)
	})
}
