package rbac_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave-portal/internal/domain"
	"go-leave-portal/internal/employee"
	"go-leave-portal/internal/permission"
	"go-leave-portal/internal/rbac"
	rbacerrors "go-leave-portal/internal/rbac/errors"
	"go-leave-portal/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService only implements what the handler tests touch.
type fakeService struct {
	rbac.Service
	added   []rbac.TierPolicyRequest
	removed []rbac.TierPolicyRequest
	listFn  func() ([]rbac.TierPolicyResponse, error)
	addErr  error
}

func (f *fakeService) ListPolicies(context.Context) ([]rbac.TierPolicyResponse, error) {
	return f.listFn()
}

func (f *fakeService) AddPolicy(_ context.Context, actor domain.Actor, req rbac.TierPolicyRequest) (rbac.TierPolicyResponse, error) {
	if f.addErr != nil {
		return rbac.TierPolicyResponse{}, f.addErr
	}
	f.added = append(f.added, req)
	return rbac.TierPolicyResponse{ID: uuid.NewString(), Role: req.Role, Tier: req.Tier, GrantedBy: &actor.UserID}, nil
}

func (f *fakeService) RemovePolicy(_ context.Context, _ domain.Actor, req rbac.TierPolicyRequest) error {
	f.removed = append(f.removed, req)
	return nil
}

type stubChecker struct {
	granted map[string]bool
}

func (s stubChecker) Check(_ context.Context, userID, key string) bool {
	return s.granted[userID+":"+key]
}

func (s stubChecker) CheckAdminOrPermission(ctx context.Context, userID, role, key string) bool {
	return role == employee.RoleAdmin || s.Check(ctx, userID, key)
}

func newRBACRouter(svc rbac.Service, checker stubChecker, userID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	})
	rbac.RegisterRoutes(api, rbac.NewHandler(svc), checker)
	return r
}

func send(r *gin.Engine, method, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, "/api/v1/rbac/tier-policies", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRBACRoutes_Gate(t *testing.T) {
	list := func() ([]rbac.TierPolicyResponse, error) {
		return []rbac.TierPolicyResponse{{Role: employee.RoleHOD, Tier: "hod"}}, nil
	}
	managerID := uuid.NewString()
	checker := stubChecker{granted: map[string]bool{managerID + ":" + permission.KeyPermissionManage: true}}

	t.Run("admin without a grant", func(t *testing.T) {
		r := newRBACRouter(&fakeService{listFn: list}, checker, uuid.NewString(), employee.RoleAdmin)
		assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "").Code)
	})

	t.Run("employee holding permission.manage", func(t *testing.T) {
		r := newRBACRouter(&fakeService{listFn: list}, checker, managerID, employee.RoleEmployee)
		assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "").Code)
	})

	t.Run("hod without the grant", func(t *testing.T) {
		svc := &fakeService{listFn: list}
		r := newRBACRouter(svc, checker, uuid.NewString(), employee.RoleHOD)

		w := send(r, http.MethodPost, `{"role":"hod","tier":"admin"}`)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, svc.added)
	})
}

func TestRBACHandler_AddRemove(t *testing.T) {
	adminID := uuid.NewString()

	t.Run("add", func(t *testing.T) {
		svc := &fakeService{}
		r := newRBACRouter(svc, stubChecker{}, adminID, employee.RoleAdmin)

		w := send(r, http.MethodPost, `{"role":"admin","tier":"hod"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		var env struct {
			Data rbac.TierPolicyResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		require.NotNil(t, env.Data.GrantedBy)
		assert.Equal(t, adminID, *env.Data.GrantedBy)
		assert.Equal(t, []rbac.TierPolicyRequest{{Role: "admin", Tier: "hod"}}, svc.added)
	})

	t.Run("missing tier", func(t *testing.T) {
		svc := &fakeService{}
		r := newRBACRouter(svc, stubChecker{}, adminID, employee.RoleAdmin)

		w := send(r, http.MethodPost, `{"role":"admin"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, svc.added)
	})

	t.Run("conflict", func(t *testing.T) {
		svc := &fakeService{addErr: rbacerrors.ErrPolicyExists}
		r := newRBACRouter(svc, stubChecker{}, adminID, employee.RoleAdmin)

		w := send(r, http.MethodPost, `{"role":"hod","tier":"hod"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("remove", func(t *testing.T) {
		svc := &fakeService{}
		r := newRBACRouter(svc, stubChecker{}, adminID, employee.RoleAdmin)

		w := send(r, http.MethodDelete, `{"role":"admin","tier":"hod"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []rbac.TierPolicyRequest{{Role: "admin", Tier: "hod"}}, svc.removed)
	})
}
