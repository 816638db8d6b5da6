package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leave-portal/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubChecker struct {
	granted map[string]bool
}

func (s stubChecker) Check(_ context.Context, userID, key string) bool {
	return s.granted[userID+":"+key]
}

func (s stubChecker) CheckAdminOrPermission(ctx context.Context, userID, role, key string) bool {
	return role == "admin" || s.Check(ctx, userID, key)
}

func permissionRouter(userID, role string, gate gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/gated", func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		c.Set("role", role)
		c.Next()
	}, gate, func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func serve(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gated", nil))
	return w
}

func TestRequirePermission(t *testing.T) {
	checker := stubChecker{granted: map[string]bool{"u-1:balance.view": true}}

	w := serve(permissionRouter("u-1", "employee", middleware.RequirePermission(checker, "balance.view")))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(permissionRouter("u-2", "employee", middleware.RequirePermission(checker, "balance.view")))
	assert.Equal(t, http.StatusForbidden, w.Code)
	details, ok := decodeError(t, w)["details"].(map[string]any)
	if assert.True(t, ok) {
		assert.Equal(t, "balance.view", details["required_permission"])
	}

	w = serve(permissionRouter("", "", middleware.RequirePermission(checker, "balance.view")))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminOrPermission(t *testing.T) {
	checker := stubChecker{granted: map[string]bool{}}

	w := serve(permissionRouter("u-1", "admin", middleware.RequireAdminOrPermission(checker, "permission.manage")))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(permissionRouter("u-1", "hod", middleware.RequireAdminOrPermission(checker, "permission.manage")))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
