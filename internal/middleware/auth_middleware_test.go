package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leave-portal/internal/middleware"
	"go-leave-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	secret  = "middleware-secret"
	userID  = "6f1c2a4e-8d1b-4f7e-9a3c-2b5d7e9f1a20"
	otherID  = "0b7e6c55-1f3a-4c2d-8e9b-7a6d5c4b3a21"
)

func sign(t *testing.T, claims middleware.Claims, method jwt.SigningMethod, key any) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func validClaims(userID, role string) middleware.Claims {
	return middleware.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env response.ApiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Ok)
	errBody, ok := env.Error.(map[string]any)
	require.True(t, ok)
	return errBody
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(secret), middleware.ExtractUserID(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id_validated"),
			"role":    c.GetString("role"),
		})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := authRouter()

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, validClaims(userID, "hod"), jwt.SigningMethodHS256, []byte(secret)))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":"`+userID+`","role":"hod"}`, w.Body.String())
	})

	t.Run("cookie fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: sign(t, validClaims(otherID, "employee"), jwt.SigningMethodHS256, []byte(secret))})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Token not found", decodeError(t, w)["message"])
	})

	t.Run("expired token", func(t *testing.T) {
		claims := validClaims("u-1", "employee")
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, claims, jwt.SigningMethodHS256, []byte(secret)))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Token has expired", decodeError(t, w)["message"])
	})

	t.Run("wrong secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, validClaims("u-1", "admin"), jwt.SigningMethodHS256, []byte("other")))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid token", decodeError(t, w)["message"])
	})

	t.Run("user id that is not an employee id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, validClaims("u-1", "employee"), jwt.SigningMethodHS256, []byte(secret)))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token without user id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, validClaims("", "admin"), jwt.SigningMethodHS256, []byte(secret)))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestParseAccessToken_RejectsNoneAlgorithm(t *testing.T) {
	token := sign(t, validClaims("u-1", "admin"), jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType)

	_, err := middleware.ParseAccessToken(token, secret)
	assert.Error(t, err)
}
