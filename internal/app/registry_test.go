package app

import (
	"testing"

	"go-leave-portal/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMountGroups_ContextLoggerMountedOnce(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	api, protected := mountGroups(router, config.Config{JWTSecret: "secret"}, zap.NewNop())

	assert.Empty(t, api.Handlers, "public group carries no middleware of its own")
	// auth, extract user, context logger, rate limit
	assert.Len(t, protected.Handlers, 4)
	assert.Equal(t, "/api/v1", protected.BasePath())
}
