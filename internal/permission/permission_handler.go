package permission

import (
	"net/http"

	"go-leave-portal/internal/domain"
	"go-leave-portal/internal/employee"
	"go-leave-portal/internal/shared/apperror"
	"go-leave-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("permission.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("permission.handler")
	}
	return &Handler{service: service, logger: l}
}

func actorFrom(c *gin.Context) domain.Actor {
	return domain.Actor{UserID: c.GetString("user_id"), Role: c.GetString("role")}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := response.FromError(c, err)
	h.logger.Warn("permission request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
}

func (h *Handler) writeValidationError(c *gin.Context, err error) {
	h.logger.Warn("http permission validation failed", zap.Error(err))
	response.FromError(c, apperror.MapValidationError(err))
}

func (h *Handler) ListPermissions(c *gin.Context) {
	resp, err := h.service.ListPermissions(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// Me drives the UI: which menu items to show. Server-side checks still apply.
func (h *Handler) Me(c *gin.Context) {
	actor := actorFrom(c)
	keys, err := h.service.ListGrantedKeys(c.Request.Context(), actor.UserID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, MyPermissionsResponse{
		Role:        actor.Role,
		AdminBypass: actor.Role == employee.RoleAdmin,
		GrantedKeys: keys,
	}, nil)
}

func (h *Handler) Check(c *gin.Context) {
	var req domain.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeValidationError(c, err)
		return
	}

	actor := actorFrom(c)
	var allowed bool
	if req.Mode == "all" {
		allowed = h.service.CheckAll(c.Request.Context(), actor.UserID, req.Keys...)
	} else {
		allowed = h.service.CheckAny(c.Request.Context(), actor.UserID, req.Keys...)
	}
	response.Success(c, http.StatusOK, domain.CheckResponse{Allowed: allowed}, nil)
}

func (h *Handler) Grant(c *gin.Context) {
	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeValidationError(c, err)
		return
	}

	resp, err := h.service.Grant(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Revoke(c *gin.Context) {
	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeValidationError(c, err)
		return
	}

	resp, err := h.service.Revoke(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
