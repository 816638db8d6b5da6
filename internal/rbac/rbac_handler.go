package rbac

import (
	"net/http"

	"go-leave-portal/internal/domain"
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
	l := zap.L().Named("rbac.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := response.FromError(c, err)
	h.logger.Warn("tier policy request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
}

func (h *Handler) bind(c *gin.Context) (TierPolicyRequest, bool) {
	var req TierPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http tier policy validation failed", zap.Error(err))
		response.FromError(c, apperror.MapValidationError(err))
		return req, false
	}
	return req, true
}

func actorFrom(c *gin.Context) domain.Actor {
	return domain.Actor{UserID: c.GetString("user_id"), Role: c.GetString("role")}
}

func (h *Handler) List(c *gin.Context) {
	resp, err := h.service.ListPolicies(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Add(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	resp, err := h.service.AddPolicy(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Remove(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	if err := h.service.RemovePolicy(c.Request.Context(), actorFrom(c), req); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, req, nil)
}
