package balance

import (
	"net/http"
	"strconv"
	"time"

	balanceerrors "go-leave-portal/internal/balance/errors"
	"go-leave-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	now     func() time.Time
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("balance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.handler")
	}
	return &Handler{service: service, now: time.Now, logger: l}
}

func (h *Handler) year(c *gin.Context) (int, bool) {
	raw := c.Query("year")
	if raw == "" {
		return h.now().Year(), true
	}
	y, err := strconv.Atoi(raw)
	if err != nil {
		response.FromError(c, balanceerrors.ErrInvalidYear)
		return 0, false
	}
	return y, true
}

func (h *Handler) list(c *gin.Context, employeeID string) {
	year, ok := h.year(c)
	if !ok {
		return
	}

	resp, err := h.service.ListForEmployee(c.Request.Context(), employeeID, year)
	if err != nil {
		httpErr := response.FromError(c, err)
		h.logger.Warn("balance request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Mine(c *gin.Context) {
	h.list(c, c.GetString("user_id"))
}

func (h *Handler) ForEmployee(c *gin.Context) {
	h.list(c, c.Param("employee_id"))
}

// MineByType returns the caller's balance for one leave type.
func (h *Handler) MineByType(c *gin.Context) {
	year, ok := h.year(c)
	if !ok {
		return
	}

	resp, err := h.service.GetBalance(c.Request.Context(), c.GetString("user_id"), c.Param("leave_type"), year)
	if err != nil {
		httpErr := response.FromError(c, err)
		h.logger.Warn("balance request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
