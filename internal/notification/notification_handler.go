package notification

import (
	"context"
	"net/http"
	"strconv"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PeriodDispatcher interface {
	DispatchPeriod(ctx context.Context, month, year int) (Summary, error)
	ListForPeriod(ctx context.Context, month, year int, status string) ([]Notification, error)
}

type SweepRunner interface {
	RunOnce(ctx context.Context) (Summary, error)
}

type Handler struct {
	dispatcher PeriodDispatcher
	sweeps     SweepRunner
	logger     *zap.Logger
}

func NewHandler(dispatcher PeriodDispatcher, sweeps SweepRunner, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("notification.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.handler")
	}
	return &Handler{dispatcher: dispatcher, sweeps: sweeps, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("notification request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Dispatch(c *gin.Context) {
	var req DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	summary, err := h.dispatcher.DispatchPeriod(c.Request.Context(), req.Month, req.Year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary, nil)
}

func (h *Handler) Sweep(c *gin.Context) {
	summary, err := h.sweeps.RunOnce(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary, nil)
}

func (h *Handler) List(c *gin.Context) {
	var query ListNotificationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	list, err := h.dispatcher.ListForPeriod(c.Request.Context(), query.Month, query.Year, query.Status)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	items, meta := response.Paginate(mapToListResponse(list), page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}
