package payroll

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DocumentRenderer interface {
	RenderDocument(ctx context.Context, employeeCode string, month, year int) ([]byte, error)
}

type Handler struct {
	service   Service
	documents DocumentRenderer
	logger    *zap.Logger
}

func NewHandler(service Service, documents DocumentRenderer, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("payroll.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.handler")
	}
	return &Handler{service: service, documents: documents, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("payroll request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Generate(c *gin.Context) {
	var req PeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	payslips, err := h.service.GeneratePayroll(c.Request.Context(), req.Month, req.Year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, mapToListResponse(payslips), nil)
}

func (h *Handler) Approve(c *gin.Context) {
	var req PeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	payslips, err := h.service.ApprovePayroll(c.Request.Context(), req.Month, req.Year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, mapToListResponse(payslips), nil)
}

func (h *Handler) List(c *gin.Context) {
	var query ListPayslipsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	payslips, err := h.service.ListPayslips(c.Request.Context(), query.Month, query.Year, query.Status)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	items, meta := response.Paginate(mapToListResponse(payslips), page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) Get(c *gin.Context) {
	code, month, year, ok := h.periodParams(c)
	if !ok {
		return
	}

	payslip, err := h.service.GetPayslip(c.Request.Context(), code, month, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, mapToResponse(payslip), nil)
}

func (h *Handler) Document(c *gin.Context) {
	code, month, year, ok := h.periodParams(c)
	if !ok {
		return
	}

	doc, err := h.documents.RenderDocument(c.Request.Context(), code, month, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("payslip_%s_%d_%d.pdf", code, month, year)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

func (h *Handler) periodParams(c *gin.Context) (string, int, int, bool) {
	month, errMonth := strconv.Atoi(c.Param("month"))
	year, errYear := strconv.Atoi(c.Param("year"))
	if errMonth != nil || errYear != nil {
		h.writeServiceError(c, payrollerrors.ErrInvalidPeriod)
		return "", 0, 0, false
	}
	return c.Param("code"), month, year, true
}
