package payrollerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid pay period: month must be 1-12 and year between 2000 and five years from now",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeCode = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee code",
		http.StatusBadRequest,
	)
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"payslip not found",
		http.StatusNotFound,
	)
	ErrPayslipNotPending = apperror.New(
		apperror.CodeInvalidState,
		"payslip is no longer pending",
		http.StatusConflict,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payslip status filter",
		http.StatusBadRequest,
	)
)
