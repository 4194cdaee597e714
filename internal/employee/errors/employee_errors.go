package employeeerrors

import (
	"go-payroll/internal/shared/apperror"
	"net/http"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmploymentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employment not found",
		http.StatusNotFound,
	)
	ErrEmploymentAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employment already exists for this employee",
		http.StatusConflict,
	)
	ErrInvalidEmployeeCode = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee code",
		http.StatusBadRequest,
	)
	ErrUnknownLifecycleEvent = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown employee lifecycle event",
		http.StatusBadRequest,
	)
	ErrNegativeBaseSalary = apperror.New(
		apperror.CodeInvalidInput,
		"Base salary must not be negative",
		http.StatusBadRequest,
	)
)
