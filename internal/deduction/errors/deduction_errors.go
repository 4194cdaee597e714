package deductionerrors

import (
	"go-payroll/internal/shared/apperror"
	"net/http"
)

var (
	ErrDeductionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Deduction not found",
		http.StatusNotFound,
	)
	ErrDeductionNameTaken = apperror.New(
		apperror.CodeConflict,
		"A deduction with the same name already exists",
		http.StatusConflict,
	)
	ErrDeductionCodeTaken = apperror.New(
		apperror.CodeConflict,
		"A deduction with the same code already exists",
		http.StatusConflict,
	)
	ErrInvalidRate = apperror.New(
		apperror.CodeInvalidInput,
		"Rate must be between 0 and 1",
		http.StatusBadRequest,
	)
	ErrInvalidName = apperror.New(
		apperror.CodeInvalidInput,
		"Deduction name is required",
		http.StatusBadRequest,
	)
)
