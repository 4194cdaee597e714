package notificationerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrRecipientMissing = apperror.New(
		apperror.CodeDataIntegrity,
		"employee record or email address is missing",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidEmail = apperror.New(
		apperror.CodeInvalidInput,
		"invalid email format",
		http.StatusBadRequest,
	)
	ErrDeliveryFailed = apperror.New(
		apperror.CodeDeliveryFailed,
		"notification delivery failed",
		http.StatusBadGateway,
	)
	ErrRenderFailed = apperror.New(
		apperror.CodeDeliveryFailed,
		"notification content could not be rendered",
		http.StatusInternalServerError,
	)
	ErrUnknownTemplate = apperror.New(
		apperror.CodeInternalError,
		"unknown notification template",
		http.StatusInternalServerError,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"invalid delivery status filter",
		http.StatusBadRequest,
	)
	ErrSweepInProgress = apperror.New(
		apperror.CodeConflict,
		"a backlog sweep is already running",
		http.StatusConflict,
	)
)
