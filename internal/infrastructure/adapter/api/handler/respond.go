package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
	coreport "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/core"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/api/dto"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/metrics"
)

// httpStatus maps domain errors to HTTP status codes
func httpStatus(err error) int {
	switch {
	case errors.Is(err, errs.ErrInvalidRequest),
		errors.Is(err, errs.ErrInvalidAmount),
		errors.Is(err, errs.ErrInvalidUserID),
		errors.Is(err, errs.ErrSelfTransfer):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInsufficientFunds),
		errors.Is(err, errs.ErrBalanceOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrStorageConflict),
		errors.Is(err, errs.ErrStorageFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// failureReason labels rejected operations for the failure counter
func failureReason(err error) string {
	switch {
	case errors.Is(err, errs.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, errs.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, errs.ErrBalanceOutOfRange):
		return "balance_out_of_range"
	case errors.Is(err, errs.ErrSelfTransfer):
		return "self_transfer"
	case errors.Is(err, errs.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, errs.ErrInvalidUserID):
		return "invalid_user_id"
	case errors.Is(err, errs.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, errs.ErrStorageConflict), errors.Is(err, errs.ErrStorageFailure):
		return "storage"
	default:
		return "internal"
	}
}

// respondError writes the standardized error body and records the failure
func respondError(c *gin.Context, logger coreport.Logger, err error) {
	status := httpStatus(err)

	fields := map[string]any{
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
		"error":  err.Error(),
		"code":   errs.ErrorCode(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", fields)
	} else {
		logger.Warn("Request rejected", fields)
	}
	metrics.TransactionsFailed.WithLabelValues(failureReason(err)).Inc()

	c.JSON(status, dto.ErrorResponse{
		Code:    errs.ErrorCode(err),
		Message: err.Error(),
	})
}
