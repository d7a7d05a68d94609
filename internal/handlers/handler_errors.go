package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/hr_admin_app/internal/apperrors"
	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	"github.com/SscSPs/hr_admin_app/internal/dto"
	"github.com/SscSPs/hr_admin_app/internal/middleware"
	"github.com/SscSPs/hr_admin_app/internal/utils/validation"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse lists the failed fields of a request.
type ValidationErrorResponse struct {
	Error  string                 `json:"error"`
	Fields []apperrors.FieldError `json:"fields"`
}

// respondError maps a service error to a status code and body. fallback is
// the message used for unexpected failures so internals never leak.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var verr *apperrors.ValidationError
	if errors.As(validation.ToValidationError(err), &verr) {
		logger.Warn("Validation failed", slog.String("error", verr.Error()))
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{Error: "Validation failed", Fields: verr.Fields})
		return
	}

	var partial *apperrors.PartialBatchFailure
	if errors.As(err, &partial) {
		logger.Error("Batch operation partially applied", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.PartialBatchResponse{
			Error:           "Operation partially applied; run a recount to verify department counts",
			Op:              partial.Op,
			CommittedChunks: partial.CommittedChunks,
			TotalChunks:     partial.TotalChunks,
			Applied:         partial.Applied,
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrDuplicateName):
		c.JSON(http.StatusConflict, gin.H{"error": "A department with this name already exists"})
	case errors.Is(err, apperrors.ErrNotEmpty):
		c.JSON(http.StatusConflict, gin.H{"error": "Department still has members; move them first"})
	case errors.Is(err, apperrors.ErrUnresolvedReference):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Department reference could not be resolved"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": messageOr(err, "Resource not found")})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": messageOr(err, "Resource already exists")})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": messageOr(err, "Validation failed")})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// messageOr returns the client-safe message of an AppError, or fallback.
func messageOr(err error, fallback string) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

// requireActor returns the authenticated operator, replying 401 when absent.
func requireActor(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return domain.Actor{}, false
	}
	return actor, true
}
