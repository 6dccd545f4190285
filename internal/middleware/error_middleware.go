package middleware

import (
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	"github.com/egresados/seguimiento-api/internal/pkg/apperrors"
	"github.com/egresados/seguimiento-api/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// exposeErrors controls whether 500 responses carry the underlying error text
var exposeErrors atomic.Bool

// SetExposeErrors toggles internal error details in 500 responses
func SetExposeErrors(expose bool) {
	exposeErrors.Store(expose)
}

// --- Central Error Handling Middleware/Function ---

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := classifyError(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("path", c.FullPath()).
			Str("requestID", c.GetString(RequestIDKey)).
			Msg("Request failed")
	}
	respondError(c, status, detail)
}

// AbortWithError writes the error response and stops the handler chain
func AbortWithError(c *gin.Context, err error) {
	HandleAPIError(c, err)
	c.Abort()
}

func respondError(c *gin.Context, status int, detail *dto.ErrorDetail) {
	c.JSON(status, dto.APIResponse{
		Success:   false,
		Error:     detail,
		Timestamp: time.Now(),
	})
}

func classifyError(err error) (int, *dto.ErrorDetail) {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound,
			apperrors.UserMessage(err, "Resource not found"))

	case errors.Is(err, apperrors.ErrValidationFailed):
		// Validation messages are built by the services and safe to show as-is.
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest,
			apperrors.UserMessage(err, "Bad request"))
	case errors.Is(err, apperrors.ErrInvalidReference):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeResourceInvalid,
			apperrors.UserMessage(err, "Referenced resource does not exist"))

	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists,
			apperrors.UserMessage(err, "Resource already exists"))
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict,
			apperrors.UserMessage(err, "Conflict"))

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Authentication required")

	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden,
			apperrors.UserMessage(err, "Permission denied"))

	case errors.Is(err, apperrors.ErrUpstream):
		detail := dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "External service unavailable")
		if exposeErrors.Load() {
			detail = detail.WithDetails(err.Error())
		}
		return http.StatusBadGateway, detail

	default:
		detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical)
		if exposeErrors.Load() {
			detail = detail.WithDetails(err.Error())
		}
		return http.StatusInternalServerError, detail
	}
}

// BindingError writes a 400 for a request body or form that failed to bind
func BindingError(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, dto.HandleValidationError(err))
}

// PayloadTooLarge writes a 413 for request bodies over the accepted size
func PayloadTooLarge(c *gin.Context, message string) {
	respondError(c, http.StatusRequestEntityTooLarge, dto.NewErrorDetail(dto.ErrorCodePayloadTooLarge, message))
}

// BadRequest writes a 400 with a plain message, used for malformed path or query values
func BadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, message))
}
