package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	panelapp "github.com/sellerdesk/panel/internal/application/panel"
	"github.com/sellerdesk/panel/internal/domain/alerting"
	"github.com/sellerdesk/panel/internal/domain/panel"
	"github.com/sellerdesk/panel/internal/infrastructure/upstream"
	"github.com/sellerdesk/panel/internal/interfaces/http/dto"
	"github.com/sellerdesk/panel/internal/interfaces/http/middleware"
)

// RequestIDKey is the context key for request ID
const RequestIDKey = "X-Request-ID"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	if id := c.GetHeader(RequestIDKey); id != "" {
		return id
	}
	return ""
}

// getSellerID extracts the seller ID from JWT claims
func getSellerID(c *gin.Context) (string, error) {
	sellerID := middleware.GetJWTSellerID(c)
	if sellerID == "" {
		return "", errors.New("seller ID not found in context")
	}
	return sellerID, nil
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	statusCode := dto.GetHTTPStatus(code)
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func (h *BaseHandler) Forbidden(c *gin.Context, message string) {
	h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, message)
}

// Conflict sends a 409 conflict response
func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.Error(c, http.StatusConflict, dto.ErrCodeConflict, message)
}

// UnprocessableEntity sends a 422 unprocessable entity response
func (h *BaseHandler) UnprocessableEntity(c *gin.Context, code, message string) {
	h.Error(c, http.StatusUnprocessableEntity, code, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	requestID := getRequestID(c)
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		requestID,
		details,
	))
}

// errorCodeFor maps domain sentinel errors onto API error codes.
func errorCodeFor(err error) (string, bool) {
	switch {
	case errors.Is(err, alerting.ErrGateBusy):
		return dto.ErrCodeAlertBusy, true
	case errors.Is(err, alerting.ErrGateClosed):
		return dto.ErrCodeAlertClosed, true
	case errors.Is(err, alerting.ErrInvalidState):
		return dto.ErrCodeInvalidState, true
	case errors.Is(err, alerting.ErrReasonRequired):
		return dto.ErrCodeReasonRequired, true
	case errors.Is(err, alerting.ErrOrderIDRequired):
		return dto.ErrCodeInvalidInput, true
	case errors.Is(err, alerting.ErrOrderNotFound),
		errors.Is(err, upstream.ErrNotFound):
		return dto.ErrCodeNotFound, true
	case errors.Is(err, alerting.ErrUpstreamUnavailable):
		return dto.ErrCodeUpstreamUnavailable, true
	case errors.Is(err, alerting.ErrDecisionRejected),
		errors.Is(err, alerting.ErrUpstreamRequestFailed):
		return dto.ErrCodeUpstreamRejected, true
	case errors.Is(err, panelapp.ErrAttachmentTypeNotAllowed),
		errors.Is(err, panelapp.ErrAttachmentTooLarge):
		return dto.ErrCodeInvalidInput, true
	case errors.Is(err, panel.ErrProductNameRequired),
		errors.Is(err, panel.ErrProductPriceInvalid),
		errors.Is(err, panel.ErrProductStockNegative),
		errors.Is(err, panel.ErrVariantNameRequired),
		errors.Is(err, panel.ErrTicketCategoryRequired),
		errors.Is(err, panel.ErrTicketSubjectRequired),
		errors.Is(err, panel.ErrTicketBodyRequired),
		errors.Is(err, panel.ErrStoreNameRequired),
		errors.Is(err, panel.ErrWithdrawalAmountInvalid):
		return dto.ErrCodeInvalidInput, true
	}
	return "", false
}

// HandleError converts domain errors to HTTP responses. Sentinel errors
// carry their upstream message through verbatim; anything unrecognized
// becomes a 500 without leaking internals.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	requestID := getRequestID(c)

	if code, ok := errorCodeFor(err); ok {
		statusCode := dto.GetHTTPStatus(code)
		c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, err.Error(), requestID))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		requestID,
	))
}
