package handler

import (
	"errors"
	"net/http"

	"github.com/Hillarymukuka/ancestrabusiness/internal/application/pos"
	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/shared"
	"github.com/Hillarymukuka/ancestrabusiness/internal/infrastructure/logger"
	"github.com/Hillarymukuka/ancestrabusiness/internal/interfaces/http/dto"
	"github.com/Hillarymukuka/ancestrabusiness/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithTotal sends a success response for a list
func (h *BaseHandler) SuccessWithTotal(c *gin.Context, data any, total int64) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithTotal(data, total))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
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

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// BindError answers a failed bind with the validation envelope
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// HandleError converts an error to an HTTP response. Domain errors, including
// stock guard rejections, keep their code; anything else is a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		if status >= http.StatusInternalServerError {
			logger.GetGinLogger(c).Warn("Business API call failed",
				zap.String("code", domainErr.Code),
				zap.String("message", domainErr.Message))
		}
		h.Error(c, status, domainErr.Code, domainErr.Message)
		return
	}

	logger.GetGinLogger(c).Error("Unhandled error", zap.Error(err))
	h.InternalError(c, "An unexpected error occurred")
}

// terminal resolves the caller's terminal; the session middleware guarantees one
// on every /pos route.
func (h *BaseHandler) terminal(c *gin.Context) (*pos.Terminal, bool) {
	t, ok := middleware.GetTerminal(c)
	if !ok {
		h.Unauthorized(c, "No active session")
		return nil, false
	}
	return t, true
}
