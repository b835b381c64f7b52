package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aaryasekhar/rchxtype/internal/domain"
	"github.com/aaryasekhar/rchxtype/internal/service"
)

// statusForError traduce los errores del dominio a codigos HTTP.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrJWTInvalid), errors.Is(err, service.ErrJWTExpired):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConcurrentSynthesis):
		return http.StatusConflict
	case errors.Is(err, context.Canceled):
		return 499
	case errors.Is(err, domain.ErrInferenceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrMalformedInference):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError responde con el codigo que corresponde a err. Los 5xx se loguean como error
// y su detalle no se expone al cliente.
func writeError(c *gin.Context, logger *zap.Logger, op string, err error) {
	status := statusForError(err)
	body := gin.H{"error": http.StatusText(status)}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		body["error"] = "invalid request"
		body["field"] = verr.Field
		body["reason"] = verr.Reason
	case errors.Is(err, service.ErrJWTExpired):
		body["error"] = "token expired"
	case status == http.StatusUnauthorized:
		body["error"] = "unauthorized"
	case status == http.StatusNotFound:
		body["error"] = "not found"
	case status == http.StatusConflict:
		body["error"] = "synthesis already in progress, retry later"
	case status == http.StatusServiceUnavailable:
		body["error"] = "reasoning engine unavailable, retry later"
	case status == http.StatusBadGateway:
		body["error"] = "reasoning engine returned an invalid profile"
	case status == 499:
		body["error"] = "request canceled"
	}

	if status >= http.StatusInternalServerError {
		logger.Error(op+" failed", zap.Int("status", status), zap.Error(err))
	} else {
		logger.Warn(op+" rejected", zap.Int("status", status), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, body)
}
