package http

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aaryasekhar/rchxtype/internal/service"
)

var (
	errMissingToken     = fmt.Errorf("missing bearer token: %w", service.ErrJWTInvalid)
	errJWTNotConfigured = errors.New("jwt verifier not configured")
)

type userIDKey struct{}

// withUserID guarda el usuario autenticado en el contexto del request.
func withUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext devuelve el usuario autenticado (claim uid).
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok && id != ""
}

// JWTAuthMiddleware valida el access token y deja el uid en el contexto del request,
// de modo que los servicios lo reciben con el mismo ctx.
func JWTAuthMiddleware(jwtSvc *service.JWTService, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if jwtSvc == nil {
			writeError(c, logger, "auth", errJWTNotConfigured)
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if len(header) < len("bearer ") || !strings.EqualFold(header[:len("bearer ")], "bearer ") {
			writeError(c, logger, "auth", errMissingToken)
			return
		}

		claims, err := jwtSvc.ParseAccessToken(strings.TrimSpace(header[len("bearer "):]))
		if err != nil {
			writeError(c, logger, "auth", err)
			return
		}

		c.Request = c.Request.WithContext(withUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// requireUserID toma el uid que dejo el middleware; responde 401 si falta.
func requireUserID(c *gin.Context) (string, bool) {
	id, ok := UserIDFromContext(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(statusForError(service.ErrJWTInvalid), gin.H{"error": "unauthorized"})
		return "", false
	}
	return id, true
}
