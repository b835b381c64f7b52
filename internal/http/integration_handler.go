package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aaryasekhar/rchxtype/internal/domain"
	"github.com/aaryasekhar/rchxtype/internal/service"
)

// IntegrationHandler recibe los snapshots normalizados que empujan los conectores.
type IntegrationHandler struct {
	logger       *zap.Logger
	integrations *service.IntegrationService
}

func NewIntegrationHandler(logger *zap.Logger, integrations *service.IntegrationService) *IntegrationHandler {
	return &IntegrationHandler{logger: logger, integrations: integrations}
}

// Connect maneja PUT /integrations/:connector.
func (h *IntegrationHandler) Connect(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req domain.ExternalSignal
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid integration payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	sig, err := h.integrations.Connect(c.Request.Context(), userID, c.Param("connector"), req)
	if err != nil {
		writeError(c, h.logger, "connect integration", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"integration": sig})
}

// Disconnect maneja DELETE /integrations/:connector.
func (h *IntegrationHandler) Disconnect(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.integrations.Disconnect(c.Request.Context(), userID, c.Param("connector")); err != nil {
		writeError(c, h.logger, "disconnect integration", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Status maneja GET /integrations/status.
func (h *IntegrationHandler) Status(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	statuses, err := h.integrations.Status(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, "integration status", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"integrations": statuses})
}
