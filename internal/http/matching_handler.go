package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aaryasekhar/rchxtype/internal/domain"
	"github.com/aaryasekhar/rchxtype/internal/service"
)

type MatchingHandler struct {
	logger   *zap.Logger
	matching *service.MatchingService
}

func NewMatchingHandler(logger *zap.Logger, matching *service.MatchingService) *MatchingHandler {
	return &MatchingHandler{logger: logger, matching: matching}
}

// Compatibility maneja GET /matching/compatibility/:userId.
func (h *MatchingHandler) Compatibility(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	score, err := h.matching.CompatibilityBetween(c.Request.Context(), userID, c.Param("userId"))
	if err != nil {
		writeError(c, h.logger, "compatibility", err)
		return
	}
	c.JSON(http.StatusOK, score)
}

// Suggestions maneja GET /matching/suggestions?limit=.
func (h *MatchingHandler) Suggestions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	matches, err := h.matching.Suggestions(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, h.logger, "suggestions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// GetPreferences maneja GET /matching/preferences.
func (h *MatchingHandler) GetPreferences(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	prefs, err := h.matching.Preferences(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, "get preferences", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

// UpdatePreferences maneja PUT /matching/preferences. El body reemplaza las preferencias.
func (h *MatchingHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	req := domain.DefaultMatchingPreferences()
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid preferences update", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	prefs, err := h.matching.UpdatePreferences(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, h.logger, "update preferences", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}
