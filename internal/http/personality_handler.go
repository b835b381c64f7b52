package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aaryasekhar/rchxtype/internal/domain"
	"github.com/aaryasekhar/rchxtype/internal/service"
)

// PersonalityHandler expone sintesis, lectura y edicion del perfil del usuario autenticado.
type PersonalityHandler struct {
	logger    *zap.Logger
	synthesis *service.SynthesisService
	profiles  *service.ProfileService
}

func NewPersonalityHandler(logger *zap.Logger, synthesis *service.SynthesisService, profiles *service.ProfileService) *PersonalityHandler {
	return &PersonalityHandler{
		logger:    logger,
		synthesis: synthesis,
		profiles:  profiles,
	}
}

type analyzeRequest struct {
	Responses []domain.ResponseRecord          `json:"responses" binding:"required"`
	Signals   map[string]domain.ExternalSignal `json:"signals"`
}

// Analyze maneja POST /personality/analyze.
func (h *PersonalityHandler) Analyze(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analyze request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	res, err := h.synthesis.Analyze(c.Request.Context(), userID, req.Responses, req.Signals)
	if err != nil {
		writeError(c, h.logger, "analyze", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Refresh maneja POST /personality/refresh.
func (h *PersonalityHandler) Refresh(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	res, err := h.synthesis.Refresh(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, "refresh", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetProfile maneja GET /personality/profile.
func (h *PersonalityHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	p, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

// UpdateProfile maneja PUT /personality/profile.
func (h *PersonalityHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req service.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid profile update", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	p, err := h.profiles.UpdateTraits(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, h.logger, "update profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

// Questions maneja GET /personality/questions?category=&limit=.
func (h *PersonalityHandler) Questions(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	qs, err := service.AssessmentQuestions(domain.Category(c.Query("category")), limit)
	if err != nil {
		writeError(c, h.logger, "list questions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": qs})
}

// NextQuestions maneja GET /personality/next-questions?count=.
func (h *PersonalityHandler) NextQuestions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	count, ok := queryInt(c, "count")
	if !ok {
		return
	}
	qs, err := h.profiles.NextQuestions(c.Request.Context(), userID, count)
	if err != nil {
		writeError(c, h.logger, "next questions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": qs})
}

// Completion maneja GET /personality/completion.
func (h *PersonalityHandler) Completion(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	status, err := h.profiles.CompletionStatus(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, "completion", err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// queryInt lee un entero opcional de la query; ausente vale 0.
func queryInt(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
		return 0, false
	}
	return v, true
}
