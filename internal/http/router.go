package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aaryasekhar/rchxtype/internal/observability"
	"github.com/aaryasekhar/rchxtype/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
// metrics puede ser nil; en ese caso no se expone /metrics.
func NewRouter(
	logger *zap.Logger,
	metrics *observability.Metrics,
	jwtSvc *service.JWTService,
	personalityH *PersonalityHandler,
	matchingH *MatchingHandler,
	integrationH *IntegrationHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, metricas, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), metricsMiddleware(metrics), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	}

	authed := r.Group("", JWTAuthMiddleware(jwtSvc, logger))

	personality := authed.Group("/personality")
	personality.POST("/analyze", personalityH.Analyze)
	personality.POST("/refresh", personalityH.Refresh)
	personality.GET("/profile", personalityH.GetProfile)
	personality.PUT("/profile", personalityH.UpdateProfile)
	personality.GET("/questions", personalityH.Questions)
	personality.GET("/next-questions", personalityH.NextQuestions)
	personality.GET("/completion", personalityH.Completion)

	matching := authed.Group("/matching")
	matching.GET("/compatibility/:userId", matchingH.Compatibility)
	matching.GET("/suggestions", matchingH.Suggestions)
	matching.GET("/preferences", matchingH.GetPreferences)
	matching.PUT("/preferences", matchingH.UpdatePreferences)

	integrations := authed.Group("/integrations")
	integrations.GET("/status", integrationH.Status)
	integrations.PUT("/:connector", integrationH.Connect)
	integrations.DELETE("/:connector", integrationH.Disconnect)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// metricsMiddleware cuenta requests por ruta registrada (no por path) para acotar cardinalidad.
func metricsMiddleware(metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(c.Request.Method, route, c.Writer.Status())
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
