package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vibe-brain/internal/metrics"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(logger *zap.Logger, vibeH *VibeHandler, m *metrics.Manager) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: request id, logging, metricas y recovery.
	r.Use(RequestIDMiddleware(), zapLoggerMiddleware(logger), metricsMiddleware(m), gin.Recovery())

	r.GET("/", vibeH.Home)
	r.GET("/vibe/:identity", vibeH.GetVibe)
	r.GET("/radar", vibeH.GetRadar)
	r.GET("/match/:identity", vibeH.GetMatch)

	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

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
			zap.String("request_id", GetRequestID(c)),
		)
	}
}

// metricsMiddleware cuenta requests por ruta registrada, no por path crudo,
// para no abrir una serie por identidad.
func metricsMiddleware(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
