package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"testcase_generator/internal/logger"
)

// NewRouter wires the middleware chain and every route
func NewRouter(h *APIHandler) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		RequestID(),
		logger.GinLogMiddleware(h.Log),
		h.Metrics.GinMiddleware(),
		cors.New(corsConfig(h.Settings.CORSAllowedOrigins)),
	)

	r.GET("/", h.Root)
	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))

	v1 := r.Group("/api/v1")
	v1.POST("/generate", h.Generate)
	v1.GET("/suites/:id", h.GetSuite)
	v1.POST("/export-to-jira", h.ExportToJira)
	v1.POST("/test-cases", h.CreateTestCase)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
