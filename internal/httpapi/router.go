package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RouterConfig carries the HTTP-level settings.
type RouterConfig struct {
	CORSOrigins    []string
	MaxBodyBytes   int64
	MaxUploadBytes int64

	// JWTSecret enables bearer authentication on /api when set.
	JWTSecret string
}

// NewRouter wires middleware and routes. db may be nil when the database is
// disabled.
func NewRouter(cfg RouterConfig, db HealthChecker, h *Handler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		requestLogger(logger),
		recovery(logger),
		cors.New(cors.Config{
			AllowOrigins: cfg.CORSOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"db":     fmt.Sprintf("unhealthy: %v", err),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
	})

	api := router.Group("/api")
	if cfg.JWTSecret != "" {
		api.Use(requireBearer([]byte(cfg.JWTSecret)))
	}

	api.POST("/import/upload", limitBodySize(cfg.MaxUploadBytes), h.ImportUpload)

	jsonAPI := api.Group("", limitBodySize(cfg.MaxBodyBytes))
	jsonAPI.POST("/import", h.Import)
	jsonAPI.POST("/assessments", h.CreateAssessment)
	jsonAPI.GET("/assessments", h.ListAssessments)
	jsonAPI.GET("/assessments/:id", h.GetAssessment)
	jsonAPI.POST("/chat", h.Chat)

	return router
}
