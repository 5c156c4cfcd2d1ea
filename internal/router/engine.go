package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-blog-publisher/config"
	handlers "github.com/oksasatya/go-blog-publisher/internal/interface/http"
	"github.com/oksasatya/go-blog-publisher/internal/interface/middleware"
	"github.com/oksasatya/go-blog-publisher/internal/infrastructure/metrics"
)

// NewEngine builds the gin engine with the global middleware chain and the
// unauthenticated /health probe. m may be nil.
func NewEngine(cfg *config.Config, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	if m != nil {
		r.Use(m.Middleware())
	}
	// no configured origins means same-origin only
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  origins,
			AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader, "Retry-After"},
			// bearer tokens, no cookies
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	r.GET("/health", handlers.Health)
	return r
}
