package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"collablearn/internal/collab"
	"collablearn/internal/convert"
	"collablearn/internal/shared/config"
	"collablearn/internal/shared/metrics"
	"collablearn/internal/shared/server/middleware"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config         config.Config
	ConvertHandler *convert.Handler
	CollabHandler  *collab.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", metrics.Handler())

	limited := r.Group("/")
	limited.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"CONVERT": {Rate: 2, Burst: 10},
			"COLLAB":  {Rate: 5, Burst: 20},
		},
		GroupFor: func(c *gin.Context) string {
			if c.FullPath() == "/convert" {
				return "CONVERT"
			}
			return "COLLAB"
		},
	}))
	deps.ConvertHandler.RegisterRoutes(limited)
	deps.CollabHandler.RegisterRoutes(limited)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":4411"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
