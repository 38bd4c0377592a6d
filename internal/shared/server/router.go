package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobapply-backend/internal/applications"
	"jobapply-backend/internal/shared/config"
	"jobapply-backend/internal/shared/metrics"
	"jobapply-backend/internal/shared/server/middleware"
	"jobapply-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config       config.Config
	ApplyHandler *applications.Handler
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

	r.GET("/metrics", metrics.Handler())

	// Dev serves uploads straight off disk; in other environments a
	// fronting web server owns /uploads.
	if deps.Config.Env == "dev" || deps.Config.Env == "local" {
		r.Static("/uploads", deps.Config.UploadDir)
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	authed := api.Group("")
	authed.Use(middleware.Auth())
	// Form saves carry multipart uploads, so they get a tighter budget
	// than draft and list reads.
	authed.Use(middleware.RateLimit(middleware.RateLimitConfig{
		DefaultGroup: "READ",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost {
				return "SAVE"
			}
			return "READ"
		},
		Rules: map[string]middleware.RateLimitRule{
			"SAVE": {Rate: 2, Burst: 5},
			"READ": {Rate: 10, Burst: 20},
		},
	}))
	deps.ApplyHandler.RegisterRoutes(authed)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
