package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docingest-backend/internal/documents"
	"docingest-backend/internal/ingest"
	"docingest-backend/internal/shared/config"
	"docingest-backend/internal/shared/metrics"
	"docingest-backend/internal/shared/server/middleware"
	"docingest-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config          config.Config
	IngestHandler   *ingest.Handler
	DocumentHandler *documents.Handler
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

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	authed := api.Group("")
	authed.Use(middleware.Identity())
	deps.IngestHandler.RegisterRoutes(authed)
	deps.DocumentHandler.RegisterRoutes(authed)

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
