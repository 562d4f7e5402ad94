package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"diceparty/internal/auth"
)

// SetupRoutes wires the legacy demo's two endpoints, grounded on the
// teacher's internal/api/routes/routes.go SetupRoutes entry point.
func SetupRoutes(router *gin.Engine, authenticator *auth.Authenticator, logger *slog.Logger) {
	router.Use(Recovery(logger), Logging(logger))

	h := NewHandlers(authenticator)
	v1 := router.Group("/v1")
	v1.POST("/hello", h.Hello)
	v1.POST("/goodbye", h.Goodbye)
}
