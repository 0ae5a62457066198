package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"taskboard/internal/core/config"
	mdw "taskboard/internal/transport/http/middleware"
)

// NewAdminEngine builds the operator engine: health, metrics and the
// read-only listings under /admin/v1. It carries no auth and should bind to
// loopback.
func NewAdminEngine(l *zap.Logger, cfg *config.Config, reg *Registry) *gin.Engine {
	if cfg.App.Env == "prod" || cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(cfg.Limits.RPS), cfg.Limits.Burst),
		mdw.Recovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l.Named("admin")),
	)
	r.NoRoute(notFound)

	r.GET("/health", health)
	r.GET("/metrics", mdw.MetricsHandler())

	reg.MountAllAdmin(r.Group("/admin/v1"))
	return r
}
