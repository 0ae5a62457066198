package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"taskboard/internal/core/config"
	"taskboard/internal/core/server"
	mdw "taskboard/internal/transport/http/middleware"
	resp "taskboard/internal/transport/http/response"
)

func health(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) }

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, resp.Error(http.StatusNotFound, "", "Route "+c.Request.Method+" "+c.Request.URL.Path+" not found"))
}

// NewAPIEngine builds the public engine and mounts every API module of reg
// under cfg.App.HTTP.BasePath.
func NewAPIEngine(l *zap.Logger, cfg *config.Config, reg *Registry) *gin.Engine {
	r := server.NewRouter(l, cfg.App.Env)
	lim := cfg.Limits

	r.Use(
		mdw.RequestID(),
		mdw.RateLimitPerIP(rate.Limit(lim.RPS), lim.Burst),
		mdw.ConcurrencyLimit(lim.MaxConcurrent),
		mdw.MaxBodyBytes(lim.MaxBodyMB<<20),
		mdw.Timeout(time.Duration(lim.TimeoutSec)*time.Second),
		mdw.Metrics(),
	)
	r.NoRoute(notFound)

	r.GET("/health", health)

	reg.MountAllAPI(r.Group(cfg.App.HTTP.BasePath))
	return r
}
