package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"taskboard/internal/app"
	"taskboard/internal/core/config"
	"taskboard/internal/core/logger"
	"taskboard/internal/core/server"
	"taskboard/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(logger.FromConfig(cfg.Log))
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := app.OpenDB(cfg.DB, log)
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	a := app.New(cfg, db, app.OpenCache(ctx, cfg.Redis, log), log)
	defer a.Close()

	r := router.NewAPIEngine(log, cfg, a.Registry)
	h := cfg.App.HTTP
	srv := server.BuildServer(
		server.Addr(h.Host, h.Port), r, log,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)
	log.Info("task api starting",
		zap.String("addr", srv.Addr),
		zap.String("base_path", h.BasePath),
		zap.Bool("atomic_assign", cfg.DB.AtomicAssign),
		zap.Bool("cache", a.Cache != nil),
	)

	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("task api stopped with error", zap.Error(err))
		return
	}
	log.Info("task api stopped gracefully")
}
