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
	log = log.Named("admin")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// the api process owns migrations
	cfg.DB.AutoMigrate = false
	db, err := app.OpenDB(cfg.DB, log)
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	a := app.New(cfg, db, app.OpenCache(ctx, cfg.Redis, log), log)
	defer a.Close()

	r := router.NewAdminEngine(log, cfg, a.Registry)
	srv := server.BuildServer(server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port), r, log,
		5*time.Second, 10*time.Second, 60*time.Second)

	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("admin api stopped with error", zap.Error(err))
		return
	}
	log.Info("admin api stopped gracefully")
}
