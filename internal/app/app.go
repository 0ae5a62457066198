// Package app wires config, storage, cache and services into the HTTP
// module registry shared by cmd/api and cmd/admin.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskboard/internal/core/cache"
	"taskboard/internal/core/config"
	"taskboard/internal/core/database"
	"taskboard/internal/repo"
	"taskboard/internal/service"
	"taskboard/internal/transport/http/handler"
	"taskboard/internal/transport/http/router"
)

type App struct {
	DB       *gorm.DB
	Cache    *cache.Cache
	Registry *router.Registry
}

func OpenDB(cfg config.DB, l *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.Driver,
		DSN:                cfg.DSN,
		Username:           cfg.Username,
		Password:           cfg.Password,
		MaxOpenConns:       cfg.MaxOpenConns,
		MaxIdleConns:       cfg.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.ConnMaxLifetimeMin,
		LogLevel:           cfg.LogLevel,
		PrepareStmt:        cfg.PrepareStmt,
		Log:                l,
	})
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		l.Info("automigrate done")
	}
	return db, nil
}

// OpenCache returns nil when no redis address is configured. An unreachable
// redis is logged and kept; lookups fall back to the database per call.
func OpenCache(ctx context.Context, cfg config.Redis, l *zap.Logger) *cache.Cache {
	if cfg.Addr == "" {
		return nil
	}
	c := cache.New(cfg.Addr, cfg.Password, cfg.DB)
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Ping(pctx); err != nil {
		l.Warn("redis ping failed", zap.String("addr", cfg.Addr), zap.Error(err))
	}
	return c
}

// New builds the services and handlers over db and c (which may be nil).
func New(cfg *config.Config, db *gorm.DB, c *cache.Cache, l *zap.Logger) *App {
	store := repo.NewStore(db, cfg.DB.AtomicAssign)
	ttl := time.Duration(cfg.Redis.TTLSec) * time.Second

	assign := service.NewAssignmentService(store, c, ttl, l)
	tasks := service.NewTaskService(store, c, ttl, l)
	users := service.NewUserService(store, assign, c, ttl, l)

	return &App{
		DB:    db,
		Cache: c,
		Registry: router.NewRegistry(
			handler.NewTaskHandler(tasks, assign),
			handler.NewUserHandler(users),
		),
	}
}

func (a *App) Close() {
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
