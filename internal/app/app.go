package app

import (
	"context"

	"go-payroll/internal/config"
	"go-payroll/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the API process: its connections and wired modules.
type App struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Modules *Modules
}

// Connect opens the database and, best effort, Redis. A nil client means
// Redis was unreachable and the features depending on it are off.
func Connect(cfg *config.Config, logger *zap.Logger) (*gorm.DB, *redis.Client, error) {
	db, err := connection.ConnectGORMWithRetry(cfg.Database(), 5)
	if err != nil {
		return nil, nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 3)
	if err != nil {
		logger.Warn("redis unavailable, continuing without cache, idempotency and sweep lock", zap.Error(err))
		rdb = nil
	}
	return db, rdb, nil
}

func BuildApp(ctx context.Context, cfg *config.Config, router *gin.Engine) (*App, error) {
	logger := zap.L().Named("app")

	db, rdb, err := Connect(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	if cfg.DBAutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		logger.Info("database migrated")
	}

	modules, err := NewModules(cfg, db, rdb, NewMailer(cfg, logger), zap.L())
	if err != nil {
		return nil, err
	}

	if _, err := SeedDeductions(ctx, modules.Deductions); err != nil {
		return nil, err
	}

	RegisterRoutes(router, cfg, modules, rdb, zap.L())

	return &App{DB: db, Redis: rdb, Modules: modules}, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
