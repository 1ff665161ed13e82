package app

import (
	"net/http"

	"go-leave/internal/config"
	"go-leave/internal/middleware"
	"go-leave/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// BuildApp connects infrastructure and registers every module on router.
// The returned cleanup closes the connections it opened.
func BuildApp(router *gin.Engine, cfg *config.Config) (func(), error) {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	cleanup := func() { _ = sqlDB.Close() }

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.Redis)
		if err != nil {
			cleanup()
			return nil, err
		}
		logger.Info("redis connection established")
		cleanup = func() {
			_ = rdb.Close()
			_ = sqlDB.Close()
		}
	} else {
		logger.Warn("REDIS_ADDR not set, balance cache and idempotency disabled")
	}

	router.Use(middleware.RequestID())
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimitByIP(rate.Limit(cfg.RateLimit.IPRPS), cfg.RateLimit.IPBurst))
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	if err := registerModules(router, cfg, sqlDB, gormDB, rdb); err != nil {
		cleanup()
		return nil, err
	}
	return cleanup, nil
}
