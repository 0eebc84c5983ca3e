package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/azhengyongqin/ordertracker/docs" // Swagger docs
	"github.com/azhengyongqin/ordertracker/internal/cache"
	"github.com/azhengyongqin/ordertracker/internal/config"
	"github.com/azhengyongqin/ordertracker/internal/healthcheck"
	"github.com/azhengyongqin/ordertracker/internal/logger"
	"github.com/azhengyongqin/ordertracker/internal/metrics"
	"github.com/azhengyongqin/ordertracker/internal/repository"
	httpserver "github.com/azhengyongqin/ordertracker/internal/server"
	"github.com/azhengyongqin/ordertracker/internal/service"
	"github.com/azhengyongqin/ordertracker/internal/storage/database"
)

// @title OrderTracker API
// @version 1.0.0
// @description 订单跟踪系统 API - 商品下单任务管理
// @schemes http https
// @host localhost:8000

func main() {
	// 加载配置（.env 兜底，环境变量优先）
	cfg, err := config.Load()
	if err != nil {
		logger.L.Fatal().Err(err).Msg("加载配置失败")
	}

	// 验证配置
	if err := cfg.Validate(); err != nil {
		logger.L.Fatal().Err(err).Msg("配置验证失败")
	}

	// 初始化结构化日志
	if err := logger.Init(cfg.Log.Production); err != nil {
		logger.L.Fatal().Err(err).Msg("初始化日志失败")
	}
	logger.SetLevel(cfg.Log.Level)

	logger.L.Info().
		Str("http", cfg.HTTP.Addr).
		Dur("cooldown_window", cfg.Order.CooldownWindow).
		Msg("服务启动")

	// 使用配置的连接池参数
	dbCfg := database.DBConfig{
		MaxOpenConns:    cfg.DBPool.MaxConns,
		MaxIdleConns:    cfg.DBPool.MinConns,
		ConnMaxLifetime: cfg.DBPool.MaxConnLifetime,
		ConnMaxIdleTime: cfg.DBPool.MaxConnIdleTime,
	}

	db, err := database.OpenWithConfig(context.Background(), cfg.Database.DSN, dbCfg)
	if err != nil {
		logger.L.Fatal().Err(err).Msg("连接数据库失败")
	}
	defer db.Close()

	// 表结构同步
	if err := db.AutoMigrate(&repository.OrderTaskModel{}); err != nil {
		logger.L.Fatal().Err(err).Msg("数据库迁移失败")
	}

	sqlDB, err := db.SqlDB()
	if err != nil {
		logger.L.Fatal().Err(err).Msg("获取底层数据库连接失败")
	}

	// 补充 SQL 迁移（仅在配置了 MIGRATIONS_DIR 时执行）
	if dir := cfg.Database.MigrationsDir; dir != "" {
		if err := database.ApplyMigrationsFromDir(context.Background(), sqlDB, dir); err != nil {
			logger.L.Fatal().Err(err).Str("dir", dir).Msg("执行 SQL 迁移失败")
		}
		logger.L.Info().Str("dir", dir).Msg("SQL 迁移完成")
	}

	// Redis 客户端（可选，用于下单互斥锁和就绪检查）
	var redisClient *cache.RedisClient
	if cfg.Redis.Addr != "" {
		redisClient, err = cache.NewRedisClient(cfg.Redis.Addr)
		if err != nil {
			logger.L.Fatal().Err(err).Msg("连接 Redis 失败")
		}
		defer redisClient.Close()
		logger.L.Info().Str("addr", cfg.Redis.Addr).Msg("Redis 已连接")
	}

	orderRepo := repository.NewOrderRepo(db.DB)

	var locker service.Locker
	if redisClient != nil {
		locker = redisClient
	}
	orderService := service.NewOrderService(orderRepo, locker, service.Options{
		CooldownWindow:    cfg.Order.CooldownWindow,
		StrictTerminal:    cfg.Order.StrictTerminal,
		CreateLockEnabled: cfg.Order.CreateLockEnabled,
	})

	// 创建健康检查器
	var pinger healthcheck.RedisPinger
	if redisClient != nil {
		pinger = redisClient
	}
	healthChecker := healthcheck.NewHealthChecker(sqlDB, pinger)

	httpSrv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: httpserver.NewRouter(httpserver.Deps{
			OrderService:  orderService,
			HealthChecker: healthChecker,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 周期性上报连接池状态
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := sqlDB.Stats()
				metrics.UpdateDBPoolStats(stats.InUse, stats.Idle, stats.MaxOpenConnections)
			}
		}
	}()

	go func() {
		logger.L.Info().Str("addr", cfg.HTTP.Addr).Msg("HTTP 服务监听")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L.Fatal().Err(err).Msg("HTTP 服务错误")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(shutdownCtx)
	logger.L.Info().Msg("服务已优雅关闭")
}
