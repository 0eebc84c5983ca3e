package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/azhengyongqin/ordertracker/internal/healthcheck"
	"github.com/azhengyongqin/ordertracker/internal/middleware"
	"github.com/azhengyongqin/ordertracker/internal/server/handler"
	"github.com/azhengyongqin/ordertracker/internal/service"
)

type Deps struct {
	// OrderService 下单任务生命周期服务
	OrderService *service.OrderService

	// HealthChecker 健康检查器
	HealthChecker *healthcheck.HealthChecker
}

// NewRouter 提供 Gin HTTP API
// @title OrderTracker API
// @version 1.0.0
// @description 订单跟踪系统 API - 商品下单任务管理
// @schemes http https
func NewRouter(deps Deps) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	// 全局中间件
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.PrometheusMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.BodySizeLimit(middleware.MaxBodySize))
	r.Use(middleware.CORSMiddleware())

	// 创建各个 handler 实例
	healthHandler := handler.NewHealthHandler(deps.HealthChecker)
	orderHandler := handler.NewOrderHandler(deps.OrderService)

	// 健康检查路由
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// Prometheus metrics 端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger API 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 下单任务路由
	r.POST("/orders", orderHandler.CreateOrder)
	r.GET("/orders", orderHandler.ListOrders)
	r.GET("/orders/stats", orderHandler.GetStats)
	r.GET("/orders/:task_uuid", middleware.ValidateTaskUUIDParam(), orderHandler.GetOrder)
	r.PATCH("/orders/:task_uuid", middleware.ValidateTaskUUIDParam(), orderHandler.UpdateOrder)

	// 用户当前任务
	r.GET("/users/:user_name/orders/current", middleware.ValidateUserNameParam(), orderHandler.GetCurrentOrder)

	return r
}
