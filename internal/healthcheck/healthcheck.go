package healthcheck

import (
	"context"
	"database/sql"
	"time"
)

// RedisPinger Redis 连通性检查的最小接口
type RedisPinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker 健康检查器
type HealthChecker struct {
	sqlDB *sql.DB
	redis RedisPinger
}

// NewHealthChecker 创建健康检查器；redis 可为 nil（未配置时）
func NewHealthChecker(sqlDB *sql.DB, redis RedisPinger) *HealthChecker {
	return &HealthChecker{
		sqlDB: sqlDB,
		redis: redis,
	}
}

// CheckResult 健康检查结果
type CheckResult struct {
	Status  string            `json:"status"` // "ok" or "error"
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version,omitempty"`
}

// LivenessCheck 存活检查（快速返回，不检查依赖）
func (h *HealthChecker) LivenessCheck() CheckResult {
	return CheckResult{
		Status: "ok",
		Checks: map[string]string{
			"service": "running",
		},
	}
}

// ReadinessCheck 就绪检查（检查所有依赖）
func (h *HealthChecker) ReadinessCheck(ctx context.Context) CheckResult {
	result := CheckResult{
		Checks: make(map[string]string),
	}

	// 检查数据库连接
	if h.sqlDB != nil {
		if err := h.checkDatabase(ctx); err != nil {
			result.Checks["database"] = "error: " + err.Error()
			result.Status = "error"
		} else {
			result.Checks["database"] = "ok"
		}
	}

	// 检查 Redis 连接（仅在配置时）
	if h.redis != nil {
		if err := h.checkRedis(ctx); err != nil {
			result.Checks["redis"] = "error: " + err.Error()
			result.Status = "error"
		} else {
			result.Checks["redis"] = "ok"
		}
	}

	// 如果所有检查都通过
	if result.Status == "" {
		result.Status = "ok"
	}

	return result
}

// checkDatabase 检查数据库连接
func (h *HealthChecker) checkDatabase(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return h.sqlDB.PingContext(ctx)
}

// checkRedis 检查 Redis 连接
func (h *HealthChecker) checkRedis(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return h.redis.Ping(ctx)
}
