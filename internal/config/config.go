package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	HTTP     HTTPConfig
	Database DatabaseConfig
	DBPool   DBPoolConfig
	Redis    RedisConfig
	Order    OrderConfig
	Log      LogConfig
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	Addr string
}

// DatabaseConfig 数据库配置；单一连接串，驱动由 DSN 决定
type DatabaseConfig struct {
	DSN           string
	MigrationsDir string
}

// DBPoolConfig 数据库连接池配置
type DBPoolConfig struct {
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig Redis 配置（可选；仅用于下单互斥锁和就绪检查）
type RedisConfig struct {
	Addr string
}

// OrderConfig 下单任务业务配置
type OrderConfig struct {
	// CooldownWindow 同一 (用户, 店铺) 的下单冷却窗口，默认 24 小时
	CooldownWindow time.Duration
	// StrictTerminal 为 true 时拒绝修改已完成/已失败的任务
	StrictTerminal bool
	// CreateLockEnabled 为 true 且配置了 Redis 时，
	// 创建任务按 (用户, 店铺) 加锁，消除检查-插入竞态
	CreateLockEnabled bool
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string
	Production bool
}

// Load 加载配置
func Load() (*Config, error) {
	// .env 文件兜底（环境变量优先）
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	cfg := &Config{}

	// HTTP 配置
	cfg.HTTP.Addr = v.GetString("HTTP_ADDR")
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8000"
	}

	// 数据库配置
	cfg.Database.DSN = v.GetString("DATABASE_URL")
	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	cfg.Database.MigrationsDir = v.GetString("MIGRATIONS_DIR")

	// 数据库连接池配置
	cfg.DBPool.MaxConns = v.GetInt("DB_MAX_CONNS")
	if cfg.DBPool.MaxConns == 0 {
		cfg.DBPool.MaxConns = 20
	}

	cfg.DBPool.MinConns = v.GetInt("DB_MIN_CONNS")
	if cfg.DBPool.MinConns == 0 {
		cfg.DBPool.MinConns = 5
	}

	cfg.DBPool.MaxConnLifetime = v.GetDuration("DB_MAX_CONN_LIFETIME")
	if cfg.DBPool.MaxConnLifetime == 0 {
		cfg.DBPool.MaxConnLifetime = 30 * time.Minute
	}

	cfg.DBPool.MaxConnIdleTime = v.GetDuration("DB_MAX_CONN_IDLE_TIME")
	if cfg.DBPool.MaxConnIdleTime == 0 {
		cfg.DBPool.MaxConnIdleTime = 5 * time.Minute
	}

	// Redis 配置（可选）
	cfg.Redis.Addr = v.GetString("REDIS_ADDR")

	// 下单任务业务配置
	cfg.Order.CooldownWindow = v.GetDuration("COOLDOWN_WINDOW")
	if cfg.Order.CooldownWindow == 0 {
		cfg.Order.CooldownWindow = 24 * time.Hour
	}
	cfg.Order.StrictTerminal = v.GetBool("STRICT_TERMINAL")
	cfg.Order.CreateLockEnabled = v.GetBool("CREATE_LOCK_ENABLED")

	// 日志配置
	cfg.Log.Level = v.GetString("LOG_LEVEL")
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	cfg.Log.Production = v.GetBool("LOG_PRODUCTION")

	return cfg, nil
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Order.CooldownWindow <= 0 {
		return fmt.Errorf("COOLDOWN_WINDOW must be positive")
	}
	if c.Order.CreateLockEnabled && c.Redis.Addr == "" {
		return fmt.Errorf("CREATE_LOCK_ENABLED requires REDIS_ADDR")
	}
	return nil
}
