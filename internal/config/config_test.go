package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// 设置测试环境变量
	os.Setenv("DATABASE_URL", "root:secret@tcp(localhost:3306)/ordertracker?parseTime=True")
	os.Setenv("HTTP_ADDR", ":9000")
	os.Setenv("REDIS_ADDR", "localhost:6379")
	os.Setenv("COOLDOWN_WINDOW", "12h")
	os.Setenv("STRICT_TERMINAL", "true")
	defer func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("HTTP_ADDR")
		os.Unsetenv("REDIS_ADDR")
		os.Unsetenv("COOLDOWN_WINDOW")
		os.Unsetenv("STRICT_TERMINAL")
	}()

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Contains(t, cfg.Database.DSN, "@tcp(")
	assert.Equal(t, 12*time.Hour, cfg.Order.CooldownWindow)
	assert.True(t, cfg.Order.StrictTerminal)
}

func TestLoadDefaults(t *testing.T) {
	// 只设置必需的配置
	os.Setenv("DATABASE_URL", "root:secret@tcp(localhost:3306)/ordertracker")
	defer os.Unsetenv("DATABASE_URL")

	cfg, err := Load()
	require.NoError(t, err)

	// 验证默认值
	assert.Equal(t, ":8000", cfg.HTTP.Addr)
	assert.Equal(t, 20, cfg.DBPool.MaxConns)
	assert.Equal(t, 5, cfg.DBPool.MinConns)
	assert.Equal(t, 30*time.Minute, cfg.DBPool.MaxConnLifetime)
	assert.Equal(t, 5*time.Minute, cfg.DBPool.MaxConnIdleTime)
	assert.Equal(t, 24*time.Hour, cfg.Order.CooldownWindow)
	assert.False(t, cfg.Order.StrictTerminal)
	assert.False(t, cfg.Order.CreateLockEnabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadMissingDSN(t *testing.T) {
	os.Unsetenv("DATABASE_URL")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *Config
		wantError bool
	}{
		{
			name: "valid config",
			cfg: &Config{
				Database: DatabaseConfig{DSN: "root:secret@tcp(localhost:3306)/ordertracker"},
				Order:    OrderConfig{CooldownWindow: 24 * time.Hour},
			},
			wantError: false,
		},
		{
			name: "missing dsn",
			cfg: &Config{
				Order: OrderConfig{CooldownWindow: 24 * time.Hour},
			},
			wantError: true,
		},
		{
			name: "non-positive cooldown",
			cfg: &Config{
				Database: DatabaseConfig{DSN: "root:secret@tcp(localhost:3306)/ordertracker"},
				Order:    OrderConfig{CooldownWindow: 0},
			},
			wantError: true,
		},
		{
			name: "create lock without redis",
			cfg: &Config{
				Database: DatabaseConfig{DSN: "root:secret@tcp(localhost:3306)/ordertracker"},
				Order: OrderConfig{
					CooldownWindow:    24 * time.Hour,
					CreateLockEnabled: true,
				},
			},
			wantError: true,
		},
		{
			name: "create lock with redis",
			cfg: &Config{
				Database: DatabaseConfig{DSN: "root:secret@tcp(localhost:3306)/ordertracker"},
				Redis:    RedisConfig{Addr: "localhost:6379"},
				Order: OrderConfig{
					CooldownWindow:    24 * time.Hour,
					CreateLockEnabled: true,
				},
			},
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
