package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLockHeld 锁已被其他请求持有
var ErrLockHeld = errors.New("锁已被占用")

// RedisClient Redis 客户端封装。
// 用途：创建任务时按 (用户, 店铺) 互斥，以及就绪检查。
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient 创建 Redis 客户端
func NewRedisClient(redisAddr string) (*RedisClient, error) {
	if !strings.HasPrefix(redisAddr, "redis://") && !strings.HasPrefix(redisAddr, "rediss://") {
		redisAddr = "redis://" + redisAddr + "/0"
	}

	opts, err := redis.ParseURL(redisAddr)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// Close 关闭 Redis 连接
func (c *RedisClient) Close() error {
	return c.client.Close()
}

// Ping 连通性检查
func (c *RedisClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// releaseScript 只释放自己持有的锁
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("del", KEYS[1])
else
    return 0
end
`)

// AcquireLock 获取互斥锁；已被占用时返回 ErrLockHeld。
// token 用于释放时校验持有者，ttl 防止持有者异常退出后锁泄漏。
func (c *RedisClient) AcquireLock(ctx context.Context, key, token string, ttl time.Duration) error {
	ok, err := c.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return fmt.Errorf("setnx: %w", err)
	}
	if !ok {
		return ErrLockHeld
	}
	return nil
}

// ReleaseLock 释放互斥锁；token 不匹配时不做任何操作
func (c *RedisClient) ReleaseLock(ctx context.Context, key, token string) error {
	return releaseScript.Run(ctx, c.client, []string{key}, token).Err()
}
