package redisstore

import (
	"context"
	"fmt"
	"innovation-challenge-system/config"
	"innovation-challenge-system/tools"
	"time"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

const blacklistPrefix = "token:blacklist:"

func Init() {
	Client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", config.Get().Redis.Host, config.Get().Redis.Port),
		Password: config.Get().Redis.Password,
		DB:       config.Get().Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	tools.PanicOnErr(Client.Ping(ctx).Err())
}

// BlacklistToken 登出时按 jti 拉黑令牌，过期时间与令牌剩余有效期一致
func BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return Client.Set(ctx, blacklistPrefix+jti, 1, ttl).Err()
}

// IsTokenBlacklisted 校验令牌是否已被拉黑
// Redis 不可用时放行，登出拉黑属于尽力而为的能力
func IsTokenBlacklisted(ctx context.Context, jti string) bool {
	if Client == nil || jti == "" {
		return false
	}
	n, err := Client.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false
	}
	return n > 0
}
