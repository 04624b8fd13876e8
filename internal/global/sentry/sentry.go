package sentry

import (
	"innovation-challenge-system/config"
	"innovation-challenge-system/tools"
	"time"

	sentrylib "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// Init 初始化 Sentry，未配置 DSN 时为空操作
func Init() {
	dsn := config.Get().Sentry.Dsn
	if dsn == "" {
		return
	}
	tools.PanicOnErr(sentrylib.Init(sentrylib.ClientOptions{
		Dsn:         dsn,
		Environment: string(config.Get().Mode),
		EnableLogs:  true,
	}))
}

// Middleware 返回 sentry-gin 中间件，panic 交还给上层 Recovery 处理
func Middleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic: true,
	})
}

// Flush 进程退出前冲刷缓冲事件
func Flush() {
	sentrylib.Flush(2 * time.Second)
}
