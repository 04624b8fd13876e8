package server

import (
	"context"
	"fmt"
	"innovation-challenge-system/config"
	"innovation-challenge-system/internal/global/database"
	"innovation-challenge-system/internal/global/logger"
	"innovation-challenge-system/internal/global/middleware"
	internalOtel "innovation-challenge-system/internal/global/otel"
	"innovation-challenge-system/internal/global/redisstore"
	"innovation-challenge-system/internal/global/sentry"
	"innovation-challenge-system/internal/module"
	"innovation-challenge-system/tools"
	"log/slog"

	"github.com/gin-gonic/gin"
)

var log *slog.Logger

func Init() {
	config.Init()
	log = logger.New("Server")

	sentry.Init()
	database.Init()
	redisstore.Init()

	if config.Get().OTel.Enable {
		log.Info("OTel Enabled")
		internalOtel.Init()
	}

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		m.Init()
	}
}

func Run() {
	gin.SetMode(string(config.Get().Mode))
	r := gin.New()

	switch config.Get().Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.Get()))
	case config.ModeDebug:
		r.Use(gin.Logger())
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.Cors())
	if config.Get().Sentry.Dsn != "" {
		r.Use(sentry.Middleware())
	}
	r.Use(middleware.Recovery())

	if config.Get().OTel.Enable {
		r.Use(middleware.Trace())
		defer func() {
			if err := internalOtel.Shutdown(context.Background()); err != nil {
				log.Error("Failed to shutdown TracerProvider", "error", err)
			}
		}()
	}
	defer sentry.Flush()

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Router: %s", m.GetName()))
		m.InitRouter(r.Group("/" + config.Get().Prefix))
	}
	err := r.Run(config.Get().Host + ":" + config.Get().Port)
	tools.PanicOnErr(err)
}
