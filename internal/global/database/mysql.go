package database

import (
	"fmt"
	"innovation-challenge-system/config"
	"innovation-challenge-system/internal/model"
	"innovation-challenge-system/tools"

	sqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

// AutoMigrateModels 定义需要自动迁移的模型列表
var AutoMigrateModels = []any{
	&model.User{},
	&model.Challenge{},
	&model.ChallengeQuestion{},
	&model.ChallengeParticipant{},
	&model.GroupMember{},
	&model.ParticipantAnswer{},
	// 在这里添加其他模型
}

func Init() {
	dsnCfg := sqldriver.NewConfig()
	dsnCfg.User = config.Get().Mysql.Username
	dsnCfg.Passwd = config.Get().Mysql.Password
	dsnCfg.Net = "tcp"
	dsnCfg.Addr = fmt.Sprintf("%s:%s", config.Get().Mysql.Host, config.Get().Mysql.Port)
	dsnCfg.DBName = config.Get().Mysql.DBName
	dsnCfg.ParseTime = true
	dsnCfg.Params = map[string]string{"charset": "utf8mb4"}

	gormConfig := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true}, // 还是单数表名好
		// 把各方言的唯一约束冲突统一翻译成 gorm.ErrDuplicatedKey，
		// 报名引擎依赖这一点区分"重复报名"和普通数据库错误
		TranslateError: true,
	}

	switch config.Get().Mode {
	case config.ModeDebug:
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	case config.ModeRelease:
		gormConfig.Logger = logger.Discard
	}

	db, err := gorm.Open(mysql.Open(dsnCfg.FormatDSN()), gormConfig)
	tools.PanicOnErr(err)
	DB = db

	// 使用模型列表进行自动迁移
	tools.PanicOnErr(DB.AutoMigrate(AutoMigrateModels...))
}
