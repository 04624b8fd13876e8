package config

import (
	"fmt"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

var (
	instance *Config
	once     sync.Once
)

// Init 加载配置：先读取 config.yaml，再用环境变量覆盖
// 环境变量优先级高于配置文件，便于容器化部署
func Init() {
	once.Do(func() {
		cfg := &Config{
			Host:   "0.0.0.0",
			Port:   "8080",
			Prefix: "api",
			Mode:   ModeDebug,
		}

		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")

		if err := viper.ReadInConfig(); err != nil {
			// 配置文件缺失时仅依赖环境变量
			fmt.Printf("未读取到配置文件，使用环境变量: %v\n", err)
		} else if err := viper.Unmarshal(cfg); err != nil {
			panic(fmt.Sprintf("解析配置文件失败: %v", err))
		}

		if err := envconfig.Process("", cfg); err != nil {
			panic(fmt.Sprintf("解析环境变量失败: %v", err))
		}

		instance = cfg
	})
}

// Get 获取全局配置，必须先调用 Init
func Get() *Config {
	if instance == nil {
		Init()
	}
	return instance
}
