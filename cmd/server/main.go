package main

import (
	"context"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/joho/godotenv"
	"github.com/user/cinehub/internal/app"
	"github.com/user/cinehub/internal/config"
	"github.com/user/cinehub/internal/logger"
)

func main() {
	// 加载环境变量
	envErr := godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		logger.New("info").Fatalf("加载配置失败: %v", err)
	}

	log := logger.New(cfg.LogLevel)
	if envErr != nil {
		log.Info("未找到 .env 文件，使用系统环境变量")
	}

	if err := app.Run(context.Background(), cfg, log); err != nil {
		log.Fatalf("服务器异常退出: %v", err)
	}
}
