// @title recipechat API
// @version 1.0
// @description 菜谱入库与检索增强问答服务
// @host localhost:5000
// @BasePath /
// @schemes http
package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/recipechat/backend/internal/infrastructure/config"
	applog "github.com/recipechat/backend/internal/infrastructure/log"
	"github.com/recipechat/backend/internal/infrastructure/singleton"
	"github.com/recipechat/backend/internal/wire"
)

func main() {
	// 加载 .env（不存在时忽略）
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}

	// 初始化日志系统
	applog.Init(nil)
	logger := applog.GetLogger()

	// 加载配置获取端口
	cfg, err := config.ProvideConfig()
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// 单例锁检查：尝试获取端口锁
	listener, err := singleton.CheckAndLock(cfg.Server.HTTPPort)
	if err != nil {
		logger.Error("Singleton lock check failed", "error", err)
		os.Exit(1)
	}
	if listener == nil {
		// 已有实例运行，直接退出
		logger.Info("Another instance is already running, exiting", "port", cfg.Server.HTTPPort)
		os.Exit(0)
	}
	// 关闭临时 listener，实际监听由 HTTP 服务器负责
	_ = listener.Close()

	// Wire 自动生成的初始化函数
	app, err := wire.InitializeAll()
	if err != nil {
		logger.Error("Failed to initialize application",
			"error", err,
		)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 启动所有服务
	serveErr, err := app.Start(ctx)
	if err != nil {
		logger.Error("Failed to start application",
			"error", err,
		)
		_ = app.Stop()
		os.Exit(1)
	}

	// 优雅关闭
	select {
	case <-ctx.Done():
		logger.Info("Shutting down application...")
	case err := <-serveErr:
		if err != nil {
			logger.Error("HTTP server exited", "error", err)
		}
	}

	if err := app.Stop(); err != nil {
		logger.Error("Error during application shutdown",
			"error", err,
		)
	}
	logger.Info("Application stopped")
}
