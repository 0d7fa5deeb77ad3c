package wire

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"log/slog"

	"github.com/recipechat/backend/internal/infrastructure/config"
	applog "github.com/recipechat/backend/internal/infrastructure/log"
	"github.com/recipechat/backend/internal/infrastructure/vector"
	"github.com/recipechat/backend/internal/interfaces"
)

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer *interfaces.HTTPServer
	MCPServer  *interfaces.MCPServer
	cfg        *config.Config
	qdrant     *vector.QdrantManager // 用于管理 Qdrant 生命周期
	db         *sql.DB
	logger     *slog.Logger
}

// NewApp 创建应用实例
func NewApp(
	cfg *config.Config,
	httpServer *interfaces.HTTPServer,
	mcpServer *interfaces.MCPServer,
	qdrant *vector.QdrantManager,
	db *sql.DB,
) *App {
	return &App{
		HTTPServer: httpServer,
		MCPServer:  mcpServer,
		cfg:        cfg,
		qdrant:     qdrant,
		db:         db,
		logger:     applog.NewModuleLogger("app", "main"),
	}
}

// Start 启动所有服务
// HTTP 服务器在后台运行，监听失败时写入返回的通道
func (a *App) Start(ctx context.Context) (<-chan error, error) {
	a.logger.Info("Starting recipechat backend application",
		"vector_backend", a.cfg.Vector.Backend,
	)

	// 连接 Qdrant（本地模式下同时启动进程）
	if a.cfg.Vector.Backend == config.VectorBackendQdrant {
		if err := a.qdrant.Start(ctx); err != nil {
			return nil, err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.HTTPServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Failed to start HTTP server",
				"error", err,
			)
			errCh <- err
		}
		close(errCh)
	}()

	a.logger.Info("recipechat backend application started successfully")

	// MCP 服务器通过 HTTP Handler 提供服务，已在 HTTP 服务器中注册 /mcp/sse 端点
	return errCh, nil
}

// Stop 停止所有服务
func (a *App) Stop() error {
	a.logger.Info("Stopping recipechat backend application")

	var errs []error
	if err := a.HTTPServer.Stop(); err != nil {
		a.logger.Error("Failed to stop HTTP server",
			"error", err,
		)
		errs = append(errs, err)
	}

	// 停止 Qdrant 服务（如果已启动）
	if a.qdrant != nil {
		if err := a.qdrant.Stop(); err != nil {
			a.logger.Error("Failed to stop Qdrant",
				"error", err,
			)
			errs = append(errs, err)
		}
	}

	// 关闭数据库连接
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("Failed to close database connection",
				"error", err,
			)
			errs = append(errs, err)
		}
	}

	a.logger.Info("recipechat backend application stopped")
	return errors.Join(errs...)
}
