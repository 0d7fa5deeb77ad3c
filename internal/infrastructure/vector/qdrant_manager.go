// Package vector 菜谱片段的向量存储实现（Qdrant 与内存）
package vector

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/recipechat/backend/internal/infrastructure/config"
	"github.com/recipechat/backend/internal/infrastructure/log"
)

// readyTimeout 本地 Qdrant 进程启动等待时间
const readyTimeout = 15 * time.Second

// QdrantManager Qdrant 管理器
// 配置了 BinaryPath 时在本地启动 Qdrant 进程并持久化到 dataPath，否则连接远程实例
type QdrantManager struct {
	cfg      config.QdrantConfig
	dataPath string
	mu       sync.RWMutex
	cmd      *exec.Cmd
	client   *qdrant.Client
	logger   *slog.Logger
}

// NewQdrantManager 创建 Qdrant 管理器
func NewQdrantManager(cfg *config.Config) *QdrantManager {
	return &QdrantManager{
		cfg:      cfg.Vector.Qdrant,
		dataPath: cfg.QdrantDataPath(),
		logger:   log.NewModuleLogger("vector", "qdrant_manager"),
	}
}

// IsLocal 是否由本进程托管 Qdrant
func (q *QdrantManager) IsLocal() bool {
	return q.cfg.BinaryPath != ""
}

// GetDataPath 获取数据存储路径
func (q *QdrantManager) GetDataPath() string {
	return q.dataPath
}

// Start 启动本地进程（如需要）并建立 gRPC 连接
func (q *QdrantManager) Start(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.client != nil {
		return nil
	}

	host := q.cfg.Host
	if q.IsLocal() {
		if err := q.startProcess(); err != nil {
			return err
		}
		host = "localhost"
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   q.cfg.GRPCPort,
		APIKey: q.cfg.APIKey,
		UseTLS: q.cfg.UseTLS,
	})
	if err != nil {
		q.stopProcess()
		return fmt.Errorf("failed to connect to qdrant: %w", err)
	}

	if q.IsLocal() {
		if err := waitForReady(ctx, client, readyTimeout); err != nil {
			_ = client.Close()
			q.stopProcess()
			return fmt.Errorf("qdrant failed to become ready: %w", err)
		}
	}

	q.client = client
	q.logger.Info("Qdrant connected",
		"host", host,
		"grpc_port", q.cfg.GRPCPort,
		"local", q.IsLocal(),
	)
	return nil
}

// startProcess 启动本地 Qdrant 进程
func (q *QdrantManager) startProcess() error {
	// 确保数据目录存在
	if err := os.MkdirAll(q.dataPath, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if _, err := os.Stat(q.cfg.BinaryPath); err != nil {
		return fmt.Errorf("qdrant binary not found at %s: %w", q.cfg.BinaryPath, err)
	}

	// 通过环境变量覆盖 Qdrant 默认配置
	cmd := exec.Command(q.cfg.BinaryPath)
	cmd.Env = append(os.Environ(),
		"QDRANT__STORAGE__STORAGE_PATH="+q.dataPath,
		"QDRANT__SERVICE__GRPC_PORT="+strconv.Itoa(q.cfg.GRPCPort),
		"QDRANT__SERVICE__HTTP_PORT="+strconv.Itoa(q.cfg.HTTPPort),
		"QDRANT__TELEMETRY_DISABLED=true",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start qdrant: %w", err)
	}
	q.cmd = cmd

	q.logger.Info("Qdrant process started",
		"pid", cmd.Process.Pid,
		"storage_path", q.dataPath,
	)
	return nil
}

// Stop 关闭连接并停止本地进程
func (q *QdrantManager) Stop() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.client != nil {
		if err := q.client.Close(); err != nil {
			q.logger.Warn("Failed to close qdrant client", "error", err)
		}
		q.client = nil
	}
	q.stopProcess()
	return nil
}

func (q *QdrantManager) stopProcess() {
	if q.cmd == nil || q.cmd.Process == nil {
		return
	}
	if err := q.cmd.Process.Kill(); err != nil {
		q.logger.Warn("Failed to kill qdrant process", "error", err)
	}
	_ = q.cmd.Wait()
	q.cmd = nil
}

// GetClient 获取 Qdrant 客户端，未启动时返回 nil
func (q *QdrantManager) GetClient() *qdrant.Client {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.client
}

// waitForReady 轮询 ListCollections 直到服务可用
func waitForReady(ctx context.Context, client *qdrant.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		if _, err := client.ListCollections(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for qdrant to be ready: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
