//go:build integration
// +build integration

// 测试框架的全局设置和清理
package framework

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

// EnvServerBinary 指定已构建的服务二进制，设置后跳过编译
const EnvServerBinary = "RECIPECHAT_SERVER_BIN"

var (
	// BinaryPath 服务二进制路径
	BinaryPath string

	// buildDir 本次编译创建的临时目录，预构建二进制时为空
	buildDir string
)

// PrepareServer 准备 recipechat-server 二进制（在 TestMain 中调用一次）
// 优先使用 RECIPECHAT_SERVER_BIN，否则在模块根目录编译 ./cmd/server
func PrepareServer() error {
	if prebuilt := os.Getenv(EnvServerBinary); prebuilt != "" {
		if _, err := os.Stat(prebuilt); err != nil {
			return fmt.Errorf("prebuilt server binary %s: %w", prebuilt, err)
		}
		BinaryPath = prebuilt
		return nil
	}

	rootDir, err := moduleRoot()
	if err != nil {
		return err
	}

	dir, err := os.MkdirTemp("", "recipechat-test-bin-")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	buildDir = dir

	binaryName := "recipechat-server"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}
	BinaryPath = filepath.Join(dir, binaryName)

	cmd := exec.Command("go", "build", "-trimpath", "-o", BinaryPath, "./cmd/server")
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to build server binary: %w", err)
	}
	return nil
}

// moduleRoot 从本文件所在目录向上查找 go.mod
func moduleRoot() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("cannot locate integration framework source")
	}

	dir := filepath.Dir(currentFile)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found above integration framework")
		}
		dir = parent
	}
}

// Cleanup 删除本次编译的二进制，预构建的二进制保留
func Cleanup() {
	if buildDir != "" {
		_ = os.RemoveAll(buildDir)
		buildDir = ""
	}
}

// RequireServerBinary 检查二进制已就绪
func RequireServerBinary(t *testing.T) {
	t.Helper()
	if BinaryPath == "" {
		t.Fatal("server binary not prepared, call PrepareServer() in TestMain first")
	}
	if _, err := os.Stat(BinaryPath); errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("server binary not found at: %s", BinaryPath)
	}
}
