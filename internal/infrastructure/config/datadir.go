package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	// EnvDataDir 数据目录环境变量名
	EnvDataDir = "RECIPECHAT_DATA_DIR"
	// DefaultDataDirName 默认数据目录名
	DefaultDataDirName = ".recipechat"
)

var (
	dataDirOnce sync.Once
	dataDirPath string
)

// GetDataDir recipechat 数据根目录，进程内只解析一次
// 数据库、配置文件和本地 Qdrant 存储都位于其下
func GetDataDir() string {
	dataDirOnce.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			home = ""
		}
		dataDirPath = resolveDataDir(os.Getenv(EnvDataDir), home)
	})
	return dataDirPath
}

// resolveDataDir override 为空时使用 <home>/.recipechat，支持 ~ 前缀
// home 未知时回退到当前目录下的 .recipechat
func resolveDataDir(override, home string) string {
	override = strings.TrimSpace(override)
	if override == "" {
		if home == "" {
			return DefaultDataDirName
		}
		return filepath.Join(home, DefaultDataDirName)
	}

	if home != "" {
		if override == "~" {
			return home
		}
		if rest, ok := strings.CutPrefix(override, "~/"); ok {
			return filepath.Join(home, rest)
		}
	}
	return filepath.Clean(override)
}

// ResetDataDir 重置数据目录缓存（仅用于测试）
func ResetDataDir() {
	dataDirOnce = sync.Once{}
	dataDirPath = ""
}
