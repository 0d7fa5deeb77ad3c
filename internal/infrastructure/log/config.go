package log

import (
	"os"
	"strings"
)

// 日志相关环境变量
const (
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
	EnvLogOutput = "LOG_OUTPUT"
	EnvAppEnv    = "ENV"
	EnvGinMode   = "GIN_MODE"
)

// Config 日志配置
type Config struct {
	Level     string // debug, info, warn, error
	Format    string // console, json
	Output    string // stdout, stderr, file:/path/to/log
	AddSource bool
}

// DefaultConfig 生产环境默认配置
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "console",
		Output: "stdout",
	}
}

// NewConfigFromEnv 默认配置叠加环境变量
func NewConfigFromEnv() *Config {
	return configFromLookup(os.LookupEnv)
}

// configFromLookup 未知的格式取值被忽略
// 开发模式（ENV=development 或 GIN_MODE=debug）固定为 debug 级别的控制台输出并附带源码位置
func configFromLookup(lookup func(string) (string, bool)) *Config {
	env := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := DefaultConfig()
	if level := strings.ToLower(env(EnvLogLevel)); level != "" {
		cfg.Level = level
	}
	switch format := strings.ToLower(env(EnvLogFormat)); format {
	case "console", "json":
		cfg.Format = format
	}
	if output := env(EnvLogOutput); output != "" {
		cfg.Output = output
	}

	if strings.EqualFold(env(EnvAppEnv), "development") || env(EnvGinMode) == "debug" {
		cfg.Level = "debug"
		cfg.Format = "console"
		cfg.AddSource = true
	}
	return cfg
}
