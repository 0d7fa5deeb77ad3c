package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// 环境变量名
const (
	EnvConfigPath        = "RECIPECHAT_CONFIG"
	EnvHTTPPort          = "RECIPECHAT_HTTP_PORT"
	EnvDatabasePath      = "RECIPECHAT_DB_PATH"
	EnvVectorBackend     = "RECIPECHAT_VECTOR_BACKEND"
	EnvOpenAIAPIKey      = "OPENAI_API_KEY"
	EnvOpenAIBaseURL     = "OPENAI_BASE_URL"
	EnvOpenAIChatModel   = "OPENAI_CHAT_MODEL"
	EnvOpenAIEmbedModel  = "OPENAI_EMBEDDING_MODEL"
	EnvTavilyAPIKey      = "TAVILY_API_KEY"
	EnvTavilyBaseURL     = "TAVILY_BASE_URL"
	EnvQdrantHost        = "QDRANT_HOST"
	EnvQdrantGRPCPort    = "QDRANT_GRPC_PORT"
	EnvQdrantAPIKey      = "QDRANT_API_KEY"
	EnvQdrantUseTLS      = "QDRANT_USE_TLS"
	EnvQdrantCollection  = "QDRANT_COLLECTION"
	EnvQdrantBinaryPath  = "QDRANT_BINARY_PATH"
	EnvSplitterChunkSize = "RECIPECHAT_CHUNK_SIZE"
	EnvSplitterOverlap   = "RECIPECHAT_CHUNK_OVERLAP"
)

// DefaultConfigFileName 数据目录下的默认配置文件名
const DefaultConfigFileName = "config.yaml"

// ConfigPath 返回配置文件路径
// 优先读取 RECIPECHAT_CONFIG，默认 <数据目录>/config.yaml
func ConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(GetDataDir(), DefaultConfigFileName)
}

// Load 加载配置：默认值 -> YAML 文件（可选）-> 环境变量，最后校验
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// 配置文件可选
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ProvideConfig 从默认路径加载配置
func ProvideConfig() (*Config, error) {
	return Load(ConfigPath())
}

// Save 将配置写入 YAML 文件
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	// 包含 API Key，仅当前用户可读
	return os.WriteFile(path, data, 0o600)
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.HTTPPort, EnvHTTPPort)
	setString(&cfg.Database.Path, EnvDatabasePath)
	setString(&cfg.Vector.Backend, EnvVectorBackend)
	setString(&cfg.OpenAI.APIKey, EnvOpenAIAPIKey)
	setString(&cfg.OpenAI.BaseURL, EnvOpenAIBaseURL)
	setString(&cfg.OpenAI.ChatModel, EnvOpenAIChatModel)
	setString(&cfg.OpenAI.EmbeddingModel, EnvOpenAIEmbedModel)
	setString(&cfg.Tavily.APIKey, EnvTavilyAPIKey)
	setString(&cfg.Tavily.BaseURL, EnvTavilyBaseURL)
	setString(&cfg.Vector.Qdrant.Host, EnvQdrantHost)
	setString(&cfg.Vector.Qdrant.APIKey, EnvQdrantAPIKey)
	setString(&cfg.Vector.Qdrant.Collection, EnvQdrantCollection)
	setString(&cfg.Vector.Qdrant.BinaryPath, EnvQdrantBinaryPath)

	if err := setInt(&cfg.Vector.Qdrant.GRPCPort, EnvQdrantGRPCPort); err != nil {
		return err
	}
	if err := setInt(&cfg.Splitter.ChunkSize, EnvSplitterChunkSize); err != nil {
		return err
	}
	if err := setInt(&cfg.Splitter.ChunkOverlap, EnvSplitterOverlap); err != nil {
		return err
	}
	if v := os.Getenv(EnvQdrantUseTLS); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvQdrantUseTLS, err)
		}
		cfg.Vector.Qdrant.UseTLS = b
	}
	return nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setInt(dst *int, env string) error {
	v := os.Getenv(env)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", env, err)
	}
	*dst = n
	return nil
}
