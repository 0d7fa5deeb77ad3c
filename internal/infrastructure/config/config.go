package config

import (
	"fmt"
	"path/filepath"
)

// 向量存储后端
const (
	VectorBackendQdrant = "qdrant"
	VectorBackendMemory = "memory"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Vector    VectorConfig    `yaml:"vector"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Tavily    TavilyConfig    `yaml:"tavily"`
	Splitter  SplitterConfig  `yaml:"splitter"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort string `yaml:"http_port"` // 固定端口，用于单例锁
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Path string `yaml:"path"` // 留空表示 <数据目录>/recipechat.db
}

// VectorConfig 向量存储配置
type VectorConfig struct {
	Backend string       `yaml:"backend"` // qdrant 或 memory
	Qdrant  QdrantConfig `yaml:"qdrant"`
}

// QdrantConfig Qdrant 连接配置
// BinaryPath 非空时在本地启动 Qdrant 进程，数据持久化到 DataPath
type QdrantConfig struct {
	Host       string `yaml:"host"`
	GRPCPort   int    `yaml:"grpc_port"`
	HTTPPort   int    `yaml:"http_port"` // 仅本地进程模式使用
	APIKey     string `yaml:"api_key"`
	UseTLS     bool   `yaml:"use_tls"`
	Collection string `yaml:"collection"`
	BinaryPath string `yaml:"binary_path"`
	DataPath   string `yaml:"data_path"`
}

// OpenAIConfig OpenAI 兼容接口配置
type OpenAIConfig struct {
	BaseURL        string  `yaml:"base_url"`
	APIKey         string  `yaml:"api_key"`
	ChatModel      string  `yaml:"chat_model"`
	EmbeddingModel string  `yaml:"embedding_model"`
	Temperature    float64 `yaml:"temperature"`
}

// TavilyConfig Tavily 抓取接口配置
type TavilyConfig struct {
	BaseURL      string `yaml:"base_url"`
	APIKey       string `yaml:"api_key"`
	ExtractDepth string `yaml:"extract_depth"`
}

// SplitterConfig 文本切分配置，长度按字符计
type SplitterConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// RetrievalConfig 检索配置
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// NewConfig 创建配置（默认值）
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: ":5000",
		},
		Database: DatabaseConfig{
			Path: "",
		},
		Vector: VectorConfig{
			Backend: VectorBackendQdrant,
			Qdrant: QdrantConfig{
				Host:       "localhost",
				GRPCPort:   6334,
				HTTPPort:   6333,
				Collection: "recipes",
			},
		},
		OpenAI: OpenAIConfig{
			BaseURL:        "https://api.openai.com/v1",
			ChatModel:      "gpt-4o-mini",
			EmbeddingModel: "text-embedding-3-large",
			Temperature:    0,
		},
		Tavily: TavilyConfig{
			BaseURL:      "https://api.tavily.com",
			ExtractDepth: "advanced",
		},
		Splitter: SplitterConfig{
			ChunkSize:    1000,
			ChunkOverlap: 200,
		},
		Retrieval: RetrievalConfig{
			TopK: 5,
		},
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Splitter.ChunkSize <= 0 {
		return fmt.Errorf("splitter chunk_size must be positive, got %d", c.Splitter.ChunkSize)
	}
	if c.Splitter.ChunkOverlap < 0 || c.Splitter.ChunkOverlap >= c.Splitter.ChunkSize {
		return fmt.Errorf("splitter chunk_overlap must be in [0, chunk_size), got %d", c.Splitter.ChunkOverlap)
	}
	switch c.Vector.Backend {
	case VectorBackendQdrant, VectorBackendMemory:
	default:
		return fmt.Errorf("unknown vector backend %q", c.Vector.Backend)
	}
	if c.Vector.Backend == VectorBackendQdrant && c.Vector.Qdrant.Collection == "" {
		return fmt.Errorf("qdrant collection name is required")
	}
	return nil
}

// DatabasePath 返回 SQLite 文件路径
func (c *Config) DatabasePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return filepath.Join(GetDataDir(), "recipechat.db")
}

// QdrantDataPath 返回本地 Qdrant 进程的存储目录
func (c *Config) QdrantDataPath() string {
	if c.Vector.Qdrant.DataPath != "" {
		return c.Vector.Qdrant.DataPath
	}
	return filepath.Join(GetDataDir(), "qdrant_storage")
}

// NewDatabaseConfig 创建数据库配置
func NewDatabaseConfig(cfg *Config) *DatabaseConfig {
	return &cfg.Database
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewVectorConfig 创建向量存储配置
func NewVectorConfig(cfg *Config) *VectorConfig {
	return &cfg.Vector
}

// NewOpenAIConfig 创建 OpenAI 配置
func NewOpenAIConfig(cfg *Config) *OpenAIConfig {
	return &cfg.OpenAI
}

// NewTavilyConfig 创建 Tavily 配置
func NewTavilyConfig(cfg *Config) *TavilyConfig {
	return &cfg.Tavily
}

// NewSplitterConfig 创建切分配置
func NewSplitterConfig(cfg *Config) *SplitterConfig {
	return &cfg.Splitter
}

// NewRetrievalConfig 创建检索配置
func NewRetrievalConfig(cfg *Config) *RetrievalConfig {
	return &cfg.Retrieval
}
