package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, ":5000", cfg.Server.HTTPPort)
	assert.Equal(t, 1000, cfg.Splitter.ChunkSize)
	assert.Equal(t, 200, cfg.Splitter.ChunkOverlap)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, "recipes", cfg.Vector.Qdrant.Collection)
	assert.Equal(t, "text-embedding-3-large", cfg.OpenAI.EmbeddingModel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.ChatModel)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  http_port: ":6000"
openai:
  chat_model: file-model
splitter:
  chunk_size: 500
  chunk_overlap: 50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv(EnvOpenAIChatModel, "env-model")
	t.Setenv(EnvOpenAIAPIKey, "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":6000", cfg.Server.HTTPPort)
	assert.Equal(t, "env-model", cfg.OpenAI.ChatModel, "环境变量优先于文件")
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, 500, cfg.Splitter.ChunkSize)
	assert.Equal(t, "recipes", cfg.Vector.Qdrant.Collection, "未配置的字段保留默认值")
}

func TestLoad_InvalidOverlap(t *testing.T) {
	t.Setenv(EnvSplitterChunkSize, "100")
	t.Setenv(EnvSplitterOverlap, "100")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_InvalidIntEnv(t *testing.T) {
	t.Setenv(EnvQdrantGRPCPort, "not-a-port")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := NewConfig()
	cfg.Vector.Backend = "chroma"
	assert.Error(t, cfg.Validate())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := NewConfig()
	cfg.Vector.Backend = VectorBackendMemory
	cfg.Retrieval.TopK = 8

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, VectorBackendMemory, loaded.Vector.Backend)
	assert.Equal(t, 8, loaded.Retrieval.TopK)
}

func TestDatabasePath_Default(t *testing.T) {
	ResetDataDir()
	t.Setenv(EnvDataDir, "/tmp/recipechat-test")
	defer ResetDataDir()

	cfg := NewConfig()
	assert.Equal(t, filepath.Join("/tmp/recipechat-test", "recipechat.db"), cfg.DatabasePath())
	assert.Equal(t, filepath.Join("/tmp/recipechat-test", "qdrant_storage"), cfg.QdrantDataPath())
}
