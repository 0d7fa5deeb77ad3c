//go:build integration
// +build integration

package vector

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/recipechat/backend/internal/domain/recipe"
	"github.com/recipechat/backend/internal/infrastructure/config"
)

// liveQdrant 连接 QDRANT_HOST 指定的实例，未设置时跳过
func liveQdrant(t *testing.T) *QdrantManager {
	t.Helper()

	host := os.Getenv(config.EnvQdrantHost)
	if host == "" {
		t.Skipf("%s not set, skipping live Qdrant tests", config.EnvQdrantHost)
	}

	cfg := config.NewConfig()
	cfg.Vector.Qdrant.Host = host
	cfg.Vector.Qdrant.APIKey = os.Getenv(config.EnvQdrantAPIKey)
	if port, err := strconv.Atoi(os.Getenv(config.EnvQdrantGRPCPort)); err == nil {
		cfg.Vector.Qdrant.GRPCPort = port
	}

	manager := NewQdrantManager(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, manager.Start(ctx))
	_, err := manager.GetClient().HealthCheck(ctx)
	require.NoError(t, err, "qdrant at %s is not reachable", host)

	t.Cleanup(func() { _ = manager.Stop() })
	return manager
}

func TestQdrantStore_Properties(t *testing.T) {
	manager := liveQdrant(t)

	runStoreProperties(t, func(t *testing.T) recipe.VectorStore {
		store := NewQdrantStore(manager, "recipes_test_"+uuid.NewString())
		t.Cleanup(func() { _ = store.DeleteAll(context.Background()) })
		return store
	})
}
