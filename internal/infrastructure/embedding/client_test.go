package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipechat/backend/internal/domain/recipe"
)

func TestBuildEmbeddingURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://api.openai.com/v1", "https://api.openai.com/v1/embeddings"},
		{"https://api.openai.com", "https://api.openai.com/v1/embeddings"},
		{"http://localhost:8080/v1/embeddings", "http://localhost:8080/v1/embeddings"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, buildEmbeddingURL(tt.in))
	}
}

func TestClient_EmbedDocuments_PreservesOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req EmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-3-large", req.Model)
		require.Len(t, req.Input, 2)

		// 故意倒序返回
		_, _ = w.Write([]byte(`{"data":[
			{"index":1,"embedding":[0,1]},
			{"index":0,"embedding":[1,0]}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/v1/", "sk-test", "text-embedding-3-large")
	vectors, err := client.EmbedDocuments(context.Background(), []string{"a", "b"})
	require.NoError(t, err)

	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vectors)
}

func TestClient_EmbedQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[0.5,0.5,0.5]}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", "m")
	vec, err := client.EmbedQuery(context.Background(), "pancakes")
	require.NoError(t, err)
	assert.Len(t, vec, 3)
}

func TestClient_EmbedDocuments_Empty(t *testing.T) {
	client := NewClient("http://unused", "k", "m")
	vectors, err := client.EmbedDocuments(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestClient_ServiceError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", "m")
	_, err := client.EmbedQuery(context.Background(), "x")
	require.Error(t, err)

	var embErr *recipe.EmbeddingServiceError
	require.True(t, errors.As(err, &embErr))
	assert.Equal(t, http.StatusTooManyRequests, embErr.StatusCode)
	assert.True(t, IsEmbeddingError(err))
	assert.Equal(t, 1, calls, "不应重试")
}

func TestClient_MissingVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[1]}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", "m")
	_, err := client.EmbedDocuments(context.Background(), []string{"a", "b"})
	assert.True(t, IsEmbeddingError(err))
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "sk-1...cdef", maskKey("sk-1234567890abcdef"))
	assert.Equal(t, "***", maskKey("short"))
}
