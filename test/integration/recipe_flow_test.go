//go:build integration
// +build integration

// 菜谱入库与问答端到端测试
// 真实启动服务进程，OpenAI 与 Tavily 由假上游替代，向量库使用内存后端

package integration

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipechat/backend/test/integration/framework"
)

const pancakeURL = "https://x/pancakes"

// pancakePage 生成约 2500 字符的页面正文，按 1000/200 切分得到多个片段
func pancakePage() string {
	var b strings.Builder
	b.WriteString("Honey Pancakes. ")
	for i := 0; i < 40; i++ {
		b.WriteString("Whisk flour eggs and milk until smooth then rest the batter. ")
	}
	return b.String()
}

func startServer(t *testing.T) (*framework.FakeUpstream, *framework.APIClient) {
	t.Helper()
	framework.RequireServerBinary(t)

	upstream := framework.NewFakeUpstream()
	t.Cleanup(upstream.Close)

	server, err := framework.NewTestServer(framework.BinaryPath, t.Name(), framework.WithUpstream(upstream))
	require.NoError(t, err)
	require.NoError(t, server.Start())
	t.Cleanup(func() { _ = server.Stop() })

	return upstream, framework.NewAPIClient(server.BaseURL())
}

func TestRecipeFlow_IngestAndChat(t *testing.T) {
	upstream, client := startServer(t)
	upstream.SetPage(pancakeURL, pancakePage())

	// 入库：设备字段提取失败，其余字段成功
	added, err := client.AddRecipe(pancakeURL)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, added.Status)
	assert.Equal(t, pancakeURL, added.Body.URL)
	assert.Equal(t, "Honey Pancakes", added.Body.Data["recipe"].(map[string]any)["name"])
	assert.Contains(t, added.Body.Data["equipment_json"].(map[string]any), "error")
	assert.Contains(t, added.Body.Data, "prep_json")
	assert.Contains(t, added.Body.Data, "nutrition_json")

	// 片段按索引返回
	docs, err := client.GetDocuments(pancakeURL)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, docs.Status)
	assert.GreaterOrEqual(t, len(docs.Body.Data), 3)
	assert.True(t, strings.HasPrefix(docs.Body.Data[0], "Honey Pancakes."))

	// 重复入库不产生重复片段
	_, err = client.AddRecipe(pancakeURL)
	require.NoError(t, err)
	again, err := client.GetDocuments(pancakeURL)
	require.NoError(t, err)
	assert.Len(t, again.Body.Data, len(docs.Body.Data))

	// 提取记录已持久化
	record, err := client.GetRecipe(pancakeURL)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, record.Status)
	assert.Equal(t, float64(len(docs.Body.Data)), record.Body.Data["chunk_count"])

	// 问答走检索路径
	reply, err := client.Chat(pancakeURL, "can I use honey?")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, reply.Status)
	assert.Equal(t, "Use honey instead of sugar.", reply.Body.Response)
}

func TestRecipeFlow_DeleteCollection(t *testing.T) {
	upstream, client := startServer(t)
	upstream.SetPage(pancakeURL, pancakePage())

	_, err := client.AddRecipe(pancakeURL)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		deleted, err := client.DeleteCollection()
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, deleted.Status)
		assert.Equal(t, "deleted collection", deleted.Body.Response)
	}

	docs, err := client.GetDocuments(pancakeURL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, docs.Status)
	assert.Empty(t, docs.Body.Data)
}

func TestRecipeFlow_Errors(t *testing.T) {
	_, client := startServer(t)

	// 页面抓取失败
	added, err := client.AddRecipe("https://x/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, added.Status)
	assert.Equal(t, "FETCH_ERROR", added.Body.Code)

	// 缺少参数
	reply, err := client.Chat("", "hello")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, reply.Status)
	assert.Equal(t, "INVALID_ARGUMENT", reply.Body.Code)

	// 未入库的记录
	record, err := client.GetRecipe("https://x/unknown")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, record.Status)
	assert.Equal(t, "NOT_FOUND", record.Body.Code)
}
