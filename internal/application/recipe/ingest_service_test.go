package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/recipechat/backend/internal/domain/recipe"
	"github.com/recipechat/backend/internal/infrastructure/config"
	"github.com/recipechat/backend/internal/infrastructure/tokenizer"
	"github.com/recipechat/backend/internal/infrastructure/vector"
)

type ingestFixture struct {
	scraper  *staticScraper
	model    *fieldModel
	embedder *hashEmbedder
	store    *vector.MemoryStore
	records  *memoryRecords
	service  *IngestService
}

func newIngestFixture(t *testing.T, text string, chunkSize, overlap int) *ingestFixture {
	t.Helper()

	f := &ingestFixture{
		scraper:  &staticScraper{text: text},
		model:    &fieldModel{replies: validReplies()},
		embedder: &hashEmbedder{},
		store:    vector.NewMemoryStore(),
		records:  newMemoryRecords(),
	}
	docs, err := NewDocumentEmbedder(&config.SplitterConfig{ChunkSize: chunkSize, ChunkOverlap: overlap}, f.embedder)
	require.NoError(t, err)

	f.service = NewIngestService(f.scraper, NewExtractor(f.model), docs, f.store, f.records, tokenizer.NewEstimator())
	return f
}

// threeParagraphs 三段各约 40 字符的文本，chunk_size=50 时恰好切成三块
func threeParagraphs() string {
	return strings.Join([]string{
		"Whisk two eggs with a cup of milk today.",
		"Fold in flour and a pinch of salt gently.",
		"Fry ladles of batter in butter until gold.",
	}, "\n\n")
}

func TestIngestService_ThreeChunks(t *testing.T) {
	ctx := context.Background()
	url := "https://example.com/pancakes"
	f := newIngestFixture(t, threeParagraphs(), 50, 0)

	result, err := f.service.Ingest(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, 3, result.ChunkCount)
	assert.Equal(t, 4, result.Extraction.Succeeded())

	chunks, err := f.store.GetByURL(ctx, url)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, i, c.ChunkIndex)
		assert.Equal(t, url, c.SourceURL)
	}
	assert.Equal(t, "Whisk two eggs with a cup of milk today.", chunks[0].Text)

	rec, err := f.records.GetByURL(url)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.ChunkCount)
	assert.Greater(t, rec.ContentTokens, 0)
}

// ingredientList 150 个 15 字符的条目，共约 2.2k 字符，按 1000/200 切分得到三块
func ingredientList() string {
	var b strings.Builder
	for i := 0; i < 150; i++ {
		fmt.Fprintf(&b, "ingredient%04d ", i)
	}
	return b.String()
}

func TestIngestService_ThreeChunksWithDefaultOverlap(t *testing.T) {
	ctx := context.Background()
	url := "https://x/pie"
	f := newIngestFixture(t, ingredientList(), 1000, 200)

	result, err := f.service.Ingest(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, 3, result.ChunkCount)

	chunks, err := f.store.GetByURL(ctx, url)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, i, c.ChunkIndex)
		assert.LessOrEqual(t, len(c.Text), 1000)
		if i > 0 {
			assert.GreaterOrEqual(t, sharedOverlap(chunks[i-1].Text, c.Text), 200)
		}
	}
}

func TestIngestService_ReingestIsIdempotent(t *testing.T) {
	ctx := context.Background()
	url := "https://example.com/pancakes"
	f := newIngestFixture(t, threeParagraphs(), 50, 0)

	_, err := f.service.Ingest(ctx, url)
	require.NoError(t, err)
	_, err = f.service.Ingest(ctx, url)
	require.NoError(t, err)

	assert.Equal(t, 3, f.store.Len())
}

func TestIngestService_ShorterReingestPrunesTail(t *testing.T) {
	ctx := context.Background()
	url := "https://example.com/pancakes"
	f := newIngestFixture(t, threeParagraphs(), 50, 0)

	_, err := f.service.Ingest(ctx, url)
	require.NoError(t, err)

	f.scraper.text = "Just one short paragraph now."
	result, err := f.service.Ingest(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ChunkCount)

	chunks, err := f.store.GetByURL(ctx, url)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Just one short paragraph now.", chunks[0].Text)
}

func TestIngestService_ScrapeFailure(t *testing.T) {
	f := newIngestFixture(t, "", 50, 0)
	f.scraper.err = &domain.FetchError{URL: "u", StatusCode: 500, Err: errUpstream}

	_, err := f.service.Ingest(context.Background(), "u")
	var fetchErr *domain.FetchError
	assert.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, 0, f.store.Len())
	assert.Empty(t, f.model.calls)
}

func TestIngestService_EmbeddingFailure(t *testing.T) {
	f := newIngestFixture(t, threeParagraphs(), 50, 0)
	f.embedder.fail = &domain.EmbeddingServiceError{StatusCode: 503, Err: errUpstream}

	_, err := f.service.Ingest(context.Background(), "u")
	var embErr *domain.EmbeddingServiceError
	assert.True(t, errors.As(err, &embErr))
	assert.Equal(t, 0, f.store.Len())
}

func TestIngestService_AllExtractionFails(t *testing.T) {
	f := newIngestFixture(t, threeParagraphs(), 50, 0)
	f.model.replies = map[domain.Field]string{}

	_, err := f.service.Ingest(context.Background(), "u")
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.Equal(t, 0, f.embedder.calls)
}

func TestIngestService_RecordSaveFailureIsNotFatal(t *testing.T) {
	f := newIngestFixture(t, threeParagraphs(), 50, 0)
	f.records.saveErr = fmt.Errorf("disk full")

	result, err := f.service.Ingest(context.Background(), "u")
	require.NoError(t, err)
	assert.Equal(t, 3, result.ChunkCount)
}
