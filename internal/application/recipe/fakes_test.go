package recipe

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/recipechat/backend/internal/domain/chat"
	domain "github.com/recipechat/backend/internal/domain/recipe"
)

// hashEmbedder 词袋哈希向量，相同词汇的文本相似度高
type hashEmbedder struct {
	fail  error
	calls int
}

func (e *hashEmbedder) vector(text string) []float32 {
	v := make([]float32, 32)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(strings.Trim(w, ".,:;!?")))
		v[h.Sum32()%32]++
	}
	v[0] += 0.01
	return v
}

func (e *hashEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	e.calls++
	if e.fail != nil {
		return nil, e.fail
	}
	return e.vector(text), nil
}

func (e *hashEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.fail != nil {
		return nil, e.fail
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

// fieldModel 按系统提示词判断字段组并返回预设输出
type fieldModel struct {
	mu      sync.Mutex
	replies map[domain.Field]string
	errs    map[domain.Field]error
	calls   []domain.Field
}

func (m *fieldModel) fieldOf(msgs []chat.Message) domain.Field {
	sys := msgs[0].Text()
	switch {
	case strings.Contains(sys, "structured data"):
		return domain.FieldRecipe
	case strings.Contains(sys, "kitchen equipment"):
		return domain.FieldEquipment
	case strings.Contains(sys, "preparation work"):
		return domain.FieldPrep
	default:
		return domain.FieldNutrition
	}
}

func (m *fieldModel) Invoke(_ context.Context, msgs []chat.Message) (chat.AIMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := m.fieldOf(msgs)
	m.calls = append(m.calls, f)
	if err := m.errs[f]; err != nil {
		return chat.AIMessage{}, err
	}
	return chat.AIMessage{Content: m.replies[f]}, nil
}

func (m *fieldModel) InvokeWithTools(ctx context.Context, msgs []chat.Message, _ []chat.ToolSpec) (chat.AIMessage, error) {
	return m.Invoke(ctx, msgs)
}

func validReplies() map[domain.Field]string {
	return map[domain.Field]string{
		domain.FieldRecipe: "```json\n" + `{"name":"Pancakes","cuisine":"American","category":"Breakfast","servings":4,
			"prep_time":10,"cook_time":15,"total_time":25,"difficulty":"Easy",
			"ingredients":["2 cups flour","2 eggs"],"instructions":["Mix","Fry"]}` + "\n```",
		domain.FieldEquipment: `{"equipment":["bowl","pan"],"optional_equipment":["ladle"]}`,
		domain.FieldPrep:      "```\n{\"prep_instructions\":[\"Measure flour\"]}\n```  ",
		domain.FieldNutrition: `{"calories":350,"protein":9,"carbs":50,"fat":12}`,
	}
}

// staticScraper 返回固定文本
type staticScraper struct {
	text string
	err  error
}

func (s *staticScraper) ExtractText(_ context.Context, _ string) (string, error) {
	return s.text, s.err
}

// memoryRecords 内存提取记录仓储
type memoryRecords struct {
	mu      sync.Mutex
	records map[string]*domain.RecipeRecord
	saveErr error
}

func newMemoryRecords() *memoryRecords {
	return &memoryRecords{records: make(map[string]*domain.RecipeRecord)}
}

func (r *memoryRecords) Save(rec *domain.RecipeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.records[rec.SourceURL] = rec
	return nil
}

func (r *memoryRecords) GetByURL(url string) (*domain.RecipeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[url]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return rec, nil
}

func (r *memoryRecords) List(_, _ int) ([]*domain.RecipeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.RecipeRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out, nil
}

func (r *memoryRecords) DeleteAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[string]*domain.RecipeRecord)
	return nil
}

var errUpstream = errors.New("upstream down")
