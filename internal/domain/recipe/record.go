package recipe

import (
	"encoding/json"
	"time"
)

// RecipeRecord 一次成功入库后持久化的提取记录
type RecipeRecord struct {
	SourceURL     string            `json:"source_url"`
	Recipe        json.RawMessage   `json:"recipe,omitempty"`
	Equipment     json.RawMessage   `json:"equipment,omitempty"`
	Prep          json.RawMessage   `json:"prep,omitempty"`
	Nutrition     json.RawMessage   `json:"nutrition,omitempty"`
	FieldErrors   map[string]string `json:"field_errors,omitempty"` // 字段名 -> 错误信息
	ChunkCount    int               `json:"chunk_count"`
	ContentTokens int               `json:"content_tokens"` // 清洗后正文的 token 估算
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// NewRecipeRecord 从提取结果构造记录
func NewRecipeRecord(sourceURL string, result *ExtractionResult, chunkCount int) (*RecipeRecord, error) {
	rec := &RecipeRecord{
		SourceURL:   sourceURL,
		FieldErrors: make(map[string]string),
		ChunkCount:  chunkCount,
	}
	for _, f := range Fields() {
		if err := result.Err(f); err != nil {
			rec.FieldErrors[string(f)] = err.Error()
			continue
		}
		v := result.Value(f)
		if v == nil {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		rec.setField(f, raw)
	}
	return rec, nil
}

func (r *RecipeRecord) setField(f Field, raw json.RawMessage) {
	switch f {
	case FieldRecipe:
		r.Recipe = raw
	case FieldEquipment:
		r.Equipment = raw
	case FieldPrep:
		r.Prep = raw
	case FieldNutrition:
		r.Nutrition = raw
	}
}
