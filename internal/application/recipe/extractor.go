package recipe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/recipechat/backend/internal/domain/chat"
	domain "github.com/recipechat/backend/internal/domain/recipe"
	"github.com/recipechat/backend/internal/infrastructure/log"
)

// fencePattern 匹配整体包裹在一个 markdown 代码块中的输出，语言标记可选
var fencePattern = regexp.MustCompile("(?s)^```[A-Za-z0-9_+-]*[ \t]*\r?\n?(.*?)\r?\n?[ \t]*```$")

// Extractor 字段提取流水线
// 四个字段组依次调用模型，各自独立成功或失败
type Extractor struct {
	model    chat.ChatModel
	validate *validator.Validate
	logger   *slog.Logger
}

// NewExtractor 创建提取器
func NewExtractor(model chat.ChatModel) *Extractor {
	return &Extractor{
		model:    model,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   log.NewModuleLogger("recipe", "extractor"),
	}
}

// Extract 对清洗后的菜谱文本执行四个字段的提取
// 全部失败时返回 domain.ErrExtractionFailed，部分失败记录在结果的 Errors 中
func (e *Extractor) Extract(ctx context.Context, text string) (*domain.ExtractionResult, error) {
	result := domain.NewExtractionResult()
	logger := log.FromContext(ctx, e.logger)

	for _, field := range domain.Fields() {
		value, err := e.extractField(ctx, field, text)
		if err != nil {
			logger.Warn("Field extraction failed", "field", field, "error", err)
			result.Errors[field] = err
			continue
		}
		assign(result, value)
	}

	if result.Succeeded() == 0 {
		errs := make([]error, 0, len(result.Errors))
		for _, f := range domain.Fields() {
			errs = append(errs, result.Errors[f])
		}
		return result, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, errors.Join(errs...))
	}

	logger.Info("Extraction completed",
		"succeeded", result.Succeeded(),
		"failed", len(result.Errors),
	)
	return result, nil
}

// extractField 单个字段组：提示词 -> 模型 -> 解码校验
func (e *Extractor) extractField(ctx context.Context, field domain.Field, text string) (any, error) {
	reply, err := e.model.Invoke(ctx, []chat.Message{
		chat.SystemMessage{Content: fieldPrompt(field)},
		chat.HumanMessage{Content: text},
	})
	if err != nil {
		return nil, &domain.MalformedExtractionError{Field: field, Err: fmt.Errorf("model call failed: %w", err)}
	}

	value, err := e.Decode(field, reply.Content)
	if err != nil {
		return nil, &domain.MalformedExtractionError{Field: field, Err: err}
	}
	return value, nil
}

// Decode 去掉代码块包裹，严格解析 JSON 并按 schema 校验
func (e *Extractor) Decode(field domain.Field, content string) (any, error) {
	target := newTarget(field)
	if target == nil {
		return nil, fmt.Errorf("unknown field %q", field)
	}

	payload := StripCodeFence(content)
	if payload == "" {
		return nil, fmt.Errorf("empty model output")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	if err := dec.Decode(target); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid JSON: trailing data after object")
	}

	if err := e.validate.Struct(target); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	return target, nil
}

// StripCodeFence 去掉包裹整个输出的一层 markdown 代码块
func StripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if m := fencePattern.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

func newTarget(field domain.Field) any {
	switch field {
	case domain.FieldRecipe:
		return &domain.Recipe{}
	case domain.FieldEquipment:
		return &domain.Equipment{}
	case domain.FieldPrep:
		return &domain.Prep{}
	case domain.FieldNutrition:
		return &domain.Nutrition{}
	default:
		return nil
	}
}

func assign(result *domain.ExtractionResult, value any) {
	switch v := value.(type) {
	case *domain.Recipe:
		result.Recipe = v
	case *domain.Equipment:
		result.Equipment = v
	case *domain.Prep:
		result.Prep = v
	case *domain.Nutrition:
		result.Nutrition = v
	}
}
