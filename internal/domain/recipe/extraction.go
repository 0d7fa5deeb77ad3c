package recipe

// Field 提取字段组
type Field string

// 四个提取字段组，顺序即执行顺序
const (
	FieldRecipe    Field = "recipe"
	FieldEquipment Field = "equipment"
	FieldPrep      Field = "prep"
	FieldNutrition Field = "nutrition"
)

// Fields 按执行顺序返回全部字段组
func Fields() []Field {
	return []Field{FieldRecipe, FieldEquipment, FieldPrep, FieldNutrition}
}

// ResponseKey 返回 HTTP 响应中使用的键名
func (f Field) ResponseKey() string {
	switch f {
	case FieldRecipe:
		return "recipe"
	case FieldEquipment:
		return "equipment_json"
	case FieldPrep:
		return "prep_json"
	case FieldNutrition:
		return "nutrition_json"
	default:
		return string(f)
	}
}

// Recipe 菜谱主体信息
type Recipe struct {
	Name         string   `json:"name" validate:"required"`
	Cuisine      string   `json:"cuisine" validate:"required"`
	Category     string   `json:"category" validate:"required"`
	Servings     int      `json:"servings" validate:"gte=0"`
	PrepTime     int      `json:"prep_time" validate:"gte=0"`  // 分钟
	CookTime     int      `json:"cook_time" validate:"gte=0"`  // 分钟
	TotalTime    int      `json:"total_time" validate:"gte=0"` // 分钟
	Difficulty   string   `json:"difficulty" validate:"required"`
	Ingredients  []string `json:"ingredients" validate:"required"`
	Instructions []string `json:"instructions" validate:"required"`
	DietLabels   []string `json:"diet_labels"`
	AuthorTips   []string `json:"author_tips"`
}

// Equipment 所需厨具
type Equipment struct {
	Equipment         []string `json:"equipment" validate:"required"`
	OptionalEquipment []string `json:"optional_equipment,omitempty"`
}

// Prep 备料步骤
type Prep struct {
	PrepInstructions []string `json:"prep_instructions" validate:"required"`
}

// Nutrition 每份营养信息
type Nutrition struct {
	Calories int `json:"calories" validate:"gte=0"`
	Protein  int `json:"protein" validate:"gte=0"`
	Carbs    int `json:"carbs" validate:"gte=0"`
	Fat      int `json:"fat" validate:"gte=0"`
}

// ExtractionResult 四个字段组的提取结果
// 每个字段独立成功或失败，失败信息记录在 Errors 中
type ExtractionResult struct {
	Recipe    *Recipe
	Equipment *Equipment
	Prep      *Prep
	Nutrition *Nutrition
	Errors    map[Field]error
}

// NewExtractionResult 创建空结果
func NewExtractionResult() *ExtractionResult {
	return &ExtractionResult{Errors: make(map[Field]error)}
}

// Value 返回字段的提取值（失败时为 nil）
func (r *ExtractionResult) Value(field Field) any {
	switch field {
	case FieldRecipe:
		if r.Recipe != nil {
			return r.Recipe
		}
	case FieldEquipment:
		if r.Equipment != nil {
			return r.Equipment
		}
	case FieldPrep:
		if r.Prep != nil {
			return r.Prep
		}
	case FieldNutrition:
		if r.Nutrition != nil {
			return r.Nutrition
		}
	}
	return nil
}

// Err 返回字段的错误
func (r *ExtractionResult) Err(field Field) error {
	return r.Errors[field]
}

// Succeeded 成功字段数
func (r *ExtractionResult) Succeeded() int {
	n := 0
	for _, f := range Fields() {
		if r.Value(f) != nil {
			n++
		}
	}
	return n
}
