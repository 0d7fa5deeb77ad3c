package recipe

import (
	"fmt"

	domain "github.com/recipechat/backend/internal/domain/recipe"
)

// formatInstructions 输出格式约束，拼接在每个字段提示词末尾
const formatInstructions = `Respond with a single JSON object that matches the schema below and nothing else.
Do not add commentary. Use integers for numeric fields and JSON arrays for lists.

Schema:
%s`

const recipeSchema = `{
  "name": string,
  "cuisine": string,            // e.g. Italian, Indian, American
  "category": string,           // e.g. Dessert, Main Course, Appetizer
  "servings": integer,
  "prep_time": integer,         // minutes
  "cook_time": integer,         // minutes
  "total_time": integer,        // minutes
  "difficulty": string,         // Easy, Medium or Hard
  "ingredients": [string],
  "instructions": [string],
  "diet_labels": [string],      // optional, e.g. Vegan, Gluten-Free
  "author_tips": [string]       // optional
}`

const equipmentSchema = `{
  "equipment": [string],
  "optional_equipment": [string]   // optional
}`

const prepSchema = `{
  "prep_instructions": [string]
}`

const nutritionSchema = `{
  "calories": integer,
  "protein": integer,   // grams
  "carbs": integer,     // grams
  "fat": integer        // grams
}`

const recipePrompt = `You parse raw recipe pages into structured data.
Read the recipe text and identify:
1. The recipe name.
2. The cuisine.
3. The category of dish.
4. The number of servings.
5. Preparation, cooking and total time in minutes.
6. The difficulty (Easy, Medium, Hard).
7. The ingredient list. Merge duplicate ingredients by adding their quantities and normalize units where possible.
8. The cooking instructions, one step per entry.
9. Diet labels such as Vegan, Gluten-Free, Keto or Dairy-Free.
10. Any tips or suggestions the author gives.`

const equipmentPrompt = `You identify the kitchen equipment a recipe needs.
From the recipe steps, list:
1. The essential equipment (mixing bowl, whisk, oven, saucepan, measuring cups and so on).
2. Equipment that helps but is not strictly required.`

const prepPrompt = `You organize the preparation work for a recipe.
List, step by step, every task that has to be finished before cooking starts,
such as chopping, marinating, measuring or preheating.`

const nutritionPrompt = `You estimate nutrition facts for a recipe.
From the recipe, determine per serving:
1. Calories.
2. Protein.
3. Carbohydrates.
4. Fat.`

// fieldPrompt 返回字段组的系统提示词
func fieldPrompt(field domain.Field) string {
	var base, schema string
	switch field {
	case domain.FieldRecipe:
		base, schema = recipePrompt, recipeSchema
	case domain.FieldEquipment:
		base, schema = equipmentPrompt, equipmentSchema
	case domain.FieldPrep:
		base, schema = prepPrompt, prepSchema
	case domain.FieldNutrition:
		base, schema = nutritionPrompt, nutritionSchema
	}
	return base + "\n\n" + fmt.Sprintf(formatInstructions, schema)
}
