package chat

import "fmt"

// 回退文本
const (
	noRefineContext   = "No relevant recipe context found."
	noRetrievedRecipe = "No relevant recipe found. Please provide ingredients or steps."
	noToolContext     = "No relevant recipe found. Please try another query."
	noResponse        = "No response generated."
)

// refinePrompt 改写用户问题的提示词
func refinePrompt(recipeContext, query string) string {
	return fmt.Sprintf("Given the following recipe content:\n\n"+
		"%s\n\n"+
		"Rewrite the following user query to be clearer and more specific for information retrieval, "+
		"while ensuring it stays relevant to the given recipe details:\n\n"+
		"User Query: %s\n\n", recipeContext, query)
}

// answerPrompt generate 节点的系统提示词
func answerPrompt(recipeContext string) string {
	return "You are a knowledgeable culinary assistant with access to the following recipe context. " +
		"Answer user questions accurately based on the retrieved recipe details. " +
		"You can provide information on ingredients, instructions, cooking techniques, substitutions, " +
		"nutritional details, storage tips, and variations. " +
		"If the user asks for modifications (e.g., making it vegan, gluten-free, or low-calorie), provide relevant suggestions. " +
		"If you don't have an exact match, suggest a similar alternative or say that you don't know. " +
		"Be concise if possible, no more than 100 words." +
		"\n\n" + recipeContext
}
