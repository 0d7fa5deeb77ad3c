package recipe

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkID_Deterministic(t *testing.T) {
	a := ChunkID("https://example.com/pancakes", 0)
	b := ChunkID("https://example.com/pancakes", 0)
	c := ChunkID("https://example.com/pancakes", 1)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestChunkMetadata_String(t *testing.T) {
	m := ChunkMetadata{SourceURL: "https://example.com/r", ChunkIndex: 2}
	assert.Equal(t, "{source_url: https://example.com/r, chunk_index: 2}", m.String())
}

func TestSortByIndex(t *testing.T) {
	chunks := []Chunk{{ChunkIndex: 2}, {ChunkIndex: 0}, {ChunkIndex: 1}}
	SortByIndex(chunks)
	for i, c := range chunks {
		assert.Equal(t, i, c.ChunkIndex)
	}
}

func TestNewRecipeRecord(t *testing.T) {
	result := NewExtractionResult()
	result.Recipe = &Recipe{Name: "Pancakes"}
	result.Prep = &Prep{PrepInstructions: []string{"whisk"}}
	result.Nutrition = &Nutrition{Calories: 200}
	result.Errors[FieldEquipment] = &MalformedExtractionError{Field: FieldEquipment, Err: errors.New("bad json")}

	rec, err := NewRecipeRecord("https://example.com/r", result, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, rec.ChunkCount)
	assert.Contains(t, string(rec.Recipe), `"name":"Pancakes"`)
	assert.Nil(t, rec.Equipment)
	assert.Contains(t, rec.FieldErrors["equipment"], "malformed equipment extraction")
	assert.Equal(t, 3, result.Succeeded())
}

func TestField_ResponseKey(t *testing.T) {
	assert.Equal(t, "recipe", FieldRecipe.ResponseKey())
	assert.Equal(t, "equipment_json", FieldEquipment.ResponseKey())
	assert.Equal(t, "prep_json", FieldPrep.ResponseKey())
	assert.Equal(t, "nutrition_json", FieldNutrition.ResponseKey())
}
