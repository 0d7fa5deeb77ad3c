package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/recipechat/backend/internal/domain/recipe"
)

// RecipeRepository 菜谱记录 SQLite 仓储
type RecipeRepository struct {
	db *sql.DB
}

var _ recipe.RecipeRepository = (*RecipeRepository)(nil)

// NewRecipeRepository 创建菜谱记录仓储
func NewRecipeRepository(db *sql.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// Save 保存记录，同一 URL 覆盖旧记录但保留首次创建时间
func (r *RecipeRepository) Save(rec *recipe.RecipeRecord) error {
	fieldErrors, err := json.Marshal(rec.FieldErrors)
	if err != nil {
		return fmt.Errorf("failed to marshal field errors: %w", err)
	}

	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	query := `
	INSERT INTO recipes (
		source_url, recipe_json, equipment_json, prep_json, nutrition_json,
		field_errors, chunk_count, content_tokens, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(source_url) DO UPDATE SET
		recipe_json = excluded.recipe_json,
		equipment_json = excluded.equipment_json,
		prep_json = excluded.prep_json,
		nutrition_json = excluded.nutrition_json,
		field_errors = excluded.field_errors,
		chunk_count = excluded.chunk_count,
		content_tokens = excluded.content_tokens,
		updated_at = excluded.updated_at`

	_, err = r.db.Exec(query,
		rec.SourceURL,
		nullableJSON(rec.Recipe),
		nullableJSON(rec.Equipment),
		nullableJSON(rec.Prep),
		nullableJSON(rec.Nutrition),
		string(fieldErrors),
		rec.ChunkCount,
		rec.ContentTokens,
		rec.CreatedAt.UnixMilli(),
		rec.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save recipe record: %w", err)
	}
	return nil
}

// GetByURL 按 URL 查询，不存在时返回 recipe.ErrRecordNotFound
func (r *RecipeRepository) GetByURL(sourceURL string) (*recipe.RecipeRecord, error) {
	query := `
	SELECT source_url, recipe_json, equipment_json, prep_json, nutrition_json,
		field_errors, chunk_count, content_tokens, created_at, updated_at
	FROM recipes WHERE source_url = ?`

	rec, err := scanRecord(r.db.QueryRow(query, sourceURL))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, recipe.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe record: %w", err)
	}
	return rec, nil
}

// List 按更新时间倒序分页查询
func (r *RecipeRepository) List(limit, offset int) ([]*recipe.RecipeRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT source_url, recipe_json, equipment_json, prep_json, nutrition_json,
		field_errors, chunk_count, content_tokens, created_at, updated_at
	FROM recipes ORDER BY updated_at DESC LIMIT ? OFFSET ?`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*recipe.RecipeRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteAll 删除全部记录
func (r *RecipeRepository) DeleteAll() error {
	if _, err := r.db.Exec(`DELETE FROM recipes`); err != nil {
		return fmt.Errorf("failed to delete recipe records: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*recipe.RecipeRecord, error) {
	var (
		rec                             recipe.RecipeRecord
		recipeJSON, equipJSON, prepJSON sql.NullString
		nutritionJSON                   sql.NullString
		fieldErrors                     string
		createdAt, updatedAt            int64
	)
	err := row.Scan(
		&rec.SourceURL,
		&recipeJSON, &equipJSON, &prepJSON, &nutritionJSON,
		&fieldErrors,
		&rec.ChunkCount,
		&rec.ContentTokens,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Recipe = rawJSON(recipeJSON)
	rec.Equipment = rawJSON(equipJSON)
	rec.Prep = rawJSON(prepJSON)
	rec.Nutrition = rawJSON(nutritionJSON)
	if err := json.Unmarshal([]byte(fieldErrors), &rec.FieldErrors); err != nil {
		return nil, fmt.Errorf("failed to unmarshal field errors: %w", err)
	}
	rec.CreatedAt = time.UnixMilli(createdAt)
	rec.UpdatedAt = time.UnixMilli(updatedAt)
	return &rec, nil
}

func nullableJSON(raw json.RawMessage) sql.NullString {
	if len(raw) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(raw), Valid: true}
}

func rawJSON(s sql.NullString) json.RawMessage {
	if !s.Valid {
		return nil
	}
	return json.RawMessage(s.String)
}
