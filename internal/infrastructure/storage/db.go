// Package storage SQLite 持久化（菜谱提取记录）
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/recipechat/backend/internal/infrastructure/config"
)

// OpenDB 打开数据库连接并初始化表结构
func OpenDB(dbPath string) (*sql.DB, error) {
	// 确保目录存在
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 测试连接
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := InitDatabase(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ProvideDB 按配置打开数据库
func ProvideDB(cfg *config.Config) (*sql.DB, error) {
	return OpenDB(cfg.DatabasePath())
}

// InitDatabase 初始化表结构
func InitDatabase(db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS recipes (
		source_url TEXT PRIMARY KEY,
		recipe_json TEXT,
		equipment_json TEXT,
		prep_json TEXT,
		nutrition_json TEXT,
		field_errors TEXT NOT NULL DEFAULT '{}',
		chunk_count INTEGER NOT NULL DEFAULT 0,
		content_tokens INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);`

	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create recipes table: %w", err)
	}

	createIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_recipes_updated_at ON recipes(updated_at);`

	if _, err := db.Exec(createIndexSQL); err != nil {
		return fmt.Errorf("failed to create recipes index: %w", err)
	}

	return nil
}
