package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns string
}

// Composite indexes backing the filtered task listing. Single-column
// foreign key indexes come from the model tags.
var indexes = []index{
	{"tasks", "idx_tasks_project_status", "project_id, status"},
	{"tasks", "idx_tasks_project_due_date", "project_id, due_date"},
	{"comments", "idx_comments_task_created", "task_id, created_at"},
}

// AddIndexes adds the composite indexes that are missing.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			slog.Debug("index already exists, skipping", "index", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		slog.Info("created index", "index", idx.name, "table", idx.table, "columns", idx.columns)
	}

	return nil
}
