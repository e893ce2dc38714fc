package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type foreignKey struct {
	table      string
	name       string
	column     string
	references string
	onDelete   string
}

// Foreign keys are declared by id only; models carry no association fields.
var foreignKeys = []foreignKey{
	{"users", "fk_users_created_by", "created_by", "users(id)", "SET NULL"},
	{"tasks", "fk_tasks_created_by", "created_by", "users(id)", "CASCADE"},
	{"tasks", "fk_tasks_assigned_to", "assigned_to", "users(id)", "SET NULL"},
	{"task_logs", "fk_task_logs_task_id", "task_id", "tasks(id)", "CASCADE"},
	{"time_logs", "fk_time_logs_task_id", "task_id", "tasks(id)", "CASCADE"},
	{"time_logs", "fk_time_logs_user_id", "user_id", "users(id)", "CASCADE"},
}

var indexes = []struct {
	table   string
	name    string
	columns string
}{
	{"tasks", "idx_tasks_assigned_status", "assigned_to, status"},
	{"tasks", "idx_tasks_due_date", "due_date"},
	{"task_logs", "idx_task_logs_task_created", "task_id, created_at"},
	{"time_logs", "idx_time_logs_task_date", "task_id, date"},
}

// AddForeignKeys adds the ownership constraints. SQLite cannot alter
// constraints on existing tables, so it is skipped there.
func AddForeignKeys(db *gorm.DB, log *zap.Logger) error {
	if db.Dialector.Name() == "sqlite" {
		return nil
	}
	for _, fk := range foreignKeys {
		if db.Migrator().HasConstraint(fk.table, fk.name) {
			continue
		}
		sql := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s ON DELETE %s",
			fk.table, fk.name, fk.column, fk.references, fk.onDelete)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to add constraint %s: %w", fk.name, err)
		}
		log.Info("Created constraint", zap.String("name", fk.name), zap.String("table", fk.table))
	}
	return nil
}

// AddIndexes adds composite indexes used by list and summary queries
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}
		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		log.Info("Created index", zap.String("name", idx.name), zap.String("table", idx.table))
	}
	return nil
}

// MigrateDatabase runs the steps that follow AutoMigrate
func MigrateDatabase(db *gorm.DB, log *zap.Logger) error {
	if err := AddForeignKeys(db, log); err != nil {
		return fmt.Errorf("failed to add foreign keys: %w", err)
	}
	if err := AddIndexes(db, log); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	return nil
}
