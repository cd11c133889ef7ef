package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			external_id TEXT NOT NULL UNIQUE,
			name TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			energy INTEGER DEFAULT 50,
			level INTEGER DEFAULT 1
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			difficulty INTEGER DEFAULT 1,
			status TEXT DEFAULT 'pending',
			estimated_minutes INTEGER DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			task_date DATETIME DEFAULT CURRENT_TIMESTAMP,
			parent_id INTEGER,
			is_parent INTEGER DEFAULT 0,

			FOREIGN KEY(user_id) REFERENCES users(id),
			FOREIGN KEY(parent_id) REFERENCES tasks(id) ON DELETE CASCADE
		);`,
		// Written by nothing in the core; kept for schema compatibility with
		// older deployments that stored day summaries.
		`CREATE TABLE IF NOT EXISTS analytics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			date DATETIME DEFAULT CURRENT_TIMESTAMP,
			summary TEXT,
			result TEXT,
			FOREIGN KEY(user_id) REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS projects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			color TEXT DEFAULT '#3b82f6',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(user_id) REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS board_columns (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			position INTEGER DEFAULT 0,
			color TEXT DEFAULT '#6b7280',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(project_id) REFERENCES projects(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS board_cards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			column_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			position INTEGER DEFAULT 0,
			color TEXT DEFAULT '#ffffff',
			tags TEXT,
			due_date DATETIME,
			estimated_minutes INTEGER DEFAULT 0,
			priority INTEGER DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(column_id) REFERENCES board_columns(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_users_external_id ON users(external_id);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_parent_id ON tasks(parent_id);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_task_date ON tasks(task_date);`,
		`CREATE INDEX IF NOT EXISTS idx_board_columns_project_id ON board_columns(project_id);`,
		`CREATE INDEX IF NOT EXISTS idx_board_cards_column_id ON board_cards(column_id);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
