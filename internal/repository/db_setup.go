package repository

import (
	"database/sql"
	"fmt"

	"taskline/pkg/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL UNIQUE,
    password_hash VARCHAR(255) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS personal_tasks (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    priority VARCHAR(16) NOT NULL DEFAULT 'Normal',
    date VARCHAR(32) NOT NULL,
    status VARCHAR(16) NOT NULL DEFAULT 'new',
    user_id INT NOT NULL REFERENCES users (id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS personal_tasks_user_id_idx ON personal_tasks (user_id);

CREATE TABLE IF NOT EXISTS workspaces (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    owner_id INT NOT NULL REFERENCES users (id),
    UNIQUE (name, owner_id)
);

CREATE TABLE IF NOT EXISTS memberships (
    id SERIAL PRIMARY KEY,
    workspace_id INT NOT NULL REFERENCES workspaces (id) ON DELETE CASCADE,
    user_id INT NOT NULL REFERENCES users (id),
    UNIQUE (workspace_id, user_id)
);

CREATE TABLE IF NOT EXISTS shared_tasks (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    priority VARCHAR(16) NOT NULL DEFAULT 'Normal',
    date VARCHAR(32) NOT NULL,
    status VARCHAR(16) NOT NULL DEFAULT 'new',
    created_by VARCHAR(255) NOT NULL,
    workspace_id INT NOT NULL REFERENCES workspaces (id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS shared_tasks_workspace_id_idx ON shared_tasks (workspace_id);
`

// CreateTableIfNotExists applies the schema. It is safe to run on every start.
func CreateTableIfNotExists(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	logger.SystemLogger.Info("Tables 'users', 'personal_tasks', 'workspaces', 'memberships', 'shared_tasks' are ready")
	return nil
}

// DeleteAllTable drops every table, children first.
func DeleteAllTable(db *sql.DB) error {
	query := `
    DROP TABLE IF EXISTS shared_tasks;
    DROP TABLE IF EXISTS memberships;
    DROP TABLE IF EXISTS workspaces;
    DROP TABLE IF EXISTS personal_tasks;
    DROP TABLE IF EXISTS users;
    `
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	logger.SystemLogger.Info("All tables are deleted")
	return nil
}
