package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/upclick/backend/internal/config"
)

// ErrNotFound is returned when a referenced Developer, Task or Setting does
// not exist. Handlers translate it to a 404.
var ErrNotFound = errors.New("not found")

type PostgresRepo struct {
	DB *sql.DB
}

func NewPostgresRepo(cfg *config.Config) (*PostgresRepo, error) {
	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPass, cfg.DBName)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	return &PostgresRepo{DB: db}, nil
}

func (r *PostgresRepo) Close() error {
	return r.DB.Close()
}

func (r *PostgresRepo) RunMigrations(ctx context.Context) error {
	queries := []string{
		`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
		`CREATE TABLE IF NOT EXISTS admins (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username VARCHAR(100) UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS developers (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			clickup_id BIGINT UNIQUE NOT NULL,
			username TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			initials TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			profile_picture TEXT,
			total_points INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL DEFAULT '',
			status_color TEXT NOT NULL DEFAULT '',
			priority TEXT,
			priority_color TEXT,
			url TEXT NOT NULL DEFAULT '',
			time_estimate BIGINT,
			time_spent BIGINT,
			points INTEGER,
			due_date TIMESTAMP WITH TIME ZONE,
			date_created TIMESTAMP WITH TIME ZONE NOT NULL,
			date_updated TIMESTAMP WITH TIME ZONE NOT NULL,
			date_closed TIMESTAMP WITH TIME ZONE,
			creator_id BIGINT NOT NULL DEFAULT 0,
			creator_username TEXT NOT NULL DEFAULT '',
			creator_email TEXT NOT NULL DEFAULT '',
			list_id TEXT NOT NULL DEFAULT 'unknown',
			list_name TEXT NOT NULL DEFAULT 'Unknown List',
			space_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS task_developers (
			task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			developer_id UUID NOT NULL REFERENCES developers(id) ON DELETE CASCADE,
			PRIMARY KEY (task_id, developer_id)
		);`,
		`CREATE TABLE IF NOT EXISTS task_tags (
			id BIGSERIAL PRIMARY KEY,
			task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			fg_color TEXT NOT NULL DEFAULT '',
			bg_color TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS custom_fields (
			id BIGSERIAL PRIMARY KEY,
			task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			field_id TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT '',
			value TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS time_entries (
			id UUID PRIMARY KEY,
			task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			developer_id UUID NOT NULL REFERENCES developers(id) ON DELETE CASCADE,
			hours DOUBLE PRECISION NOT NULL,
			date TIMESTAMP WITH TIME ZONE NOT NULL,
			week INTEGER NOT NULL,
			year INTEGER NOT NULL,
			description TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_time_entries_week_year ON time_entries (year, week);`,
		`CREATE TABLE IF NOT EXISTS sync_logs (
			id BIGSERIAL PRIMARY KEY,
			type TEXT NOT NULL,
			status TEXT NOT NULL,
			tasks_count INTEGER,
			error_message TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS app_settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			description TEXT,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
		);`,
	}

	for _, q := range queries {
		if _, err := r.DB.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
