package repository

import (
	"context"
	"database/sql"

	"github.com/upclick/backend/internal/model"
)

// CreateSyncLog appends one audit row. Sync logs are never updated or deleted.
func (r *PostgresRepo) CreateSyncLog(ctx context.Context, entry *model.SyncLog) error {
	var tasksCount, errorMessage interface{}
	if entry.TasksCount != nil {
		tasksCount = *entry.TasksCount
	}
	if entry.ErrorMessage != nil {
		errorMessage = *entry.ErrorMessage
	}
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO sync_logs (type, status, tasks_count, error_message)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at
	`, entry.Type, entry.Status, tasksCount, errorMessage).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *PostgresRepo) ListSyncLogs(ctx context.Context, limit int) ([]model.SyncLog, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, type, status, tasks_count, error_message, created_at
		FROM sync_logs ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SyncLog
	for rows.Next() {
		var entry model.SyncLog
		var tasksCount sql.NullInt64
		var errorMessage sql.NullString
		if err := rows.Scan(&entry.ID, &entry.Type, &entry.Status,
			&tasksCount, &errorMessage, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if tasksCount.Valid {
			n := int(tasksCount.Int64)
			entry.TasksCount = &n
		}
		if errorMessage.Valid {
			entry.ErrorMessage = &errorMessage.String
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
