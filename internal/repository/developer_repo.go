package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/upclick/backend/internal/model"
)

// UpsertDeveloper inserts or updates a developer keyed by ClickUp assignee ID.
// Profile fields are overwritten unconditionally; ClickUp is the source of
// truth for them.
func (r *PostgresRepo) UpsertDeveloper(ctx context.Context, d *model.Developer) error {
	var picture interface{}
	if d.ProfilePicture != nil && *d.ProfilePicture != "" {
		picture = *d.ProfilePicture
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO developers (clickup_id, username, email, initials, color, profile_picture)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (clickup_id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			initials = EXCLUDED.initials,
			color = EXCLUDED.color,
			profile_picture = EXCLUDED.profile_picture,
			updated_at = now()
	`, d.ClickUpID, d.Username, d.Email, d.Initials, d.Color, picture)
	return err
}

func scanDeveloper(row interface{ Scan(...interface{}) error }) (*model.Developer, error) {
	var d model.Developer
	var picture sql.NullString
	err := row.Scan(&d.ID, &d.ClickUpID, &d.Username, &d.Email, &d.Initials,
		&d.Color, &picture, &d.TotalPoints, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if picture.Valid {
		d.ProfilePicture = &picture.String
	}
	return &d, nil
}

const developerColumns = `id, clickup_id, username, email, initials, color, profile_picture, total_points, created_at, updated_at`

func (r *PostgresRepo) GetDeveloper(ctx context.Context, id string) (*model.Developer, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+developerColumns+` FROM developers WHERE id = $1`, id)
	d, err := scanDeveloper(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return d, err
}

func (r *PostgresRepo) ListDevelopers(ctx context.Context) ([]model.Developer, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+developerColumns+` FROM developers ORDER BY total_points ASC, username ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Developer
	for rows.Next() {
		d, err := scanDeveloper(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// DeveloperIDsByClickUpIDs resolves ClickUp assignee IDs to local developer
// IDs, preserving no particular order.
func (r *PostgresRepo) DeveloperIDsByClickUpIDs(ctx context.Context, clickupIDs []int64) ([]string, error) {
	if len(clickupIDs) == 0 {
		return nil, nil
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id FROM developers WHERE clickup_id = ANY($1)`, pq.Array(clickupIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// OpenTasksForDeveloper returns the developer's currently-open assigned tasks.
func (r *PostgresRepo) OpenTasksForDeveloper(ctx context.Context, developerID string) ([]model.Task, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+taskColumns("t")+`
		FROM tasks t
		JOIN task_developers td ON td.task_id = t.id
		WHERE td.developer_id = $1 AND t.date_closed IS NULL
		ORDER BY t.date_created ASC
	`, developerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *PostgresRepo) SetDeveloperPoints(ctx context.Context, developerID string, points int) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE developers SET total_points = $2, updated_at = now() WHERE id = $1`,
		developerID, points)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeveloperWithLowestPoints is used for auto-assignment suggestions.
func (r *PostgresRepo) DeveloperWithLowestPoints(ctx context.Context) (*model.Developer, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+developerColumns+` FROM developers ORDER BY total_points ASC, username ASC LIMIT 1`)
	d, err := scanDeveloper(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return d, err
}

// ListDeveloperDetails returns all developers ordered by total points, each
// with open tasks and relation counts, for the dashboard listing.
func (r *PostgresRepo) ListDeveloperDetails(ctx context.Context) ([]model.DeveloperDetail, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+developerColumns+`,
			(SELECT COUNT(*) FROM task_developers td WHERE td.developer_id = developers.id) AS task_count,
			(SELECT COUNT(*) FROM time_entries te WHERE te.developer_id = developers.id) AS time_entry_count
		FROM developers
		ORDER BY total_points ASC, username ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DeveloperDetail
	index := map[string]int{}
	var ids []string
	for rows.Next() {
		var detail model.DeveloperDetail
		var picture sql.NullString
		if err := rows.Scan(&detail.ID, &detail.ClickUpID, &detail.Username, &detail.Email,
			&detail.Initials, &detail.Color, &picture, &detail.TotalPoints,
			&detail.CreatedAt, &detail.UpdatedAt,
			&detail.TaskCount, &detail.TimeEntryCount); err != nil {
			return nil, err
		}
		if picture.Valid {
			detail.ProfilePicture = &picture.String
		}
		index[detail.ID] = len(out)
		ids = append(ids, detail.ID)
		out = append(out, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	taskRows, err := r.DB.QueryContext(ctx, `
		SELECT td.developer_id, `+taskColumns("t")+`
		FROM tasks t
		JOIN task_developers td ON td.task_id = t.id
		WHERE t.date_closed IS NULL AND td.developer_id = ANY($1)
		ORDER BY t.date_created ASC
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer taskRows.Close()

	for taskRows.Next() {
		var devID string
		task, err := scanTaskPrefixed(taskRows, &devID)
		if err != nil {
			return nil, err
		}
		if i, ok := index[devID]; ok {
			out[i].OpenTasks = append(out[i].OpenTasks, *task)
		}
	}
	return out, taskRows.Err()
}

// GetDeveloperDetail loads one developer with all assigned tasks and logged
// time entries.
func (r *PostgresRepo) GetDeveloperDetail(ctx context.Context, id string) (*model.DeveloperDetail, error) {
	dev, err := r.GetDeveloper(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &model.DeveloperDetail{Developer: *dev}

	taskRows, err := r.DB.QueryContext(ctx, `
		SELECT `+taskColumns("t")+`
		FROM tasks t
		JOIN task_developers td ON td.task_id = t.id
		WHERE td.developer_id = $1
		ORDER BY t.date_created DESC
	`, id)
	if err != nil {
		return nil, err
	}
	defer taskRows.Close()
	detail.Tasks, err = scanTasks(taskRows)
	if err != nil {
		return nil, err
	}
	detail.TaskCount = len(detail.Tasks)

	entryRows, err := r.DB.QueryContext(ctx, `
		SELECT id, task_id, developer_id, hours, date, week, year, description, created_at
		FROM time_entries
		WHERE developer_id = $1
		ORDER BY date DESC
	`, id)
	if err != nil {
		return nil, err
	}
	defer entryRows.Close()
	for entryRows.Next() {
		var e model.TimeEntry
		var desc sql.NullString
		if err := entryRows.Scan(&e.ID, &e.TaskID, &e.DeveloperID, &e.Hours,
			&e.Date, &e.Week, &e.Year, &desc, &e.CreatedAt); err != nil {
			return nil, err
		}
		if desc.Valid {
			e.Description = &desc.String
		}
		detail.TimeEntries = append(detail.TimeEntries, e)
	}
	detail.TimeEntryCount = len(detail.TimeEntries)
	return detail, entryRows.Err()
}
