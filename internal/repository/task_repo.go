package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/upclick/backend/internal/model"
)

func taskColumns(alias string) string {
	cols := []string{
		"id", "name", "description", "status", "status_color",
		"priority", "priority_color", "url", "time_estimate", "time_spent",
		"points", "due_date", "date_created", "date_updated", "date_closed",
		"creator_id", "creator_username", "creator_email",
		"list_id", "list_name", "space_id",
	}
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTaskInto(row rowScanner, extra ...interface{}) (*model.Task, error) {
	var t model.Task
	var (
		description, priority, priorityColor sql.NullString
		timeEstimate, timeSpent              sql.NullInt64
		points                               sql.NullInt64
		dueDate, dateClosed                  sql.NullTime
	)
	dest := append([]interface{}{}, extra...)
	dest = append(dest,
		&t.ID, &t.Name, &description, &t.Status, &t.StatusColor,
		&priority, &priorityColor, &t.URL, &timeEstimate, &timeSpent,
		&points, &dueDate, &t.DateCreated, &t.DateUpdated, &dateClosed,
		&t.CreatorID, &t.CreatorUsername, &t.CreatorEmail,
		&t.ListID, &t.ListName, &t.SpaceID,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if description.Valid {
		t.Description = &description.String
	}
	if priority.Valid {
		t.Priority = &priority.String
	}
	if priorityColor.Valid {
		t.PriorityColor = &priorityColor.String
	}
	if timeEstimate.Valid {
		t.TimeEstimate = &timeEstimate.Int64
	}
	if timeSpent.Valid {
		t.TimeSpent = &timeSpent.Int64
	}
	if points.Valid {
		p := int(points.Int64)
		t.Points = &p
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	if dateClosed.Valid {
		t.DateClosed = &dateClosed.Time
	}
	return &t, nil
}

func scanTaskPrefixed(row rowScanner, prefix ...interface{}) (*model.Task, error) {
	return scanTaskInto(row, prefix...)
}

func scanTasks(rows *sql.Rows) ([]model.Task, error) {
	var out []model.Task
	for rows.Next() {
		t, err := scanTaskInto(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// UpsertTask inserts or updates a task keyed by its ClickUp ID. The creator
// snapshot, list attribution and space are stamped on create only; scalar
// fields follow the remote state on every sync.
func (r *PostgresRepo) UpsertTask(ctx context.Context, t *model.Task) error {
	var (
		description, priority, priorityColor interface{}
		timeEstimate, timeSpent, points      interface{}
		dueDate, dateClosed                  interface{}
	)
	if t.Description != nil {
		description = *t.Description
	}
	if t.Priority != nil {
		priority = *t.Priority
	}
	if t.PriorityColor != nil {
		priorityColor = *t.PriorityColor
	}
	if t.TimeEstimate != nil {
		timeEstimate = *t.TimeEstimate
	}
	if t.TimeSpent != nil {
		timeSpent = *t.TimeSpent
	}
	if t.Points != nil {
		points = *t.Points
	}
	if t.DueDate != nil {
		dueDate = *t.DueDate
	}
	if t.DateClosed != nil {
		dateClosed = *t.DateClosed
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO tasks (
			id, name, description, status, status_color,
			priority, priority_color, url, time_estimate, time_spent,
			points, due_date, date_created, date_updated, date_closed,
			creator_id, creator_username, creator_email,
			list_id, list_name, space_id
		) VALUES (
			$1,$2,$3,$4,$5,
			$6,$7,$8,$9,$10,
			$11,$12,$13,$14,$15,
			$16,$17,$18,
			$19,$20,$21
		)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			status_color = EXCLUDED.status_color,
			priority = EXCLUDED.priority,
			priority_color = EXCLUDED.priority_color,
			url = EXCLUDED.url,
			time_estimate = EXCLUDED.time_estimate,
			time_spent = EXCLUDED.time_spent,
			points = EXCLUDED.points,
			due_date = EXCLUDED.due_date,
			date_updated = EXCLUDED.date_updated,
			date_closed = EXCLUDED.date_closed,
			updated_at = now()
	`,
		t.ID, t.Name, description, t.Status, t.StatusColor,
		priority, priorityColor, t.URL, timeEstimate, timeSpent,
		points, dueDate, t.DateCreated, t.DateUpdated, dateClosed,
		t.CreatorID, t.CreatorUsername, t.CreatorEmail,
		t.ListID, t.ListName, t.SpaceID,
	)
	return err
}

// SetTaskAssignees replaces the task's assignee set with exactly the given
// developer IDs. Removals are honored.
func (r *PostgresRepo) SetTaskAssignees(ctx context.Context, taskID string, developerIDs []string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM task_developers WHERE task_id = $1`, taskID); err != nil {
		return err
	}
	for _, devID := range developerIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO task_developers (task_id, developer_id) VALUES ($1,$2)
			ON CONFLICT DO NOTHING
		`, taskID, devID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ReplaceTaskTags swaps the task's tag rows for the given set. Delete and
// insert run in one transaction so a concurrent reconciliation of the same
// task never observes a half-replaced set.
func (r *PostgresRepo) ReplaceTaskTags(ctx context.Context, taskID string, tags []model.TaskTag) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM task_tags WHERE task_id = $1`, taskID); err != nil {
		return err
	}
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO task_tags (task_id, name, fg_color, bg_color) VALUES ($1,$2,$3,$4)
		`, taskID, tag.Name, tag.FgColor, tag.BgColor); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ReplaceTaskCustomFields has the same lifecycle as ReplaceTaskTags.
func (r *PostgresRepo) ReplaceTaskCustomFields(ctx context.Context, taskID string, fields []model.CustomField) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM custom_fields WHERE task_id = $1`, taskID); err != nil {
		return err
	}
	for _, f := range fields {
		var value interface{}
		if f.Value != nil {
			value = *f.Value
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO custom_fields (task_id, field_id, name, type, value) VALUES ($1,$2,$3,$4,$5)
		`, taskID, f.FieldID, f.Name, f.Type, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// TaskFilter narrows ListTasks. Zero values mean no filtering.
type TaskFilter struct {
	Status      string
	DeveloperID string
}

func (r *PostgresRepo) ListTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	q := `SELECT ` + taskColumns("t") + ` FROM tasks t WHERE 1=1`
	args := []interface{}{}
	i := 1

	if filter.Status != "" {
		q += fmt.Sprintf(" AND t.status = $%d", i)
		args = append(args, filter.Status)
		i++
	}
	if filter.DeveloperID != "" {
		q += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM task_developers td WHERE td.task_id = t.id AND td.developer_id = $%d)", i)
		args = append(args, filter.DeveloperID)
		i++
	}
	q += " ORDER BY t.date_created DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachTaskRelations(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// attachTaskRelations loads developers, tags and custom fields for a batch of
// tasks with one query per relation.
func (r *PostgresRepo) attachTaskRelations(ctx context.Context, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	index := map[string]int{}
	ids := make([]string, len(tasks))
	for i := range tasks {
		index[tasks[i].ID] = i
		ids[i] = tasks[i].ID
	}

	devRows, err := r.DB.QueryContext(ctx, `
		SELECT td.task_id, `+developerColumnsPrefixed("d")+`
		FROM developers d
		JOIN task_developers td ON td.developer_id = d.id
		WHERE td.task_id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer devRows.Close()
	for devRows.Next() {
		var taskID string
		var d model.Developer
		var picture sql.NullString
		if err := devRows.Scan(&taskID, &d.ID, &d.ClickUpID, &d.Username, &d.Email,
			&d.Initials, &d.Color, &picture, &d.TotalPoints, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return err
		}
		if picture.Valid {
			d.ProfilePicture = &picture.String
		}
		if i, ok := index[taskID]; ok {
			tasks[i].Developers = append(tasks[i].Developers, d)
		}
	}
	if err := devRows.Err(); err != nil {
		return err
	}

	tagRows, err := r.DB.QueryContext(ctx, `
		SELECT id, task_id, name, fg_color, bg_color FROM task_tags WHERE task_id = ANY($1) ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var tag model.TaskTag
		if err := tagRows.Scan(&tag.ID, &tag.TaskID, &tag.Name, &tag.FgColor, &tag.BgColor); err != nil {
			return err
		}
		if i, ok := index[tag.TaskID]; ok {
			tasks[i].Tags = append(tasks[i].Tags, tag)
		}
	}
	if err := tagRows.Err(); err != nil {
		return err
	}

	fieldRows, err := r.DB.QueryContext(ctx, `
		SELECT id, task_id, field_id, name, type, value FROM custom_fields WHERE task_id = ANY($1) ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer fieldRows.Close()
	for fieldRows.Next() {
		var f model.CustomField
		var value sql.NullString
		if err := fieldRows.Scan(&f.ID, &f.TaskID, &f.FieldID, &f.Name, &f.Type, &value); err != nil {
			return err
		}
		if value.Valid {
			f.Value = &value.String
		}
		if i, ok := index[f.TaskID]; ok {
			tasks[i].CustomFields = append(tasks[i].CustomFields, f)
		}
	}
	return fieldRows.Err()
}

func developerColumnsPrefixed(alias string) string {
	cols := strings.Split(developerColumns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// GetTaskDetail loads a single task with all relations, including its logged
// time entries.
func (r *PostgresRepo) GetTaskDetail(ctx context.Context, id string) (*model.Task, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+taskColumns("t")+` FROM tasks t WHERE t.id = $1`, id)
	task, err := scanTaskInto(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	batch := []model.Task{*task}
	if err := r.attachTaskRelations(ctx, batch); err != nil {
		return nil, err
	}
	task = &batch[0]

	entryRows, err := r.DB.QueryContext(ctx, `
		SELECT id, task_id, developer_id, hours, date, week, year, description, created_at
		FROM time_entries WHERE task_id = $1 ORDER BY date DESC
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
		task.TimeEntries = append(task.TimeEntries, e)
	}
	return task, entryRows.Err()
}

func (r *PostgresRepo) TaskExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *PostgresRepo) GetTaskStats(ctx context.Context) (*model.TaskStats, error) {
	stats := &model.TaskStats{TasksByStatus: map[string]int{}}

	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE date_closed IS NULL),
			COUNT(*) FILTER (WHERE date_closed IS NOT NULL)
		FROM tasks
	`).Scan(&stats.TotalTasks, &stats.OpenTasks, &stats.ClosedTasks)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM tasks GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.TasksByStatus[status] = count
	}
	return stats, rows.Err()
}
