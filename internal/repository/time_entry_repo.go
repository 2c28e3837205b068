package repository

import (
	"context"
	"database/sql"

	"github.com/upclick/backend/internal/model"
)

func (r *PostgresRepo) CreateTimeEntry(ctx context.Context, e *model.TimeEntry) error {
	var desc interface{}
	if e.Description != nil {
		desc = *e.Description
	}
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO time_entries (id, task_id, developer_id, hours, date, week, year, description)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, e.ID, e.TaskID, e.DeveloperID, e.Hours, e.Date, e.Week, e.Year, desc).Scan(&e.CreatedAt)
}

// TimeEntriesByWeek returns all entries for one ISO (week, year) bucket with
// the developer and task name joined in, ordered by date then creation.
func (r *PostgresRepo) TimeEntriesByWeek(ctx context.Context, week, year int) ([]model.TimeEntryWithRefs, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT te.id, te.task_id, te.developer_id, te.hours, te.date, te.week, te.year,
			te.description, te.created_at,
			`+developerColumnsPrefixed("d")+`,
			t.name
		FROM time_entries te
		JOIN developers d ON d.id = te.developer_id
		JOIN tasks t ON t.id = te.task_id
		WHERE te.week = $1 AND te.year = $2
		ORDER BY te.date ASC, te.created_at ASC
	`, week, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TimeEntryWithRefs
	for rows.Next() {
		var e model.TimeEntryWithRefs
		var desc, picture sql.NullString
		if err := rows.Scan(&e.ID, &e.TaskID, &e.DeveloperID, &e.Hours, &e.Date, &e.Week, &e.Year,
			&desc, &e.CreatedAt,
			&e.Developer.ID, &e.Developer.ClickUpID, &e.Developer.Username, &e.Developer.Email,
			&e.Developer.Initials, &e.Developer.Color, &picture, &e.Developer.TotalPoints,
			&e.Developer.CreatedAt, &e.Developer.UpdatedAt,
			&e.TaskName); err != nil {
			return nil, err
		}
		if desc.Valid {
			e.Description = &desc.String
		}
		if picture.Valid {
			e.Developer.ProfilePicture = &picture.String
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
