package repository

import (
	"context"
	"database/sql"

	"github.com/upclick/backend/internal/model"
)

func (r *PostgresRepo) ListSettings(ctx context.Context) ([]model.AppSetting, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT key, value, description, updated_at FROM app_settings ORDER BY key ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AppSetting
	for rows.Next() {
		var s model.AppSetting
		var desc sql.NullString
		if err := rows.Scan(&s.Key, &s.Value, &desc, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if desc.Valid {
			s.Description = &desc.String
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetSetting(ctx context.Context, key string) (*model.AppSetting, error) {
	var s model.AppSetting
	var desc sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`SELECT key, value, description, updated_at FROM app_settings WHERE key = $1`, key).
		Scan(&s.Key, &s.Value, &desc, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		s.Description = &desc.String
	}
	return &s, nil
}

func (r *PostgresRepo) UpsertSetting(ctx context.Context, key, value string, description *string) error {
	var desc interface{}
	if description != nil {
		desc = *description
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO app_settings (key, value, description)
		VALUES ($1,$2,$3)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			description = COALESCE(EXCLUDED.description, app_settings.description),
			updated_at = now()
	`, key, value, desc)
	return err
}

func (r *PostgresRepo) DeleteSetting(ctx context.Context, key string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM app_settings WHERE key = $1`, key)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
