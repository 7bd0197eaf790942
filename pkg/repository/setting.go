package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SettingRepository handles setting-related database operations
type SettingRepository struct {
	db *sqlx.DB
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *sqlx.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// GetSetting retrieves a setting value, empty string for missing keys
func (r *SettingRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.GetContext(ctx, &value, "SELECT value FROM settings WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

// GetSettings returns all stored settings
func (r *SettingRepository) GetSettings(ctx context.Context) (map[string]string, error) {
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err := r.db.SelectContext(ctx, &rows, "SELECT key, value FROM settings"); err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	res := make(map[string]string, len(rows))
	for _, row := range rows {
		res[row.Key] = row.Value
	}
	return res, nil
}

// SetSetting stores a setting value
func (r *SettingRepository) SetSetting(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	err := withLockRetry(ctx, func() error {
		_, err := r.db.ExecContext(ctx, query, key, value)
		return err
	})
	if err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

// ReplaceSettings stores values and deletes keys in a single transaction
func (r *SettingRepository) ReplaceSettings(ctx context.Context, values map[string]string, deleteKeys []string) error {
	err := withLockRetry(ctx, func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		for key, value := range values {
			query := `
				INSERT INTO settings (key, value) VALUES (?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value
			`
			if _, err := tx.ExecContext(ctx, query, key, value); err != nil {
				return fmt.Errorf("set %s: %w", key, err)
			}
		}
		for _, key := range deleteKeys {
			if _, err := tx.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", key); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}
