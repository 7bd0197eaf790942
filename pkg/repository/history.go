package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/bookmarker/pkg/domain"
)

// HistoryRepository keeps the bounded classification history
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Add prepends entry and drops everything beyond the newest limit entries
func (r *HistoryRepository) Add(ctx context.Context, entry domain.HistoryEntry, limit int) error {
	err := withLockRetry(ctx, func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		query := `INSERT INTO history (id, timestamp, title, url, category, status)
			VALUES (:id, :timestamp, :title, :url, :category, :status)`
		if _, err := tx.NamedExecContext(ctx, query, entry); err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}

		trim := `DELETE FROM history WHERE seq NOT IN (SELECT seq FROM history ORDER BY seq DESC LIMIT ?)`
		if _, err := tx.ExecContext(ctx, trim, limit); err != nil {
			return fmt.Errorf("trim history: %w", err)
		}
		return tx.Commit()
	})
	if err != nil {
		return fmt.Errorf("add history entry: %w", err)
	}
	return nil
}

// List returns entries newest first
func (r *HistoryRepository) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	var res []domain.HistoryEntry
	query := "SELECT id, timestamp, title, url, category, status FROM history ORDER BY seq DESC"
	if err := r.db.SelectContext(ctx, &res, query); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return res, nil
}

// Clear removes all entries
func (r *HistoryRepository) Clear(ctx context.Context) error {
	err := withLockRetry(ctx, func() error {
		_, err := r.db.ExecContext(ctx, "DELETE FROM history")
		return err
	})
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
