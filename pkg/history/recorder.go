// Package history records successful classifications, best-effort.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"

	"github.com/umputun/bookmarker/pkg/domain"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store

// Store persists history entries
type Store interface {
	Add(ctx context.Context, entry domain.HistoryEntry, limit int) error
	List(ctx context.Context) ([]domain.HistoryEntry, error)
	Clear(ctx context.Context) error
}

// DefaultLimit is the number of entries kept
const DefaultLimit = 100

// Recorder prepends entries to a bounded history
type Recorder struct {
	store Store
	limit int
	now   func() time.Time
}

// NewRecorder makes a recorder keeping at most limit entries
func NewRecorder(store Store, limit int) *Recorder {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Recorder{store: store, limit: limit, now: time.Now}
}

// Record adds a success entry. Store failures are logged and never returned.
func (r *Recorder) Record(ctx context.Context, title, url, category string) {
	entry := domain.HistoryEntry{
		ID:        uuid.NewString(),
		Timestamp: r.now().UnixMilli(),
		Title:     title,
		URL:       url,
		Category:  category,
		Status:    domain.HistorySuccess,
	}
	if err := r.store.Add(ctx, entry, r.limit); err != nil {
		lgr.Printf("[WARN] failed to record history for %s: %v", url, err)
	}
}

// List returns entries newest first
func (r *Recorder) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	entries, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return entries, nil
}

// Clear drops all entries
func (r *Recorder) Clear(ctx context.Context) error {
	if err := r.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
