package history_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/bookmarker/pkg/domain"
	"github.com/umputun/bookmarker/pkg/history"
	"github.com/umputun/bookmarker/pkg/history/mocks"
	"github.com/umputun/bookmarker/pkg/repository"
)

func TestRecorder_Record(t *testing.T) {
	store := &mocks.StoreMock{AddFunc: func(ctx context.Context, entry domain.HistoryEntry, limit int) error { return nil }}
	r := history.NewRecorder(store, 0)

	before := time.Now().UnixMilli()
	r.Record(context.Background(), "Go", "https://go.dev", "Programming")

	require.Len(t, store.AddCalls(), 1)
	call := store.AddCalls()[0]
	assert.Equal(t, history.DefaultLimit, call.Limit)
	assert.Equal(t, "Go", call.Entry.Title)
	assert.Equal(t, "https://go.dev", call.Entry.URL)
	assert.Equal(t, "Programming", call.Entry.Category)
	assert.Equal(t, domain.HistorySuccess, call.Entry.Status)
	assert.GreaterOrEqual(t, call.Entry.Timestamp, before)
	_, err := uuid.Parse(call.Entry.ID)
	assert.NoError(t, err)
}

func TestRecorder_RecordSwallowsErrors(t *testing.T) {
	store := &mocks.StoreMock{AddFunc: func(ctx context.Context, entry domain.HistoryEntry, limit int) error {
		return errors.New("disk full")
	}}
	r := history.NewRecorder(store, 10)
	assert.NotPanics(t, func() { r.Record(context.Background(), "t", "u", "c") })
	assert.Len(t, store.AddCalls(), 1)
}

func TestRecorder_ListAndClear(t *testing.T) {
	store := &mocks.StoreMock{
		ListFunc:  func(ctx context.Context) ([]domain.HistoryEntry, error) { return nil, nil },
		ClearFunc: func(ctx context.Context) error { return errors.New("locked") },
	}
	r := history.NewRecorder(store, 10)

	entries, err := r.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	err = r.Clear(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")
}

func TestRecorder_BoundWithRepository(t *testing.T) {
	repos, err := repository.NewRepositories(context.Background(), repository.Config{DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	defer repos.Close()

	r := history.NewRecorder(repos.History, 100)
	ctx := context.Background()
	for i := 0; i < 150; i++ {
		r.Record(ctx, fmt.Sprintf("title %d", i), fmt.Sprintf("https://example.com/%d", i), "c")
	}

	entries, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 100)
	assert.Equal(t, "title 149", entries[0].Title)
	assert.Equal(t, "title 50", entries[99].Title)
}
