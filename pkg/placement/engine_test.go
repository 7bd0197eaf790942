package placement_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/bookmarker/pkg/domain"
	"github.com/umputun/bookmarker/pkg/placement"
	"github.com/umputun/bookmarker/pkg/repository"
)

func setupStore(t *testing.T) *repository.BookmarkRepository {
	t.Helper()
	repos, err := repository.NewRepositories(context.Background(), repository.Config{DSN: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, repos.Close()) })
	return repos.Bookmark
}

func TestEngine_PlaceCreatesFolderAndBookmark(t *testing.T) {
	store := setupStore(t)
	e := placement.NewEngine(store, repository.BookmarksBarID, time.Minute)
	ctx := context.Background()

	out, err := e.Place(ctx, "News", "https://news.example.com", "Daily News", "")
	require.NoError(t, err)
	assert.True(t, out.Created)

	folder, err := store.Get(ctx, out.FolderID)
	require.NoError(t, err)
	assert.Equal(t, "News", folder.Title)
	assert.Equal(t, repository.BookmarksBarID, folder.ParentID)

	bm, err := store.Get(ctx, out.BookmarkID)
	require.NoError(t, err)
	assert.Equal(t, out.FolderID, bm.ParentID)
	assert.Equal(t, "Daily News", bm.Title)
	assert.Equal(t, "https://news.example.com", bm.URL)
}

func TestEngine_PlaceIdempotent(t *testing.T) {
	store := setupStore(t)
	e := placement.NewEngine(store, repository.BookmarksBarID, time.Minute)
	ctx := context.Background()

	first, err := e.Place(ctx, "News", "https://a.com", "A", "")
	require.NoError(t, err)
	second, err := e.Place(ctx, "News", "https://a.com", "A", "")
	require.NoError(t, err)

	assert.Equal(t, first.FolderID, second.FolderID)
	assert.Equal(t, first.BookmarkID, second.BookmarkID)
	assert.False(t, second.Created)

	folders, err := store.Children(ctx, repository.BookmarksBarID)
	require.NoError(t, err)
	assert.Len(t, folders, 1)
	bookmarks, err := store.FindByURL(ctx, "https://a.com")
	require.NoError(t, err)
	assert.Len(t, bookmarks, 1)
}

func TestEngine_FolderReuse(t *testing.T) {
	store := setupStore(t)
	e := placement.NewEngine(store, repository.BookmarksBarID, time.Minute)
	ctx := context.Background()

	a, err := e.Place(ctx, "Tech", "https://a.com", "A", "")
	require.NoError(t, err)
	b, err := e.Place(ctx, "Tech", "https://b.com", "B", "")
	require.NoError(t, err)
	assert.Equal(t, a.FolderID, b.FolderID)

	children, err := store.Children(ctx, a.FolderID)
	require.NoError(t, err)
	assert.Len(t, children, 2)

	folders, err := store.Children(ctx, repository.BookmarksBarID)
	require.NoError(t, err)
	assert.Len(t, folders, 1)
}

func TestEngine_ConcurrentSameCategory(t *testing.T) {
	store := setupStore(t)
	e := placement.NewEngine(store, repository.BookmarksBarID, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := e.Place(ctx, "Shared", "https://example.com/"+string(rune('a'+i)), "t", "")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	names, err := e.FolderNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shared"}, names)
}

func TestEngine_CategoryMatchIsCaseSensitive(t *testing.T) {
	store := setupStore(t)
	e := placement.NewEngine(store, repository.BookmarksBarID, time.Minute)
	ctx := context.Background()

	a, err := e.Place(ctx, "news", "https://a.com", "A", "")
	require.NoError(t, err)
	b, err := e.Place(ctx, "News", "https://b.com", "B", "")
	require.NoError(t, err)
	assert.NotEqual(t, a.FolderID, b.FolderID)
}

func TestEngine_MovesExistingBookmark(t *testing.T) {
	store := setupStore(t)
	e := placement.NewEngine(store, repository.BookmarksBarID, time.Minute)
	ctx := context.Background()

	native, err := store.Create(ctx, domain.NodeCreate{ParentID: repository.OtherBookmarksID, Title: "orig", URL: "https://go.dev"})
	require.NoError(t, err)

	t.Run("by id", func(t *testing.T) {
		out, err := e.Place(ctx, "Programming", "https://go.dev", "Go", native.ID)
		require.NoError(t, err)
		assert.False(t, out.Created)
		assert.Equal(t, native.ID, out.BookmarkID)

		bm, err := store.Get(ctx, native.ID)
		require.NoError(t, err)
		assert.Equal(t, out.FolderID, bm.ParentID)
		assert.Equal(t, "Go", bm.Title)
	})

	t.Run("by url", func(t *testing.T) {
		out, err := e.Place(ctx, "Languages", "https://go.dev", "", "")
		require.NoError(t, err)
		assert.False(t, out.Created)
		assert.Equal(t, native.ID, out.BookmarkID)

		bm, err := store.Get(ctx, native.ID)
		require.NoError(t, err)
		assert.Equal(t, out.FolderID, bm.ParentID)
		assert.Equal(t, "Go", bm.Title, "empty title keeps current one")
	})

	t.Run("stale id falls back to url", func(t *testing.T) {
		out, err := e.Place(ctx, "Languages", "https://go.dev", "Go", "98765")
		require.NoError(t, err)
		assert.Equal(t, native.ID, out.BookmarkID)
	})
}

func TestEngine_SelfCreatedMarks(t *testing.T) {
	store := setupStore(t)
	e := placement.NewEngine(store, repository.BookmarksBarID, time.Minute)
	ctx := context.Background()

	var seen []bool
	store.OnCreated(func(n domain.Node) {
		if n.IsFolder() {
			return
		}
		seen = append(seen, e.ConsumeSelfCreated(n.URL)) // event fires before Create returns
	})

	_, err := e.Place(ctx, "News", "https://a.com", "A", "")
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, seen)
	assert.False(t, e.ConsumeSelfCreated("https://a.com"), "mark is consumed once")

	_, err = store.Create(ctx, domain.NodeCreate{ParentID: repository.BookmarksBarID, Title: "native", URL: "https://native.com"})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, seen)
}

func TestEngine_SelfCreatedMarkExpires(t *testing.T) {
	store := setupStore(t)
	e := placement.NewEngine(store, repository.BookmarksBarID, 50*time.Millisecond)
	ctx := context.Background()

	_, err := e.Place(ctx, "News", "https://a.com", "A", "")
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)
	e.DeleteExpired()
	assert.False(t, e.ConsumeSelfCreated("https://a.com"))
}

func TestEngine_FolderNames(t *testing.T) {
	store := setupStore(t)
	e := placement.NewEngine(store, repository.BookmarksBarID, time.Minute)
	ctx := context.Background()

	_, err := store.Create(ctx, domain.NodeCreate{ParentID: repository.BookmarksBarID, Title: "loose", URL: "https://loose.com"})
	require.NoError(t, err)
	_, err = e.Place(ctx, "B", "https://b.com", "", "")
	require.NoError(t, err)
	_, err = e.Place(ctx, "A", "https://a.com", "", "")
	require.NoError(t, err)

	names, err := e.FolderNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, names, "bookmarks skipped, tree order kept")
}

func TestEngine_PlacementFailure(t *testing.T) {
	store := setupStore(t)
	e := placement.NewEngine(store, "999", time.Minute) // missing container
	ctx := context.Background()

	_, err := e.Place(ctx, "News", "https://a.com", "A", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, placement.ErrPlacement)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, e.ConsumeSelfCreated("https://a.com"))
}
