// Package placement resolves a category to a folder of the bookmark tree and puts the resource there.
package placement

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"
	"github.com/go-pkgz/lgr"

	"github.com/umputun/bookmarker/pkg/domain"
)

// ErrPlacement wraps any bookmark store failure during placement
var ErrPlacement = errors.New("placement failed")

// Store is the bookmark tree
type Store interface {
	Get(ctx context.Context, id string) (domain.Node, error)
	Children(ctx context.Context, parentID string) ([]domain.Node, error)
	FindByURL(ctx context.Context, url string) ([]domain.Node, error)
	Create(ctx context.Context, req domain.NodeCreate) (domain.Node, error)
	Update(ctx context.Context, id string, upd domain.NodeUpdate) (domain.Node, error)
}

// Engine places bookmarks into category folders directly under the container folder
type Engine struct {
	store       Store
	containerID string

	mu sync.Mutex // serializes placements, folder lookup and creation must not interleave

	marksMu sync.Mutex
	marks   cache.Cache[string, struct{}] // urls of bookmarks created by the engine
}

// NewEngine makes an engine with category folders under containerID.
// Bookmarks created by the engine are remembered for selfCreatedTTL.
func NewEngine(store Store, containerID string, selfCreatedTTL time.Duration) *Engine {
	if selfCreatedTTL <= 0 {
		selfCreatedTTL = 10 * time.Second
	}
	return &Engine{
		store:       store,
		containerID: containerID,
		marks:       cache.NewCache[string, struct{}]().WithTTL(selfCreatedTTL),
	}
}

// Place puts the resource into the folder named category, creating the folder if needed.
// An existing bookmark (by existingID or by url) is moved and retitled, otherwise a new one is created.
// Repeated calls with the same category and url change nothing.
func (e *Engine) Place(ctx context.Context, category, url, title, existingID string) (domain.PlacementOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	folderID, err := e.resolveFolder(ctx, category)
	if err != nil {
		return domain.PlacementOutcome{}, fmt.Errorf("%w: resolve folder %q: %w", ErrPlacement, category, err)
	}

	existing, found, err := e.findBookmark(ctx, url, existingID)
	if err != nil {
		return domain.PlacementOutcome{}, fmt.Errorf("%w: find bookmark %s: %w", ErrPlacement, url, err)
	}

	if found {
		upd := domain.NodeUpdate{}
		if existing.ParentID != folderID {
			upd.ParentID = &folderID
		}
		if title != "" && title != existing.Title {
			upd.Title = &title
		}
		if upd.ParentID != nil || upd.Title != nil {
			if _, err := e.store.Update(ctx, existing.ID, upd); err != nil {
				return domain.PlacementOutcome{}, fmt.Errorf("%w: update bookmark %s: %w", ErrPlacement, existing.ID, err)
			}
			lgr.Printf("[DEBUG] bookmark %s moved to %q (%s)", existing.ID, category, folderID)
		}
		return domain.PlacementOutcome{FolderID: folderID, BookmarkID: existing.ID, Created: false}, nil
	}

	if title == "" {
		title = url
	}
	// mark before create, the created event may arrive before Create returns
	e.mark(url)
	node, err := e.store.Create(ctx, domain.NodeCreate{ParentID: folderID, Title: title, URL: url})
	if err != nil {
		e.unmark(url)
		return domain.PlacementOutcome{}, fmt.Errorf("%w: create bookmark %s: %w", ErrPlacement, url, err)
	}
	lgr.Printf("[DEBUG] bookmark %s created in %q (%s)", node.ID, category, folderID)
	return domain.PlacementOutcome{FolderID: folderID, BookmarkID: node.ID, Created: true}, nil
}

// FolderNames returns names of folders directly under the container, in tree order
func (e *Engine) FolderNames(ctx context.Context) ([]string, error) {
	children, err := e.store.Children(ctx, e.containerID)
	if err != nil {
		return nil, fmt.Errorf("list folders of %s: %w", e.containerID, err)
	}
	res := make([]string, 0, len(children))
	for _, n := range children {
		if n.IsFolder() {
			res = append(res, n.Title)
		}
	}
	return res, nil
}

// ConsumeSelfCreated reports whether url was created by the engine within the cooldown and forgets it
func (e *Engine) ConsumeSelfCreated(url string) bool {
	e.marksMu.Lock()
	defer e.marksMu.Unlock()
	if _, ok := e.marks.Get(url); !ok {
		return false
	}
	e.marks.Invalidate(url)
	return true
}

// DeleteExpired drops expired self-created marks
func (e *Engine) DeleteExpired() {
	e.marksMu.Lock()
	defer e.marksMu.Unlock()
	e.marks.DeleteExpired()
}

// resolveFolder finds a folder with exactly matching name under the container or creates it
func (e *Engine) resolveFolder(ctx context.Context, name string) (string, error) {
	children, err := e.store.Children(ctx, e.containerID)
	if err != nil {
		return "", fmt.Errorf("list children of %s: %w", e.containerID, err)
	}
	for _, n := range children {
		if n.IsFolder() && n.Title == name {
			return n.ID, nil
		}
	}

	folder, err := e.store.Create(ctx, domain.NodeCreate{ParentID: e.containerID, Title: name})
	if err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}
	lgr.Printf("[INFO] created folder %q (%s)", name, folder.ID)
	return folder.ID, nil
}

// findBookmark looks up the bookmark by id first, then by url
func (e *Engine) findBookmark(ctx context.Context, url, existingID string) (domain.Node, bool, error) {
	if existingID != "" {
		node, err := e.store.Get(ctx, existingID)
		switch {
		case err == nil && !node.IsFolder():
			return node, true, nil
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return domain.Node{}, false, err
		}
		lgr.Printf("[DEBUG] bookmark %s is gone, looking up by url", existingID)
	}

	nodes, err := e.store.FindByURL(ctx, url)
	if err != nil {
		return domain.Node{}, false, err
	}
	if len(nodes) == 0 {
		return domain.Node{}, false, nil
	}
	return nodes[0], true, nil
}

func (e *Engine) mark(url string) {
	e.marksMu.Lock()
	defer e.marksMu.Unlock()
	e.marks.Set(url, struct{}{}, 0)
}

func (e *Engine) unmark(url string) {
	e.marksMu.Lock()
	defer e.marksMu.Unlock()
	e.marks.Invalidate(url)
}
