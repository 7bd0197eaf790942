package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/bookmarker/pkg/domain"
)

// fixed root folders
const (
	RootID           = "0"
	BookmarksBarID   = "1"
	OtherBookmarksID = "2"
)

// ErrRootNode is returned on attempts to change a fixed root folder
var ErrRootNode = fmt.Errorf("root folder can't be changed: %w", domain.ErrInvalidNode)

// BookmarkRepository keeps the bookmark tree
type BookmarkRepository struct {
	db *sqlx.DB

	mu        sync.RWMutex
	listeners []func(domain.Node)
}

type nodeRow struct {
	ID        int64         `db:"id"`
	ParentID  sql.NullInt64 `db:"parent_id"`
	Title     string        `db:"title"`
	URL       string        `db:"url"`
	Position  int           `db:"position"`
	CreatedAt int64         `db:"created_at"`
}

func (r nodeRow) toDomain() domain.Node {
	res := domain.Node{
		ID:        strconv.FormatInt(r.ID, 10),
		Title:     r.Title,
		URL:       r.URL,
		Position:  r.Position,
		CreatedAt: time.UnixMilli(r.CreatedAt),
	}
	if r.ParentID.Valid {
		res.ParentID = strconv.FormatInt(r.ParentID.Int64, 10)
	}
	return res
}

const nodeColumns = "id, parent_id, title, url, position, created_at"

// NewBookmarkRepository creates a new bookmark repository
func NewBookmarkRepository(db *sqlx.DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

// OnCreated registers fn to be called after every created node
func (r *BookmarkRepository) OnCreated(fn func(domain.Node)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Get returns a node by id, domain.ErrNotFound if missing
func (r *BookmarkRepository) Get(ctx context.Context, id string) (domain.Node, error) {
	nid, err := parseID(id)
	if err != nil {
		return domain.Node{}, err
	}
	row, err := getNode(ctx, r.db, nid)
	if err != nil {
		return domain.Node{}, err
	}
	return row.toDomain(), nil
}

// Children returns direct children of parentID ordered by position
func (r *BookmarkRepository) Children(ctx context.Context, parentID string) ([]domain.Node, error) {
	pid, err := parseID(parentID)
	if err != nil {
		return nil, err
	}
	var rows []nodeRow
	query := "SELECT " + nodeColumns + " FROM nodes WHERE parent_id = ? ORDER BY position, id"
	if err := r.db.SelectContext(ctx, &rows, query, pid); err != nil {
		return nil, fmt.Errorf("get children of %s: %w", parentID, err)
	}
	res := make([]domain.Node, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.toDomain())
	}
	return res, nil
}

// FindByURL returns bookmarks with exactly matching url, oldest first
func (r *BookmarkRepository) FindByURL(ctx context.Context, url string) ([]domain.Node, error) {
	if url == "" {
		return nil, nil
	}
	var rows []nodeRow
	query := "SELECT " + nodeColumns + " FROM nodes WHERE url = ? ORDER BY id"
	if err := r.db.SelectContext(ctx, &rows, query, url); err != nil {
		return nil, fmt.Errorf("find by url: %w", err)
	}
	res := make([]domain.Node, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.toDomain())
	}
	return res, nil
}

// Tree returns the whole tree starting from the root
func (r *BookmarkRepository) Tree(ctx context.Context) (*domain.Node, error) {
	var rows []nodeRow
	query := "SELECT " + nodeColumns + " FROM nodes ORDER BY parent_id, position, id"
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("get tree: %w", err)
	}

	nodes := make(map[string]*domain.Node, len(rows))
	for _, row := range rows {
		n := row.toDomain()
		nodes[n.ID] = &n
	}
	for _, row := range rows { // rows keep sibling order
		n := nodes[strconv.FormatInt(row.ID, 10)]
		if parent, ok := nodes[n.ParentID]; ok && n.ID != RootID {
			parent.Children = append(parent.Children, n)
		}
	}
	root, ok := nodes[RootID]
	if !ok {
		return nil, fmt.Errorf("get tree: %w", domain.ErrNotFound)
	}
	return root, nil
}

// Create adds a folder (empty url) or a bookmark at the end of parent's children and notifies listeners
func (r *BookmarkRepository) Create(ctx context.Context, req domain.NodeCreate) (domain.Node, error) {
	pid, err := parseID(req.ParentID)
	if err != nil {
		return domain.Node{}, err
	}

	var created nodeRow
	err = withLockRetry(ctx, func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		if err := ensureFolder(ctx, tx, pid); err != nil {
			return err
		}

		query := `
			INSERT INTO nodes (parent_id, title, url, position, created_at)
			VALUES (?, ?, ?, (SELECT COALESCE(MAX(position) + 1, 0) FROM nodes WHERE parent_id = ?), ?)
		`
		res, err := tx.ExecContext(ctx, query, pid, req.Title, req.URL, pid, time.Now().UnixMilli())
		if err != nil {
			return fmt.Errorf("insert node: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("get node id: %w", err)
		}
		if created, err = getNode(ctx, tx, id); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return domain.Node{}, fmt.Errorf("create node: %w", err)
	}

	node := created.toDomain()
	r.notify(node)
	return node, nil
}

// Update changes title, url or parent of a node. Moving puts the node at the end of the new parent.
func (r *BookmarkRepository) Update(ctx context.Context, id string, upd domain.NodeUpdate) (domain.Node, error) {
	nid, err := parseID(id)
	if err != nil {
		return domain.Node{}, err
	}
	if isRoot(nid) {
		return domain.Node{}, ErrRootNode
	}

	var updated nodeRow
	err = withLockRetry(ctx, func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		node, err := getNode(ctx, tx, nid)
		if err != nil {
			return err
		}

		if upd.Title != nil {
			node.Title = *upd.Title
		}
		if upd.URL != nil {
			if (node.URL == "") != (*upd.URL == "") {
				return fmt.Errorf("node %s can't change between folder and bookmark: %w", id, domain.ErrInvalidNode)
			}
			node.URL = *upd.URL
		}
		if upd.ParentID != nil {
			pid, err := parseID(*upd.ParentID)
			if err != nil {
				return err
			}
			if !node.ParentID.Valid || node.ParentID.Int64 != pid {
				if err := ensureFolder(ctx, tx, pid); err != nil {
					return err
				}
				if err := ensureNotDescendant(ctx, tx, nid, pid); err != nil {
					return err
				}
				var pos int
				if err := tx.GetContext(ctx, &pos, "SELECT COALESCE(MAX(position) + 1, 0) FROM nodes WHERE parent_id = ?", pid); err != nil {
					return fmt.Errorf("get position: %w", err)
				}
				node.ParentID = sql.NullInt64{Int64: pid, Valid: true}
				node.Position = pos
			}
		}

		query := "UPDATE nodes SET parent_id = ?, title = ?, url = ?, position = ? WHERE id = ?"
		if _, err := tx.ExecContext(ctx, query, node.ParentID, node.Title, node.URL, node.Position, nid); err != nil {
			return fmt.Errorf("update node: %w", err)
		}
		updated = node
		return tx.Commit()
	})
	if err != nil {
		return domain.Node{}, fmt.Errorf("update node %s: %w", id, err)
	}
	return updated.toDomain(), nil
}

// Remove deletes a node with its whole subtree
func (r *BookmarkRepository) Remove(ctx context.Context, id string) error {
	nid, err := parseID(id)
	if err != nil {
		return err
	}
	if isRoot(nid) {
		return ErrRootNode
	}

	err = withLockRetry(ctx, func() error {
		query := `
			WITH RECURSIVE subtree(id) AS (
				SELECT id FROM nodes WHERE id = ?
				UNION ALL
				SELECT n.id FROM nodes n JOIN subtree s ON n.parent_id = s.id
			)
			DELETE FROM nodes WHERE id IN (SELECT id FROM subtree)
		`
		res, err := r.db.ExecContext(ctx, query, nid)
		if err != nil {
			return fmt.Errorf("delete subtree: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove node %s: %w", id, err)
	}
	return nil
}

func (r *BookmarkRepository) notify(n domain.Node) {
	r.mu.RLock()
	listeners := make([]func(domain.Node), len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.RUnlock()
	for _, fn := range listeners {
		fn(n)
	}
}

func getNode(ctx context.Context, q sqlx.QueryerContext, id int64) (nodeRow, error) {
	var row nodeRow
	err := sqlx.GetContext(ctx, q, &row, "SELECT "+nodeColumns+" FROM nodes WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nodeRow{}, fmt.Errorf("node %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nodeRow{}, fmt.Errorf("get node %d: %w", id, err)
	}
	return row, nil
}

// ensureFolder checks id exists and has no url
func ensureFolder(ctx context.Context, q sqlx.QueryerContext, id int64) error {
	node, err := getNode(ctx, q, id)
	if err != nil {
		return fmt.Errorf("parent: %w", err)
	}
	if node.URL != "" {
		return fmt.Errorf("parent %d is not a folder: %w", id, domain.ErrInvalidNode)
	}
	return nil
}

// ensureNotDescendant rejects moving a node under itself or its own subtree
func ensureNotDescendant(ctx context.Context, q sqlx.QueryerContext, nodeID, newParentID int64) error {
	var count int
	query := `
		WITH RECURSIVE subtree(id) AS (
			SELECT id FROM nodes WHERE id = ?
			UNION ALL
			SELECT n.id FROM nodes n JOIN subtree s ON n.parent_id = s.id
		)
		SELECT COUNT(*) FROM subtree WHERE id = ?
	`
	if err := sqlx.GetContext(ctx, q, &count, query, nodeID, newParentID); err != nil {
		return fmt.Errorf("check subtree: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("can't move node %d into its own subtree: %w", nodeID, domain.ErrInvalidNode)
	}
	return nil
}

func parseID(id string) (int64, error) {
	nid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid node id %q: %w", id, domain.ErrNotFound)
	}
	return nid, nil
}

func isRoot(id int64) bool {
	return id >= 0 && id <= 2
}
