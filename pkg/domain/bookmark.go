package domain

import (
	"errors"
	"time"
)

// store errors
var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidNode = errors.New("invalid node operation")
)

// Node represents an entry of the bookmark tree, either a folder or a bookmark
type Node struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parent_id,omitempty"`
	Title     string    `json:"title"`
	URL       string    `json:"url,omitempty"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	Children  []*Node   `json:"children,omitempty"`
}

// IsFolder returns true for nodes without URL
func (n *Node) IsFolder() bool {
	return n.URL == ""
}

// NodeCreate holds fields for a new bookmark or folder
type NodeCreate struct {
	ParentID string `json:"parent_id"`
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
}

// NodeUpdate holds optional changes for an existing node, nil fields are left untouched
type NodeUpdate struct {
	Title    *string `json:"title,omitempty"`
	URL      *string `json:"url,omitempty"`
	ParentID *string `json:"parent_id,omitempty"`
}

// PlacementOutcome describes where a resource ended up
type PlacementOutcome struct {
	FolderID   string `json:"folder_id"`
	BookmarkID string `json:"bookmark_id"`
	Created    bool   `json:"created"`
}
