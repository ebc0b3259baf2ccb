package model

import "time"

// Node is one title or subtitle in the accordion document.
//
// Nodes form a forest: ParentID is a non-owning back reference (nil for root
// nodes) and sibling order is the lexicographic order of Rank. The document
// itself is the flat slice held by store.DB; there is no owning child list.
type Node struct {
	ID       string  `json:"id"`
	ParentID *string `json:"parentId,omitempty"`
	Rank     string  `json:"rank,omitempty"`

	Title   string `json:"title"`
	Content string `json:"content,omitempty"`

	// ImagePath references a file on disk; the node never owns the file.
	ImagePath string `json:"imagePath,omitempty"`

	// Locked blocks edit/move/delete of this node until explicitly unlocked.
	Locked bool `json:"locked"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload"`
}
