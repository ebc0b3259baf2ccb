package outline

import (
	"strings"
	"time"

	"accordion-cli/internal/model"
	"accordion-cli/internal/store"
)

// Mutations over the node arena. Every operation validates first and only
// then touches the tree, so a returned error means the document is unchanged.

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return DirectionUp, true
	case "down":
		return DirectionDown, true
	default:
		return "", false
	}
}

// AddTitle appends a new root node.
func AddTitle(db *store.DB, title, content, imagePath string, now time.Time) (*model.Node, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errEmptyTitle()
	}
	n := model.Node{
		ID:        (store.Store{}).NextID(db, "node"),
		Rank:      db.TailRank(nil),
		Title:     title,
		Content:   NormalizeBullets(strings.TrimSpace(content)),
		ImagePath: strings.TrimSpace(imagePath),
		CreatedAt: now,
		UpdatedAt: now,
	}
	db.Nodes = append(db.Nodes, n)
	db.InvalidateIndexes()
	return &db.Nodes[len(db.Nodes)-1], nil
}

// AddSubtitle appends a new child under parentID.
func AddSubtitle(db *store.DB, parentID, title, content, imagePath string, now time.Time) (*model.Node, error) {
	parentID = strings.TrimSpace(parentID)
	parent, ok := db.FindNode(parentID)
	if !ok {
		return nil, errNodeNotFound(parentID)
	}
	if parent.Locked {
		return nil, LockedNodeError{ID: parent.ID, Title: parent.Title}
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errEmptyTitle()
	}
	pid := parent.ID
	n := model.Node{
		ID:        (store.Store{}).NextID(db, "node"),
		ParentID:  &pid,
		Rank:      db.TailRank(&pid),
		Title:     title,
		Content:   NormalizeBullets(strings.TrimSpace(content)),
		ImagePath: strings.TrimSpace(imagePath),
		CreatedAt: now,
		UpdatedAt: now,
	}
	db.Nodes = append(db.Nodes, n)
	db.InvalidateIndexes()
	return &db.Nodes[len(db.Nodes)-1], nil
}

// EditOptions replaces only the fields that are set. ClearImage detaches the
// image without replacing it.
type EditOptions struct {
	Title      *string
	Content    *string
	ImagePath  *string
	ClearImage bool
}

func Edit(db *store.DB, nodeID string, opts EditOptions, now time.Time) (*model.Node, error) {
	nodeID = strings.TrimSpace(nodeID)
	n, ok := db.FindNode(nodeID)
	if !ok {
		return nil, errNodeNotFound(nodeID)
	}
	if n.Locked {
		return nil, LockedNodeError{ID: n.ID, Title: n.Title}
	}
	if opts.Title != nil && strings.TrimSpace(*opts.Title) == "" {
		return nil, errEmptyTitle()
	}

	if opts.Title != nil {
		n.Title = strings.TrimSpace(*opts.Title)
	}
	if opts.Content != nil {
		n.Content = NormalizeBullets(strings.TrimSpace(*opts.Content))
	}
	if opts.ClearImage {
		n.ImagePath = ""
	} else if opts.ImagePath != nil {
		n.ImagePath = strings.TrimSpace(*opts.ImagePath)
	}
	n.UpdatedAt = now
	db.InvalidateIndexes()
	return n, nil
}

// Delete removes the node and its entire subtree. Only the target node's own
// lock blocks deletion; locks on descendants are irrelevant.
func Delete(db *store.DB, nodeID string) ([]string, error) {
	nodeID = strings.TrimSpace(nodeID)
	n, ok := db.FindNode(nodeID)
	if !ok {
		return nil, errNodeNotFound(nodeID)
	}
	if n.Locked {
		return nil, LockedNodeError{ID: n.ID, Title: n.Title}
	}

	removed := collectSubtreeIDs(db, n.ID)
	drop := make(map[string]bool, len(removed))
	for _, id := range removed {
		drop[id] = true
	}
	kept := db.Nodes[:0]
	for _, x := range db.Nodes {
		if !drop[x.ID] {
			kept = append(kept, x)
		}
	}
	db.Nodes = kept
	db.InvalidateIndexes()
	return removed, nil
}

// Move swaps the node's rank with its adjacent sibling. At the boundary the
// call is a no-op and returns false.
func Move(db *store.DB, nodeID string, dir Direction, now time.Time) (bool, error) {
	nodeID = strings.TrimSpace(nodeID)
	n, ok := db.FindNode(nodeID)
	if !ok {
		return false, errNodeNotFound(nodeID)
	}
	if n.Locked {
		return false, LockedNodeError{ID: n.ID, Title: n.Title}
	}

	sibs := db.Siblings(n.ParentID)
	idx := -1
	for i, s := range sibs {
		if s.ID == n.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, errNodeNotFound(nodeID)
	}

	var other *model.Node
	switch dir {
	case DirectionUp:
		if idx == 0 {
			return false, nil
		}
		other = sibs[idx-1]
	case DirectionDown:
		if idx == len(sibs)-1 {
			return false, nil
		}
		other = sibs[idx+1]
	default:
		return false, ValidationError{Field: "direction", Reason: "expected up|down"}
	}

	// Swapping rank values keeps the sibling rank multiset intact, so
	// up-then-down restores the original order exactly.
	n.Rank, other.Rank = other.Rank, n.Rank
	n.UpdatedAt = now
	other.UpdatedAt = now
	db.InvalidateIndexes()
	return true, nil
}

// Reparent moves a node together with its subtree under a new parent,
// appended after the new sibling set. An empty newParentID moves it to the
// top level. Only ParentID and Rank change; id, content and descendants ride
// along untouched.
func Reparent(db *store.DB, nodeID, newParentID string, now time.Time) (*model.Node, error) {
	nodeID = strings.TrimSpace(nodeID)
	n, ok := db.FindNode(nodeID)
	if !ok {
		return nil, errNodeNotFound(nodeID)
	}
	if n.Locked {
		return nil, LockedNodeError{ID: n.ID, Title: n.Title}
	}

	newParentID = strings.TrimSpace(newParentID)
	var pid *string
	if newParentID != "" {
		parent, ok := db.FindNode(newParentID)
		if !ok {
			return nil, errNodeNotFound(newParentID)
		}
		if parent.Locked {
			return nil, LockedNodeError{ID: parent.ID, Title: parent.Title}
		}
		// A node cannot become its own ancestor.
		for _, id := range collectSubtreeIDs(db, n.ID) {
			if id == parent.ID {
				return nil, ValidationError{Field: "parent", Reason: "cannot move a node under its own subtree"}
			}
		}
		p := parent.ID
		pid = &p
	}

	if store.SameParent(n.ParentID, pid) {
		return n, nil
	}
	n.ParentID = pid
	n.Rank = db.TailRank(pid)
	n.UpdatedAt = now
	db.InvalidateIndexes()
	return n, nil
}

// SetLocked toggles the lock flag. Locking and unlocking are always permitted
// regardless of the current lock state.
func SetLocked(db *store.DB, nodeID string, locked bool, now time.Time) (*model.Node, error) {
	nodeID = strings.TrimSpace(nodeID)
	n, ok := db.FindNode(nodeID)
	if !ok {
		return nil, errNodeNotFound(nodeID)
	}
	if n.Locked != locked {
		n.Locked = locked
		n.UpdatedAt = now
	}
	return n, nil
}

func collectSubtreeIDs(db *store.DB, rootID string) []string {
	out := []string{}
	seen := map[string]bool{}
	var walk func(id string)
	walk = func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
		for _, ch := range db.ChildrenOf(id) {
			walk(ch.ID)
		}
	}
	walk(strings.TrimSpace(rootID))
	return out
}
