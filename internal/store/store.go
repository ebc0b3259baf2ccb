package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"accordion-cli/internal/model"
)

// DB is the in-memory document: the flat node arena plus derived indexes.
type DB struct {
	Version int            `json:"version"`
	NextIDs map[string]int `json:"nextIds,omitempty"`
	Nodes   []model.Node   `json:"nodes"`

	// Derived children index. Not persisted.
	idxBuilt            bool                    `json:"-"`
	idxChildrenByParent map[string][]model.Node `json:"-"`
}

type Store struct {
	Dir string
}

// DiscoverDir walks up from start looking for a project-local .accordion dir.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, ".accordion")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func WorkspaceDir(name string) (string, error) {
	name, err := NormalizeWorkspaceName(name)
	if err != nil {
		return "", err
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspaces", name), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) Load() (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	return s.LoadSQLite(context.Background())
}

func (s Store) Save(db *DB) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	if err := s.SaveSQLite(context.Background(), db); err != nil {
		return err
	}
	// Snapshot backup is best-effort; the SQLite state is canonical.
	_ = s.WriteBackup(db)
	return nil
}

func (s Store) NextID(db *DB, prefix string) string {
	// Random base32 ids with a collision check against the whole document.
	for i := 0; i < 10; i++ {
		id, err := newRandomID(prefix)
		if err != nil {
			break
		}
		if !idExists(db, id) {
			return id
		}
	}
	// Fallback when crypto/rand fails or keeps colliding.
	if db.NextIDs == nil {
		db.NextIDs = map[string]int{}
	}
	db.NextIDs[prefix]++
	return fmt.Sprintf("%s-%d", prefix, db.NextIDs[prefix])
}

func (db *DB) FindNode(id string) (*model.Node, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Nodes {
		if db.Nodes[i].ID == id {
			return &db.Nodes[i], true
		}
	}
	return nil, false
}

func (db *DB) ensureIndexes() {
	if db == nil || db.idxBuilt {
		return
	}
	db.idxChildrenByParent = map[string][]model.Node{}
	for _, n := range db.Nodes {
		if n.ParentID == nil {
			continue
		}
		pid := strings.TrimSpace(*n.ParentID)
		if pid == "" {
			continue
		}
		db.idxChildrenByParent[pid] = append(db.idxChildrenByParent[pid], n)
	}
	for pid := range db.idxChildrenByParent {
		xs := db.idxChildrenByParent[pid]
		SortNodesByRank(xs)
		db.idxChildrenByParent[pid] = xs
	}
	db.idxBuilt = true
}

// InvalidateIndexes marks derived indexes stale after a mutation.
func (db *DB) InvalidateIndexes() {
	if db != nil {
		db.idxBuilt = false
	}
}

// ChildrenOf returns the ordered children of a node (copies, rank order).
func (db *DB) ChildrenOf(parentID string) []model.Node {
	if db == nil {
		return nil
	}
	db.ensureIndexes()
	return db.idxChildrenByParent[strings.TrimSpace(parentID)]
}

// Roots returns the ordered root nodes (copies, rank order).
func (db *DB) Roots() []model.Node {
	if db == nil {
		return nil
	}
	out := make([]model.Node, 0)
	for _, n := range db.Nodes {
		if n.ParentID == nil || strings.TrimSpace(*n.ParentID) == "" {
			out = append(out, n)
		}
	}
	SortNodesByRank(out)
	return out
}

// Siblings returns pointers to the ordered sibling set that contains parentID's
// children (or the roots when parentID is nil).
func (db *DB) Siblings(parentID *string) []*model.Node {
	var out []*model.Node
	for i := range db.Nodes {
		n := &db.Nodes[i]
		if !SameParent(n.ParentID, parentID) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return CompareNodesByRank(*out[i], *out[j]) < 0 })
	return out
}

func SameParent(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return strings.TrimSpace(*a) == strings.TrimSpace(*b)
}

func SortNodesByRank(xs []model.Node) {
	sort.SliceStable(xs, func(i, j int) bool { return CompareNodesByRank(xs[i], xs[j]) < 0 })
}

// CompareNodesByRank orders by rank, falling back to creation time for
// rank-less rows (imported documents before ranks were assigned).
func CompareNodesByRank(a, b model.Node) int {
	ra := strings.TrimSpace(a.Rank)
	rb := strings.TrimSpace(b.Rank)
	switch {
	case ra == "" && rb == "":
		if a.CreatedAt.Before(b.CreatedAt) {
			return -1
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return 1
		}
		return 0
	case ra == "":
		return -1
	case rb == "":
		return 1
	default:
		if ra < rb {
			return -1
		}
		if ra > rb {
			return 1
		}
		return 0
	}
}

// TailRank returns a rank sorting after every sibling under parentID.
func (db *DB) TailRank(parentID *string) string {
	max := ""
	for i := range db.Nodes {
		n := &db.Nodes[i]
		if !SameParent(n.ParentID, parentID) {
			continue
		}
		r := strings.TrimSpace(n.Rank)
		if r == "" {
			continue
		}
		if max == "" || r > max {
			max = r
		}
	}
	if max == "" {
		r, err := RankInitial()
		if err != nil {
			return "h"
		}
		return r
	}
	r, err := RankAfter(max)
	if err != nil {
		return max + "0"
	}
	return r
}
