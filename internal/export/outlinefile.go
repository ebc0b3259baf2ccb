package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	"accordion-cli/internal/model"
	"accordion-cli/internal/outline"
	"accordion-cli/internal/store"

	"gopkg.in/yaml.v3"
)

// Outline file format: a nested YAML document that fully reconstructs the
// store state (ids, order, content, images, lock flags).

type fileNode struct {
	ID       string     `yaml:"id,omitempty"`
	Title    string     `yaml:"title"`
	Content  string     `yaml:"content,omitempty"`
	Image    string     `yaml:"image,omitempty"`
	Locked   bool       `yaml:"locked,omitempty"`
	Children []fileNode `yaml:"children,omitempty"`
}

type fileDoc struct {
	Version int        `yaml:"version"`
	Nodes   []fileNode `yaml:"nodes"`
}

// SaveOutlineFile writes the whole document as nested YAML.
func SaveOutlineFile(db *store.DB, path string) error {
	if db == nil {
		return fmt.Errorf("missing db")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("missing output path")
	}

	doc := fileDoc{Version: 1, Nodes: fileChildren(db, "")}
	b, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func fileChildren(db *store.DB, parentID string) []fileNode {
	var src []model.Node
	if parentID == "" {
		src = db.Roots()
	} else {
		src = db.ChildrenOf(parentID)
	}
	out := make([]fileNode, 0, len(src))
	for _, n := range src {
		out = append(out, fileNode{
			ID:       n.ID,
			Title:    n.Title,
			Content:  n.Content,
			Image:    n.ImagePath,
			Locked:   n.Locked,
			Children: fileChildren(db, n.ID),
		})
	}
	return out
}

// LoadOutlineFile parses a nested YAML outline into a fresh DB. Titles must
// be non-empty and ids (when present) unique; missing ids are assigned.
func LoadOutlineFile(path string, now time.Time) (*store.DB, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc fileDoc
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse outline file: %w", err)
	}

	db := &store.DB{Version: 1, NextIDs: map[string]int{}, Nodes: []model.Node{}}
	seen := map[string]bool{}
	if err := importFileNodes(db, doc.Nodes, nil, seen, now); err != nil {
		return nil, err
	}
	return db, nil
}

func importFileNodes(db *store.DB, nodes []fileNode, parentID *string, seen map[string]bool, now time.Time) error {
	prevRank := ""
	for _, fn := range nodes {
		title := strings.TrimSpace(fn.Title)
		if title == "" {
			return outline.ValidationError{Field: "title", Reason: "must not be empty"}
		}
		id := strings.TrimSpace(fn.ID)
		if id == "" {
			id = (store.Store{}).NextID(db, "node")
		}
		if seen[id] {
			return outline.ValidationError{Field: "id", Reason: fmt.Sprintf("duplicate node id %s", id)}
		}
		seen[id] = true

		var rank string
		var err error
		if prevRank == "" {
			rank, err = store.RankInitial()
		} else {
			rank, err = store.RankAfter(prevRank)
		}
		if err != nil {
			return err
		}
		prevRank = rank

		n := model.Node{
			ID:        id,
			ParentID:  parentID,
			Rank:      rank,
			Title:     title,
			Content:   outline.NormalizeBullets(strings.TrimSpace(fn.Content)),
			ImagePath: strings.TrimSpace(fn.Image),
			Locked:    fn.Locked,
			CreatedAt: now,
			UpdatedAt: now,
		}
		db.Nodes = append(db.Nodes, n)
		db.InvalidateIndexes()

		pid := id
		if err := importFileNodes(db, fn.Children, &pid, seen, now); err != nil {
			return err
		}
	}
	return nil
}
