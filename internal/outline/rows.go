package outline

import (
	"fmt"

	"accordion-cli/internal/store"
)

// Row is one line of the flattened document, in display/export order.
type Row struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Path   string `json:"path"`
	Title  string `json:"title"`
	Depth  int    `json:"depth"`
	Locked bool   `json:"locked"`
}

// PathSeparator joins titles in a row path ("Intro > History > Dates").
const PathSeparator = " > "

// Rows flattens the document depth-first with positional section numbers.
func Rows(db *store.DB) []Row {
	out := []Row{}
	for i, n := range db.Roots() {
		out = appendRows(out, db, n.ID, fmt.Sprintf("%d", i+1), "", 0)
	}
	return out
}

func appendRows(out []Row, db *store.DB, id, number, parentPath string, depth int) []Row {
	n, ok := db.FindNode(id)
	if !ok {
		return out
	}
	path := n.Title
	if parentPath != "" {
		path = parentPath + PathSeparator + n.Title
	}
	out = append(out, Row{
		ID:     n.ID,
		Number: number,
		Path:   path,
		Title:  n.Title,
		Depth:  depth,
		Locked: n.Locked,
	})
	for i, ch := range db.ChildrenOf(n.ID) {
		out = appendRows(out, db, ch.ID, fmt.Sprintf("%s.%d", number, i+1), path, depth+1)
	}
	return out
}
