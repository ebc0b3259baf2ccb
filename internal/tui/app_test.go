package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"accordion-cli/internal/model"
	"accordion-cli/internal/outline"
	"accordion-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModel(t *testing.T) appModel {
	t.Helper()
	s := store.Store{Dir: t.TempDir()}
	db := &store.DB{Version: 1, NextIDs: map[string]int{}, Nodes: []model.Node{}}
	if _, err := outline.AddTitle(db, "Intro", "- point", "", time.Now().UTC()); err != nil {
		t.Fatalf("AddTitle: %v", err)
	}
	if _, err := outline.AddTitle(db, "Body", "", "", time.Now().UTC()); err != nil {
		t.Fatalf("AddTitle: %v", err)
	}
	return newAppModel(s, db)
}

func TestRowItemLine(t *testing.T) {
	t.Parallel()

	it := rowItem{row: outline.Row{Number: "1.2", Title: "History", Depth: 1, Locked: true}}
	line := it.line()
	want := "  1.2  History  🔒"
	if line != want {
		t.Fatalf("line = %q, want %q", line, want)
	}
}

func TestAppModelListsRows(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	if got := len(m.rows.Items()); got != 2 {
		t.Fatalf("items = %d, want 2", got)
	}
	r, ok := m.selectedRow()
	if !ok || r.Title != "Intro" {
		t.Fatalf("selected = (%+v, %v)", r, ok)
	}
}

func TestAppModelDeleteConfirmFlow(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)

	next, _ := m.Update(keyMsg('d'))
	m = next.(appModel)
	if m.mode != modeConfirmDelete {
		t.Fatalf("mode = %v, want confirm", m.mode)
	}

	// Cancelling keeps the document intact.
	next, _ = m.Update(keyMsg('n'))
	m = next.(appModel)
	if m.mode != modeList || len(m.db.Nodes) != 2 {
		t.Fatalf("cancel changed state: mode=%v nodes=%d", m.mode, len(m.db.Nodes))
	}

	next, _ = m.Update(keyMsg('d'))
	m = next.(appModel)
	next, _ = m.Update(keyMsg('y'))
	m = next.(appModel)
	if len(m.db.Nodes) != 1 {
		t.Fatalf("delete left %d nodes, want 1", len(m.db.Nodes))
	}
	if got := len(m.rows.Items()); got != 1 {
		t.Fatalf("list not refreshed: %d items", got)
	}
}

func TestAppModelMoveKeepsSelection(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	r, _ := m.selectedRow()
	introID := r.ID

	next, _ := m.Update(keyMsg('J'))
	m = next.(appModel)

	r, ok := m.selectedRow()
	if !ok || r.ID != introID {
		t.Fatalf("selection lost after move: %+v", r)
	}
	if r.Number != "2" {
		t.Fatalf("number = %q after move down, want 2", r.Number)
	}
}

func TestAppModelLockToggleBlocksEdit(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)

	next, _ := m.Update(keyMsg('l'))
	m = next.(appModel)
	r, _ := m.selectedRow()
	if !r.Locked {
		t.Fatalf("row not locked after toggle")
	}

	next, _ = m.Update(keyMsg('e'))
	m = next.(appModel)
	if m.mode != modeList {
		t.Fatalf("edit opened form for a locked node")
	}
	if !m.statusIsErr || m.status == "" {
		t.Fatalf("expected an error status, got %q", m.status)
	}
}

func TestExportPromptFlow(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)

	next, _ := m.Update(keyMsg('x'))
	m = next.(appModel)
	if m.mode != modeExportPrompt {
		t.Fatalf("mode = %v, want export prompt", m.mode)
	}

	// Cancelling writes nothing.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(appModel)
	if m.mode != modeList {
		t.Fatalf("esc did not close the prompt")
	}

	out := filepath.Join(t.TempDir(), "doc.html")
	next, _ = m.Update(keyMsg('x'))
	m = next.(appModel)
	m.exportInput.SetValue(out)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(appModel)

	if m.mode != modeList {
		t.Fatalf("prompt did not close after export")
	}
	if m.statusIsErr {
		t.Fatalf("export failed: %s", m.status)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("document not written: %v", err)
	}
}

func TestFormSavesNewRootNode(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)

	next, _ := m.Update(keyMsg('a'))
	m = next.(appModel)
	if m.mode != modeForm {
		t.Fatalf("mode = %v, want form", m.mode)
	}

	m.form.title.SetValue("Outro")
	m.form.content.SetValue("* last")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = next.(appModel)

	if m.mode != modeList {
		t.Fatalf("form did not close after save")
	}
	if len(m.db.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(m.db.Nodes))
	}
	n := m.db.Nodes[len(m.db.Nodes)-1]
	if n.Title != "Outro" || n.Content != "• last" {
		t.Fatalf("saved node = %+v", n)
	}
}
