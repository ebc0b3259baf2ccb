package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// runCLI executes one command against a store dir, returning parsed JSON.
// A fresh root command per call, like a real process invocation.
func runCLI(t *testing.T, dir string, args ...string) (map[string]any, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--dir", dir}, args...))

	err := cmd.Execute()
	if err != nil {
		return nil, err
	}

	var parsed map[string]any
	if b := bytes.TrimSpace(out.Bytes()); len(b) > 0 {
		if jerr := json.Unmarshal(b, &parsed); jerr != nil {
			t.Fatalf("non-JSON output %q: %v", b, jerr)
		}
	}
	return parsed, nil
}

func dataMap(t *testing.T, res map[string]any) map[string]any {
	t.Helper()
	d, ok := res["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data object in %v", res)
	}
	return d
}

func addNode(t *testing.T, dir, title string) string {
	t.Helper()
	res, err := runCLI(t, dir, "add", "--title", title)
	if err != nil {
		t.Fatalf("add %q: %v", title, err)
	}
	id, _ := dataMap(t, res)["id"].(string)
	if id == "" {
		t.Fatalf("add returned no id: %v", res)
	}
	return id
}

func TestAddSubListFlow(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	introID := addNode(t, dir, "Intro")
	addNode(t, dir, "Body")

	res, err := runCLI(t, dir, "sub", introID, "--title", "History", "--content", "- dates")
	if err != nil {
		t.Fatalf("sub: %v", err)
	}
	if got := dataMap(t, res)["content"]; got != "• dates" {
		t.Fatalf("content = %v, want normalized bullet", got)
	}

	res, err = runCLI(t, dir, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	rows, ok := res["data"].([]any)
	if !ok || len(rows) != 3 {
		t.Fatalf("list = %v, want 3 rows", res["data"])
	}
	first := rows[0].(map[string]any)
	second := rows[1].(map[string]any)
	third := rows[2].(map[string]any)
	if first["number"] != "1" || first["title"] != "Intro" {
		t.Fatalf("row 0 = %v", first)
	}
	if second["number"] != "1.1" || second["path"] != "Intro > History" {
		t.Fatalf("row 1 = %v", second)
	}
	if third["number"] != "2" || third["title"] != "Body" {
		t.Fatalf("row 2 = %v", third)
	}
}

func TestShowUnknownNode(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	if _, err := runCLI(t, dir, "show", "node-missing"); err == nil {
		t.Fatalf("expected error for unknown node")
	}
}

func TestLockBlocksEditAndDelete(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	id := addNode(t, dir, "Frozen")
	if _, err := runCLI(t, dir, "lock", id); err != nil {
		t.Fatalf("lock: %v", err)
	}

	if _, err := runCLI(t, dir, "edit", id, "--title", "Changed"); err == nil {
		t.Fatalf("edit of locked node succeeded")
	}
	if _, err := runCLI(t, dir, "delete", id); err == nil {
		t.Fatalf("delete of locked node succeeded")
	}

	if _, err := runCLI(t, dir, "unlock", id); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	res, err := runCLI(t, dir, "edit", id, "--title", "Changed")
	if err != nil {
		t.Fatalf("edit after unlock: %v", err)
	}
	if got := dataMap(t, res)["title"]; got != "Changed" {
		t.Fatalf("title = %v", got)
	}
}

func TestMoveSwapsAndBoundaryNoop(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	aID := addNode(t, dir, "A")
	bID := addNode(t, dir, "B")

	res, err := runCLI(t, dir, "move", bID, "up")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved := dataMap(t, res)["moved"]; moved != true {
		t.Fatalf("moved = %v, want true", moved)
	}

	res, err = runCLI(t, dir, "move", bID, "up")
	if err != nil {
		t.Fatalf("boundary move: %v", err)
	}
	if moved := dataMap(t, res)["moved"]; moved != false {
		t.Fatalf("boundary moved = %v, want false", moved)
	}

	res, err = runCLI(t, dir, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	rows := res["data"].([]any)
	if rows[0].(map[string]any)["id"] != bID || rows[1].(map[string]any)["id"] != aID {
		t.Fatalf("order after move = %v", rows)
	}
}

func TestMoveToReparents(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	aID := addNode(t, dir, "A")
	bID := addNode(t, dir, "B")

	res, err := runCLI(t, dir, "sub", aID, "--title", "A1")
	if err != nil {
		t.Fatalf("sub: %v", err)
	}
	a1ID, _ := dataMap(t, res)["id"].(string)

	res, err = runCLI(t, dir, "move", a1ID, "--to", bID)
	if err != nil {
		t.Fatalf("move --to: %v", err)
	}
	if got := dataMap(t, res)["parentId"]; got != bID {
		t.Fatalf("parentId = %v, want %v", got, bID)
	}

	res, err = runCLI(t, dir, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	rows := res["data"].([]any)
	if len(rows) != 3 {
		t.Fatalf("rows = %v", rows)
	}
	last := rows[2].(map[string]any)
	if last["number"] != "2.1" || last["path"] != "B > A1" {
		t.Fatalf("reparented row = %v", last)
	}

	// Cycle attempt comes back as an error and leaves the tree alone.
	if _, err := runCLI(t, dir, "move", bID, "--to", a1ID); err == nil {
		t.Fatalf("reparent under own subtree succeeded")
	}

	res, err = runCLI(t, dir, "move", a1ID, "--to", "root")
	if err != nil {
		t.Fatalf("move --to root: %v", err)
	}
	if got := dataMap(t, res)["parentId"]; got != nil {
		t.Fatalf("parentId after --to root = %v, want absent", got)
	}
}

func TestDeleteRemovesSubtree(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	aID := addNode(t, dir, "A")
	if _, err := runCLI(t, dir, "sub", aID, "--title", "A1"); err != nil {
		t.Fatalf("sub: %v", err)
	}
	addNode(t, dir, "B")

	res, err := runCLI(t, dir, "delete", aID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	removed, ok := dataMap(t, res)["removed"].([]any)
	if !ok || len(removed) != 2 {
		t.Fatalf("removed = %v, want 2 ids", res)
	}

	res, err = runCLI(t, dir, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	rows := res["data"].([]any)
	if len(rows) != 1 || rows[0].(map[string]any)["title"] != "B" {
		t.Fatalf("surviving rows = %v", rows)
	}
}

func TestExportCommandWritesDocument(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	id := addNode(t, dir, "Intro")
	missing := filepath.Join(t.TempDir(), "gone.png")
	if _, err := runCLI(t, dir, "edit", id, "--image", missing); err != nil {
		t.Fatalf("edit: %v", err)
	}

	out := filepath.Join(t.TempDir(), "doc.html")
	res, err := runCLI(t, dir, "export", "--to", out)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	d := dataMap(t, res)
	if d["path"] != out {
		t.Fatalf("path = %v, want %v", d["path"], out)
	}
	warnings, _ := d["warnings"].([]any)
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want one for the missing image", d["warnings"])
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("document missing: %v", err)
	}
}

func TestSaveLoadRoundTripViaCLI(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	introID := addNode(t, dir, "Intro")
	if _, err := runCLI(t, dir, "sub", introID, "--title", "History"); err != nil {
		t.Fatalf("sub: %v", err)
	}

	outlinePath := filepath.Join(t.TempDir(), "outline.yaml")
	if _, err := runCLI(t, dir, "save", outlinePath); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Load into a fresh workspace and compare the flattened view.
	dir2 := t.TempDir()
	res, err := runCLI(t, dir2, "load", outlinePath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if n := dataMap(t, res)["nodes"]; n != float64(2) {
		t.Fatalf("loaded nodes = %v, want 2", n)
	}

	res, err = runCLI(t, dir2, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	rows := res["data"].([]any)
	if len(rows) != 2 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0].(map[string]any)["id"] != introID {
		t.Fatalf("ids not preserved across save/load: %v", rows[0])
	}
	if rows[1].(map[string]any)["number"] != "1.1" {
		t.Fatalf("structure not preserved: %v", rows[1])
	}
}

func TestEventsRecordMutations(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	id := addNode(t, dir, "Intro")
	if _, err := runCLI(t, dir, "lock", id); err != nil {
		t.Fatalf("lock: %v", err)
	}

	res, err := runCLI(t, dir, "events")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	evs, ok := res["data"].([]any)
	if !ok || len(evs) != 2 {
		t.Fatalf("events = %v, want 2", res["data"])
	}
	if evs[0].(map[string]any)["type"] != "node.add" {
		t.Fatalf("first event = %v", evs[0])
	}
	if evs[1].(map[string]any)["type"] != "node.lock" {
		t.Fatalf("second event = %v", evs[1])
	}
}

func TestBackupRestoreViaCLI(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	addNode(t, dir, "Keep")

	res, err := runCLI(t, dir, "backup")
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if n := dataMap(t, res)["nodes"]; n != float64(1) {
		t.Fatalf("backup nodes = %v", n)
	}

	res, err = runCLI(t, dir, "backup", "restore")
	if err != nil {
		t.Fatalf("backup restore: %v", err)
	}
	if n := dataMap(t, res)["nodes"]; n != float64(1) {
		t.Fatalf("restored nodes = %v", n)
	}
}

func TestWorkspaceUseAndList(t *testing.T) {
	t.Setenv("ACCORDION_CONFIG_DIR", t.TempDir())

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"workspace", "use", "research"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("workspace use: %v", err)
	}

	cmd = NewRootCmd()
	out.Reset()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"workspace", "list"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("workspace list: %v", err)
	}

	var res map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(out.Bytes()), &res); err != nil {
		t.Fatalf("parse: %v", err)
	}
	d := dataMap(t, res)
	if d["current"] != "research" {
		t.Fatalf("current = %v", d["current"])
	}
	names, _ := d["workspaces"].([]any)
	if len(names) != 1 || names[0] != "research" {
		t.Fatalf("workspaces = %v", names)
	}
}

func TestEmptyTitleRejected(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	if _, err := runCLI(t, dir, "add", "--title", "   "); err == nil {
		t.Fatalf("blank title accepted")
	}
}
