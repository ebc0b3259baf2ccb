package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"accordion-cli/internal/model"
)

func TestSaveWritesBackupSnapshot(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	db := &DB{Version: 1, Nodes: []model.Node{testNode("node-a", "", "h", "A")}}
	if err := s.Save(db); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := os.Stat(filepath.Join(s.Dir, "backup.json")); err != nil {
		t.Fatalf("backup not written: %v", err)
	}

	got, savedAt, err := s.LoadBackup()
	if err != nil {
		t.Fatalf("LoadBackup: %v", err)
	}
	if savedAt.IsZero() {
		t.Fatalf("savedAt not recorded")
	}
	if len(got.Nodes) != 1 || got.Nodes[0].ID != "node-a" {
		t.Fatalf("backup nodes = %+v", got.Nodes)
	}
}

func TestRestoreBackupReplacesState(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	db := &DB{Version: 1, Nodes: []model.Node{
		testNode("node-a", "", "h", "A"),
		testNode("node-b", "", "m", "B"),
	}}
	if err := s.Save(db); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Damage the SQLite state without refreshing the snapshot.
	damaged := &DB{Version: 1, Nodes: []model.Node{}}
	if err := s.SaveSQLite(context.Background(), damaged); err != nil {
		t.Fatalf("SaveSQLite: %v", err)
	}
	if got, err := s.Load(); err != nil || len(got.Nodes) != 0 {
		t.Fatalf("precondition failed: %v %v", got, err)
	}

	restored, _, err := s.RestoreBackup()
	if err != nil {
		t.Fatalf("RestoreBackup: %v", err)
	}
	if len(restored.Nodes) != 2 {
		t.Fatalf("restored nodes = %+v", restored.Nodes)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load after restore: %v", err)
	}
	if len(got.Nodes) != 2 {
		t.Fatalf("state after restore = %+v", got.Nodes)
	}
}

func TestLoadBackupMissingFile(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	if _, _, err := s.LoadBackup(); err == nil {
		t.Fatalf("expected error when no backup exists")
	}
}
