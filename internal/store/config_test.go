package store

import (
	"path/filepath"
	"testing"
)

func TestConfigRoundTrip(t *testing.T) {
	t.Setenv("ACCORDION_CONFIG_DIR", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig (missing file): %v", err)
	}
	if cfg.CurrentWorkspace != "" {
		t.Fatalf("fresh config = %+v", cfg)
	}

	cfg.CurrentWorkspace = "notes"
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.CurrentWorkspace != "notes" {
		t.Fatalf("CurrentWorkspace = %q", got.CurrentWorkspace)
	}
}

func TestWorkspaceDirAndList(t *testing.T) {
	root := t.TempDir()
	t.Setenv("ACCORDION_CONFIG_DIR", root)

	dir, err := WorkspaceDir("research")
	if err != nil {
		t.Fatalf("WorkspaceDir: %v", err)
	}
	want := filepath.Join(root, "workspaces", "research")
	if dir != want {
		t.Fatalf("dir = %q, want %q", dir, want)
	}

	names, err := ListWorkspaces()
	if err != nil {
		t.Fatalf("ListWorkspaces (empty): %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected no workspaces, got %v", names)
	}

	for _, name := range []string{"beta", "alpha"} {
		d, err := WorkspaceDir(name)
		if err != nil {
			t.Fatalf("WorkspaceDir(%s): %v", name, err)
		}
		if err := (Store{Dir: d}).Ensure(); err != nil {
			t.Fatalf("Ensure(%s): %v", name, err)
		}
	}

	names, err = ListWorkspaces()
	if err != nil {
		t.Fatalf("ListWorkspaces: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Fatalf("workspaces = %v, want sorted [alpha beta]", names)
	}
}

func TestNormalizeWorkspaceName(t *testing.T) {
	t.Parallel()

	if _, err := NormalizeWorkspaceName("  "); err == nil {
		t.Fatalf("blank name accepted")
	}
	name, err := NormalizeWorkspaceName(" notes ")
	if err != nil || name != "notes" {
		t.Fatalf("NormalizeWorkspaceName = (%q, %v)", name, err)
	}
}
