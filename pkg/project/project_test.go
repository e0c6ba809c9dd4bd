package project

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/facetkit/pkg/cache"
	fkerrors "github.com/matzehuels/facetkit/pkg/errors"
)

func TestNew(t *testing.T) {
	root := t.TempDir()
	p, err := New(root, "")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != DefaultName {
		t.Errorf("Name = %q", p.Name)
	}
	if p.RepoPath != filepath.Join(root, DefaultRepoName) {
		t.Errorf("RepoPath = %q", p.RepoPath)
	}
	if !p.Repo.ReadOnly {
		t.Error("repository should be opened read-only")
	}
}

func TestNewInvalidRepoName(t *testing.T) {
	for _, name := range []string{"../x", "a/b", ".."} {
		_, err := New(t.TempDir(), name)
		if !fkerrors.Is(err, fkerrors.ErrCodeInvalidPath) {
			t.Errorf("New(%q) error = %v, want INVALID_PATH", name, err)
		}
	}
}

func TestExists(t *testing.T) {
	root := t.TempDir()
	p, err := New(root, ".repo")
	if err != nil {
		t.Fatal(err)
	}
	if p.Exists() {
		t.Error("Exists() = true before the directory is created")
	}
	if err := p.RequireRepo(); !errors.Is(err, ErrNoRepo) {
		t.Errorf("RequireRepo() = %v, want ErrNoRepo", err)
	}

	if err := os.Mkdir(p.RepoPath, 0755); err != nil {
		t.Fatal(err)
	}
	if !p.Exists() {
		t.Error("Exists() = false after the directory is created")
	}
	if err := p.RequireRepo(); err != nil {
		t.Errorf("RequireRepo() = %v", err)
	}

	p.Repo = nil
	if p.Exists() {
		t.Error("Exists() = true without an open repository")
	}
}

func TestExistsFile(t *testing.T) {
	root := t.TempDir()
	p, _ := New(root, ".repo")
	if err := os.WriteFile(p.RepoPath, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if p.Exists() {
		t.Error("a plain file is not a repository")
	}
}

func TestCleanupRepoPools(t *testing.T) {
	ctx := context.Background()
	p, _ := New(t.TempDir(), "")

	for _, c := range p.Repo.Pools() {
		if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := p.CleanupRepoPools(ctx); err != nil {
		t.Fatal(err)
	}
	for name, c := range p.Repo.Pools() {
		if _, hit, _ := c.Get(ctx, "k"); hit {
			t.Errorf("%s pool not cleared", name)
		}
		if mc, ok := c.(*cache.MemoryCache); ok && mc.Len() != 0 {
			t.Errorf("%s pool has %d entries", name, mc.Len())
		}
	}
	if err := p.Repo.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}
