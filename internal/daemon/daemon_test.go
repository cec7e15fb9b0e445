package daemon

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"organizer/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.SourceDir = filepath.Join(root, "unorganized")
	cfg.Paths.LibraryDir = filepath.Join(root, "library")
	cfg.Paths.DataDir = filepath.Join(root, "data")
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	return &cfg
}

func TestNewComposesWithoutCredentials(t *testing.T) {
	cfg := testConfig(t)

	d, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()

	if d.Store() == nil {
		t.Fatal("expected a cache store")
	}
	if d.Corrections() == nil {
		t.Fatal("expected a corrections manager")
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.DataDir, "organizer.db")); err != nil {
		t.Fatalf("cache database not created: %v", err)
	}
}

func TestRunOnceOrganizesSourceTree(t *testing.T) {
	cfg := testConfig(t)

	d, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()

	folder := filepath.Join(cfg.Paths.SourceDir, "Coherence.2013.1080p")
	if err := os.MkdirAll(folder, 0o755); err != nil {
		t.Fatalf("mkdir source folder: %v", err)
	}
	ref := filepath.Join(folder, "Coherence 2013 1080p.strm")
	if err := os.WriteFile(ref, []byte("https://example.test/coherence\n"), 0o644); err != nil {
		t.Fatalf("write reference: %v", err)
	}

	if err := d.RunOnce(t.Context()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	dest := filepath.Join(cfg.Paths.LibraryDir, "Movies", "Coherence", "Coherence.strm")
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("organized reference missing: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "https://example.test/coherence" {
		t.Fatalf("reference content = %q", got)
	}
}

func TestSecondInstanceIsRejected(t *testing.T) {
	cfg := testConfig(t)

	first, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New first: %v", err)
	}
	defer first.Close()

	if err := first.acquireLock(); err != nil {
		t.Fatalf("acquire first lock: %v", err)
	}
	defer first.releaseLock()

	second, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New second: %v", err)
	}
	defer second.Close()

	if err := second.RunOnce(t.Context()); err == nil {
		t.Fatal("expected second instance to be rejected while lock is held")
	}
}
