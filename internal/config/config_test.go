package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"organizer/internal/config"
)

func TestLoadDefaultsAndEnvFallbacks(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("TMDB_API_KEY", "tmdb-test-key")
	t.Setenv("OPENAI_API_KEY", "ai-test-key")
	t.Setenv("REAL_DEBRID_API_KEY", "rd-test-key")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if want := filepath.Join(tempHome, "media", "unorganized"); cfg.Paths.SourceDir != want {
		t.Fatalf("unexpected source dir: got %q want %q", cfg.Paths.SourceDir, want)
	}
	if cfg.TMDB.APIKey != "tmdb-test-key" {
		t.Fatalf("expected TMDB key from env, got %q", cfg.TMDB.APIKey)
	}
	if cfg.AI.APIKey != "ai-test-key" {
		t.Fatalf("expected AI key from env, got %q", cfg.AI.APIKey)
	}
	if cfg.Debrid.APIKey != "rd-test-key" {
		t.Fatalf("expected debrid key from env, got %q", cfg.Debrid.APIKey)
	}
	if cfg.AI.ConfidenceThreshold != 0.7 {
		t.Fatalf("unexpected confidence threshold: %v", cfg.AI.ConfidenceThreshold)
	}
	if cfg.Debrid.MinVideoSizeMB != 300 {
		t.Fatalf("unexpected min video size: %d", cfg.Debrid.MinVideoSizeMB)
	}
	if cfg.Workflow.DebounceSeconds != 60 {
		t.Fatalf("unexpected debounce: %d", cfg.Workflow.DebounceSeconds)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
	dests := cfg.DestinationDirs()
	for _, category := range []string{"Movie", "Shows", "JAV"} {
		if dests[category] == "" {
			t.Fatalf("missing destination for %s", category)
		}
	}
}

func TestLoadParsesFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "organizer.toml")
	content := `
[paths]
source_dir = "` + filepath.Join(dir, "in") + `"
library_dir = "` + filepath.Join(dir, "out") + `"

[debrid]
min_video_size_mb = 150

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Debrid.MinVideoSizeMB != 150 {
		t.Fatalf("override not applied: %d", cfg.Debrid.MinVideoSizeMB)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("override not applied: %q", cfg.Logging.Level)
	}
	if cfg.TMDB.BaseURL != "https://api.themoviedb.org/3" {
		t.Fatalf("default not retained: %q", cfg.TMDB.BaseURL)
	}
}

func TestValidateRejectsIdenticalSourceAndLibrary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "organizer.toml")
	content := `
[paths]
source_dir = "` + dir + `"
library_dir = "` + dir + `"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for identical source and library dirs")
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "organizer.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for unsupported log format")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("expected sample config to have content")
	}
}
