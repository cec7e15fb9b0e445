package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	SourceDir  string `toml:"source_dir"`
	LibraryDir string `toml:"library_dir"`
	DataDir    string `toml:"data_dir"`
	LogDir     string `toml:"log_dir"`
}

// Library contains the category subdirectory layout of the destination tree.
type Library struct {
	MoviesDir string `toml:"movies_dir"`
	ShowsDir  string `toml:"shows_dir"`
	JAVDir    string `toml:"jav_dir"`
}

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Language string `toml:"language"`
}

// AI contains configuration for the OpenAI-compatible classification helper.
type AI struct {
	APIKey              string  `toml:"api_key"`
	BaseURL             string  `toml:"base_url"`
	Model               string  `toml:"model"`
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
	TimeoutSeconds      int     `toml:"timeout_seconds"`
}

// Debrid contains configuration for the Real-Debrid API.
type Debrid struct {
	APIKey          string `toml:"api_key"`
	BaseURL         string `toml:"base_url"`
	MinVideoSizeMB  int64  `toml:"min_video_size_mb"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	RequestsPerSec  int    `toml:"requests_per_sec"`
	PollIntervalSec int    `toml:"poll_interval_sec"`
}

// Workflow contains timing configuration for the organization loop.
type Workflow struct {
	ScanIntervalMinutes int `toml:"scan_interval_minutes"`
	DebounceSeconds     int `toml:"debounce_seconds"`
	CacheRetentionDays  int `toml:"cache_retention_days"`
	StaleLinkDays       int `toml:"stale_link_days"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the organizer.
//
// Configuration sections by subsystem:
//   - Paths: source, destination, data and log directories
//   - Library: category subdirectories inside the destination tree
//   - TMDB: metadata lookup for movies and shows
//   - AI: OpenAI-compatible fallback classifier
//   - Debrid: Real-Debrid torrent and link collections
//   - Workflow: scan interval, debounce window, cache retention
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Library  Library  `toml:"library"`
	TMDB     TMDB     `toml:"tmdb"`
	AI       AI       `toml:"ai"`
	Debrid   Debrid   `toml:"debrid"`
	Workflow Workflow `toml:"workflow"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/organizer/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("organizer.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
// The destination tree is created on a best-effort basis so the daemon can
// start while external storage is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.LibraryDir) != "" {
		_ = os.MkdirAll(c.Paths.LibraryDir, 0o755)
		for _, sub := range []string{c.Library.MoviesDir, c.Library.ShowsDir, c.Library.JAVDir} {
			_ = os.MkdirAll(filepath.Join(c.Paths.LibraryDir, sub), 0o755)
		}
	}
	return nil
}

// DestinationDirs maps each category subdirectory name to its absolute path.
func (c *Config) DestinationDirs() map[string]string {
	return map[string]string{
		"Movie": filepath.Join(c.Paths.LibraryDir, c.Library.MoviesDir),
		"Shows": filepath.Join(c.Paths.LibraryDir, c.Library.ShowsDir),
		"JAV":   filepath.Join(c.Paths.LibraryDir, c.Library.JAVDir),
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
