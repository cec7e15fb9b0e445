package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLibrary()
	c.normalizeTMDB()
	c.normalizeAI()
	c.normalizeDebrid()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.SourceDir, err = expandPath(c.Paths.SourceDir); err != nil {
		return fmt.Errorf("paths.source_dir: %w", err)
	}
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLibrary() {
	if strings.TrimSpace(c.Library.MoviesDir) == "" {
		c.Library.MoviesDir = defaultMoviesDir
	}
	if strings.TrimSpace(c.Library.ShowsDir) == "" {
		c.Library.ShowsDir = defaultShowsDir
	}
	if strings.TrimSpace(c.Library.JAVDir) == "" {
		c.Library.JAVDir = defaultJAVDir
	}
}

func (c *Config) normalizeTMDB() {
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = value
		}
	}
	c.TMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.BaseURL), "/")
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	if strings.TrimSpace(c.TMDB.Language) == "" {
		c.TMDB.Language = defaultTMDBLanguage
	}
}

func (c *Config) normalizeAI() {
	if c.AI.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.AI.APIKey = value
		}
	}
	c.AI.BaseURL = strings.TrimRight(strings.TrimSpace(c.AI.BaseURL), "/")
	if c.AI.BaseURL == "" {
		c.AI.BaseURL = defaultAIBaseURL
	}
	if strings.TrimSpace(c.AI.Model) == "" {
		c.AI.Model = defaultAIModel
	}
	if c.AI.ConfidenceThreshold == 0 {
		c.AI.ConfidenceThreshold = defaultAIConfidence
	}
	if c.AI.TimeoutSeconds <= 0 {
		c.AI.TimeoutSeconds = defaultAITimeoutSeconds
	}
}

func (c *Config) normalizeDebrid() {
	if c.Debrid.APIKey == "" {
		if value, ok := os.LookupEnv("REAL_DEBRID_API_KEY"); ok {
			c.Debrid.APIKey = value
		}
	}
	c.Debrid.BaseURL = strings.TrimRight(strings.TrimSpace(c.Debrid.BaseURL), "/")
	if c.Debrid.BaseURL == "" {
		c.Debrid.BaseURL = defaultDebridBaseURL
	}
	if c.Debrid.MinVideoSizeMB <= 0 {
		c.Debrid.MinVideoSizeMB = defaultMinVideoSizeMB
	}
	if c.Debrid.TimeoutSeconds <= 0 {
		c.Debrid.TimeoutSeconds = defaultDebridTimeout
	}
	if c.Debrid.RequestsPerSec <= 0 {
		c.Debrid.RequestsPerSec = defaultDebridRequestsPS
	}
	if c.Debrid.PollIntervalSec <= 0 {
		c.Debrid.PollIntervalSec = defaultDebridPollInterval
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.ScanIntervalMinutes <= 0 {
		c.Workflow.ScanIntervalMinutes = defaultScanIntervalMinutes
	}
	if c.Workflow.DebounceSeconds <= 0 {
		c.Workflow.DebounceSeconds = defaultDebounceSeconds
	}
	if c.Workflow.CacheRetentionDays <= 0 {
		c.Workflow.CacheRetentionDays = defaultCacheRetentionDays
	}
	if c.Workflow.StaleLinkDays <= 0 {
		c.Workflow.StaleLinkDays = defaultStaleLinkDays
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
