package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"organizer/internal/cache"
	"organizer/internal/config"
	"organizer/internal/corrections"
	"organizer/internal/services/tmdb"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolvedPath, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolvedPath
	})
	return c.config, c.configErr
}

// withStore opens the cache store for one operator command and closes
// it when the command finishes.
func (c *commandContext) withStore(fn func(*cache.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := cache.Open(cfg.Paths.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// withCorrections opens the store and hands a corrections manager to
// fn. The metadata client is attached when an API key is configured so
// fix commands can rename library folders.
func (c *commandContext) withCorrections(fn func(*corrections.Manager) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	var opts []corrections.Option
	if cfg.TMDB.APIKey != "" {
		client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language)
		if err != nil {
			return err
		}
		opts = append(opts, corrections.WithSearcher(client))
	}
	return c.withStore(func(store *cache.Store) error {
		return fn(corrections.New(store, opts...))
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
