package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"organizer/internal/cache"
	"organizer/internal/classification"
	"organizer/internal/config"
	"organizer/internal/corrections"
	"organizer/internal/grouping"
	"organizer/internal/logging"
	"organizer/internal/materializer"
	"organizer/internal/orchestrator"
	"organizer/internal/organizer"
	"organizer/internal/services/aiclassify"
	"organizer/internal/services/debrid"
	"organizer/internal/services/tmdb"
)

// lockFileName guards against two daemons organizing the same tree.
const lockFileName = "organizer.lock"

// Daemon owns the composed component graph and its lifecycle.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger

	store       *cache.Store
	corrections *corrections.Manager
	orch        *orchestrator.Orchestrator
	lock        *flock.Flock
}

// New composes a Daemon from configuration. Optional collaborators
// (metadata, AI, debrid) are wired only when their credentials are
// present; the pipeline degrades gracefully without them.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	store, err := cache.Open(cfg.Paths.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open cache store: %w", err)
	}

	var searcher tmdb.Searcher
	if cfg.TMDB.APIKey != "" {
		client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("tmdb client: %w", err)
		}
		searcher = client
	} else {
		logger.Warn("tmdb api key missing, organizing without metadata lookups")
	}

	escalator := aiclassify.New(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model,
		aiclassify.WithLogger(logging.NewComponentLogger(logger, "aiclassify")),
		aiclassify.WithTimeout(time.Duration(cfg.AI.TimeoutSeconds)*time.Second))
	if !escalator.Available() {
		logger.Warn("ai api key missing, difficult names keep their rule-based labels")
	}

	correctionOpts := []corrections.Option{
		corrections.WithLearner(escalator),
		corrections.WithLogger(logging.NewComponentLogger(logger, "corrections")),
	}
	if searcher != nil {
		correctionOpts = append(correctionOpts, corrections.WithSearcher(searcher))
	}
	manager := corrections.New(store, correctionOpts...)

	classifier := classification.New(cache.NewClassifierCache(store),
		classification.WithEscalator(escalator),
		classification.WithPatternMatcher(manager),
		classification.WithThreshold(cfg.AI.ConfidenceThreshold),
		classification.WithLogger(logging.NewComponentLogger(logger, "classifier")))

	mat := materializer.New(store,
		materializer.WithLogger(logging.NewComponentLogger(logger, "materializer")))

	destDirs := cfg.DestinationDirs()
	orgOpts := []organizer.Option{
		organizer.WithLogger(logging.NewComponentLogger(logger, "organizer")),
	}
	if searcher != nil {
		orgOpts = append(orgOpts, organizer.WithSearcher(searcher))
	}
	org := organizer.New(store, mat, destDirs, orgOpts...)

	builder := grouping.NewBuilder(
		grouping.WithMinVideoSizeMB(cfg.Debrid.MinVideoSizeMB),
		grouping.WithLogger(logging.NewComponentLogger(logger, "grouping")))

	orchOpts := []orchestrator.Option{
		orchestrator.WithLogger(logging.NewComponentLogger(logger, "orchestrator")),
		orchestrator.WithDebounce(time.Duration(cfg.Workflow.DebounceSeconds) * time.Second),
		orchestrator.WithInterval(time.Duration(cfg.Workflow.ScanIntervalMinutes) * time.Minute),
		orchestrator.WithStaleAge(time.Duration(cfg.Workflow.StaleLinkDays) * 24 * time.Hour),
	}
	if cfg.Debrid.APIKey != "" {
		client, err := debrid.New(cfg.Debrid.APIKey, cfg.Debrid.BaseURL,
			debrid.WithRateLimit(float64(cfg.Debrid.RequestsPerSec)),
			debrid.WithPollInterval(time.Duration(cfg.Debrid.PollIntervalSec)*time.Second))
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("debrid client: %w", err)
		}
		orchOpts = append(orchOpts, orchestrator.WithDebrid(client))
	} else {
		logger.Warn("debrid api key missing, organizing existing source entries only")
	}

	orch := orchestrator.New(cfg.Paths.SourceDir, destDirs, classifier, builder, mat, org, orchOpts...)

	return &Daemon{
		cfg:         cfg,
		logger:      logger,
		store:       store,
		corrections: manager,
		orch:        orch,
		lock:        flock.New(filepath.Join(cfg.Paths.DataDir, lockFileName)),
	}, nil
}

// Store exposes the cache store for operator commands.
func (d *Daemon) Store() *cache.Store { return d.store }

// Corrections exposes the correction manager for operator commands.
func (d *Daemon) Corrections() *corrections.Manager { return d.corrections }

// RunOnce acquires the instance lock and performs a single run.
func (d *Daemon) RunOnce(ctx context.Context) error {
	if err := d.acquireLock(); err != nil {
		return err
	}
	defer d.releaseLock()
	d.orch.TryRun(ctx, "manual scan")
	return nil
}

// Run acquires the instance lock and blocks in the orchestrator's
// trigger loop until ctx is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.acquireLock(); err != nil {
		return err
	}
	defer d.releaseLock()

	d.pruneCache(ctx)
	if err := d.orch.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Close releases the store. Safe after a failed Run.
func (d *Daemon) Close() error {
	return d.store.Close()
}

func (d *Daemon) acquireLock() error {
	locked, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("instance lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another organizer instance holds %s", d.lock.Path())
	}
	return nil
}

func (d *Daemon) releaseLock() {
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release instance lock failed", logging.Error(err))
	}
}

// pruneCache ages out old classification state per the configured
// retention. Corrections and learning patterns are never pruned.
func (d *Daemon) pruneCache(ctx context.Context) {
	days := d.cfg.Workflow.CacheRetentionDays
	if days <= 0 {
		return
	}
	removed, err := d.store.Cleanup(ctx, time.Duration(days)*24*time.Hour)
	if err != nil {
		d.logger.Warn("cache cleanup failed", logging.Error(err))
		return
	}
	if removed > 0 {
		d.logger.Info("cache entries pruned", logging.Int64("removed", removed))
	}
}
