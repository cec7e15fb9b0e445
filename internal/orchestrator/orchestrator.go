package orchestrator

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"organizer/internal/classification"
	"organizer/internal/grouping"
	"organizer/internal/logging"
	"organizer/internal/materializer"
	"organizer/internal/nameclean"
	"organizer/internal/organizer"
	"organizer/internal/services/debrid"
)

// Classifier is the labeling contract the orchestrator drives.
type Classifier interface {
	Classify(ctx context.Context, name, sourcePath string) (classification.Category, error)
}

// Orchestrator runs the fetch-classify-organize pipeline under a
// single-flight lock.
type Orchestrator struct {
	sourceDir string
	destDirs  map[string]string

	classifier Classifier
	debrid     debrid.Service
	builder    *grouping.Builder
	mat        *materializer.Materializer
	org        *organizer.Organizer
	logger     *slog.Logger

	debounce time.Duration
	interval time.Duration
	staleAge time.Duration

	runMu sync.Mutex

	triggerMu     sync.Mutex
	lastTriggered time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDebrid attaches the remote content service. Without it, runs
// organize whatever already sits in the source tree.
func WithDebrid(service debrid.Service) Option {
	return func(o *Orchestrator) { o.debrid = service }
}

// WithDebounce sets the watcher debounce window.
func WithDebounce(window time.Duration) Option {
	return func(o *Orchestrator) {
		if window > 0 {
			o.debounce = window
		}
	}
}

// WithInterval sets the periodic fallback scan interval.
func WithInterval(interval time.Duration) Option {
	return func(o *Orchestrator) {
		if interval > 0 {
			o.interval = interval
		}
	}
}

// WithStaleAge enables end-of-run reporting of reference files older
// than maxAge. Zero disables the report.
func WithStaleAge(maxAge time.Duration) Option {
	return func(o *Orchestrator) {
		if maxAge > 0 {
			o.staleAge = maxAge
		}
	}
}

// WithLogger overrides the default component logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates an Orchestrator over the given collaborators.
func New(sourceDir string, destDirs map[string]string, classifier Classifier, builder *grouping.Builder, mat *materializer.Materializer, org *organizer.Organizer, opts ...Option) *Orchestrator {
	orch := &Orchestrator{
		sourceDir:  sourceDir,
		destDirs:   destDirs,
		classifier: classifier,
		builder:    builder,
		mat:        mat,
		org:        org,
		logger:     logging.NewNop(),
		debounce:   60 * time.Second,
		interval:   30 * time.Minute,
	}
	for _, opt := range opts {
		opt(orch)
	}
	return orch
}

// TryRun starts a full run unless one is already active, in which case
// the trigger is dropped. Reports whether a run happened.
func (o *Orchestrator) TryRun(ctx context.Context, reason string) bool {
	if !o.runMu.TryLock() {
		o.logger.Info("run already in progress, dropping trigger",
			logging.String("reason", reason))
		return false
	}
	defer o.runMu.Unlock()

	runLogger := o.logger.With(
		logging.String("run_id", uuid.NewString()),
		logging.String("reason", reason))
	started := time.Now()
	runLogger.Info("organization run started")
	o.run(ctx, runLogger)
	runLogger.Info("organization run finished",
		logging.Duration("elapsed", time.Since(started)))
	return true
}

// run executes the pipeline. Phase failures are logged and the run
// continues with whatever state exists; nothing here is fatal.
func (o *Orchestrator) run(ctx context.Context, logger *slog.Logger) {
	o.fetchReferences(ctx, logger)
	o.organizeSource(ctx, logger)
	o.mat.VerifyCounts(o.sourceDir, o.destDirs)
	o.reportStaleReferences(logger)
}

// reportStaleReferences surfaces references whose hoster links have
// likely expired. Reporting only; refresh stays a manual decision.
func (o *Orchestrator) reportStaleReferences(logger *slog.Logger) {
	if o.staleAge <= 0 {
		return
	}
	dirs := make([]string, 0, len(o.destDirs))
	for _, dir := range o.destDirs {
		dirs = append(dirs, dir)
	}
	stale := materializer.StaleReferences(o.staleAge, dirs...)
	if len(stale) == 0 {
		return
	}
	logger.Warn("stale references detected",
		logging.Int("count", len(stale)),
		logging.Duration("older_than", o.staleAge))
	for _, path := range stale {
		logger.Debug("stale reference", logging.String("path", path))
	}
}

// fetchReferences pulls debrid listings, groups them, and materializes
// new references into the source tree.
func (o *Orchestrator) fetchReferences(ctx context.Context, logger *slog.Logger) {
	if o.debrid == nil {
		return
	}
	torrents, err := o.debrid.Torrents(ctx)
	if err != nil {
		logger.Error("torrent listing failed", logging.Error(err))
		return
	}
	downloads, err := o.debrid.Downloads(ctx)
	if err != nil {
		logger.Error("download listing failed", logging.Error(err))
		return
	}

	scanDirs := make([]string, 0, len(o.destDirs)+1)
	scanDirs = append(scanDirs, o.sourceDir)
	for _, dir := range o.destDirs {
		scanDirs = append(scanDirs, dir)
	}
	excluded := materializer.ExistingLinks(scanDirs...)

	groups := o.builder.Build(torrents, downloads, excluded)
	summary := o.mat.WriteReferences(groups, o.sourceDir)
	logger.Info("reference fetch complete",
		logging.Int("torrents", len(torrents)),
		logging.Int("downloads", len(downloads)),
		logging.Int("created", summary.Created))
}

// organizeSource classifies every top-level source folder and files it
// into the library.
func (o *Orchestrator) organizeSource(ctx context.Context, logger *slog.Logger) {
	entries, err := os.ReadDir(o.sourceDir)
	if err != nil {
		logger.Error("source directory unreadable",
			logging.String("dir", o.sourceDir),
			logging.Error(err))
		return
	}

	var javFolders []string
	shows := make(map[string][]string)
	var movieFolders []string

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		category, err := o.classifier.Classify(ctx, name, filepath.Join(o.sourceDir, name))
		if err != nil {
			logger.Error("classification failed",
				logging.String("folder", name),
				logging.Error(err))
			continue
		}
		switch category {
		case classification.CategorySkip:
			logger.Warn("skipping spam folder", logging.String("folder", name))
		case classification.CategoryJAV:
			javFolders = append(javFolders, name)
		case classification.CategoryShows:
			showName := nameclean.ExtractShowName(name)
			if showName == "" {
				showName = name
			}
			shows[showName] = append(shows[showName], name)
		default:
			movieFolders = append(movieFolders, name)
		}
	}
	logger.Info("source folders classified",
		logging.Int("jav", len(javFolders)),
		logging.Int("shows", len(shows)),
		logging.Int("movies", len(movieFolders)))

	var totals organizer.Result
	for _, folder := range javFolders {
		result := o.org.OrganizeJAV(ctx, folder, filepath.Join(o.sourceDir, folder))
		totals = sum(totals, result)
	}
	for showName, folders := range shows {
		result := o.org.OrganizeShow(ctx, showName, folders, o.sourceDir)
		totals = sum(totals, result)
	}
	for _, folder := range movieFolders {
		result := o.org.OrganizeMovie(ctx, folder, filepath.Join(o.sourceDir, folder))
		totals = sum(totals, result)
	}
	logger.Info("library organization complete",
		logging.Int("copied", totals.Copied),
		logging.Int("skipped", totals.Skipped),
		logging.Int("failed", totals.Failed))
}

func sum(a, b organizer.Result) organizer.Result {
	return organizer.Result{
		Copied:  a.Copied + b.Copied,
		Skipped: a.Skipped + b.Skipped,
		Failed:  a.Failed + b.Failed,
	}
}

// acceptTrigger implements leading-edge debounce: the first event in a
// quiet window triggers, later events inside the window are dropped,
// and an accepted trigger resets the window.
func (o *Orchestrator) acceptTrigger(now time.Time) bool {
	o.triggerMu.Lock()
	defer o.triggerMu.Unlock()
	if now.Sub(o.lastTriggered) <= o.debounce {
		return false
	}
	o.lastTriggered = now
	return true
}
