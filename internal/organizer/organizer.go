package organizer

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"organizer/internal/cache"
	"organizer/internal/logging"
	"organizer/internal/materializer"
	"organizer/internal/services/tmdb"
)

// referenceExtension is the suffix of materialized reference files.
const referenceExtension = ".strm"

// Organizer files classified source folders into the library tree.
type Organizer struct {
	store    *cache.Store
	mat      *materializer.Materializer
	searcher tmdb.Searcher
	destDirs map[string]string
	logger   *slog.Logger
}

// Option configures an Organizer.
type Option func(*Organizer)

// WithSearcher attaches the metadata collaborator. Without one, folder
// names fall back to cleaned release titles.
func WithSearcher(s tmdb.Searcher) Option {
	return func(o *Organizer) { o.searcher = s }
}

// WithLogger overrides the default component logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Organizer) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates an Organizer. destDirs maps category labels to their
// library roots.
func New(store *cache.Store, mat *materializer.Materializer, destDirs map[string]string, opts ...Option) *Organizer {
	org := &Organizer{
		store:    store,
		mat:      mat,
		destDirs: destDirs,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(org)
	}
	return org
}

// Result totals a category pass.
type Result struct {
	Copied  int
	Skipped int
	Failed  int
}

func (r *Result) add(other Result) {
	r.Copied += other.Copied
	r.Skipped += other.Skipped
	r.Failed += other.Failed
}

func (r *Result) record(outcome materializer.Outcome) {
	switch outcome.Status {
	case materializer.StatusCopied:
		r.Copied++
	case materializer.StatusSkipped:
		r.Skipped++
	case materializer.StatusFailed:
		r.Failed++
	}
}

// referenceFiles lists the reference files directly inside dir.
func referenceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), referenceExtension) {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}

// rememberDest records the produced destination folder on the cache
// entry so corrections can locate it later. Failures only warn.
func (o *Organizer) rememberDest(ctx context.Context, name, dest string) {
	if o.store == nil {
		return
	}
	if err := o.store.SetDestPath(ctx, name, dest); err != nil {
		o.logger.Warn("record destination failed",
			logging.String("name", name),
			logging.Error(err))
	}
}
