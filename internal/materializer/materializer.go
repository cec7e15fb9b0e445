package materializer

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"organizer/internal/cache"
	"organizer/internal/fileutil"
	"organizer/internal/grouping"
	"organizer/internal/logging"
)

// referenceExtension is the suffix of materialized reference files.
const referenceExtension = ".strm"

// Tracker is the processed-file ledger the materializer consults before
// touching the filesystem. Implemented by the cache store.
type Tracker interface {
	IsProcessed(ctx context.Context, key string) (bool, error)
	MarkProcessed(ctx context.Context, entry cache.TrackingEntry) error
}

// Materializer writes reference files and relocates them idempotently.
type Materializer struct {
	tracker Tracker
	logger  *slog.Logger
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithLogger overrides the default component logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Materializer) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a Materializer. tracker may be nil, in which case every
// file is treated as new.
func New(tracker Tracker, opts ...Option) *Materializer {
	mat := &Materializer{
		tracker: tracker,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(mat)
	}
	return mat
}

// Summary totals a reference-creation pass.
type Summary struct {
	Created int
	Skipped int
	Failed  int
}

// WriteReferences materializes every group into targetDir as
// <group>/<filename>.strm files containing the remote link. Entries
// without a link are skipped and counted; individual write failures are
// logged and counted without aborting the pass.
func (m *Materializer) WriteReferences(groups map[string]*grouping.Group, targetDir string) Summary {
	var summary Summary
	for _, group := range groups {
		groupDir := filepath.Join(targetDir, group.Name)
		if err := os.MkdirAll(groupDir, 0o755); err != nil {
			m.logger.Error("create group folder failed",
				logging.String("group", group.Name),
				logging.Error(err))
			summary.Failed += len(group.Files)
			continue
		}
		for _, file := range group.Files {
			switch outcome := m.writeReference(groupDir, file); outcome.Status {
			case StatusCopied:
				summary.Created++
			case StatusSkipped:
				summary.Skipped++
			case StatusFailed:
				m.logger.Error("reference write failed",
					logging.String("group", group.Name),
					logging.String("file", file.Filename),
					logging.Error(outcome.Err))
				summary.Failed++
			}
		}
	}
	m.logger.Info("reference creation finished",
		logging.Int("created", summary.Created),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed))
	return summary
}

func (m *Materializer) writeReference(groupDir string, file grouping.FileEntry) Outcome {
	if file.URL == "" {
		return Skipped("no remote link")
	}
	path := filepath.Join(groupDir, file.Filename+referenceExtension)
	if existing, err := os.ReadFile(path); err == nil {
		if strings.TrimSpace(string(existing)) == file.URL {
			return Skipped("reference up to date")
		}
	}
	if err := os.WriteFile(path, []byte(file.URL+"\n"), 0o644); err != nil {
		return Failed(err)
	}
	return Copied()
}

// CopyReference copies src to dst unless the tracking ledger already
// records src at its current modification time or the destination holds
// identical content. Successful and unchanged copies are recorded in
// the ledger.
func (m *Materializer) CopyReference(ctx context.Context, src, dst string) Outcome {
	key, err := fileutil.TrackingKeyFor(src)
	if err != nil {
		return Failed(err)
	}
	if m.tracker != nil {
		processed, err := m.tracker.IsProcessed(ctx, key)
		if err != nil {
			m.logger.Warn("tracking lookup failed", logging.Error(err))
		} else if processed {
			return Skipped("already processed")
		}
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return Failed(err)
	}
	copied, err := fileutil.CopyFileIfChanged(src, dst)
	if err != nil {
		return Failed(err)
	}
	m.markProcessed(ctx, key, src)
	if !copied {
		return Skipped("content unchanged")
	}
	return Copied()
}

// MoveReference moves src to dst, deleting src when dst already exists.
func (m *Materializer) MoveReference(ctx context.Context, src, dst string) Outcome {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return Failed(err)
	}
	moved, err := fileutil.MoveFileIfAbsent(src, dst)
	if err != nil {
		return Failed(err)
	}
	if !moved {
		return Skipped("duplicate dropped")
	}
	return Copied()
}

func (m *Materializer) markProcessed(ctx context.Context, key, src string) {
	if m.tracker == nil {
		return
	}
	err := m.tracker.MarkProcessed(ctx, cache.TrackingEntry{
		Key:         key,
		SourcePath:  src,
		ProcessedAt: time.Now(),
	})
	if err != nil {
		m.logger.Warn("tracking update failed",
			logging.String("source", src),
			logging.Error(err))
	}
}

// CountReferences walks dir recursively and counts reference files.
func CountReferences(dir string) int {
	count := 0
	_ = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), referenceExtension) {
			count++
		}
		return nil
	})
	return count
}

// VerifyCounts compares reference totals after a run. A destination
// shortfall is expected deduplication; an excess means files appeared
// from nowhere and is logged as an integrity failure. Never fatal.
func (m *Materializer) VerifyCounts(sourceDir string, destDirs map[string]string) bool {
	sourceCount := CountReferences(sourceDir)
	destCount := 0
	for _, dir := range destDirs {
		destCount += CountReferences(dir)
	}
	if destCount > sourceCount {
		m.logger.Error("reference count verification failed",
			logging.Int("source", sourceCount),
			logging.Int("destination", destCount),
			logging.Int("excess", destCount-sourceCount))
		return false
	}
	if duplicates := sourceCount - destCount; duplicates > 0 {
		m.logger.Info("reference count verification passed",
			logging.Int("deduplicated", duplicates))
	} else {
		m.logger.Info("reference count verification passed")
	}
	return true
}

// StaleReferences lists reference files under the given directories
// whose content has not been rewritten within maxAge. Hoster links
// expire, so old references are candidates for a refresh.
func StaleReferences(maxAge time.Duration, dirs ...string) []string {
	cutoff := time.Now().Add(-maxAge)
	var stale []string
	for _, dir := range dirs {
		_ = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), referenceExtension) {
				return nil
			}
			info, infoErr := entry.Info()
			if infoErr != nil {
				return nil
			}
			if info.ModTime().Before(cutoff) {
				stale = append(stale, path)
			}
			return nil
		})
	}
	return stale
}

// ExistingLinks collects the remote links held by reference files under
// the given directories, for exclusion during grouping.
func ExistingLinks(dirs ...string) map[string]bool {
	links := make(map[string]bool)
	for _, dir := range dirs {
		_ = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), referenceExtension) {
				return nil
			}
			content, readErr := os.ReadFile(path)
			if readErr != nil {
				return nil
			}
			if link := strings.TrimSpace(string(content)); link != "" {
				links[link] = true
			}
			return nil
		})
	}
	return links
}
