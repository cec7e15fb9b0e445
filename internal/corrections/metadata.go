package corrections

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"organizer/internal/classification"
	"organizer/internal/logging"
	"organizer/internal/nameclean"
	"organizer/internal/services"
	"organizer/internal/services/tmdb"
)

// referenceExtension is the suffix of materialized reference files.
const referenceExtension = ".strm"

// episodeSuffixPattern preserves an existing SxxEyy marker when a
// reference file is renamed. placeholderEpisode is used when a show's
// reference carries no marker.
var episodeSuffixPattern = regexp.MustCompile(`(?i)S\d{2}E\d{2}`)

const placeholderEpisode = "S01E01"

// ApplyMetadata fixes a misidentified movie or show folder: it fetches
// canonical metadata for the given id, renames the destination folder
// and every reference file inside it, and updates the cached
// destination path. The correction record is saved before any rename so
// a failed rename can be retried on a later run.
func (m *Manager) ApplyMetadata(ctx context.Context, name string, tmdbID int64, reason string) error {
	entry, err := m.store.Entry(ctx, name)
	if err != nil {
		return err
	}
	if entry == nil || entry.DestPath == "" {
		return services.Wrap(services.ErrValidation, "corrections", "apply metadata",
			fmt.Sprintf("no destination recorded for %q; process the item first", name), nil)
	}
	category := classification.ParseCategory(entry.Classification)
	if category != classification.CategoryMovie && category != classification.CategoryShows {
		return services.Wrap(services.ErrValidation, "corrections", "apply metadata",
			fmt.Sprintf("metadata corrections apply to movies and shows, not %q", entry.Classification), nil)
	}
	if m.searcher == nil {
		return services.Wrap(services.ErrConfiguration, "corrections", "apply metadata",
			"metadata collaborator not configured", nil)
	}

	if err := m.Record(ctx, name, entry.Classification, entry.Classification, reason, tmdbID); err != nil {
		return err
	}

	if _, err := os.Stat(entry.DestPath); err != nil {
		m.logger.Error("destination folder missing, correction saved for a later run",
			logging.String("name", name),
			logging.String("dest", entry.DestPath))
		return nil
	}

	var result *tmdb.Result
	if category == classification.CategoryMovie {
		result, err = m.searcher.MovieByID(ctx, tmdbID)
	} else {
		result, err = m.searcher.TVByID(ctx, tmdbID)
	}
	if err != nil {
		return err
	}
	if result == nil {
		return services.Wrap(services.ErrValidation, "corrections", "apply metadata",
			fmt.Sprintf("no metadata found for id %d", tmdbID), nil)
	}

	newFolder := nameclean.CleanPathComponent(
		fmt.Sprintf("%s (%s) {tmdb-%d}", result.DisplayTitle(), result.Year(), result.ID))
	newDest := filepath.Join(filepath.Dir(entry.DestPath), newFolder)

	if newDest != entry.DestPath {
		if err := os.Rename(entry.DestPath, newDest); err != nil {
			return fmt.Errorf("rename destination folder: %w", err)
		}
	}
	if err := m.renameReferences(newDest, category, result); err != nil {
		if newDest != entry.DestPath {
			if rollbackErr := os.Rename(newDest, entry.DestPath); rollbackErr != nil {
				m.logger.Error("rollback of folder rename failed",
					logging.String("dest", newDest),
					logging.Error(rollbackErr))
			}
		}
		return err
	}

	if err := m.store.SetDestPath(ctx, name, newDest); err != nil {
		return err
	}
	m.logger.Info("metadata correction applied",
		logging.String("name", name),
		logging.String("folder", newFolder))
	return nil
}

// renameReferences renames every reference file in dir to the canonical
// title, keeping season and episode markers for shows.
func (m *Manager) renameReferences(dir string, category classification.Category, result *tmdb.Result) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("list destination folder: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), referenceExtension) {
			continue
		}
		var base string
		if category == classification.CategoryMovie {
			base = fmt.Sprintf("%s (%s)", result.DisplayTitle(), result.Year())
		} else {
			marker := episodeSuffixPattern.FindString(entry.Name())
			if marker == "" {
				marker = placeholderEpisode
			}
			base = fmt.Sprintf("%s %s", result.DisplayTitle(), strings.ToUpper(marker))
		}
		newName := nameclean.CleanPathComponent(base) + referenceExtension
		if newName == entry.Name() {
			continue
		}
		oldPath := filepath.Join(dir, entry.Name())
		newPath := filepath.Join(dir, newName)
		if err := os.Rename(oldPath, newPath); err != nil {
			return fmt.Errorf("rename reference file %s: %w", entry.Name(), err)
		}
	}
	return nil
}
