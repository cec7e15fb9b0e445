// Package grouping folds unrestricted-link listings into per-torrent
// file groups, deduplicating links and filtering out junk payloads.
package grouping

import (
	"log/slog"
	"path/filepath"
	"strings"

	"organizer/internal/logging"
	"organizer/internal/nameclean"
	"organizer/internal/services/debrid"
)

// FileEntry is one accepted file inside a group. Link is the hoster
// link used for deduplication; URL is the direct download written into
// reference files.
type FileEntry struct {
	Link         string
	URL          string
	Filename     string
	OriginalName string
	Size         int64
}

// Group collects the accepted files of a single torrent under a
// sanitized folder name.
type Group struct {
	Name    string
	Torrent debrid.Torrent
	Files   []FileEntry
}

// defaultMinVideoSizeMB rejects sub-300MB videos, which in practice are
// advertisement clips bundled into torrents.
const defaultMinVideoSizeMB = 300

// Builder assembles groups from debrid listings.
type Builder struct {
	minVideoSize int64
	logger       *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithMinVideoSizeMB overrides the minimum accepted video size.
func WithMinVideoSizeMB(megabytes int64) Option {
	return func(b *Builder) { b.minVideoSize = megabytes * 1024 * 1024 }
}

// WithLogger overrides the default component logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a Builder with the default filter policy.
func NewBuilder(opts ...Option) *Builder {
	builder := &Builder{
		minVideoSize: defaultMinVideoSizeMB * 1024 * 1024,
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder
}

// Build indexes torrents by id and folds each download record into its
// torrent's group. Records are dropped when their torrent is unknown,
// their link was already consumed this run, their link is in the
// exclusion set, or the content filter rejects them. Groups with no
// surviving files are never created.
func (b *Builder) Build(torrents []debrid.Torrent, downloads []debrid.Download, excluded map[string]bool) map[string]*Group {
	torrentsByID := make(map[string]debrid.Torrent, len(torrents))
	for _, torrent := range torrents {
		if torrent.ID == "" {
			b.logger.Warn("skipping torrent without id",
				logging.String("filename", torrent.Filename))
			continue
		}
		torrentsByID[torrent.ID] = torrent
	}

	groups := make(map[string]*Group)
	consumedLinks := make(map[string]bool, len(downloads))

	for _, download := range downloads {
		torrent, known := torrentsByID[download.TorrentID]
		if download.TorrentID == "" || !known {
			continue
		}
		if download.Link == "" || consumedLinks[download.Link] {
			continue
		}
		// Exclusion sets built from existing reference files hold the
		// direct download URL rather than the hoster link; honor both.
		if excluded[download.Link] || excluded[download.Download] {
			continue
		}

		originalName := download.Filename
		if originalName == "" {
			originalName = nameclean.FilenameFromURL(download.Download)
		}
		if accepted, reason := b.accept(originalName, download.Filesize, download.MimeType); !accepted {
			b.logger.Debug("file rejected by filter",
				logging.String("filename", originalName),
				logging.String("reason", reason))
			continue
		}

		groupSource := torrent.Filename
		if groupSource == "" {
			groupSource = originalName
		}
		groupName := nameclean.SanitizeFolderName(groupSource)

		group, ok := groups[groupName]
		if !ok {
			group = &Group{Name: groupName, Torrent: torrent}
			groups[groupName] = group
		}
		group.Files = append(group.Files, FileEntry{
			Link:         download.Link,
			URL:          download.Download,
			Filename:     nameclean.SanitizeFilename(originalName),
			OriginalName: originalName,
			Size:         download.Filesize,
		})
		consumedLinks[download.Link] = true
	}

	b.logger.Info("torrent groups assembled", logging.Int("groups", len(groups)))
	return groups
}

// accept applies the content filter: only known video or subtitle types
// pass, and videos below the minimum size are treated as junk.
func (b *Builder) accept(filename string, size int64, mimeType string) (bool, string) {
	if filename == "" {
		return false, "no filename"
	}
	ext := strings.ToLower(filepath.Ext(filename))
	isVideo := nameclean.IsVideoExtension(ext) || strings.Contains(mimeType, "video")
	isSubtitle := nameclean.IsSubtitleExtension(ext) || strings.Contains(mimeType, "sub")
	if !isVideo && !isSubtitle {
		return false, "unsupported extension " + ext
	}
	if isVideo && b.minVideoSize > 0 && size < b.minVideoSize {
		return false, "video below minimum size"
	}
	return true, ""
}
