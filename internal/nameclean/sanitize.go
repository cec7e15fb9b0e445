package nameclean

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// maxFilenameLength bounds sanitized filenames for readability; truncation
// prefers a word boundary below truncateTarget.
const (
	maxFilenameLength = 100
	truncateTarget    = 95
	maxDecodePasses   = 3
)

var (
	illegalCharPattern   = regexp.MustCompile(`[<>:"/\\|?*]`)
	controlCharPattern   = regexp.MustCompile(`[\x00-\x1f\x7f-\x9f]`)
	trailingDotPattern   = regexp.MustCompile(`\.+$`)
	extensionPattern     = regexp.MustCompile(`\.[^.]+$`)
	sitePrefixPattern    = regexp.MustCompile(`(?i)^(hhd\d+\.com@|hdd\d+\.com@)`)
	residualExtPattern   = regexp.MustCompile(`(?i)(\.mp4|\.mkv|\.avi)$`)
	percentEscapePattern = regexp.MustCompile(`%[0-9A-Fa-f]{2}`)
	separatorRunPattern  = regexp.MustCompile(`[._-]+`)
	spaceRunPattern      = regexp.MustCompile(`\s+`)
	alnumExcerptPattern  = regexp.MustCompile(`[^\w\s-]`)
)

// videoExtensions and subtitleExtensions define the media content the
// organizer handles; anything else is filtered out during grouping.
var videoExtensions = map[string]bool{
	".mkv": true, ".mp4": true, ".avi": true, ".mov": true,
	".wmv": true, ".m4v": true, ".webm": true, ".flv": true,
}

var subtitleExtensions = map[string]bool{
	".srt": true, ".ass": true, ".vtt": true, ".sub": true,
	".idx": true, ".ssa": true, ".smi": true,
}

// IsVideoExtension reports whether ext (including the leading dot) is a
// recognized video container extension. Matching is case-insensitive.
func IsVideoExtension(ext string) bool {
	return videoExtensions[strings.ToLower(ext)]
}

// IsSubtitleExtension reports whether ext is a recognized subtitle extension.
func IsSubtitleExtension(ext string) bool {
	return subtitleExtensions[strings.ToLower(ext)]
}

// IsMediaExtension reports whether ext is either a video or subtitle extension.
func IsMediaExtension(ext string) bool {
	return IsVideoExtension(ext) || IsSubtitleExtension(ext)
}

// SanitizeFolderName produces a filesystem-safe folder name from a raw
// torrent or folder name. Single-file names have their media extension
// stripped so the file's stem becomes the folder. Returns "Unknown" when
// nothing usable remains.
func SanitizeFolderName(name string) string {
	if name == "" {
		return "Unknown"
	}
	if ext := path.Ext(name); IsMediaExtension(ext) {
		name = strings.TrimSuffix(name, ext)
	}
	clean := illegalCharPattern.ReplaceAllString(name, "_")
	clean = controlCharPattern.ReplaceAllString(clean, "")
	clean = trailingDotPattern.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return "Unknown"
	}
	return clean
}

// SanitizeFilename produces a clean, readable, bounded-length name for a
// reference file. Percent-encoded input is decoded up to three passes or
// until stable, the extension and known site-prefix tags are stripped,
// separators collapse to single spaces, and long results are truncated
// at a word boundary. Never returns a result shorter than three
// characters unless the input carries no usable characters at all, in
// which case it falls back to "media_file".
func SanitizeFilename(name string) string {
	if name == "" {
		return "unknown"
	}

	clean := decodePercent(name)
	clean = extensionPattern.ReplaceAllString(clean, "")
	clean = sitePrefixPattern.ReplaceAllString(clean, "")
	clean = residualExtPattern.ReplaceAllString(clean, "")
	clean = percentEscapePattern.ReplaceAllString(clean, " ")
	clean = illegalCharPattern.ReplaceAllString(clean, "_")
	clean = controlCharPattern.ReplaceAllString(clean, "")
	clean = separatorRunPattern.ReplaceAllString(clean, " ")
	clean = spaceRunPattern.ReplaceAllString(clean, " ")
	clean = strings.TrimSpace(clean)
	clean = trailingDotPattern.ReplaceAllString(clean, "")

	if len(clean) > maxFilenameLength {
		clean = truncateAtWordBoundary(clean, truncateTarget)
	}
	clean = strings.TrimSpace(clean)

	if len(clean) < 3 {
		fallback := alnumExcerptPattern.ReplaceAllString(name, "")
		if len(fallback) > 50 {
			fallback = fallback[:50]
		}
		fallback = strings.TrimSpace(fallback)
		if fallback != "" {
			return fallback
		}
		return "media_file"
	}
	return clean
}

// CleanPathComponent replaces characters that are unsafe in library path
// segments with readable alternatives and collapses whitespace. Unlike
// SanitizeFilename it preserves the full name length; it is intended for
// canonical names derived from metadata lookups.
func CleanPathComponent(name string) string {
	replacer := strings.NewReplacer(
		":", " -",
		"|", " -",
		"/", " - ",
		"\\", " - ",
		"<", "(",
		">", ")",
		`"`, "'",
		"?", "",
		"*", "",
	)
	clean := replacer.Replace(name)
	clean = spaceRunPattern.ReplaceAllString(clean, " ")
	return strings.TrimSpace(clean)
}

// FilenameFromURL extracts and decodes the trailing filename segment of a
// direct download URL. Returns "unknown" when no filename is derivable.
func FilenameFromURL(rawURL string) string {
	if rawURL == "" || !strings.Contains(rawURL, "/d/") {
		return "unknown"
	}
	parts := strings.Split(rawURL, "/")
	if len(parts) < 2 {
		return "unknown"
	}
	encoded := parts[len(parts)-1]
	if encoded == "" || encoded == parts[len(parts)-2] {
		return "unknown"
	}
	decoded := decodePercent(encoded)
	if idx := strings.IndexAny(decoded, "?#"); idx >= 0 {
		decoded = decoded[:idx]
	}
	if decoded == "" {
		return "unknown"
	}
	return decoded
}

// decodePercent unescapes percent encoding up to maxDecodePasses times or
// until the value stops changing. Malformed escapes leave the value as is.
func decodePercent(value string) string {
	for i := 0; i < maxDecodePasses; i++ {
		decoded, err := url.PathUnescape(value)
		if err != nil || decoded == value {
			break
		}
		value = decoded
	}
	return value
}

func truncateAtWordBoundary(value string, limit int) string {
	words := strings.Fields(value)
	var truncated string
	for _, word := range words {
		candidate := word
		if truncated != "" {
			candidate = truncated + " " + word
		}
		if len(candidate) > limit {
			break
		}
		truncated = candidate
	}
	if truncated == "" {
		return value[:limit]
	}
	return truncated
}
