package classification

import (
	"regexp"

	"organizer/internal/nameclean"
)

var (
	tvEpisodePattern = regexp.MustCompile(`(?i)S\d+E\d+`)
	tvCrossPattern   = regexp.MustCompile(`(?i)\b\d{1,2}x\d{1,2}\b`)
	tvSeasonWord     = regexp.MustCompile(`(?i)Season\s+\d+`)
	tvCompleteSeason = regexp.MustCompile(`(?i)Complete.*Season`)
	tvSeasonComplete = regexp.MustCompile(`(?i)S\d{1,2}.*Complete`)

	// Season-only markers must be bounded by separators on both sides
	// so codec tags like "DTS5.1" do not trip the detector.
	tvSeasonMarker = regexp.MustCompile(`(?i)(?:^|[^a-zA-Z0-9])S\d{1,2}(?:[^a-zA-Z0-9]|$)`)
)

var knownShowCompactPatterns = buildKnownShowCompactPatterns()

func buildKnownShowCompactPatterns() []*regexp.Regexp {
	titles := nameclean.TVMarkerTitles()
	patterns := make([]*regexp.Regexp, 0, 2*len(titles))
	for _, title := range titles {
		quoted := regexp.QuoteMeta(title)
		patterns = append(patterns,
			regexp.MustCompile(`(?i)`+quoted+`\s+\d{3}\b`),
			regexp.MustCompile(`(?i)`+quoted+`\s+\d{2}\b`),
		)
	}
	return patterns
}

// IsTVShow reports whether the name carries a season or episode marker,
// or pairs a well-known show title with a trailing compact episode code.
func IsTVShow(name string) bool {
	if tvEpisodePattern.MatchString(name) {
		return true
	}
	if tvCrossPattern.MatchString(name) {
		return true
	}
	for _, pattern := range knownShowCompactPatterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	if tvSeasonMarker.MatchString(name) {
		return true
	}
	if tvSeasonWord.MatchString(name) {
		return true
	}
	if tvCompleteSeason.MatchString(name) || tvSeasonComplete.MatchString(name) {
		return true
	}
	return false
}
