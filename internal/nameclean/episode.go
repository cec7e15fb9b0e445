package nameclean

import (
	"fmt"
	"regexp"
	"strconv"
)

// EpisodeKind discriminates the numbering information recovered from a name.
type EpisodeKind int

const (
	// EpisodeNone means no season or episode marker was found.
	EpisodeNone EpisodeKind = iota
	// EpisodeSeasonOnly means a season marker was found without an episode.
	EpisodeSeasonOnly
	// EpisodeExplicit means both season and episode were resolved.
	EpisodeExplicit
)

// EpisodeInfo is the result of episode extraction. Season and Episode are
// only meaningful for the kinds that carry them.
type EpisodeInfo struct {
	Kind    EpisodeKind
	Season  int
	Episode int
}

// ExplicitEpisode builds an EpisodeInfo carrying both numbers.
func ExplicitEpisode(season, episode int) EpisodeInfo {
	return EpisodeInfo{Kind: EpisodeExplicit, Season: season, Episode: episode}
}

// SeasonOnly builds an EpisodeInfo carrying only a season number.
func SeasonOnly(season int) EpisodeInfo {
	return EpisodeInfo{Kind: EpisodeSeasonOnly, Season: season}
}

// NoEpisode is the zero EpisodeInfo, returned when nothing matched.
func NoEpisode() EpisodeInfo {
	return EpisodeInfo{Kind: EpisodeNone}
}

// SeasonFolder returns the "Season NN" directory segment for the info, or
// an empty string when no season is known.
func (e EpisodeInfo) SeasonFolder() string {
	if e.Kind == EpisodeNone {
		return ""
	}
	return fmt.Sprintf("Season %02d", e.Season)
}

// Label formats the info as a SxxEyy suffix for filenames. Season-only
// results use episode 01; results with no info use the bare "E01"
// placeholder so files still land with a unique, predictable name.
func (e EpisodeInfo) Label() string {
	switch e.Kind {
	case EpisodeExplicit:
		return fmt.Sprintf("S%02dE%02d", e.Season, e.Episode)
	case EpisodeSeasonOnly:
		return fmt.Sprintf("S%02dE01", e.Season)
	default:
		return "E01"
	}
}

var (
	explicitEpisodePattern = regexp.MustCompile(`(?i)S(\d+)E(\d+)`)
	crossEpisodePattern    = regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{1,2})\b`)
	seasonOnlyPattern      = regexp.MustCompile(`(?i)(?:\bS(\d{1,2})\b|Season\s+(\d+))`)
)

// compactCodeThreshold resolves the ambiguity in 2-digit compact episode
// codes: a value at or below the threshold reads as season 1 with that
// episode, above it as season digit plus episode digits. This is a
// heuristic carried from observed release conventions, not a guaranteed
// rule; it misreads e.g. a hypothetical season 2 episode 4 written "24".
const compactCodeThreshold = 25

// compactCodeShows lists titles whose releases use a trailing bare 2- or
// 3-digit code instead of SxxExx numbering.
var compactCodeShows = []string{
	"Family Guy",
	"American Dad",
	"The Simpsons",
	"South Park",
	"Futurama",
}

var compactCodePatterns = buildCompactCodePatterns()

func buildCompactCodePatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(compactCodeShows))
	for _, show := range compactCodeShows {
		patterns = append(patterns, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(show)+`\s+(\d{2,3})\b`))
	}
	return patterns
}

// ExtractEpisode resolves season and episode numbering from a raw name.
// Rules apply in priority order: explicit SxxEyy, compact NxM, per-title
// compact numeric codes, then a bare season marker. When nothing matches
// the result carries no numbering and callers assign the placeholder.
func ExtractEpisode(name string) EpisodeInfo {
	if m := explicitEpisodePattern.FindStringSubmatch(name); m != nil {
		return ExplicitEpisode(atoi(m[1]), atoi(m[2]))
	}
	if m := crossEpisodePattern.FindStringSubmatch(name); m != nil {
		return ExplicitEpisode(atoi(m[1]), atoi(m[2]))
	}
	for _, pattern := range compactCodePatterns {
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		return splitCompactCode(m[1])
	}
	if m := seasonOnlyPattern.FindStringSubmatch(name); m != nil {
		digits := m[1]
		if digits == "" {
			digits = m[2]
		}
		return SeasonOnly(atoi(digits))
	}
	return NoEpisode()
}

// splitCompactCode interprets a bare numeric episode code. Three digits
// split as season digit plus two episode digits. Two digits at or below
// compactCodeThreshold read as season 1; above it they split like the
// three-digit form.
func splitCompactCode(code string) EpisodeInfo {
	value := atoi(code)
	if len(code) == 2 && value <= compactCodeThreshold {
		return ExplicitEpisode(1, value)
	}
	return ExplicitEpisode(atoi(code[:1]), atoi(code[1:]))
}

func atoi(digits string) int {
	n, _ := strconv.Atoi(digits)
	return n
}
