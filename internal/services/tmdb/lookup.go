package tmdb

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Match is a resolved canonical identity for a title.
type Match struct {
	ID    int64
	Title string
	Year  string
}

// manualMappings rewrite search queries for titles whose release names
// never match TMDB's canonical form. Keys are matched as lowercase
// substrings.
var manualMappings = []struct {
	key    string
	mapped string
}{
	{"konosuba legend of crimson", "KonoSuba: God's Blessing on This Wonderful World! Legend of Crimson"},
	{"konosuba god's blessing", "KonoSuba: God's Blessing on This Wonderful World! Legend of Crimson"},
	{"konosuba", "KonoSuba: God's Blessing on This Wonderful World! Legend of Crimson"},
}

var (
	yearPattern       = regexp.MustCompile(`(\d{4})`)
	queryCleanPattern = regexp.MustCompile(`[^\w\s\d']`)
	querySpacePattern = regexp.MustCompile(`\s+`)
)

// shortQueryWordLimit controls the shortened fallback search: queries
// longer than fallbackWordThreshold words are retried with only the
// first shortQueryWordLimit words when the full query finds nothing.
const (
	fallbackWordThreshold = 5
	shortQueryWordLimit   = 3
)

// FindMovie resolves a movie title to its canonical TMDB identity.
// Returns (nil, nil) when TMDB has no plausible match; transport
// failures return an error.
func FindMovie(ctx context.Context, searcher Searcher, title string) (*Match, error) {
	return find(ctx, title, func(ctx context.Context, query string, year int) (*Response, error) {
		return searcher.SearchMovie(ctx, query, year)
	})
}

// FindShow resolves a show title to its canonical TMDB identity.
func FindShow(ctx context.Context, searcher Searcher, title string) (*Match, error) {
	return find(ctx, title, func(ctx context.Context, query string, year int) (*Response, error) {
		return searcher.SearchTV(ctx, query, year)
	})
}

func find(ctx context.Context, title string, search func(context.Context, string, int) (*Response, error)) (*Match, error) {
	query := title
	lower := strings.ToLower(title)
	for _, mapping := range manualMappings {
		if strings.Contains(lower, mapping.key) {
			query = mapping.mapped
			break
		}
	}

	var year int
	if m := yearPattern.FindStringSubmatch(query); m != nil {
		year, _ = strconv.Atoi(m[1])
	}
	query = cleanQuery(query)
	if query == "" {
		return nil, nil
	}

	resp, err := search(ctx, query, year)
	if err != nil {
		return nil, err
	}
	if match := bestMatch(query, resp.Results); match != nil {
		return match, nil
	}

	// Long anime and multi-part titles often fail whole; retry with a
	// truncated query before giving up.
	words := strings.Fields(query)
	if len(words) <= fallbackWordThreshold {
		return nil, nil
	}
	short := strings.Join(words[:shortQueryWordLimit], " ")
	resp, err = search(ctx, short, year)
	if err != nil {
		return nil, err
	}
	return bestMatch(short, resp.Results), nil
}

// cleanQuery strips punctuation except apostrophes and collapses spaces.
func cleanQuery(title string) string {
	clean := queryCleanPattern.ReplaceAllString(title, " ")
	clean = querySpacePattern.ReplaceAllString(clean, " ")
	return strings.TrimSpace(clean)
}

// bestMatch ranks results by fuzzy distance to the query, preferring the
// closest title and falling back to TMDB's own ordering on ties or when
// no title is fuzzily close.
func bestMatch(query string, results []Result) *Match {
	if len(results) == 0 {
		return nil
	}
	best := 0
	bestRank := -1
	for i, result := range results {
		title := result.DisplayTitle()
		// Either direction counts: the query may carry year/quality
		// noise around the canonical title, or the canonical title may
		// extend a truncated query.
		rank := fuzzy.RankMatchNormalizedFold(title, query)
		if reverse := fuzzy.RankMatchNormalizedFold(query, title); reverse >= 0 && (rank < 0 || reverse < rank) {
			rank = reverse
		}
		if rank < 0 {
			continue
		}
		if bestRank < 0 || rank < bestRank {
			best = i
			bestRank = rank
		}
	}
	chosen := results[best]
	return &Match{
		ID:    chosen.ID,
		Title: chosen.DisplayTitle(),
		Year:  chosen.Year(),
	}
}
