package nameclean

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// sep matches the separator runs releases use between title words.
const sep = `[\._\-\s]*`

// knownShow pairs a detection pattern with the canonical title to return.
// These cover titles whose release names mangle badly enough that generic
// stripping produces poor search queries.
type knownShow struct {
	pattern   *regexp.Regexp
	canonical string
}

var knownShows = []knownShow{
	{regexp.MustCompile(`(?i)Family` + sep + `Guy`), "Family Guy"},
	{regexp.MustCompile(`(?i)Game` + sep + `of` + sep + `Thrones`), "Game of Thrones"},
	{regexp.MustCompile(`(?i)Breaking` + sep + `Bad`), "Breaking Bad"},
	{regexp.MustCompile(`(?i)Better` + sep + `Call` + sep + `Saul`), "Better Call Saul"},
	{regexp.MustCompile(`(?i)Black` + sep + `Mirror`), "Black Mirror"},
	{regexp.MustCompile(`(?i)The` + sep + `Boys`), "The Boys"},
	{regexp.MustCompile(`(?i)House` + sep + `of` + sep + `the` + sep + `Dragon`), "House of the Dragon"},
	{regexp.MustCompile(`(?i)^Friends[\._\-\s]`), "Friends"},
	{regexp.MustCompile(`(?i)^Smallville[\._\-\s]`), "Smallville"},
	{regexp.MustCompile(`(?i)How` + sep + `I` + sep + `Met` + sep + `Your` + sep + `Mother`), "How I Met Your Mother"},
	{regexp.MustCompile(`(?i)Modern` + sep + `Family`), "Modern Family"},
	{regexp.MustCompile(`(?i)(?:Kono` + sep + `Suba|God'?s\s*Blessing)`), "KonoSuba: God's Blessing on This Wonderful World!"},
	{regexp.MustCompile(`(?i)The` + sep + `Simpsons`), "The Simpsons"},
	{regexp.MustCompile(`(?i)South` + sep + `Park`), "South Park"},
	{regexp.MustCompile(`(?i)Rick` + sep + `and` + sep + `Morty`), "Rick and Morty"},
	{regexp.MustCompile(`(?i)American` + sep + `Dad`), "American Dad!"},
	{regexp.MustCompile(`(?i)The` + sep + `Walking` + sep + `Dead`), "The Walking Dead"},
	{regexp.MustCompile(`(?i)Stranger` + sep + `Things`), "Stranger Things"},
	{regexp.MustCompile(`(?i)The` + sep + `Office`), "The Office"},
	{regexp.MustCompile(`(?i)^Sherlock[\._\-\s]`), "Sherlock"},
	{regexp.MustCompile(`(?i)Doctor` + sep + `Who`), "Doctor Who"},
}

// tvMarkerTitles is the broader recognition list used by classification:
// a name containing one of these titles plus a trailing compact numeric
// code counts as a show even without SxxExx markers.
var tvMarkerTitles = []string{
	"Family Guy", "Game of Thrones", "Breaking Bad", "Better Call Saul",
	"Black Mirror", "The Boys", "House of the Dragon", "Friends",
	"Smallville", "How I Met Your Mother", "Modern Family", "The Simpsons",
	"South Park", "Rick and Morty", "American Dad", "Futurama",
	"KonoSuba", "God's Blessing", "The Walking Dead", "Stranger Things",
	"The Office", "Sherlock", "Doctor Who", "Westworld", "Lost",
	"Prison Break", "Dexter", "True Detective", "Fargo", "The Crown",
	"Narcos", "Ozark", "The Witcher", "Mandalorian", "Vikings",
}

// TVMarkerTitles returns the list of well-known show titles used for
// compact-code detection. The returned slice must not be modified.
func TVMarkerTitles() []string {
	return tvMarkerTitles
}

var (
	bracketPrefixPattern = regexp.MustCompile(`^\[[^\]]+\]\.?`)
	episodeTailPattern   = regexp.MustCompile(`(?i)S\d+E\d+.*$`)
	seasonTailPattern    = regexp.MustCompile(`(?i)S\d{1,2}.*$`)
	crossTailPattern     = regexp.MustCompile(`(?i)\d+x\d+.*$`)
	seasonWordPattern    = regexp.MustCompile(`(?i)Season\s+\d+.*$`)
	completeTailPattern  = regexp.MustCompile(`(?i)Complete.*$`)
	yearTailPattern      = regexp.MustCompile(`\d{4}.*$`)
	resolutionPattern    = regexp.MustCompile(`(?i)\.(720p|1080p|2160p|4K|UHD).*$`)
	sourceTagPattern     = regexp.MustCompile(`(?i)\.(BluRay|WEB-DL|REMUX|WEBRip|BDRemux|HDRip|BDRip).*$`)
	codecTagPattern      = regexp.MustCompile(`(?i)\.(x264|x265|H264|H265|HEVC|AVC).*$`)
	sizeTagPattern       = regexp.MustCompile(`(?i)\[[\d\.]+GB\].*$`)
	hdTailPattern        = regexp.MustCompile(`(?i)HD\..*$`)
	uncensoredTagPattern = regexp.MustCompile(`(?i)\[Uncensored\].*$`)
	releaseTagPattern    = regexp.MustCompile(`(?i)(PROPER|REPACK|INTERNAL|LIMITED).*$`)
	hdrTagPattern        = regexp.MustCompile(`(?i)(HDR10|HDR|Atmos|TrueHD).*$`)
	separatorsPattern    = regexp.MustCompile(`[\._\-]+`)
)

// ExtractShowName recovers a search-friendly show title from a release
// name. Known titles resolve to their canonical form; otherwise season,
// year, and quality tails are stripped and the remainder is title-cased.
// Returns "" when nothing usable remains.
func ExtractShowName(name string) string {
	clean := bracketPrefixPattern.ReplaceAllString(name, "")

	for _, show := range knownShows {
		if show.pattern.MatchString(clean) {
			return show.canonical
		}
	}

	clean = episodeTailPattern.ReplaceAllString(clean, "")
	clean = seasonTailPattern.ReplaceAllString(clean, "")
	clean = crossTailPattern.ReplaceAllString(clean, "")
	clean = seasonWordPattern.ReplaceAllString(clean, "")
	clean = completeTailPattern.ReplaceAllString(clean, "")
	clean = stripQualityTails(clean)
	return titleCase(clean)
}

// ExtractMovieName recovers a search-friendly movie title from a release
// name by stripping year and quality tails and title-casing the rest.
// Returns "" when nothing usable remains.
func ExtractMovieName(name string) string {
	clean := bracketPrefixPattern.ReplaceAllString(name, "")
	clean = stripQualityTails(clean)
	clean = releaseTagPattern.ReplaceAllString(clean, "")
	clean = hdrTagPattern.ReplaceAllString(clean, "")
	return titleCase(clean)
}

func stripQualityTails(clean string) string {
	clean = yearTailPattern.ReplaceAllString(clean, "")
	clean = resolutionPattern.ReplaceAllString(clean, "")
	clean = sourceTagPattern.ReplaceAllString(clean, "")
	clean = codecTagPattern.ReplaceAllString(clean, "")
	clean = sizeTagPattern.ReplaceAllString(clean, "")
	clean = hdTailPattern.ReplaceAllString(clean, "")
	clean = uncensoredTagPattern.ReplaceAllString(clean, "")
	return strings.TrimSpace(clean)
}

func titleCase(clean string) string {
	clean = separatorsPattern.ReplaceAllString(clean, " ")
	clean = spaceRunPattern.ReplaceAllString(clean, " ")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return ""
	}
	return titleCaser.String(strings.ToLower(clean))
}
