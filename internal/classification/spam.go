package classification

import "regexp"

// spamPatterns match promotional inserts and executable payloads that
// show up inside release bundles. Several are CJK ad banners seen in the
// wild, in both simplified and traditional forms.
var spamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`★+.*免费.*手游`),
	regexp.MustCompile(`★+.*免費.*手遊`),
	regexp.MustCompile(`免费.*游戏`),
	regexp.MustCompile(`免費.*遊戲`),
	regexp.MustCompile(`18禁.*手游`),
	regexp.MustCompile(`18禁.*手遊`),
	regexp.MustCompile(`广告`),
	regexp.MustCompile(`廣告`),
	regexp.MustCompile(`推广`),
	regexp.MustCompile(`推廣`),
	regexp.MustCompile(`(?i).*\.exe$`),
	regexp.MustCompile(`(?i).*\.msi$`),
	regexp.MustCompile(`(?i)setup.*\.exe`),
	regexp.MustCompile(`(?i)install.*\.exe`),
}

// IsSpam reports whether the name looks like an advertisement or a
// bundled executable rather than media content.
func IsSpam(name string) bool {
	for _, pattern := range spamPatterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	return false
}
