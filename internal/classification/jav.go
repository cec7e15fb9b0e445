package classification

import (
	"fmt"
	"regexp"
	"strings"
)

// codePrefixes is the whitelist of studio/label prefixes recognized as
// adult-content codes. A pattern match alone is never enough; the
// captured prefix must appear here. FC2 releases bypass the whitelist
// entirely since their numbering has no studio prefix.
var codePrefixes = map[string]bool{
	"STARS": true, "START": true, "SDJS": true, "SDMU": true, "DSVR": true,
	"SSHN": true, "OKYH": true, "STAR": true,
	"SSIS": true, "SSNI": true, "SNIS": true, "SIVR": true, "ONED": true,
	"ONE": true, "SRS": true,
	"MIDE": true, "MIDV": true, "MIDD": true, "MIRD": true, "MIFD": true,
	"MIMK": true, "MIAA": true, "MDVR": true, "MIAD": true, "MIAE": true,
	"MIAS": true, "MIXS": true, "MIGD": true, "MIID": true, "MDLD": true,
	"MINT": true,
	"ABP": true, "ABS": true, "ABF": true, "CHN": true, "BGN": true,
	"DVAJ": true, "AJVR": true, "DV": true, "KA": true,
	"WANZ": true, "WAAA": true,
	"ADN": true, "ATID": true, "RBD": true, "SHKD": true, "JBD": true,
	"DASD": true, "DAZD": true, "DASS": true,
	"PPPD": true, "PPPE": true, "PPSD": true, "PPFD": true, "PPMD": true,
	"PPUD": true, "PPBD": true, "PPVR": true,
	"AVERV": true, "MDB": true, "BAZX": true, "BZVR": true, "BMVR": true,
	"BMVRS": true, "DPVR": true, "EXVR": true, "HOTVR": true, "KBVR": true,
	"KMVR": true, "VRKM": true, "SAVR": true, "SQVR": true, "BOKD": true,
	"JUX": true, "JUL": true, "JUR": true, "JUFD": true, "JUFE": true,
	"IPX": true, "IPZ": true, "IPTD": true, "IPZZ": true,
	"EBOD": true, "NHDTA": true, "HBAD": true,
	"FSDSS": true, "FLNS": true, "FSLV": true,
	"PRED": true, "MEYD": true, "JUY": true, "SPRD": true, "MVSD": true,
	"MXGS": true, "MXBD": true,
	"SDAB": true, "SDSI": true, "SDDE": true, "SDTH": true, "SDEN": true,
	"DOKS": true, "DOCP": true, "DOCD": true,
	"AVSA": true, "AVOP": true, "AVKH": true, "AVGL": true, "AVSW": true,
	"SERO": true, "FC2": true,
	"HUNTA": true, "HUNT": true, "HMN": true, "HMJM": true,
	"MIZD": true, "MIDA": true, "ROYD": true, "SAME": true, "PFES": true,
	"GVH": true, "ALDN": true, "BF": true, "REBD": true, "MD": true,
	"SONE": true, "ZSD": true,
}

// fc2Patterns match FC2-PPV numbering in its common wrappings. They are
// checked before the prefix patterns so the numeric code is not mistaken
// for a studio code.
var fc2Patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)FC2[-_]PPV[-_](\d{4,7})`),
	regexp.MustCompile(`(?i)\.com@FC2[-_]PPV[-_](\d{4,7})`),
	regexp.MustCompile(`(?i)FC2[-_]PPV[-_](\d{4,7})[-_]`),
}

// prefixCodePatterns capture a (prefix, code) pair from the surface
// forms releases use. Order matters only for extraction quality; every
// candidate is still validated against the whitelist.
var prefixCodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)([A-Z0-9]{2,6})[-_](\d{3,5})`),
	regexp.MustCompile(`(?i)([A-Z0-9]{2,6})\s+(\d{3,5})`),
	regexp.MustCompile(`(?i)([A-Z0-9]{2,6})(\d{3,5})`),
	regexp.MustCompile(`(?i)@([A-Z0-9]{2,6})[-_](\d{3,5})`),
	regexp.MustCompile(`(?i)\.com@([A-Z0-9]{2,6})[-_\s](\d{3,5})`),
	regexp.MustCompile(`(?i)h[hd]d\d+\.com@([A-Z0-9]{2,6})[-_](\d{3,5})`),
	regexp.MustCompile(`(?i)([A-Z0-9]{2,6})[-_](\d{3,5})[a-z]+`),
	regexp.MustCompile(`(?i)([A-Z0-9]{2,6})[-_](\d{3,5})[-_]uncensored`),
	regexp.MustCompile(`(?i)([A-Z0-9]{2,6})[-_](\d{3,5})\.TS`),
	regexp.MustCompile(`(?i)([A-Z0-9]{2,6})[-_](\d{3,5})_\[4K\]`),
	regexp.MustCompile(`(?i)\(Uncensored[^)]*\)\s*([A-Z0-9]{2,6})[-_](\d{3,5})`),
	regexp.MustCompile(`(?i)([A-Z0-9]{2,6})[-_](\d{3,5})[^a-zA-Z0-9]`),
}

// boardPrefixPattern handles forum rehosts that wedge a board name
// between the site tag and the code, e.g. "169bbs Com@sone 564".
var boardPrefixPattern = regexp.MustCompile(`(?i)([0-9]+bbs)\s+Com@([A-Z0-9]{2,6})[-_\s](\d{3,5})`)

// fc2AnywherePattern is the last-resort FC2 check; any FC2-PPV mention
// counts even when the numeric code is missing or malformed.
var fc2AnywherePattern = regexp.MustCompile(`(?i)fc2[-_]?ppv`)

var fc2LooseCodePattern = regexp.MustCompile(`(?i)fc2[-_]?ppv[-_]?(\d{4,7})`)

// IsJAV reports whether the name carries a whitelisted adult-content
// code in any recognized surface form.
func IsJAV(name string) bool {
	for _, pattern := range fc2Patterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	if m := boardPrefixPattern.FindStringSubmatch(name); m != nil {
		if codePrefixes[strings.ToUpper(m[2])] {
			return true
		}
	}
	for _, pattern := range prefixCodePatterns {
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if codePrefixes[strings.ToUpper(m[1])] || strings.Contains(strings.ToUpper(m[1]), "FC2") {
			return true
		}
	}

	upper := strings.ToUpper(name)
	for prefix := range codePrefixes {
		if strings.HasPrefix(upper, prefix+"-") ||
			strings.HasPrefix(upper, prefix+"_") ||
			strings.HasPrefix(upper, prefix+" ") {
			return true
		}
		if strings.Contains(upper, "@"+prefix+"-") || strings.Contains(upper, "@"+prefix+"_") {
			return true
		}
	}
	return fc2AnywherePattern.MatchString(name)
}

// ExtractCode recovers the canonical code from a name, normalized to
// "PREFIX-NNN" (or "FC2-PPV-NNNNNNN"). Returns "" when no whitelisted
// code can be extracted; callers fall back to the sanitized name.
func ExtractCode(name string) string {
	for _, pattern := range fc2Patterns {
		if m := pattern.FindStringSubmatch(name); m != nil {
			return "FC2-PPV-" + m[1]
		}
	}
	if m := boardPrefixPattern.FindStringSubmatch(name); m != nil {
		if codePrefixes[strings.ToUpper(m[2])] {
			return fmt.Sprintf("%s-%s", strings.ToUpper(m[2]), m[3])
		}
	}
	for _, pattern := range prefixCodePatterns {
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if codePrefixes[strings.ToUpper(m[1])] {
			return fmt.Sprintf("%s-%s", strings.ToUpper(m[1]), m[2])
		}
	}

	upper := strings.ToUpper(name)
	for prefix := range codePrefixes {
		if strings.HasPrefix(upper, prefix+"-") ||
			strings.HasPrefix(upper, prefix+"_") ||
			strings.HasPrefix(upper, prefix+" ") {
			codePattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(prefix) + `[-_\s](\d{3,7})`)
			if m := codePattern.FindStringSubmatch(name); m != nil {
				return fmt.Sprintf("%s-%s", prefix, m[1])
			}
		}
		sitePattern := regexp.MustCompile(`(?i)\.com@` + regexp.QuoteMeta(prefix) + `[-_](\d{3,7})`)
		if m := sitePattern.FindStringSubmatch(name); m != nil {
			return fmt.Sprintf("%s-%s", prefix, m[1])
		}
	}
	if m := fc2LooseCodePattern.FindStringSubmatch(name); m != nil {
		return "FC2-PPV-" + m[1]
	}
	return ""
}

// CodePrefix returns the studio prefix portion of a canonical code, or
// "" if the code has no dash. Used by the learning subsystem to widen
// pattern matching.
func CodePrefix(code string) string {
	if idx := strings.Index(code, "-"); idx > 0 {
		return code[:idx]
	}
	return ""
}
