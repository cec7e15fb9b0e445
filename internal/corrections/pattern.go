package corrections

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"organizer/internal/cache"
	"organizer/internal/logging"
)

// codeSignaturePattern extracts a code prefix from any PREFIX-NNN shaped
// name. Unlike the classifier's detector it carries no whitelist: a
// correction exists precisely because the whitelist missed the name.
var (
	codeSignaturePattern = regexp.MustCompile(`(?i)([A-Z0-9]{2,6})[-_](\d{3,7})`)
	fc2SignaturePattern  = regexp.MustCompile(`(?i)fc2[-_]?ppv`)
)

// specialChars are the separator characters whose presence forms part
// of a learned name signature.
const specialChars = "-_[]()"

// derivePattern captures the shape of a corrected name.
func derivePattern(name, original, correct string) cache.LearningPattern {
	return cache.LearningPattern{
		Name:       name,
		Original:   original,
		Correct:    correct,
		CodePrefix: codeSignature(name),
		NameLength: len(name),
		HasDigits:  strings.ContainsFunc(name, unicode.IsDigit),
		HasLetters: strings.ContainsFunc(name, unicode.IsLetter),
		HasSpecial: strings.ContainsAny(name, specialChars),
	}
}

// codeSignature returns the uppercase code prefix of a name, or "" when
// the name carries no code-like token.
func codeSignature(name string) string {
	if fc2SignaturePattern.MatchString(name) {
		return "FC2"
	}
	if match := codeSignaturePattern.FindStringSubmatch(name); match != nil {
		return strings.ToUpper(match[1])
	}
	return ""
}

// Matches reports whether a name resembles any learned pattern. A match
// widens AI escalation only; it never assigns a label.
func (m *Manager) Matches(ctx context.Context, name string) bool {
	patterns, err := m.store.LearningPatterns(ctx)
	if err != nil {
		m.logger.Warn("learning pattern load failed", logging.Error(err))
		return false
	}
	for _, pattern := range patterns {
		if patternMatches(name, pattern) {
			return true
		}
	}
	return false
}

func patternMatches(name string, pattern cache.LearningPattern) bool {
	if pattern.CodePrefix != "" {
		if signature := codeSignature(name); signature != "" && signature == pattern.CodePrefix {
			return true
		}
	}
	if pattern.HasDigits != strings.ContainsFunc(name, unicode.IsDigit) {
		return false
	}
	if pattern.HasLetters != strings.ContainsFunc(name, unicode.IsLetter) {
		return false
	}
	return true
}
