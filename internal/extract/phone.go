// Package extract recovers telephone numbers from document text.
//
// Extraction runs a cascade of independent pattern passes, each over
// the full input, plus a raw digit-run scan. Candidates are normalized
// to a canonical 11-digit form (leading country digit 1) and
// deduplicated. The raw-digit pass intentionally skips the strict
// length validation the cascade applies; the looser fallback matches
// the historical behavior downstream consumers rely on.
package extract

import (
	"regexp"
	"strings"
)

// phonePatterns is the ordered cascade. Every pattern is run to
// completion over the full text; results are unioned, not
// first-match-wins. Captured groups hold area code, prefix, and line
// number (plus the country digit for the 11-digit form).
var phonePatterns = []*regexp.Regexp{
	// (555) 123-4567
	regexp.MustCompile(`\((\d{3})\)[\s]*(\d{3})[-.\s]?(\d{4})`),
	// 555-123-4567 and 555 123 4567
	regexp.MustCompile(`(\d{3})[-\s](\d{3})[-\s](\d{4})`),
	// 555.123.4567
	regexp.MustCompile(`(\d{3})\.(\d{3})\.(\d{4})`),
	// 5551234567
	regexp.MustCompile(`\b(\d{3})(\d{3})(\d{4})\b`),
	// 1-555-123-4567, 15551234567
	regexp.MustCompile(`\b(1)[-.\s]?(\d{3})[-.\s]?(\d{3})[-.\s]?(\d{4})\b`),
}

// rawDigitRun matches boundary-delimited 10- or 11-digit runs. These
// are added to the candidate set regardless of cascade overlap;
// duplicates resolve at dedup time.
var rawDigitRun = regexp.MustCompile(`\b\d{10,11}\b`)

// PhoneNumbers extracts the deduplicated set of phone numbers from
// text, each in canonical digits-only form. Insertion order is
// preserved so repeated runs are reproducible. Text with no matches
// yields an empty result, never an error.
func PhoneNumbers(text string) []string {
	var candidates []string

	for _, pattern := range phonePatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			raw, ok := joinGroups(match)
			if !ok {
				continue
			}
			normalized := Normalize(raw)
			if !isCanonical(normalized) {
				continue
			}
			candidates = append(candidates, normalized)
		}
	}

	// Raw fallback pass: normalized but not re-validated.
	for _, run := range rawDigitRun.FindAllString(text, -1) {
		candidates = append(candidates, Normalize(run))
	}

	return dedup(candidates)
}

// Normalize strips non-digits and applies the canonical-form rules:
// a 10-digit candidate gains the leading country digit, an 11-digit
// candidate already starting with 1 is kept, and anything else passes
// through unchanged.
func Normalize(raw string) string {
	digits := stripNonDigits(raw)
	switch {
	case len(digits) == 10:
		return "1" + digits
	case len(digits) == 11 && digits[0] == '1':
		return digits
	default:
		return digits
	}
}

func isCanonical(s string) bool {
	if len(s) != 11 || s[0] != '1' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// joinGroups concatenates a match's captured groups into a raw digit
// string. A match with any empty group is discarded.
func joinGroups(match []string) (string, bool) {
	if len(match) < 2 {
		return "", false
	}
	var b strings.Builder
	for _, group := range match[1:] {
		if group == "" {
			return "", false
		}
		b.WriteString(group)
	}
	return b.String(), true
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func dedup(values []string) []string {
	out := []string{}
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
