package author

import (
	"regexp"
	"strings"
)

// Venue strings from the API carry edition noise: years ("VLDB 2020",
// "SIGMOD '21", "(2019)"), ordinals ("31st Conference on ..."), and the
// whitespace they leave behind. Normalization strips these so the same
// venue aggregates under one key.
var (
	// 4-digit years, optionally with an -NN issue suffix, at word
	// boundaries (covers start, end, whitespace, parens, brackets).
	yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}(?:-\d{2})?\b`)

	// Apostrophe-prefixed 2-digit years: '20, SIGMOD'21.
	shortYearPattern = regexp.MustCompile(`'\d{2}\b`)

	// Ordinal edition numbers: 1st, 22nd, 33rd, 44th.
	ordinalPattern = regexp.MustCompile(`(?i)\b\d+(?:st|nd|rd|th)\b`)

	// Parens and brackets left empty after year removal.
	emptyGroupPattern = regexp.MustCompile(`\(\s*\)|\[\s*\]`)

	spacePattern = regexp.MustCompile(`\s+`)
)

// NormalizeVenue strips year and edition markers from a venue name and
// collapses the remaining whitespace. It is idempotent:
// NormalizeVenue(NormalizeVenue(v)) == NormalizeVenue(v).
func NormalizeVenue(v string) string {
	v = yearPattern.ReplaceAllString(v, " ")
	v = shortYearPattern.ReplaceAllString(v, " ")
	v = ordinalPattern.ReplaceAllString(v, " ")
	v = emptyGroupPattern.ReplaceAllString(v, " ")
	v = spacePattern.ReplaceAllString(v, " ")
	return strings.TrimSpace(v)
}
