package portfolio

import (
	"strconv"
	"strings"
	"unicode"
)

// maxSlugAttempts bounds the unique-slug search: the base slug plus numbered
// variants up to base-10.
const maxSlugAttempts = 10

// Slugify lowercases the title and collapses every run of non-alphanumeric
// characters into a single hyphen.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// slugCandidate returns the nth candidate for a base slug: the base itself
// for attempt 1, then base-2, base-3, and so on.
func slugCandidate(base string, attempt int) string {
	if attempt <= 1 {
		return base
	}
	return base + "-" + strconv.Itoa(attempt)
}
