package media

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"
)

// SanitizeFilename strips any path components and replaces characters outside
// [a-zA-Z0-9._-] with hyphens, so user-supplied names cannot shape the key.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r) && r < 128:
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	out := b.String()
	if out == "" || out == "." || out == ".." {
		return "file"
	}
	return out
}

// PortfolioKey builds the object key for a portfolio image:
// {envPrefix}/portfolio/{slug}/{timestamp}-{sanitizedFilename}.
func PortfolioKey(envPrefix, slug, filename string, now time.Time) string {
	return fmt.Sprintf("%s/portfolio/%s/%d-%s",
		envPrefix, slug, now.UnixMilli(), SanitizeFilename(filename))
}

// PartnerAvatarKey builds the object key for a partner avatar:
// {envPrefix}/partners/{slugifiedName}/avatar/{timestamp}-{sanitizedFilename}.
func PartnerAvatarKey(envPrefix, partnerName, filename string, now time.Time) string {
	return fmt.Sprintf("%s/partners/%s/avatar/%d-%s",
		envPrefix, slugifyName(partnerName), now.UnixMilli(), SanitizeFilename(filename))
}

// slugifyName lowercases a partner name and collapses non-alphanumeric runs
// into hyphens.
func slugifyName(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "partner"
	}
	return out
}
