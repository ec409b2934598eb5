package util

import (
	"regexp"
	"strings"
)

const maxSlugLen = 80

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts s into a URL-safe slug: lowercase alphanumerics with
// single hyphens, capped at 80 characters.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlugChars.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = strings.Trim(s[:maxSlugLen], "-")
	}
	return s
}

// DealSlug builds a deal slug from the deal title and the resolved store's
// slug, e.g. "30-off-sitewide-example-shop".
func DealSlug(title, storeSlug string) string {
	return Slugify(Slugify(title) + "-" + storeSlug)
}
