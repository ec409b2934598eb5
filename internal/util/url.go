package util

import (
	"net/url"
	"strings"
)

// NormalizeDealURL reduces a deal URL to a comparable form: scheme, host and
// path with trailing slashes stripped, all lowercased. Query strings and
// fragments are dropped so tracking parameters don't defeat duplicate
// detection. URLs that fail to parse (or have no host) fall back to a plain
// lowercase-trim of the raw string.
func NormalizeDealURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		return strings.ToLower(trimmed)
	}
	path := strings.TrimRight(parsed.Path, "/")
	return strings.ToLower(parsed.Scheme + "://" + parsed.Host + path)
}
