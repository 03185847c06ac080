// Package enrichment turns a creator handle into an enrichment result. It
// tries the external provider first, then model-based discovery, then a
// built-in dataset.
package enrichment

import (
	"regexp"
	"strings"
)

var profileURLPattern = regexp.MustCompile(`tiktok\.com/@([^?/]+)`)

// SanitizeHandle accepts "@handle", a bare handle or a full profile URL and
// returns the bare handle.
func SanitizeHandle(input string) string {
	trimmed := strings.TrimSpace(input)
	if m := profileURLPattern.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}
	return strings.TrimPrefix(trimmed, "@")
}

// ProfileURL returns the public profile URL for a bare handle.
func ProfileURL(handle string) string {
	return "https://www.tiktok.com/@" + handle
}
