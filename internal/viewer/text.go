package viewer

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	blockTagRe  = regexp.MustCompile(`(?i)</?(p|div|br|li|h[1-6])[^>]*>`)
	stripPolicy = bluemonday.StrictPolicy()
)

// FirstLine returns the first non-empty line of text in an HTML fragment,
// with tags removed and entities decoded.
func FirstLine(fragment string) string {
	withBreaks := blockTagRe.ReplaceAllString(html.UnescapeString(fragment), "\n")
	text := html.UnescapeString(stripPolicy.Sanitize(withBreaks))
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
