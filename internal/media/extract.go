// Package media finds the media files a note's HTML refers to.
package media

import (
	"regexp"
	"strings"
)

// FieldSeparator separates the fields stored in a note's flds column.
const FieldSeparator = "\x1f"

var (
	imgSrcRe = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)
	soundRe  = regexp.MustCompile(`(?i)\[sound:([^\]]+)\]`)
	bgURLRe  = regexp.MustCompile(`(?i)background-image:\s*url\(["']?([^"')\s]+)["']?\)`)
)

var externalPrefixes = []string{"http://", "https://", "//", "data:"}

// IsExternal reports whether ref points outside the media folder.
func IsExternal(ref string) bool {
	lower := strings.ToLower(ref)
	for _, p := range externalPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// Extract returns every local media filename referenced by an HTML
// fragment: <img src>, [sound:...] markers and CSS background-image URLs.
func Extract(html string) Set {
	out := make(Set)
	ExtractInto(out, html)
	return out
}

// ExtractInto adds the references found in html to refs.
func ExtractInto(refs Set, html string) {
	for _, re := range []*regexp.Regexp{imgSrcRe, soundRe, bgURLRe} {
		for _, m := range re.FindAllStringSubmatch(html, -1) {
			name := m[1]
			if name == "" || IsExternal(name) {
				continue
			}
			refs.Add(name)
		}
	}
}

// ExtractFields scans every field of a raw flds value.
func ExtractFields(refs Set, flds string) {
	for _, field := range strings.Split(flds, FieldSeparator) {
		ExtractInto(refs, field)
	}
}
