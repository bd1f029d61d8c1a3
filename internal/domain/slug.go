package domain

import (
	"regexp"
	"strings"
)

// RE2's \s is ASCII-only; the classes below also cover \v, NEL and the
// Unicode separators, matching unicode.IsSpace.
var (
	nonSlugChars = regexp.MustCompile(`[^\p{L}\p{M}\p{Nd}\p{Nl}\p{Pc}\s\p{Z}\x{0B}\x{85}-]`)
	whitespace   = regexp.MustCompile(`[\s\p{Z}\x{0B}\x{85}]+`)
	hyphens      = regexp.MustCompile(`-+`)
)

// Slugify derives the base slug for a title. The result may be empty when the
// title has no word characters.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = strings.TrimSpace(s)
	s = nonSlugChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = hyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
