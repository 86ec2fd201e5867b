package validation

import (
	"regexp"
	"strings"
)

var bareURLPattern = regexp.MustCompile(`(?i)^https?://`)

// LooksLikeBareURL reports whether the trimmed text is a raw URL. The
// summarizer model occasionally echoes the input link back as its "summary",
// so every boundary that accepts model output re-checks with this guard and
// substitutes a human-readable string instead of failing.
func LooksLikeBareURL(s string) bool {
	return bareURLPattern.MatchString(strings.TrimSpace(s))
}
