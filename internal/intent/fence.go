package intent

import (
	"regexp"
	"strings"
)

var (
	// openFence matches a leading ```. A language tag only counts as one when
	// a newline follows it, so a one-line fence keeps its first word.
	openFence = regexp.MustCompile("^```(?:[A-Za-z0-9_-]+[ \t]*\r?\n|[ \t]*\r?\n?)")
	// closeFence matches a trailing ```.
	closeFence = regexp.MustCompile("\r?\n?[ \t]*```$")
)

// stripFence removes a code fence wrapping the whole payload and trims it.
// An opening fence without a closing one is removed as well.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = openFence.ReplaceAllString(s, "")
	s = closeFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
