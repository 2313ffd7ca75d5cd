package paper

import (
	"regexp"
	"strings"
)

// listMarkerRe matches "1.", "2)", "-", "*", "1.2." and similar list prefixes.
var listMarkerRe = regexp.MustCompile(`^[\d.)\-*]+\s*`)

// NormalizeInstructions splits free-text instructions into bullet items:
// one per non-empty line, trimmed, with a leading list marker removed.
// Lines that consist only of a marker are dropped.
func NormalizeInstructions(text string) []string {
	var items []string
	for _, line := range SplitLines(text) {
		s := strings.TrimSpace(line.Text)
		if s == "" {
			continue
		}
		s = listMarkerRe.ReplaceAllString(s, "")
		if s == "" {
			continue
		}
		items = append(items, s)
	}
	return items
}
