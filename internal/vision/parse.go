package vision

import (
	"strings"
)

// maxAreaLen caps labels taken from model output.
const maxAreaLen = 60

// ParseArea extracts the room label from a model response. It accepts either
// "Area: Kitchen" or a bare "Kitchen" line, skips conversational preamble, and
// strips quotes and trailing punctuation.
func ParseArea(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.Trim(line, " \t\r*_`")
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "area:") {
			return cleanLabel(line[len("area:"):])
		}

		// Skip common headers or non-answer lines
		if strings.HasPrefix(line, "Here") || strings.HasPrefix(line, "I see") || strings.HasPrefix(line, "Based on") {
			continue
		}

		return cleanLabel(line)
	}
	return ""
}

func cleanLabel(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'*.`+"`")
	s = strings.TrimSpace(s)
	if len(s) > maxAreaLen {
		return ""
	}
	return s
}
