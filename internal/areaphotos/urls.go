package areaphotos

import "strings"

// ephemeralSchemes are URL schemes that only resolve inside the browser session
// that created them. They must never be persisted.
var ephemeralSchemes = []string{
	"blob:",
	"filesystem:",
}

// IsValid reports whether url can be stored in a collection: non-empty after
// trimming and not an ephemeral, session-local reference.
func IsValid(url string) bool {
	u := strings.TrimSpace(url)
	if u == "" {
		return false
	}
	lower := strings.ToLower(u)
	for _, scheme := range ephemeralSchemes {
		if strings.HasPrefix(lower, scheme) {
			return false
		}
	}
	return true
}

// FilterValid returns the valid entries of urls, trimmed, in their original
// order. Invalid entries are dropped silently. The result is never nil.
func FilterValid(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if !IsValid(u) {
			continue
		}
		out = append(out, strings.TrimSpace(u))
	}
	return out
}

// dedupe keeps the first occurrence of every entry.
func dedupe(urls []string) []string {
	out := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
