package areaphotos

import (
	"slices"
	"sort"
)

// Map is an area photo collection: area key to an ordered list of unique photo
// URLs. Keys written by this package are always normalized; legacy data may
// still carry raw labels until Migrate has run.
type Map map[string][]string

// Clone returns a deep copy of m. The copy of a nil map is an empty map.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = copyURLs(v)
	}
	return out
}

// Equal reports whether m and other hold the same keys with the same
// sequences in the same order. A nil map equals an empty one.
func (m Map) Equal(other Map) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		w, ok := other[k]
		if !ok || !slices.Equal(v, w) {
			return false
		}
	}
	return true
}

// Keys returns the keys of m in lexicographic order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Add appends the valid entries of urls to the area's list, keeping only the
// first occurrence of each URL. When nothing in urls is valid the result is an
// unchanged copy of m.
func Add(m Map, label string, urls []string) Map {
	valid := FilterValid(urls)
	out := m.Clone()
	if len(valid) == 0 {
		return out
	}
	key := Normalize(label)
	out[key] = dedupe(append(out[key], valid...))
	return out
}

// Remove drops the entry at index from the area's list. A missing area or an
// out-of-range index leaves the copy unchanged.
func Remove(m Map, label string, index int) Map {
	out := m.Clone()
	key := Normalize(label)
	urls, ok := out[key]
	if !ok || index < 0 || index >= len(urls) {
		return out
	}
	out[key] = slices.Delete(urls, index, index+1)
	return out
}

// Reorder moves the entry at from to position to, shifting the entries in
// between. Out-of-range indices leave the copy unchanged.
func Reorder(m Map, label string, from, to int) Map {
	out := m.Clone()
	key := Normalize(label)
	urls, ok := out[key]
	if !ok || !inRange(from, len(urls)) || !inRange(to, len(urls)) || from == to {
		return out
	}
	moved := urls[from]
	urls = slices.Delete(urls, from, from+1)
	out[key] = slices.Insert(urls, to, moved)
	return out
}

// Get returns the valid photos stored for label. When the normalized key has
// none, the raw label is tried as a legacy key so collections written before
// normalization stay readable until they are migrated.
func Get(m Map, label string) []string {
	if urls := FilterValid(m[Normalize(label)]); len(urls) > 0 {
		return urls
	}
	return FilterValid(m[label])
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}

func copyURLs(urls []string) []string {
	out := make([]string, len(urls))
	copy(out, urls)
	return out
}
