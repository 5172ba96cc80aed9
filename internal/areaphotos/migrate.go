package areaphotos

// Migrate rewrites m so that every key is normalized. Keys that normalize to
// the same area are merged: their lists are concatenated in lexicographic
// order of the original keys, filtered, and de-duplicated keeping the first
// occurrence. A group that yields no valid URLs keeps its key with an empty
// list.
//
// Migrate is idempotent and returns a value equal to m when m is already
// normalized and clean, so it is safe to run on every load.
func Migrate(m Map) Map {
	groups := make(map[string][]string, len(m))
	for _, raw := range m.Keys() {
		key := Normalize(raw)
		groups[key] = append(groups[key], m[raw]...)
	}

	out := make(Map, len(groups))
	for key, urls := range groups {
		out[key] = dedupe(FilterValid(urls))
	}
	return out
}

// NeedsMigration reports whether Migrate would change m.
func NeedsMigration(m Map) bool {
	return !Migrate(m).Equal(m)
}
