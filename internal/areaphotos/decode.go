package areaphotos

import (
	"bytes"
	"encoding/json"
)

// Decode reads a collection from loosely-typed JSON. It never fails: a value
// that is not an object decodes to an empty map, keys whose value is not an
// array are dropped, and non-string array elements are skipped.
func Decode(raw json.RawMessage) Map {
	out := Map{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return out
	}
	for key, value := range fields {
		urls, ok := decodeURLs(value)
		if !ok {
			continue
		}
		out[key] = urls
	}
	return out
}

func decodeURLs(raw json.RawMessage) ([]string, bool) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil || elems == nil {
		return nil, false
	}
	urls := make([]string, 0, len(elems))
	for _, elem := range elems {
		var u string
		if bytes.Equal(bytes.TrimSpace(elem), []byte("null")) {
			continue
		}
		if err := json.Unmarshal(elem, &u); err != nil {
			continue
		}
		urls = append(urls, u)
	}
	return urls, true
}

// UnmarshalJSON implements json.Unmarshaler using Decode, so a malformed
// collection never fails decoding of the document that embeds it.
func (m *Map) UnmarshalJSON(data []byte) error {
	*m = Decode(data)
	return nil
}

// MarshalJSON encodes a nil map as {} and nil lists as [] rather than null.
func (m Map) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]string(m.Clone()))
}
