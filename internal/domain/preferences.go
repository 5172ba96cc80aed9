package domain

import (
	"encoding/json"
	"fmt"

	"github.com/vbonduro/renovo/internal/areaphotos"
)

// Field names of the design preferences document that this service reads.
const (
	fieldStyle        = "style"
	fieldBudget       = "budget"
	fieldNotes        = "notes"
	fieldBeforePhotos = "before_photos"
)

// DesignPreferences is a project's design preferences document. The document
// is read and written whole; fields this service does not model are kept in
// Extra and written back unchanged.
type DesignPreferences struct {
	Style        string
	Budget       string
	Notes        string
	BeforePhotos areaphotos.Map
	Extra        map[string]json.RawMessage
}

// NewDesignPreferences returns an empty document with an empty photo
// collection.
func NewDesignPreferences() *DesignPreferences {
	return &DesignPreferences{BeforePhotos: areaphotos.Map{}}
}

// Clone returns a deep copy of p.
func (p *DesignPreferences) Clone() *DesignPreferences {
	out := *p
	out.BeforePhotos = p.BeforePhotos.Clone()
	if p.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(p.Extra))
		for k, v := range p.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &out
}

func (p *DesignPreferences) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("failed to decode design preferences: %w", err)
	}

	*p = DesignPreferences{BeforePhotos: areaphotos.Decode(fields[fieldBeforePhotos])}
	p.Style = decodeString(fields[fieldStyle])
	p.Budget = decodeString(fields[fieldBudget])
	p.Notes = decodeString(fields[fieldNotes])

	for _, known := range []string{fieldStyle, fieldBudget, fieldNotes, fieldBeforePhotos} {
		delete(fields, known)
	}
	if len(fields) > 0 {
		p.Extra = fields
	}
	return nil
}

func (p DesignPreferences) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(p.Extra)+4)
	for k, v := range p.Extra {
		fields[k] = v
	}
	fields[fieldStyle] = p.Style
	fields[fieldBudget] = p.Budget
	fields[fieldNotes] = p.Notes
	fields[fieldBeforePhotos] = p.BeforePhotos
	return json.Marshal(fields)
}

// decodeString returns raw as a string, or "" when it is absent or not a
// string.
func decodeString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}
