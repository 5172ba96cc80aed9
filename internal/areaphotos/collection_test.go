package areaphotos

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_DeduplicatesAndPreservesOrder(t *testing.T) {
	m := Add(Map{}, "Kitchen", []string{"https://a", "https://b"})
	m = Add(m, "kitchen", []string{"https://b", "https://c"})

	want := Map{"kitchen": {"https://a", "https://b", "https://c"}}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("Add() mismatch (-want +got):\n%s", diff)
	}
}

func TestAdd_FiltersInvalid(t *testing.T) {
	m := Add(Map{}, "Primary Bedroom", []string{"", "blob:1", " https://a "})
	assert.Equal(t, Map{"primary-bedroom": {"https://a"}}, m)
}

func TestAdd_NothingValidReturnsEqualCopy(t *testing.T) {
	in := Map{"kitchen": {"https://a"}}
	got := Add(in, "Kitchen", []string{"", "blob:x"})
	assert.True(t, got.Equal(in))

	got["kitchen"][0] = "changed"
	assert.Equal(t, "https://a", in["kitchen"][0], "result must not share storage with input")
}

func TestAdd_DoesNotModifyInput(t *testing.T) {
	in := Map{"kitchen": {"https://a"}}
	_ = Add(in, "kitchen", []string{"https://b"})
	assert.Equal(t, Map{"kitchen": {"https://a"}}, in)
}

func TestAdd_NilMap(t *testing.T) {
	got := Add(nil, "Den", []string{"https://a"})
	assert.Equal(t, Map{"den": {"https://a"}}, got)
}

func TestRemove(t *testing.T) {
	base := Map{"kitchen": {"https://a", "https://b", "https://c"}}

	tests := []struct {
		name  string
		label string
		index int
		want  Map
	}{
		{name: "first", label: "Kitchen", index: 0, want: Map{"kitchen": {"https://b", "https://c"}}},
		{name: "middle", label: "kitchen", index: 1, want: Map{"kitchen": {"https://a", "https://c"}}},
		{name: "last", label: "KITCHEN", index: 2, want: Map{"kitchen": {"https://a", "https://b"}}},
		{name: "out of range high", label: "kitchen", index: 99, want: base},
		{name: "equal to length", label: "kitchen", index: 3, want: base},
		{name: "negative", label: "kitchen", index: -1, want: base},
		{name: "missing area", label: "garage", index: 0, want: base},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Remove(base, tt.label, tt.index)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Remove() mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, []string{"https://a", "https://b", "https://c"}, base["kitchen"], "input modified")
		})
	}
}

func TestRemove_LastEntryKeepsEmptyArea(t *testing.T) {
	got := Remove(Map{"den": {"https://a"}}, "den", 0)
	require.Contains(t, got, "den")
	assert.Empty(t, got["den"])
}

func TestReorder(t *testing.T) {
	base := Map{"kitchen": {"a", "b", "c"}}

	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{name: "first to last", from: 0, to: 2, want: []string{"b", "c", "a"}},
		{name: "last to first", from: 2, to: 0, want: []string{"c", "a", "b"}},
		{name: "adjacent", from: 1, to: 2, want: []string{"a", "c", "b"}},
		{name: "same index", from: 1, to: 1, want: []string{"a", "b", "c"}},
		{name: "from out of range", from: 3, to: 0, want: []string{"a", "b", "c"}},
		{name: "to out of range", from: 0, to: 3, want: []string{"a", "b", "c"}},
		{name: "negative", from: -1, to: 0, want: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reorder(base, "Kitchen", tt.from, tt.to)
			assert.Equal(t, Map{"kitchen": tt.want}, got)
			assert.Equal(t, []string{"a", "b", "c"}, base["kitchen"], "input modified")
		})
	}
}

func TestReorder_MissingArea(t *testing.T) {
	base := Map{"kitchen": {"a", "b"}}
	assert.Equal(t, base, Reorder(base, "garage", 0, 1))
}

func TestGet(t *testing.T) {
	m := Map{"kitchen": {"https://a", "blob:1", "https://b"}}

	assert.Equal(t, []string{"https://a", "https://b"}, Get(m, "Kitchen"))
	assert.Equal(t, []string{}, Get(m, "garage"))
	assert.Equal(t, []string{}, Get(nil, "garage"))
}

func TestGet_LegacyFallback(t *testing.T) {
	m := Map{"Primary Bedroom": {"https://a", ""}}

	assert.Equal(t, []string{"https://a"}, Get(m, "Primary Bedroom"))
	assert.Empty(t, Get(m, "primary-bedroom"), "fallback only applies to the raw label")
}

func TestGet_PrefersNormalizedKey(t *testing.T) {
	m := Map{
		"Primary Bedroom": {"https://legacy"},
		"primary-bedroom": {"https://new"},
	}
	assert.Equal(t, []string{"https://new"}, Get(m, "Primary Bedroom"))
}

func TestGet_ReturnsCopy(t *testing.T) {
	m := Map{"kitchen": {"https://a"}}
	got := Get(m, "kitchen")
	got[0] = "changed"
	assert.Equal(t, "https://a", m["kitchen"][0])
}

func TestMapEqual(t *testing.T) {
	assert.True(t, Map(nil).Equal(Map{}))
	assert.True(t, Map{"a": {"1", "2"}}.Equal(Map{"a": {"1", "2"}}))
	assert.False(t, Map{"a": {"1", "2"}}.Equal(Map{"a": {"2", "1"}}))
	assert.False(t, Map{"a": {"1"}}.Equal(Map{"b": {"1"}}))
	assert.False(t, Map{"a": {"1"}}.Equal(Map{"a": {"1"}, "b": {}}))
}

func TestMapKeys(t *testing.T) {
	assert.Equal(t, []string{"den", "kitchen", "primary-bedroom"},
		Map{"kitchen": nil, "primary-bedroom": nil, "den": nil}.Keys())
}
