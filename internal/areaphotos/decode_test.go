package areaphotos

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Map
	}{
		{name: "well formed", raw: `{"kitchen":["https://a","https://b"]}`, want: Map{"kitchen": {"https://a", "https://b"}}},
		{name: "null document", raw: `null`, want: Map{}},
		{name: "array document", raw: `["https://a"]`, want: Map{}},
		{name: "number document", raw: `42`, want: Map{}},
		{name: "invalid json", raw: `{"kitchen":`, want: Map{}},
		{name: "empty input", raw: ``, want: Map{}},
		{name: "non array value dropped", raw: `{"kitchen":"https://a","den":["https://b"]}`, want: Map{"den": {"https://b"}}},
		{name: "null value dropped", raw: `{"kitchen":null}`, want: Map{}},
		{name: "non string elements dropped", raw: `{"kitchen":[1,null,{"u":"x"},"https://a",true]}`, want: Map{"kitchen": {"https://a"}}},
		{name: "empty array kept", raw: `{"kitchen":[]}`, want: Map{"kitchen": {}}},
		{name: "legacy keys kept verbatim", raw: `{"Primary Bedroom":["https://a"]}`, want: Map{"Primary Bedroom": {"https://a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(json.RawMessage(tt.raw)))
		})
	}
}

func TestMapUnmarshalJSON_EmbeddedNeverFails(t *testing.T) {
	var doc struct {
		Style  string `json:"style"`
		Photos Map    `json:"photos"`
	}
	err := json.Unmarshal([]byte(`{"style":"modern","photos":"not a map"}`), &doc)
	require.NoError(t, err)
	assert.Equal(t, "modern", doc.Style)
	assert.Equal(t, Map{}, doc.Photos)
}

func TestMapMarshalJSON(t *testing.T) {
	data, err := json.Marshal(Map(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	data, err = json.Marshal(Map{"den": nil, "kitchen": {"https://a"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"den":[],"kitchen":["https://a"]}`, string(data))
}
