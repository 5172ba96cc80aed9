package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaClassify(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{
			"model":    got.Model,
			"response": "Here you go:\nArea: Guest Bath",
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	classifier := NewOllamaClassifier(server.URL+"/", "llava")

	imageData := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	result, err := classifier.Classify(context.Background(), bytes.NewReader(imageData), "image/jpeg")

	require.NoError(t, err)
	assert.Equal(t, "Guest Bath", result.Area)
	assert.Equal(t, "llava", got.Model)
	assert.False(t, got.Stream)
	assert.Len(t, got.Images, 1)
}

func TestOllamaClassifyNetworkError(t *testing.T) {
	classifier := NewOllamaClassifier("http://localhost:99999", "llava")

	_, err := classifier.Classify(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg")
	assert.Error(t, err)
}

func TestOllamaClassifyServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	classifier := NewOllamaClassifier(server.URL, "llava")

	_, err := classifier.Classify(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg")
	assert.Error(t, err)
}

func TestOllamaClassifyInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	classifier := NewOllamaClassifier(server.URL, "llava")

	_, err := classifier.Classify(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg")
	assert.Error(t, err)
}

func TestOllamaClassifyReadError(t *testing.T) {
	classifier := NewOllamaClassifier("http://localhost:11434", "llava")

	_, err := classifier.Classify(context.Background(), io.MultiReader(&failingReader{}), "image/jpeg")
	assert.Error(t, err)
}

type failingReader struct{}

func (f *failingReader) Read(_ []byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}
