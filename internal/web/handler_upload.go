package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/vbonduro/renovo/internal/photostore/local"
)

const maxPhotoSize = 50 * 1024 * 1024 // 50 MB

// allowedImageTypes is the set of MIME types accepted for uploaded photos.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniffing algorithm (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

type uploadResponse struct {
	Area   string   `json:"area"`
	URL    string   `json:"url"`
	Photos []string `json:"photos"`
}

func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id", s.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize+1024*1024)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse form", s.logger)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file required", s.logger)
		return
	}
	defer closeWithLog(file, "upload file", s.logger)

	if header.Size > maxPhotoSize {
		writeError(w, http.StatusBadRequest, "image too large", s.logger)
		return
	}

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("read upload failed", "project_id", projectID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read file", s.logger)
		return
	}

	mimeType, ok := allowedImageMIME(imageData)
	if !ok {
		writeError(w, http.StatusBadRequest, "unsupported image format", s.logger)
		return
	}

	result, err := s.service.UploadPhoto(r.Context(), projectID, r.FormValue("area"), imageData, mimeType)
	if err != nil {
		s.writeServiceError(w, "upload photo", projectID, err)
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{Area: result.Area, URL: result.URL, Photos: result.Photos}, s.logger)
}

func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	reader, mimeType, err := s.photoStore.Get(r.Context(), key)
	if err != nil {
		if !errors.Is(err, local.ErrNotFound) {
			s.logger.Warn("get photo failed", "storage_key", key, "error", err)
		}
		http.NotFound(w, r)
		return
	}
	defer closeWithLog(reader, "photo reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write photo failed", "storage_key", key, "error", err)
	}
}
