package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vbonduro/renovo/internal/service"
	"github.com/vbonduro/renovo/internal/store"
)

// maxJSONBody caps request bodies for the JSON endpoints.
const maxJSONBody = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("write response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string, logger *slog.Logger) {
	writeJSON(w, status, errorResponse{Error: msg}, logger)
}

// writeServiceError maps service and store errors to HTTP statuses. Anything
// unrecognized is logged and reported as a 500 without detail.
func (s *Server) writeServiceError(w http.ResponseWriter, op string, projectID int64, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, err.Error(), s.logger)
	case errors.Is(err, service.ErrInvalidArea), errors.Is(err, service.ErrNoClassifier):
		writeError(w, http.StatusBadRequest, err.Error(), s.logger)
	case errors.Is(err, store.ErrVersionConflict):
		writeError(w, http.StatusConflict, "project was modified concurrently, try again", s.logger)
	default:
		s.logger.Error(op+" failed", "project_id", projectID, "error", err)
		writeError(w, http.StatusInternalServerError, op+" failed", s.logger)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body required")
		}
		return err
	}
	return nil
}

// parseID extracts the {id} path variable and returns it as int64.
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
