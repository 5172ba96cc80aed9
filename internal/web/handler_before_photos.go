package web

import (
	"net/http"
	"strconv"

	"github.com/vbonduro/renovo/internal/areaphotos"
)

type beforePhotosResponse struct {
	ProjectID    int64          `json:"project_id"`
	BeforePhotos areaphotos.Map `json:"before_photos"`
}

type areaPhotosResponse struct {
	Area   string   `json:"area"`
	Photos []string `json:"photos"`
}

type addPhotosRequest struct {
	URLs []string `json:"urls"`
}

type reorderRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

type migrateResponse struct {
	Changed bool `json:"changed"`
}

func areaResponse(area string, photos []string) areaPhotosResponse {
	return areaPhotosResponse{Area: areaphotos.Normalize(area), Photos: photos}
}

func (s *Server) handleGetBeforePhotos(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id", s.logger)
		return
	}

	photos, err := s.service.GetBeforePhotos(r.Context(), projectID)
	if err != nil {
		s.writeServiceError(w, "get before photos", projectID, err)
		return
	}
	writeJSON(w, http.StatusOK, beforePhotosResponse{ProjectID: projectID, BeforePhotos: photos}, s.logger)
}

func (s *Server) handleGetAreaPhotos(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id", s.logger)
		return
	}
	area := r.PathValue("area")

	photos, err := s.service.GetAreaPhotos(r.Context(), projectID, area)
	if err != nil {
		s.writeServiceError(w, "get area photos", projectID, err)
		return
	}
	writeJSON(w, http.StatusOK, areaResponse(area, photos), s.logger)
}

func (s *Server) handleAddPhotoURLs(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id", s.logger)
		return
	}
	area := r.PathValue("area")

	var req addPhotosRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", s.logger)
		return
	}

	photos, err := s.service.AddPhotoURLs(r.Context(), projectID, area, req.URLs)
	if err != nil {
		s.writeServiceError(w, "add photos", projectID, err)
		return
	}
	writeJSON(w, http.StatusOK, areaResponse(area, photos), s.logger)
}

func (s *Server) handleRemovePhoto(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id", s.logger)
		return
	}
	area := r.PathValue("area")
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid photo index", s.logger)
		return
	}

	photos, err := s.service.RemovePhoto(r.Context(), projectID, area, index)
	if err != nil {
		s.writeServiceError(w, "remove photo", projectID, err)
		return
	}
	writeJSON(w, http.StatusOK, areaResponse(area, photos), s.logger)
}

func (s *Server) handleReorderPhotos(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id", s.logger)
		return
	}
	area := r.PathValue("area")

	var req reorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", s.logger)
		return
	}
	if req.From == nil || req.To == nil {
		writeError(w, http.StatusBadRequest, "from and to are required", s.logger)
		return
	}

	photos, err := s.service.ReorderPhotos(r.Context(), projectID, area, *req.From, *req.To)
	if err != nil {
		s.writeServiceError(w, "reorder photos", projectID, err)
		return
	}
	writeJSON(w, http.StatusOK, areaResponse(area, photos), s.logger)
}

func (s *Server) handleMigrate(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id", s.logger)
		return
	}

	changed, err := s.service.MigrateProject(r.Context(), projectID)
	if err != nil {
		s.writeServiceError(w, "migrate before photos", projectID, err)
		return
	}
	writeJSON(w, http.StatusOK, migrateResponse{Changed: changed}, s.logger)
}
