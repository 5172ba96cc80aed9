package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/vbonduro/renovo/internal/domain"
)

const maxProjectNameLen = 200

type projectResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toProjectResponse(p *domain.Project) projectResponse {
	return projectResponse{
		ID:        p.ID,
		Name:      p.Name,
		Owner:     p.Owner,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type projectRequest struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

// validName trims name and reports an error message when it is unusable.
func validName(name string) (string, string) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "", "project name required"
	case len(name) > maxProjectNameLen:
		return "", "project name too long"
	}
	return name, ""
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.service.ListProjects(r.Context())
	if err != nil {
		s.writeServiceError(w, "list projects", 0, err)
		return
	}

	resp := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		resp = append(resp, toProjectResponse(p))
	}
	writeJSON(w, http.StatusOK, resp, s.logger)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", s.logger)
		return
	}
	name, msg := validName(req.Name)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg, s.logger)
		return
	}

	project, err := s.service.CreateProject(r.Context(), name, strings.TrimSpace(req.Owner))
	if err != nil {
		s.writeServiceError(w, "create project", 0, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectResponse(project), s.logger)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id", s.logger)
		return
	}

	project, err := s.service.GetProject(r.Context(), projectID)
	if err != nil {
		s.writeServiceError(w, "get project", projectID, err)
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "project not found", s.logger)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(project), s.logger)
}

func (s *Server) handleRenameProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id", s.logger)
		return
	}

	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", s.logger)
		return
	}
	name, msg := validName(req.Name)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg, s.logger)
		return
	}

	project, err := s.service.RenameProject(r.Context(), projectID, name)
	if err != nil {
		s.writeServiceError(w, "rename project", projectID, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(project), s.logger)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id", s.logger)
		return
	}

	if err := s.service.DeleteProject(r.Context(), projectID); err != nil {
		s.writeServiceError(w, "delete project", projectID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
