package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/portfolio/internal/middleware"
	"github.com/atinyakov/portfolio/internal/models"
	"github.com/atinyakov/portfolio/internal/service"
)

// ProjectService defines the project operations required by ProjectHandler.
type ProjectService interface {
	List(ctx context.Context) ([]models.Project, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, in service.NewProject, img service.Upload) (string, error)
	Update(ctx context.Context, id string, f models.ProjectFields) error
	Delete(ctx context.Context, id string) error
}

// ProjectHandler serves the project CRUD endpoints.
type ProjectHandler struct {
	Service ProjectService
	Log     *zap.Logger
}

type updateRequest struct {
	ID string `json:"id"`
	models.ProjectFields
}

type deleteRequest struct {
	ID string `json:"id"`
}

// List handles GET /api/portfolio-projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Service.List(r.Context())
	if err != nil {
		h.Log.Error("list projects", zap.Error(err))
		writeError(w, "error retrieving data")
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// Create handles POST /api/new-project. It expects the multipart form to be
// parsed by middleware.ImageUpload.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	in := service.NewProject{
		Category:    r.FormValue("category"),
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		TechUsed:    r.FormValue("techUsed"),
		Link:        r.FormValue("link"),
	}

	var upload service.Upload
	if img, ok := middleware.UploadFromContext(r.Context()); ok {
		upload = img
	}

	id, err := h.Service.Create(r.Context(), in, upload)
	switch {
	case errors.Is(err, service.ErrFieldsMissing):
		writeError(w, "Fields missing")
	case err != nil:
		h.Log.Error("create project", zap.Error(err))
		writeError(w, "failed to save new project")
	default:
		h.Log.Info("project created", zap.String("id", id))
		writeMessage(w, "New Project Saved Successfully")
	}
}

// Get handles GET /api/project/{id}.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			h.Log.Error("get project", zap.Error(err))
		}
		writeError(w, "could not retrieve data")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Update handles POST /api/project/update-project.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "Could not update project")
		return
	}
	if err := h.Service.Update(r.Context(), req.ID, req.ProjectFields); err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			h.Log.Error("update project", zap.String("id", req.ID), zap.Error(err))
		}
		writeError(w, "Could not update project")
		return
	}
	writeMessage(w, "Project updated successfully")
}

// Delete handles DELETE /api/delete-project.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "Failed to delete project")
		return
	}
	if err := h.Service.Delete(r.Context(), req.ID); err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			h.Log.Error("delete project", zap.String("id", req.ID), zap.Error(err))
		}
		writeError(w, "Failed to delete project")
		return
	}
	writeMessage(w, "Project deleted successfully")
}
