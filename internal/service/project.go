// Package service provides the business logic of the portfolio backend,
// delegating persistence, image storage and mail delivery to interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/atinyakov/portfolio/internal/models"
	"github.com/atinyakov/portfolio/internal/repository"
)

// ProjectRepository defines the persistence operations needed by ProjectService.
type ProjectRepository interface {
	// ListProjects returns every stored project.
	ListProjects(ctx context.Context) ([]models.Project, error)
	// GetProjectByID returns repository.ErrNotFound when no project matches.
	GetProjectByID(ctx context.Context, id string) (*models.Project, error)
	// InsertProject stores p under a new id and returns it.
	InsertProject(ctx context.Context, p models.Project) (string, error)
	// UpdateProject overwrites all editable fields; repository.ErrNotFound when no project matches.
	UpdateProject(ctx context.Context, id string, f models.ProjectFields) error
	// DeleteProject reports how many projects were removed.
	DeleteProject(ctx context.Context, id string) (repository.DeleteResult, error)
}

// ImageSaver stores an uploaded image under name.
type ImageSaver interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
}

// Upload is an image received with a create request, not yet written anywhere.
type Upload interface {
	// Filename is the client-supplied file name.
	Filename() string
	ContentType() string
	Size() int64
	// URL is the public address the image will be served from.
	URL() string
	Open() (io.ReadCloser, error)
}

// NewProject is the text part of a create request.
type NewProject struct {
	Category    string
	Name        string
	Description string
	TechUsed    string
	Link        string
}

// Validate requires every field to be non-empty.
func (p NewProject) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Category, validation.Required),
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Description, validation.Required),
		validation.Field(&p.TechUsed, validation.Required),
		validation.Field(&p.Link, validation.Required),
	)
}

// ProjectService implements the project use cases.
type ProjectService struct {
	repo   ProjectRepository
	images ImageSaver
}

// NewProjectService constructs a ProjectService.
func NewProjectService(repo ProjectRepository, images ImageSaver) *ProjectService {
	return &ProjectService{repo: repo, images: images}
}

// List returns all projects.
func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	return s.repo.ListProjects(ctx)
}

// Get returns one project or ErrNotFound.
func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	p, err := s.repo.GetProjectByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return p, err
}

// Create validates the request, writes the image and stores the project with
// Image set to the upload's public URL. Nothing is written when validation
// fails.
func (s *ProjectService) Create(ctx context.Context, in NewProject, img Upload) (string, error) {
	if err := in.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFieldsMissing, err)
	}
	if img == nil || img.Filename() == "" {
		return "", fmt.Errorf("%w: image: cannot be blank", ErrFieldsMissing)
	}

	if err := s.saveImage(ctx, img); err != nil {
		return "", err
	}

	return s.repo.InsertProject(ctx, models.Project{
		Category:    in.Category,
		Name:        in.Name,
		Description: in.Description,
		TechUsed:    in.TechUsed,
		Image:       img.URL(),
		Link:        in.Link,
	})
}

func (s *ProjectService) saveImage(ctx context.Context, img Upload) error {
	f, err := img.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	if err := s.images.Save(ctx, img.Filename(), f, img.Size(), img.ContentType()); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	return nil
}

// Update overwrites all six editable fields of project id. Empty values are
// written as given.
func (s *ProjectService) Update(ctx context.Context, id string, f models.ProjectFields) error {
	if id == "" {
		return ErrNotFound
	}
	err := s.repo.UpdateProject(ctx, id, f)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Delete removes project id. A delete that matched nothing is ErrNotFound.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrNotFound
	}
	res, err := s.repo.DeleteProject(ctx, id)
	if err != nil {
		return err
	}
	if res.Deleted == 0 {
		return ErrNotFound
	}
	return nil
}
