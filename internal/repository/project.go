// Package repository provides the PostgreSQL persistence implementation for
// portfolio projects.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/portfolio/internal/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no project has the requested id.
var ErrNotFound = errors.New("project not found")

// DeleteResult reports what a delete actually did. A zero Deleted count is a
// successful statement that matched nothing, not a failure.
type DeleteResult struct {
	Deleted int64
}

// PostgresProjectRepository implements project persistence against a PostgreSQL database.
type PostgresProjectRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresProjectRepository creates a new PostgresProjectRepository using the provided *sql.DB.
func NewPostgresProjectRepository(db *sql.DB) *PostgresProjectRepository {
	return &PostgresProjectRepository{DB: db}
}

const projectColumns = `id, category, name, description, tech_used, image, link`

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Category, &p.Name, &p.Description, &p.TechUsed, &p.Image, &p.Link)
	return p, err
}

// ListProjects returns every project. The order is unspecified.
func (r *PostgresProjectRepository) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects`)
	if err != nil {
		return nil, fmt.Errorf("ListProjects: %w", err)
	}
	defer rows.Close()

	projects := make([]models.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListProjects: %w", err)
	}
	return projects, nil
}

// GetProjectByID fetches a single project. It returns ErrNotFound when no row matches.
func (r *PostgresProjectRepository) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	p, err := scanProject(r.DB.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetProjectByID: %w", err)
	}
	return &p, nil
}

// InsertProject stores p under a freshly generated id and returns that id.
// p.ID is ignored.
func (r *PostgresProjectRepository) InsertProject(ctx context.Context, p models.Project) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO projects (id, category, name, description, tech_used, image, link)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, p.Category, p.Name, p.Description, p.TechUsed, p.Image, p.Link)
	if err != nil {
		return "", fmt.Errorf("InsertProject: %w", err)
	}
	return id, nil
}

// UpdateProject loads the project under a row lock and overwrites all six
// editable fields with f, empty values included.
func (r *PostgresProjectRepository) UpdateProject(ctx context.Context, id string, f models.ProjectFields) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	p, err := scanProject(tx.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("load project: %w", err)
	}

	f.Apply(&p)

	_, err = tx.ExecContext(ctx, `
		UPDATE projects
		   SET category = $2, name = $3, description = $4, tech_used = $5, image = $6, link = $7
		 WHERE id = $1
	`, p.ID, p.Category, p.Name, p.Description, p.TechUsed, p.Image, p.Link)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// DeleteProject removes the project with the given id and reports how many
// rows went away.
func (r *PostgresProjectRepository) DeleteProject(ctx context.Context, id string) (DeleteResult, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("DeleteProject: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return DeleteResult{}, fmt.Errorf("rows affected: %w", err)
	}
	return DeleteResult{Deleted: n}, nil
}
