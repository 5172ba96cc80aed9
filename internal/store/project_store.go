package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vbonduro/renovo/internal/domain"
)

// ErrNotFound is returned by mutations that target a row that does not exist.
var ErrNotFound = errors.New("record not found")

type ProjectStore struct {
	db *sql.DB
}

func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

func (s *ProjectStore) Create(ctx context.Context, name, owner string) (*domain.Project, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (name, owner) VALUES (?, ?)
	`, name, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *ProjectStore) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	project := &domain.Project{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, owner, created_at, updated_at FROM projects WHERE id = ?
	`, id).Scan(&project.ID, &project.Name, &project.Owner, &project.CreatedAt, &project.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

func (s *ProjectStore) List(ctx context.Context) ([]*domain.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, owner, created_at, updated_at FROM projects ORDER BY name COLLATE NOCASE ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var projects []*domain.Project
	for rows.Next() {
		project := &domain.Project{}
		if err := rows.Scan(&project.ID, &project.Name, &project.Owner, &project.CreatedAt, &project.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

func (s *ProjectStore) Update(ctx context.Context, id int64, name string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE projects SET name = ?, updated_at = datetime('now') WHERE id = ?
	`, name, id)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return expectOneRow(result, "project", id)
}

// Delete removes the project; its design preferences cascade.
func (s *ProjectStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM projects WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return expectOneRow(result, "project", id)
}

func expectOneRow(result sql.Result, kind string, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}

	return nil
}
