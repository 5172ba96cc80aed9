package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vbonduro/renovo/internal/domain"
)

// ErrVersionConflict is returned by Put when the stored document changed since
// it was read.
var ErrVersionConflict = errors.New("design preferences changed concurrently")

// PreferencesStore persists each project's design preferences document. The
// document is always read and written whole.
type PreferencesStore struct {
	db *sql.DB
}

func NewPreferencesStore(db *sql.DB) *PreferencesStore {
	return &PreferencesStore{db: db}
}

// Get returns the project's document, or nil when none has been written yet.
func (s *PreferencesStore) Get(ctx context.Context, projectID int64) (*domain.PreferencesRecord, error) {
	var (
		document string
		record   = &domain.PreferencesRecord{ProjectID: projectID}
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT document, version, updated_at FROM design_preferences WHERE project_id = ?
	`, projectID).Scan(&document, &record.Version, &record.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get design preferences: %w", err)
	}

	prefs := domain.NewDesignPreferences()
	if err := json.Unmarshal([]byte(document), prefs); err != nil {
		return nil, fmt.Errorf("failed to decode design preferences for project %d: %w", projectID, err)
	}
	record.Preferences = prefs

	return record, nil
}

// Put writes the whole document and returns its new version. An
// expectedVersion of 0 creates the document; otherwise the stored version must
// still equal expectedVersion or ErrVersionConflict is returned.
func (s *PreferencesStore) Put(ctx context.Context, projectID int64, prefs *domain.DesignPreferences, expectedVersion int64) (int64, error) {
	document, err := json.Marshal(prefs)
	if err != nil {
		return 0, fmt.Errorf("failed to encode design preferences: %w", err)
	}

	var result sql.Result
	if expectedVersion == 0 {
		result, err = s.db.ExecContext(ctx, `
			INSERT INTO design_preferences (project_id, document, version) VALUES (?, ?, 1)
			ON CONFLICT(project_id) DO NOTHING
		`, projectID, string(document))
	} else {
		result, err = s.db.ExecContext(ctx, `
			UPDATE design_preferences
			SET document = ?, version = version + 1, updated_at = datetime('now')
			WHERE project_id = ? AND version = ?
		`, string(document), projectID, expectedVersion)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to write design preferences: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return 0, fmt.Errorf("project %d at version %d: %w", projectID, expectedVersion, ErrVersionConflict)
	}

	return expectedVersion + 1, nil
}

// ListProjectIDs returns the ids of all projects that have a document.
func (s *PreferencesStore) ListProjectIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT project_id FROM design_preferences ORDER BY project_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list design preferences: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan project id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating design preferences: %w", err)
	}

	return ids, nil
}
