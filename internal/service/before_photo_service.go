package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/vbonduro/renovo/internal/areaphotos"
	"github.com/vbonduro/renovo/internal/domain"
	"github.com/vbonduro/renovo/internal/photostore"
	"github.com/vbonduro/renovo/internal/store"
	"github.com/vbonduro/renovo/internal/vision"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidArea     = errors.New("area name is required")
	ErrNoClassifier    = errors.New("area name is required when no area classifier is configured")
)

// maxWriteAttempts bounds the read-modify-write retries after a concurrent
// writer wins the race for a preferences document.
const maxWriteAttempts = 3

// projectRepository is the subset of store.ProjectStore that BeforePhotoService requires.
type projectRepository interface {
	Create(ctx context.Context, name, owner string) (*domain.Project, error)
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

// preferencesRepository is the subset of store.PreferencesStore that BeforePhotoService requires.
type preferencesRepository interface {
	Get(ctx context.Context, projectID int64) (*domain.PreferencesRecord, error)
	Put(ctx context.Context, projectID int64, prefs *domain.DesignPreferences, expectedVersion int64) (int64, error)
	ListProjectIDs(ctx context.Context) ([]int64, error)
}

// BeforePhotoService manages projects and their before-photo collections.
// Every mutation reads the whole preferences document, migrates its
// collection, applies the change, and writes the document back only when the
// collection changed. Writes use optimistic concurrency and are retried when
// another writer got there first.
type BeforePhotoService struct {
	projects           projectRepository
	prefs              preferencesRepository
	photoStg           photostore.PhotoStore
	classifier         vision.AreaClassifier
	logger             *slog.Logger
	migrateConcurrency int
	migrations         singleflight.Group
}

// NewBeforePhotoService builds the service. classifier may be nil, in which
// case uploads must name their area.
func NewBeforePhotoService(
	projects projectRepository,
	prefs preferencesRepository,
	photoStg photostore.PhotoStore,
	classifier vision.AreaClassifier,
	migrateConcurrency int,
	logger *slog.Logger,
) *BeforePhotoService {
	if migrateConcurrency < 1 {
		migrateConcurrency = 1
	}
	return &BeforePhotoService{
		projects:           projects,
		prefs:              prefs,
		photoStg:           photoStg,
		classifier:         classifier,
		logger:             logger,
		migrateConcurrency: migrateConcurrency,
	}
}

// CreateProject creates the project and initializes its design preferences
// with an empty before-photo collection.
func (s *BeforePhotoService) CreateProject(ctx context.Context, name, owner string) (*domain.Project, error) {
	project, err := s.projects.Create(ctx, name, owner)
	if err != nil {
		return nil, err
	}
	if _, err := s.prefs.Put(ctx, project.ID, domain.NewDesignPreferences(), 0); err != nil {
		return nil, fmt.Errorf("failed to initialize design preferences: %w", err)
	}
	s.logger.Info("project created", "project_id", project.ID)
	return project, nil
}

func (s *BeforePhotoService) GetProject(ctx context.Context, projectID int64) (*domain.Project, error) {
	return s.projects.GetByID(ctx, projectID)
}

func (s *BeforePhotoService) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *BeforePhotoService) RenameProject(ctx context.Context, projectID int64, name string) (*domain.Project, error) {
	if err := s.projects.Update(ctx, projectID, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return s.projects.GetByID(ctx, projectID)
}

// DeleteProject removes the project and its preferences, then deletes the
// stored files its collection referenced. File cleanup is best effort.
func (s *BeforePhotoService) DeleteProject(ctx context.Context, projectID int64) error {
	photos, err := s.GetBeforePhotos(ctx, projectID)
	if err != nil {
		return err
	}

	if err := s.projects.Delete(ctx, projectID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	for _, area := range photos.Keys() {
		for _, url := range photos[area] {
			s.deleteStoredPhoto(ctx, projectID, url)
		}
	}
	return nil
}

// GetBeforePhotos returns the project's collection in migrated form. It does
// not write; use MigrateProject to persist the migration.
func (s *BeforePhotoService) GetBeforePhotos(ctx context.Context, projectID int64) (areaphotos.Map, error) {
	if err := s.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	prefs, _, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return areaphotos.Migrate(prefs.BeforePhotos), nil
}

// GetAreaPhotos returns the valid photos for one area.
func (s *BeforePhotoService) GetAreaPhotos(ctx context.Context, projectID int64, area string) ([]string, error) {
	photos, err := s.GetBeforePhotos(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return areaphotos.Get(photos, area), nil
}

// AddPhotoURLs adds already-hosted photo URLs to an area and returns the
// area's resulting list. Invalid URLs are dropped silently.
func (s *BeforePhotoService) AddPhotoURLs(ctx context.Context, projectID int64, area string, urls []string) ([]string, error) {
	if err := checkArea(area); err != nil {
		return nil, err
	}
	next, _, err := s.update(ctx, projectID, func(m areaphotos.Map) areaphotos.Map {
		return areaphotos.Add(m, area, urls)
	})
	if err != nil {
		return nil, err
	}
	return areaphotos.Get(next, area), nil
}

// UploadResult describes a stored upload.
type UploadResult struct {
	Area   string
	URL    string
	Photos []string
}

// UploadPhoto stores the image, adds its public URL to the area, and returns
// the area's resulting list. When area is blank the classifier, if any, names
// it. The stored file is removed again if the collection cannot be saved.
func (s *BeforePhotoService) UploadPhoto(ctx context.Context, projectID int64, area string, imageData []byte, mimeType string) (*UploadResult, error) {
	s.logger.Info("upload photo started", "project_id", projectID, "area", area, "mime_type", mimeType, "bytes", len(imageData))

	if err := s.requireProject(ctx, projectID); err != nil {
		return nil, err
	}

	if areaphotos.Normalize(area) == "" {
		classified, err := s.classify(ctx, projectID, imageData, mimeType)
		if err != nil {
			return nil, err
		}
		area = classified
	}
	if err := checkArea(area); err != nil {
		return nil, err
	}

	storageKey, err := s.photoStg.Save(ctx, storagePrefix(projectID), mimeType, bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}
	url := s.photoStg.URL(storageKey)
	s.logger.Debug("photo saved", "project_id", projectID, "storage_key", storageKey)

	next, _, err := s.update(ctx, projectID, func(m areaphotos.Map) areaphotos.Map {
		return areaphotos.Add(m, area, []string{url})
	})
	if err != nil {
		if stgErr := s.photoStg.Delete(ctx, storageKey); stgErr != nil {
			s.logger.Error("failed to roll back photo file", "project_id", projectID, "storage_key", storageKey, "error", stgErr)
		}
		return nil, err
	}

	s.logger.Info("upload photo complete", "project_id", projectID, "area", areaphotos.Normalize(area))
	return &UploadResult{
		Area:   areaphotos.Normalize(area),
		URL:    url,
		Photos: areaphotos.Get(next, area),
	}, nil
}

// RemovePhoto removes the photo at index from an area and returns the area's
// resulting list. A stored file that is no longer referenced is deleted.
func (s *BeforePhotoService) RemovePhoto(ctx context.Context, projectID int64, area string, index int) ([]string, error) {
	var removed string
	next, changed, err := s.update(ctx, projectID, func(m areaphotos.Map) areaphotos.Map {
		removed = ""
		if urls := m[areaphotos.Normalize(area)]; index >= 0 && index < len(urls) {
			removed = urls[index]
		}
		return areaphotos.Remove(m, area, index)
	})
	if err != nil {
		return nil, err
	}

	if changed && removed != "" && !referenced(next, removed) {
		s.deleteStoredPhoto(ctx, projectID, removed)
	}
	return areaphotos.Get(next, area), nil
}

// ReorderPhotos moves a photo within an area and returns the area's
// resulting list.
func (s *BeforePhotoService) ReorderPhotos(ctx context.Context, projectID int64, area string, from, to int) ([]string, error) {
	next, _, err := s.update(ctx, projectID, func(m areaphotos.Map) areaphotos.Map {
		return areaphotos.Reorder(m, area, from, to)
	})
	if err != nil {
		return nil, err
	}
	return areaphotos.Get(next, area), nil
}

func (s *BeforePhotoService) requireProject(ctx context.Context, projectID int64) error {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return ErrProjectNotFound
	}
	return nil
}

// load returns the project's preferences and their version. A project whose
// document was never written gets an empty document at version 0.
func (s *BeforePhotoService) load(ctx context.Context, projectID int64) (*domain.DesignPreferences, int64, error) {
	record, err := s.prefs.Get(ctx, projectID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load design preferences: %w", err)
	}
	if record == nil {
		return domain.NewDesignPreferences(), 0, nil
	}
	return record.Preferences, record.Version, nil
}

// update applies fn to the project's migrated collection and persists the
// result when it differs from the stored collection. It reports the resulting
// collection and whether a write happened.
func (s *BeforePhotoService) update(ctx context.Context, projectID int64, fn func(areaphotos.Map) areaphotos.Map) (areaphotos.Map, bool, error) {
	if err := s.requireProject(ctx, projectID); err != nil {
		return nil, false, err
	}

	for attempt := 1; ; attempt++ {
		prefs, version, err := s.load(ctx, projectID)
		if err != nil {
			return nil, false, err
		}

		stored := prefs.BeforePhotos
		next := fn(areaphotos.Migrate(stored))
		if next.Equal(stored) {
			return next, false, nil
		}

		prefs.BeforePhotos = next
		_, err = s.prefs.Put(ctx, projectID, prefs, version)
		if errors.Is(err, store.ErrVersionConflict) && attempt < maxWriteAttempts {
			s.logger.Warn("design preferences changed concurrently, retrying", "project_id", projectID, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to save before photos: %w", err)
		}
		return next, true, nil
	}
}

func (s *BeforePhotoService) classify(ctx context.Context, projectID int64, imageData []byte, mimeType string) (string, error) {
	if s.classifier == nil {
		return "", ErrNoClassifier
	}

	s.logger.Info("area classification started", "project_id", projectID)
	result, err := s.classifier.Classify(ctx, bytes.NewReader(imageData), mimeType)
	if err != nil {
		return "", fmt.Errorf("failed to classify photo: %w", err)
	}
	if areaphotos.Normalize(result.Area) == "" {
		s.logger.Warn("area classification gave no usable label", "project_id", projectID, "response", result.RawResponse)
		return "", fmt.Errorf("could not determine area from photo: %w", ErrInvalidArea)
	}
	s.logger.Info("area classification complete", "project_id", projectID, "area", result.Area)
	return result.Area, nil
}

// deleteStoredPhoto removes the file behind url when it lives in our photo
// store and was uploaded to this project. URLs of other projects' uploads can
// be added to any collection, so their files are left alone. Failures are
// logged, not returned.
func (s *BeforePhotoService) deleteStoredPhoto(ctx context.Context, projectID int64, url string) {
	key, ok := s.photoStg.KeyFromURL(url)
	if !ok || !strings.HasPrefix(key, storagePrefix(projectID)+"_") {
		return
	}
	if err := s.photoStg.Delete(ctx, key); err != nil {
		s.logger.Error("failed to delete photo file", "project_id", projectID, "storage_key", key, "error", err)
	}
}

// storagePrefix is the key prefix of every file uploaded to the project.
func storagePrefix(projectID int64) string {
	return fmt.Sprintf("project_%d", projectID)
}

// reservedAreas are area keys that collide with the collection's action
// routes (POST .../before-photos/upload and .../migrate).
var reservedAreas = map[string]bool{
	"upload":  true,
	"migrate": true,
}

// checkArea rejects labels that cannot name an area: blank after
// normalization, or reserved.
func checkArea(area string) error {
	key := areaphotos.Normalize(area)
	if key == "" {
		return ErrInvalidArea
	}
	if reservedAreas[key] {
		return fmt.Errorf("area %q is reserved: %w", key, ErrInvalidArea)
	}
	return nil
}

func referenced(m areaphotos.Map, url string) bool {
	for _, urls := range m {
		if slices.Contains(urls, url) {
			return true
		}
	}
	return false
}
