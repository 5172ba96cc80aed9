package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/vbonduro/renovo/internal/areaphotos"
)

// MigrationFailure records a project whose collection could not be migrated.
type MigrationFailure struct {
	ProjectID int64
	Err       error
}

// MigrationReport summarizes a MigrateAll run.
type MigrationReport struct {
	Scanned  int
	Migrated int
	Failures []MigrationFailure
}

// MigrateProject rewrites the project's collection into normalized form and
// reports whether anything was written. Concurrent calls for the same project
// share one read-modify-write. The shared write runs detached from every
// caller's cancellation; a caller whose ctx ends stops waiting for it.
func (s *BeforePhotoService) MigrateProject(ctx context.Context, projectID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	detached := context.WithoutCancel(ctx)
	ch := s.migrations.DoChan(strconv.FormatInt(projectID, 10), func() (any, error) {
		_, changed, err := s.update(detached, projectID, func(m areaphotos.Map) areaphotos.Map {
			return m
		})
		return changed, err
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return false, res.Err
	}
	changed := res.Val.(bool)
	if changed && !res.Shared {
		s.logger.Info("before photos migrated", "project_id", projectID)
	}
	return changed, nil
}

// PreviewMigration returns the stored collection and what MigrateProject
// would write, without writing.
func (s *BeforePhotoService) PreviewMigration(ctx context.Context, projectID int64) (before, after areaphotos.Map, err error) {
	if err := s.requireProject(ctx, projectID); err != nil {
		return nil, nil, err
	}
	prefs, _, err := s.load(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	before = prefs.BeforePhotos.Clone()
	return before, areaphotos.Migrate(before), nil
}

// MigrateAll migrates every stored preferences document. A failing project is
// recorded in the report and does not stop the others; the returned error is
// reserved for failures to enumerate projects or a cancelled context.
func (s *BeforePhotoService) MigrateAll(ctx context.Context) (*MigrationReport, error) {
	ids, err := s.prefs.ListProjectIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	s.logger.Info("bulk migration started", "projects", len(ids), "concurrency", s.migrateConcurrency)

	var (
		mu     sync.Mutex
		report = &MigrationReport{Scanned: len(ids)}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.migrateConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			changed, err := s.MigrateProject(gctx, id)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return err
			case err != nil:
				s.logger.Error("failed to migrate before photos", "project_id", id, "error", err)
				report.Failures = append(report.Failures, MigrationFailure{ProjectID: id, Err: err})
			case changed:
				report.Migrated++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, fmt.Errorf("bulk migration interrupted: %w", err)
	}

	s.logger.Info("bulk migration complete", "scanned", report.Scanned, "migrated", report.Migrated, "failed", len(report.Failures))
	return report, nil
}
