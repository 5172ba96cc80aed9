package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/vbonduro/renovo/internal/areaphotos"
	"github.com/vbonduro/renovo/internal/config"
	"github.com/vbonduro/renovo/internal/service"
)

type migrateFlags struct {
	projectID int64
	dryRun    bool
}

func newMigratePhotosCmd() *cobra.Command {
	var flags migrateFlags
	cmd := &cobra.Command{
		Use:   "migrate-photos",
		Short: "Rewrite before-photo collections under normalized area keys",
		Long: "Merges legacy area keys (\"Primary Bedroom\", \"primary_bedroom\") into their normalized form " +
			"and drops empty or ephemeral photo URLs. With --dry-run the changes are printed as " +
			"diff-match-patch patches and nothing is written.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			return runMigrate(cmd, a.service, flags)
		},
	}

	f := cmd.Flags()
	f.Int64Var(&flags.projectID, "project", 0, "Only migrate this project ID (default: all projects)")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Print the changes as patches without writing them")
	return cmd
}

func runMigrate(cmd *cobra.Command, svc *service.BeforePhotoService, flags migrateFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if flags.dryRun {
		ids, err := projectIDs(cmd, svc, flags.projectID)
		if err != nil {
			return err
		}
		return previewMigration(cmd, svc, ids, out)
	}

	if flags.projectID != 0 {
		changed, err := svc.MigrateProject(ctx, flags.projectID)
		if err != nil {
			return fmt.Errorf("project %d: %w", flags.projectID, err)
		}
		if changed {
			fmt.Fprintf(out, "project %d: migrated\n", flags.projectID)
		} else {
			fmt.Fprintf(out, "project %d: already normalized\n", flags.projectID)
		}
		return nil
	}

	report, err := svc.MigrateAll(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "scanned %d projects, migrated %d, failed %d\n", report.Scanned, report.Migrated, len(report.Failures))
	for _, f := range report.Failures {
		fmt.Fprintf(out, "project %d: %v\n", f.ProjectID, f.Err)
	}
	if len(report.Failures) > 0 {
		return fmt.Errorf("%d projects failed to migrate", len(report.Failures))
	}
	return nil
}

func projectIDs(cmd *cobra.Command, svc *service.BeforePhotoService, only int64) ([]int64, error) {
	if only != 0 {
		return []int64{only}, nil
	}
	projects, err := svc.ListProjects(cmd.Context())
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func previewMigration(cmd *cobra.Command, svc *service.BeforePhotoService, ids []int64, out io.Writer) error {
	pending := 0
	for _, id := range ids {
		before, after, err := svc.PreviewMigration(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("project %d: %w", id, err)
		}
		if before.Equal(after) {
			continue
		}
		pending++

		patch, err := migrationPatch(before, after)
		if err != nil {
			return fmt.Errorf("project %d: %w", id, err)
		}
		fmt.Fprintf(out, "# project %d\n%s\n", id, patch)
	}
	fmt.Fprintf(out, "%d of %d projects would change\n", pending, len(ids))
	return nil
}

// migrationPatch renders the difference between two collections as a
// diff-match-patch patch over their indented JSON.
func migrationPatch(before, after areaphotos.Map) (string, error) {
	beforeJSON, err := json.MarshalIndent(before, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode collection: %w", err)
	}
	afterJSON, err := json.MarshalIndent(after, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode collection: %w", err)
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(beforeJSON), string(afterJSON), false)
	return dmp.PatchToText(dmp.PatchMake(string(beforeJSON), diffs)), nil
}
