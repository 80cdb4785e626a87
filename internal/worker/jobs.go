package worker

import (
	"context"
	"fmt"

	"woodpecker/internal/logger"
	"woodpecker/internal/models"
)

// CatalogImporter is the slice of the import service that jobs need.
type CatalogImporter interface {
	ImportFromCatalog(ctx context.Context, path string) (*models.ImportReport, error)
}

// LeaderboardRefresher is the slice of the leaderboard service that jobs need.
type LeaderboardRefresher interface {
	Refresh(ctx context.Context) error
}

// CatalogImportJob fetches a catalog export and loads it into the puzzle
// table.
type CatalogImportJob struct {
	Importer CatalogImporter
	Path     string
}

func (j *CatalogImportJob) Name() string {
	return fmt.Sprintf("catalog-import:%s", j.Path)
}

func (j *CatalogImportJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	report, err := j.Importer.ImportFromCatalog(ctx, j.Path)
	if err != nil {
		return err
	}
	log.Info("import report: read=%d, imported=%d, invalid=%d, skipped=%d",
		report.Read, report.Imported, report.Invalid, report.Skipped)
	return nil
}

// RefreshLeaderboardJob recomputes the cached leaderboards.
type RefreshLeaderboardJob struct {
	Service LeaderboardRefresher
}

func (j *RefreshLeaderboardJob) Name() string {
	return "leaderboard-refresh"
}

func (j *RefreshLeaderboardJob) Run(ctx context.Context) error {
	return j.Service.Refresh(ctx)
}
