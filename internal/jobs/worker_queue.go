package jobs

import (
	"woodpecker/internal/worker"
)

// WorkerQueue implements JobQueue using worker pools
type WorkerQueue struct {
	importPool      *worker.Pool
	maintenancePool *worker.Pool
	importer        worker.CatalogImporter
	refresher       worker.LeaderboardRefresher
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(
	importPool *worker.Pool,
	maintenancePool *worker.Pool,
	importer worker.CatalogImporter,
	refresher worker.LeaderboardRefresher,
) JobQueue {
	return &WorkerQueue{
		importPool:      importPool,
		maintenancePool: maintenancePool,
		importer:        importer,
		refresher:       refresher,
	}
}

func (q *WorkerQueue) EnqueueCatalogImport(path string) error {
	q.importPool.Submit(&worker.CatalogImportJob{
		Importer: q.importer,
		Path:     path,
	})
	return nil
}

func (q *WorkerQueue) EnqueueLeaderboardRefresh() error {
	q.maintenancePool.Submit(&worker.RefreshLeaderboardJob{
		Service: q.refresher,
	})
	return nil
}
