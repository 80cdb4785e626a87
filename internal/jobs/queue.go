package jobs

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueCatalogImport(path string) error
	EnqueueLeaderboardRefresh() error
}
