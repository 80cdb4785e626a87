package worker

import (
	"context"
	"sync"
	"time"

	"woodpecker/internal/logger"
)

// Job is a unit of background work. Run must honor ctx cancellation.
type Job interface {
	Run(ctx context.Context) error
	Name() string
}

// Pool runs jobs on a fixed set of workers fed by a bounded queue.
type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int
	cancel  context.CancelFunc
	log     *logger.Logger
}

func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	log := logger.Default().WithPrefix("worker-pool")
	log.Debug("creating worker pool with %d workers and queue size %d", workers, queueSize)
	return &Pool{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		log:     log,
	}
}

func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.log.Info("starting worker pool with %d workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i+1)
	}
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	log := p.log.WithField("worker_id", id)
	log.Debug("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Debug("worker shutting down (context cancelled)")
			return
		case job := <-p.jobs:
			if job == nil {
				log.Debug("worker shutting down (queue closed)")
				return
			}
			p.execute(ctx, log, job)
		}
	}
}

func (p *Pool) execute(ctx context.Context, log *logger.Logger, job Job) {
	jobLog := log.WithField("job", job.Name())
	jobLog.Debug("starting job")
	start := time.Now()

	jobCtx := logger.NewContext(ctx, jobLog)
	if err := job.Run(jobCtx); err != nil {
		jobLog.Error("job failed after %v: %v", time.Since(start), err)
		return
	}
	jobLog.Info("job completed in %v", time.Since(start))
}

func (p *Pool) Stop() {
	p.log.Info("stopping worker pool")
	if p.cancel != nil {
		p.cancel()
	}
	close(p.jobs)
	p.wg.Wait()
	p.log.Info("worker pool stopped")
}

func (p *Pool) Submit(job Job) {
	p.log.Debug("submitting job: %s", job.Name())
	p.jobs <- job
}

// QueueSize returns the current number of pending jobs.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}
