// Package worker provides the HTTP service and background processing for
// surveyor.
package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	dbgorm "github.com/thebtf/surveyor/internal/db/gorm"
	"github.com/thebtf/surveyor/internal/worker/sse"
	"github.com/thebtf/surveyor/pkg/models"
	"github.com/thebtf/surveyor/pkg/similarity"
)

// queueSize bounds the number of pending clustering jobs.
const queueSize = 64

// Processor runs clustering jobs on a pool of workers. Runs for the same
// survey are serialized through a per-survey advisory lock; runs for
// different surveys proceed in parallel. Since a finished run replaces the
// stored grouping in full, the last completed run wins.
type Processor struct {
	responses   *dbgorm.ResponseStore
	groupings   *dbgorm.GroupingStore
	jobs        *dbgorm.JobStore
	clusterer   *similarity.Clusterer
	broadcaster *sse.Broadcaster
	queue       chan *models.Job
	locks       surveyLocks
	workers     int
}

// NewProcessor creates a Processor with the given worker count.
func NewProcessor(responses *dbgorm.ResponseStore, groupings *dbgorm.GroupingStore, jobs *dbgorm.JobStore, clusterer *similarity.Clusterer, broadcaster *sse.Broadcaster, workers int) *Processor {
	if workers <= 0 {
		workers = 2
	}
	return &Processor{
		responses:   responses,
		groupings:   groupings,
		jobs:        jobs,
		clusterer:   clusterer,
		broadcaster: broadcaster,
		queue:       make(chan *models.Job, queueSize),
		locks:       surveyLocks{locks: make(map[string]*sync.Mutex)},
		workers:     workers,
	}
}

// Start launches the worker pool and blocks until ctx is cancelled.
func (p *Processor) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case job := <-p.queue:
					p.run(ctx, job)
				}
			}
		})
	}
	return g.Wait()
}

// Enqueue creates a queued job for the survey and hands it to the pool.
// It returns immediately with the job; callers poll the job or the grouping
// for completion.
func (p *Processor) Enqueue(ctx context.Context, surveyID string) (*models.Job, error) {
	job := models.NewJob(surveyID)
	if err := p.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	select {
	case p.queue <- job:
	default:
		queueErr := fmt.Errorf("job queue full")
		_ = p.jobs.MarkFailed(ctx, job.ID, queueErr)
		return nil, queueErr
	}

	p.broadcaster.Broadcast(sse.Event{
		Type:     sse.EventJobQueued,
		SurveyID: surveyID,
		JobID:    job.ID,
	})
	return job, nil
}

// run executes one clustering job. The survey lock is held for the whole
// run; the storage write happens only after clustering finishes, so readers
// are never blocked by the CPU-bound phase.
func (p *Processor) run(ctx context.Context, job *models.Job) {
	unlock := p.locks.acquire(job.SurveyID)
	defer unlock()

	if err := p.jobs.MarkRunning(ctx, job.ID); err != nil {
		log.Error().Err(err).Str("jobId", job.ID).Msg("Failed to mark job running")
		return
	}

	if err := p.process(ctx, job.SurveyID); err != nil {
		log.Error().Err(err).
			Str("jobId", job.ID).
			Str("surveyId", job.SurveyID).
			Msg("Clustering run failed")
		_ = p.jobs.MarkFailed(ctx, job.ID, err)
		p.broadcaster.Broadcast(sse.Event{
			Type:     sse.EventJobFailed,
			SurveyID: job.SurveyID,
			JobID:    job.ID,
			Error:    err.Error(),
		})
		return
	}

	if err := p.jobs.MarkCompleted(ctx, job.ID); err != nil {
		log.Error().Err(err).Str("jobId", job.ID).Msg("Failed to mark job completed")
	}
	p.broadcaster.Broadcast(sse.Event{
		Type:     sse.EventJobCompleted,
		SurveyID: job.SurveyID,
		JobID:    job.ID,
	})
}

// process fetches all raw answers, clusters them, and replaces the stored
// grouping. An empty answer set produces an empty, valid grouping rather
// than an error, and re-running with the same answers reproduces the same
// partition, so jobs are idempotent and safely retryable.
func (p *Processor) process(ctx context.Context, surveyID string) error {
	answers, err := p.responses.ListBySurvey(ctx, surveyID)
	if err != nil {
		return fmt.Errorf("fetch answers: %w", err)
	}

	result := p.clusterer.Cluster(surveyID, answers)

	if err := p.groupings.Save(ctx, result); err != nil {
		return fmt.Errorf("persist grouping: %w", err)
	}

	log.Info().
		Str("surveyId", surveyID).
		Int("answers", len(answers)).
		Int("groups", len(result.Groups)).
		Msg("Survey processed")
	return nil
}

// surveyLocks hands out one mutex per survey ID.
type surveyLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// acquire locks the survey's mutex and returns the unlock func.
func (l *surveyLocks) acquire(surveyID string) func() {
	l.mu.Lock()
	m, ok := l.locks[surveyID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[surveyID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
