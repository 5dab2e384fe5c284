package usecase

import (
	"context"
	"sync"

	"cms-bridge/internal/bridge/domain/model"
	"cms-bridge/internal/bridge/domain/repository"
	"cms-bridge/internal/shared/errors"
	"cms-bridge/internal/shared/eventbus"
	"cms-bridge/internal/shared/logger"

	"github.com/google/uuid"
)

// Replicator batch-copies entities for a set of collections from the
// legacy store into the primary store. Reads go through the adapter
// core's uniform Find; writes go straight to the primary delegate because
// migration is explicitly a cross-store copy and must not be re-routed.
// The copy is additive only and never mutates the legacy source.
type Replicator struct {
	source    repository.DocumentStore
	primary   repository.DocumentStore
	bus       *eventbus.EventBus
	batchSize int
	log       logger.Logger

	mu      sync.Mutex
	current *model.MigrationJob
}

// NewReplicator wires a replicator. batchSize falls back to 100 when
// non-positive.
func NewReplicator(source repository.DocumentStore, primary repository.DocumentStore, bus *eventbus.EventBus, batchSize int, log logger.Logger) *Replicator {
	if batchSize <= 0 {
		batchSize = 100
	}
	if log == nil {
		log = logger.NewLogger()
	}
	return &Replicator{
		source:    source,
		primary:   primary,
		bus:       bus,
		batchSize: batchSize,
		log:       log.WithComponent("replicator"),
	}
}

// NewJob registers a pending job for the given ordered collections. Only
// one job may run per process; a second request while one is running is
// rejected.
func (r *Replicator) NewJob(collections []string) (*model.MigrationJob, error) {
	if len(collections) == 0 {
		return nil, errors.NewValidationError("no collections selected for migration")
	}
	if r.primary == nil {
		return nil, errors.NewValidationError("no primary store configured, migration has nowhere to write")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil && r.current.Snapshot().Status == model.MigrationRunning {
		return nil, errors.NewConflictError("a migration job is already running").WithCause(errors.ErrMigrationRunning)
	}

	job := model.NewMigrationJob(uuid.NewString(), collections)
	r.current = job
	return job, nil
}

// Job returns a snapshot of the most recent job, or nil when none was
// ever started.
func (r *Replicator) Job() *model.MigrationSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return nil
	}
	snap := r.current.Snapshot()
	return &snap
}

// Migrate copies the selected collections synchronously and returns the
// terminal job. Callers that need the trigger-and-poll shape create a job
// with NewJob and run Drive in their own goroutine.
func (r *Replicator) Migrate(ctx context.Context, collections []string) (*model.MigrationJob, error) {
	job, err := r.NewJob(collections)
	if err != nil {
		return nil, err
	}
	if err := r.Drive(ctx, job); err != nil {
		return job, err
	}
	return job, nil
}

// Drive runs a job to completion. A per-record create failure is captured
// on the job and never aborts the batch or the collection; a collection is
// completed once every batch for it has been attempted. After each batch
// a batch-completed event carries the fresh snapshot, so status surfaces
// subscribe instead of polling.
func (r *Replicator) Drive(ctx context.Context, job *model.MigrationJob) error {
	job.Start()
	r.publish(ctx, eventbus.EventTypeMigrationStarted, job)
	r.log.Infof("Migration %s started for %d collections", job.ID(), len(job.Collections()))

	for _, collection := range job.Collections() {
		r.migrateCollection(ctx, job, collection)
		job.CompleteCollection(collection)
		r.publish(ctx, eventbus.EventTypeMigrationCollectionCompleted, job)
	}

	job.Complete()
	r.publish(ctx, eventbus.EventTypeMigrationCompleted, job)

	snap := job.Snapshot()
	r.log.Infof("Migration %s completed: %d records copied, %d failures",
		job.ID(), snap.Progress, len(snap.Errors))
	return nil
}

// migrateCollection copies one collection in fixed-size batches.
func (r *Replicator) migrateCollection(ctx context.Context, job *model.MigrationJob, collection string) {
	for offset := 0; ; offset += r.batchSize {
		docs, err := r.source.Find(ctx, collection, model.Query{Limit: r.batchSize, Skip: offset})
		if err != nil {
			// A failed read aborts the collection, not the run; the
			// remaining collections still get their attempt.
			job.RecordFailure(collection, err)
			r.log.WithFields(map[string]interface{}{"collection": collection, "offset": offset}).
				Errorf("batch read failed: %v", err)
			return
		}
		if len(docs) == 0 {
			return
		}

		for _, doc := range docs {
			if _, err := r.primary.Create(ctx, collection, doc); err != nil {
				job.RecordFailure(collection, errors.NewMigrationRecordError(collection, err))
				continue
			}
			job.RecordSuccess()
		}

		r.publish(ctx, eventbus.EventTypeMigrationBatchCompleted, job)

		if len(docs) < r.batchSize {
			return
		}
	}
}

func (r *Replicator) publish(ctx context.Context, eventType string, job *model.MigrationJob) {
	if r.bus == nil {
		return
	}
	snap := job.Snapshot()
	if err := r.bus.Publish(ctx, eventbus.NewBasicEventWithSource(eventType, snap, "replicator")); err != nil {
		r.log.Errorf("failed to publish %s: %v", eventType, err)
	}
}
