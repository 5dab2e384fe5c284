package model

import (
	"sync"
	"time"
)

// MigrationStatus is the lifecycle state of a migration job.
type MigrationStatus string

const (
	MigrationPending   MigrationStatus = "pending"
	MigrationRunning   MigrationStatus = "running"
	MigrationCompleted MigrationStatus = "completed"
)

// MigrationError is one captured per-record copy failure. It is recorded
// on the job and never aborts the run.
type MigrationError struct {
	Collection string `json:"collection"`
	Message    string `json:"message"`
}

// MigrationJob tracks one legacy-to-primary copy run. Only the replicator
// that created it mutates it; everyone else reads snapshots. The job lives
// in memory for the life of the process unless an external collaborator
// persists its snapshots.
type MigrationJob struct {
	mu sync.RWMutex

	id          string
	collections []string
	status      MigrationStatus
	progress    int64
	completed   []string
	failures    []MigrationError
	startedAt   time.Time
	finishedAt  time.Time
}

// NewMigrationJob creates a pending job for the given ordered collections.
func NewMigrationJob(id string, collections []string) *MigrationJob {
	cols := make([]string, len(collections))
	copy(cols, collections)
	return &MigrationJob{
		id:          id,
		collections: cols,
		status:      MigrationPending,
	}
}

// ID returns the job identifier.
func (j *MigrationJob) ID() string {
	return j.id
}

// Collections returns the ordered selection the job was created with.
func (j *MigrationJob) Collections() []string {
	out := make([]string, len(j.collections))
	copy(out, j.collections)
	return out
}

// Start marks the job running.
func (j *MigrationJob) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = MigrationRunning
	j.startedAt = time.Now()
}

// RecordSuccess advances the monotonic progress counter by one copied record.
func (j *MigrationJob) RecordSuccess() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.progress++
}

// RecordFailure captures one per-record copy failure without aborting the run.
func (j *MigrationJob) RecordFailure(collection string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.failures = append(j.failures, MigrationError{
		Collection: collection,
		Message:    err.Error(),
	})
}

// CompleteCollection marks a collection attempted. Completion means every
// batch for it was attempted, not that it was error-free.
func (j *MigrationJob) CompleteCollection(collection string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.completed = append(j.completed, collection)
}

// Complete marks the job terminal once every selected collection has been
// attempted.
func (j *MigrationJob) Complete() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = MigrationCompleted
	j.finishedAt = time.Now()
}

// MigrationSnapshot is a point-in-time copy of a job's state, safe to hand
// to concurrent readers.
type MigrationSnapshot struct {
	ID          string           `json:"id"`
	Collections []string         `json:"collections"`
	Status      MigrationStatus  `json:"status"`
	Progress    int64            `json:"progress"`
	Completed   []string         `json:"completed"`
	Errors      []MigrationError `json:"errors"`
	StartedAt   *time.Time       `json:"startedAt,omitempty"`
	FinishedAt  *time.Time       `json:"finishedAt,omitempty"`
}

// Snapshot returns a consistent copy of the job state. Readers must treat
// it as a snapshot, not a stream.
func (j *MigrationJob) Snapshot() MigrationSnapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()

	snap := MigrationSnapshot{
		ID:          j.id,
		Collections: append([]string(nil), j.collections...),
		Status:      j.status,
		Progress:    j.progress,
		Completed:   append([]string(nil), j.completed...),
		Errors:      append([]MigrationError(nil), j.failures...),
	}
	if !j.startedAt.IsZero() {
		t := j.startedAt
		snap.StartedAt = &t
	}
	if !j.finishedAt.IsZero() {
		t := j.finishedAt
		snap.FinishedAt = &t
	}
	return snap
}
