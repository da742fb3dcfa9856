package runner

import (
	"context"
	"sync"
	"time"

	"github.com/probelab/validationsim/core"
)

// RunStatus is the coarse lifecycle status of a run.
type RunStatus string

const (
	// StatusRunning means the controller goroutine is still advancing the run.
	StatusRunning RunStatus = "running"
	// StatusCompleted means the run produced a final answer.
	StatusCompleted RunStatus = "completed"
	// StatusFailed means the run stopped on an error.
	StatusFailed RunStatus = "failed"
)

// RunRuntime is the shared handle for one run: its status, latest state
// snapshot and event queue. Status moves running -> completed|failed exactly
// once and never back.
type RunRuntime struct {
	id    string
	queue *Queue

	mu          sync.RWMutex
	status      RunStatus
	startedAt   time.Time
	completedAt time.Time
	err         error
	finalAnswer string
	snapshot    *core.RunState
	cancel      context.CancelFunc
}

func newRunRuntime(id string, cancel context.CancelFunc) *RunRuntime {
	return &RunRuntime{
		id:        id,
		queue:     NewQueue(),
		status:    StatusRunning,
		startedAt: time.Now().UTC(),
		cancel:    cancel,
	}
}

// ID returns the run identifier.
func (r *RunRuntime) ID() string { return r.id }

// Queue returns the run's event queue.
func (r *RunRuntime) Queue() *Queue { return r.queue }

// Status returns the current lifecycle status.
func (r *RunRuntime) Status() RunStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Terminal reports whether the run has finished, successfully or not.
func (r *RunRuntime) Terminal() bool {
	s := r.Status()
	return s == StatusCompleted || s == StatusFailed
}

// StartedAt returns the run start time.
func (r *RunRuntime) StartedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.startedAt
}

// CompletedAt returns the completion time; the zero time while running.
func (r *RunRuntime) CompletedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.completedAt
}

// Err returns the failure cause, or nil.
func (r *RunRuntime) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// FinalAnswer returns the synthesized report of a completed run.
func (r *RunRuntime) FinalAnswer() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.finalAnswer
}

// State returns the latest state snapshot, or nil before the first
// transition. The snapshot is owned by the caller and safe to read.
func (r *RunRuntime) State() *core.RunState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Cancel aborts the run's collaborator calls. A terminal run is unaffected.
func (r *RunRuntime) Cancel() {
	r.mu.RLock()
	cancel := r.cancel
	r.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
}

func (r *RunRuntime) setSnapshot(s *core.RunState) {
	r.mu.Lock()
	r.snapshot = s
	r.mu.Unlock()
}

func (r *RunRuntime) complete(finalAnswer string, s *core.RunState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusRunning {
		return
	}
	r.status = StatusCompleted
	r.finalAnswer = finalAnswer
	r.snapshot = s
	r.completedAt = time.Now().UTC()
}

func (r *RunRuntime) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusRunning {
		return
	}
	r.status = StatusFailed
	r.err = err
	r.completedAt = time.Now().UTC()
}
