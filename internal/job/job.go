// Package job tracks transfer jobs: one per sync/put/get invocation, keyed by the
// backup lock key, with progress that can be published from any goroutine.
package job

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type State string

func (s State) String() string { return string(s) }

const (
	StateRunning State = "RUNNING"
	StateSuccess State = "SUCCESS"
	StateFailed  State = "FAILED"
)

// Progress is the latest progress report of a job. Percent is nil when unknown.
type Progress struct {
	Percent *float64 `json:"percent,omitempty"`
	Message string   `json:"message"`
}

// Job is a single running transfer. All methods are safe for concurrent use.
type Job struct {
	ID        uuid.UUID
	LockKey   string
	StartedAt time.Time

	mu         sync.RWMutex
	state      State
	progress   Progress
	err        error
	finishedAt time.Time
	sinks      []Sink
	done       chan struct{}
}

func newJob(lockKey string, sinks []Sink) *Job {
	return &Job{
		ID:        uuid.New(),
		LockKey:   lockKey,
		StartedAt: time.Now(),
		state:     StateRunning,
		sinks:     sinks,
		done:      make(chan struct{}),
	}
}

// SetProgress records a progress update and forwards it to the job's sinks.
// Updates after the job finished are dropped.
func (j *Job) SetProgress(percent *float64, message string) {
	p := Progress{Message: message}
	if percent != nil {
		v := *percent
		p.Percent = &v
	}

	j.mu.Lock()
	if j.state != StateRunning {
		j.mu.Unlock()
		return
	}
	j.progress = p
	sinks := j.sinks
	j.mu.Unlock()

	for _, s := range sinks {
		s.Publish(p)
	}
}

// Progress returns a snapshot of the latest progress
func (j *Job) Progress() Progress {
	j.mu.RLock()
	defer j.mu.RUnlock()

	p := j.progress
	if p.Percent != nil {
		v := *p.Percent
		p.Percent = &v
	}
	return p
}

func (j *Job) State() State {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.state
}

// Err returns the terminal error of a failed job
func (j *Job) Err() error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.err
}

func (j *Job) FinishedAt() time.Time {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.finishedAt
}

// Done is closed once the job reaches a terminal state
func (j *Job) Done() <-chan struct{} {
	return j.done
}

func (j *Job) finish(err error) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.state != StateRunning {
		return false
	}
	if err != nil {
		j.state = StateFailed
		j.err = err
	} else {
		j.state = StateSuccess
	}
	j.finishedAt = time.Now()
	close(j.done)
	return true
}
