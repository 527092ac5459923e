package job

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// ErrJobRunning is returned when a job with the same lock key is already active
var ErrJobRunning = errors.New("job already running")

// Tracker guarantees at most one running job per lock key.
// Different lock keys never contend with each other.
type Tracker struct {
	mu     sync.Mutex
	active map[string]*Job
	logger zerolog.Logger
}

func NewTracker(logger zerolog.Logger) *Tracker {
	return &Tracker{
		active: make(map[string]*Job),
		logger: logger,
	}
}

// Start registers a new running job for lockKey, failing fast with ErrJobRunning
// when another job holds the key.
func (t *Tracker) Start(lockKey string, sinks ...Sink) (*Job, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if running, ok := t.active[lockKey]; ok {
		return nil, fmt.Errorf("%w: %s (job %s)", ErrJobRunning, lockKey, running.ID)
	}

	j := newJob(lockKey, sinks)
	t.active[lockKey] = j
	t.logger.Debug().Str("lock", lockKey).Str("job", j.ID.String()).Msg("job started")
	return j, nil
}

// Finish moves the job to its terminal state and releases the lock key
func (t *Tracker) Finish(j *Job, err error) {
	if !j.finish(err) {
		return
	}

	t.mu.Lock()
	if t.active[j.LockKey] == j {
		delete(t.active, j.LockKey)
	}
	t.mu.Unlock()

	event := t.logger.Debug()
	if err != nil {
		event = t.logger.Warn().Err(err)
	}
	event.Str("lock", j.LockKey).
		Str("job", j.ID.String()).
		Str("state", j.State().String()).
		Dur("elapsed", j.FinishedAt().Sub(j.StartedAt)).
		Msg("job finished")
}

// Lookup returns the running job holding lockKey
func (t *Tracker) Lookup(lockKey string) (*Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	j, ok := t.active[lockKey]
	return j, ok
}

func (t *Tracker) Running(lockKey string) bool {
	_, ok := t.Lookup(lockKey)
	return ok
}
