package activities

import (
	"cloudsync/internal/backup"
	"cloudsync/internal/config"
	"cloudsync/internal/job"
	"cloudsync/internal/store"
	"context"
	"sync"
	"time"

	"go.temporal.io/sdk/activity"
)

// heartbeatInterval keeps transfer activities alive while the transfer
// reports nothing. It must stay well below the heartbeat timeout.
var heartbeatInterval = 30 * time.Second

// Activities holds all activity implementations for the agent
type Activities struct {
	Config *config.Config
	Store  store.Store
	Backup *backup.Service
}

// NewActivities creates a new Activities instance with required dependencies
func NewActivities(cfg *config.Config, st store.Store, svc *backup.Service) *Activities {
	return &Activities{
		Config: cfg,
		Store:  st,
		Backup: svc,
	}
}

// heartbeater forwards job progress as activity heartbeats and repeats the
// last progress every heartbeatInterval until stopped. The SDK throttles
// heartbeats and RecordHeartbeat never blocks on the server.
type heartbeater struct {
	ctx  context.Context
	mu   sync.Mutex
	last job.Progress
	stop chan struct{}
	done chan struct{}
}

func startHeartbeat(ctx context.Context) *heartbeater {
	h := &heartbeater{
		ctx:  ctx,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *heartbeater) Publish(p job.Progress) {
	h.mu.Lock()
	h.last = p
	h.mu.Unlock()
	activity.RecordHeartbeat(h.ctx, p)
}

func (h *heartbeater) loop() {
	defer close(h.done)
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			h.mu.Lock()
			p := h.last
			h.mu.Unlock()
			activity.RecordHeartbeat(h.ctx, p)
		case <-h.stop:
			return
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop ends the ticker and waits for it to exit
func (h *heartbeater) Stop() {
	close(h.stop)
	<-h.done
}
