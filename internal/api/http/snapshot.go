package http

import (
	"sync"
	"time"

	"github.com/quizsight/quizsight/internal/pipeline"
)

// Snapshot is one pipeline run's immutable output plus its import
// identity. Handlers read whichever snapshot is current; uploads swap
// in a fresh one atomically, so metric computation never observes a
// half-loaded dataset.
type Snapshot struct {
	Result   pipeline.Result
	ImportID string
	LoadedAt time.Time
}

type Snapshots struct {
	mu  sync.RWMutex
	cur *Snapshot
}

func (s *Snapshots) Get() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *Snapshots) Set(snap *Snapshot) {
	s.mu.Lock()
	s.cur = snap
	s.mu.Unlock()
}
