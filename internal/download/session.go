package download

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hostfetch/hostfetch/internal/engine/types"
)

// Session is one submitted batch. Its item slice keeps submission order and
// holds the latest snapshot of every item.
type Session struct {
	ID      string
	DestDir string
	Limit   int

	mu      sync.RWMutex
	items   []types.DownloadItem
	queue   chan int
	started time.Time
	done    chan struct{}

	active atomic.Int32
	peak   atomic.Int32
}

func newSession(items []types.DownloadItem, limit int, destDir string) *Session {
	s := &Session{
		ID:      uuid.New().String(),
		DestDir: destDir,
		Limit:   limit,
		items:   make([]types.DownloadItem, len(items)),
		queue:   make(chan int, len(items)),
		started: time.Now(),
		done:    make(chan struct{}),
	}
	copy(s.items, items)
	for i := range s.items {
		s.queue <- i
	}
	close(s.queue)
	return s
}

// Done is closed when every item is terminal.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until Done is closed and returns the final items.
func (s *Session) Wait() []types.DownloadItem {
	<-s.done
	return s.Results()
}

// Results returns a copy of the items in submission order.
func (s *Session) Results() []types.DownloadItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.DownloadItem, len(s.items))
	copy(out, s.items)
	return out
}

// Counts returns how many items succeeded and failed so far.
func (s *Session) Counts() (succeeded, failed int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		switch it.State {
		case types.StateSucceeded:
			succeeded++
		case types.StateFailed:
			failed++
		}
	}
	return succeeded, failed
}

// PeakActive is the highest number of items that were active at once.
func (s *Session) PeakActive() int {
	return int(s.peak.Load())
}

func (s *Session) item(i int) types.DownloadItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items[i]
}

func (s *Session) store(i int, item types.DownloadItem) {
	s.mu.Lock()
	s.items[i] = item
	s.mu.Unlock()
}

func (s *Session) enter() {
	n := s.active.Add(1)
	for {
		peak := s.peak.Load()
		if n <= peak || s.peak.CompareAndSwap(peak, n) {
			return
		}
	}
}

func (s *Session) leave() {
	s.active.Add(-1)
}

func (s *Session) finish() {
	close(s.done)
}
