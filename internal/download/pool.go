package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/hostfetch/hostfetch/internal/engine/events"
	"github.com/hostfetch/hostfetch/internal/engine/resolve"
	"github.com/hostfetch/hostfetch/internal/engine/speed"
	"github.com/hostfetch/hostfetch/internal/engine/transfer"
	"github.com/hostfetch/hostfetch/internal/engine/types"
	"github.com/hostfetch/hostfetch/internal/utils"
)

// ErrInvalidConcurrency is returned by Submit for a limit below 1.
var ErrInvalidConcurrency = errors.New("concurrency limit must be at least 1")

// ErrPoolClosed is returned by Submit after Shutdown.
var ErrPoolClosed = errors.New("worker pool is shut down")

// tracked locates an item inside its session.
type tracked struct {
	session *Session
	index   int
}

// WorkerPool runs batches of downloads with a per-batch concurrency limit.
// All sessions share one aggregate speedometer and one event channel.
type WorkerPool struct {
	progressCh  chan<- any
	transfer    *transfer.Transfer
	speedometer *speed.Speedometer

	ctx    context.Context
	cancel context.CancelFunc

	items  map[string]tracked // items of running sessions only
	mu     sync.RWMutex
	wg     sync.WaitGroup // one per running session
	closed bool
}

// NewWorkerPool builds a pool that reports on progressCh. A nil channel
// discards every event. A nil client uses the tuned default.
func NewWorkerPool(progressCh chan<- any, resolver resolve.LinkResolver, client *http.Client, runtime *types.RuntimeConfig) *WorkerPool {
	if resolver == nil {
		resolver = resolve.DirectResolver{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	pool := &WorkerPool{
		progressCh: progressCh,
		ctx:        ctx,
		cancel:     cancel,
		items:      make(map[string]tracked),
	}
	pool.speedometer = speed.NewSpeedometer(func(total float64) {
		pool.send(events.AggregateSpeedMsg{TotalMBps: total})
	})
	pool.transfer = transfer.New(resolver, client, runtime, (*poolObserver)(pool))
	return pool
}

// SubmitBatch registers one Pending item per URL, in order, and starts them.
func (p *WorkerPool) SubmitBatch(urls []string, limit int, destDir string) (*Session, error) {
	return p.Submit(types.NewDownloadItems(urls), limit, destDir)
}

// Submit starts a session over items. At most limit of them are Resolving or
// Downloading at once and they are dispatched in slice order.
func (p *WorkerPool) Submit(items []types.DownloadItem, limit int, destDir string) (*Session, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidConcurrency, limit)
	}

	s := newSession(items, limit, destDir)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	for i := range s.items {
		p.items[s.items[i].ID] = tracked{session: s, index: i}
	}
	p.wg.Add(1)
	p.mu.Unlock()

	utils.Debug("WorkerPool: session %s queued %d items (limit %d) into %s", s.ID, len(items), limit, destDir)

	p.send(events.BatchQueuedMsg{
		SessionID:   s.ID,
		Items:       s.Results(),
		Concurrency: limit,
		DestDir:     destDir,
	})
	for _, item := range s.Results() {
		p.send(events.ItemStateMsg{SessionID: s.ID, Item: item})
	}

	workers := min(limit, len(s.items))
	var sessionWG sync.WaitGroup
	for w := 0; w < workers; w++ {
		sessionWG.Add(1)
		go func() {
			defer sessionWG.Done()
			p.worker(s)
		}()
	}

	go func() {
		sessionWG.Wait()
		p.forget(s)
		s.finish()
		succeeded, failed := s.Counts()
		utils.Debug("WorkerPool: session %s finished: %d succeeded, %d failed", s.ID, succeeded, failed)
		p.send(events.BatchDoneMsg{
			SessionID: s.ID,
			Succeeded: succeeded,
			Failed:    failed,
			Elapsed:   time.Since(s.started),
		})
		p.wg.Done()
	}()

	return s, nil
}

// worker pulls item indexes until the session queue is empty. After Shutdown
// the remaining items are failed without being started.
func (p *WorkerPool) worker(s *Session) {
	for i := range s.queue {
		if err := p.ctx.Err(); err != nil {
			item := s.item(i)
			item.Fail(types.NewTransferError(types.KindCancelled, err))
			p.finishItem(s, i, item)
			continue
		}
		p.runItem(s, i)
	}
}

// forget drops a finished session's items from the index. Their outcomes stay
// available through the Session and the history store.
func (p *WorkerPool) forget(s *Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range s.Results() {
		delete(p.items, item.ID)
	}
}

// GetStatus returns a snapshot of an item in a session that is still
// running, or nil.
func (p *WorkerPool) GetStatus(id string) *types.DownloadStatus {
	p.mu.RLock()
	t, ok := p.items[id]
	p.mu.RUnlock()
	if !ok {
		return nil
	}
	item := t.session.item(t.index)

	status := &types.DownloadStatus{
		ID:         item.ID,
		URL:        item.SourceURL,
		Filename:   filepath.Base(item.DestPath),
		TotalSize:  item.TotalSize,
		Downloaded: item.Downloaded,
		Progress:   item.ProgressPercent,
		Speed:      item.CurrentSpeed,
		Status:     statusLabel(item.State),
		Error:      item.ErrorMessage,
	}
	if item.DestPath == "" {
		status.Filename = utils.FilenameFromURL(item.SourceURL)
	}
	return status
}

func statusLabel(s types.ItemState) string {
	switch s {
	case types.StatePending:
		return "queued"
	case types.StateResolving:
		return "resolving"
	case types.StateDownloading:
		return "downloading"
	case types.StateSucceeded:
		return "completed"
	case types.StateFailed:
		return "error"
	}
	return "unknown"
}

// InFlight returns how many items are Resolving or Downloading across all sessions.
func (p *WorkerPool) InFlight() int {
	return p.speedometer.InFlight()
}

// AggregateSpeed returns the last published total in MB/s.
func (p *WorkerPool) AggregateSpeed() float64 {
	return p.speedometer.Total()
}

// Shutdown cancels every running transfer, fails everything still queued
// and waits for all sessions to report BatchDoneMsg.
func (p *WorkerPool) Shutdown() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
	utils.Debug("WorkerPool: shutdown complete")
}

// Wait blocks until every submitted session is done.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

func (p *WorkerPool) send(msg any) {
	if p.progressCh != nil {
		p.progressCh <- msg
	}
}
