package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hostfetch/hostfetch/internal/engine/resolve"
	"github.com/hostfetch/hostfetch/internal/engine/speed"
	"github.com/hostfetch/hostfetch/internal/engine/types"
	"github.com/hostfetch/hostfetch/internal/utils"
)

// Observer receives what a running transfer reports. Calls come from the
// transfer's own goroutine, in order.
//
// Progress is throttled: chunks that change neither the truncated percent
// nor produce a speed sample are not reported. An item of unknown length is
// therefore reported about once per speed sample interval.
type Observer interface {
	// ItemChanged gets a copy of the item after it starts downloading and
	// whenever its percent or sampled speed moves.
	ItemChanged(item types.DownloadItem)
	// ItemSpeed gets a rate-limited average speed in MB/s.
	ItemSpeed(itemID string, speedMBps float64)
}

// Transfer resolves one item and streams it to disk.
type Transfer struct {
	resolver resolve.LinkResolver
	client   *http.Client
	runtime  *types.RuntimeConfig
	observer Observer
}

func New(resolver resolve.LinkResolver, client *http.Client, runtime *types.RuntimeConfig, observer Observer) *Transfer {
	if client == nil {
		client = NewHTTPClient()
	}
	return &Transfer{
		resolver: resolver,
		client:   client,
		runtime:  runtime,
		observer: observer,
	}
}

// Run drives item from Resolving to a terminal state. The final state is
// written to item but not reported to the observer; the caller owns that
// last transition. The returned error is a *types.TransferError.
func (t *Transfer) Run(ctx context.Context, item *types.DownloadItem, destDir string) error {
	item.Transition(types.StateResolving)

	start := time.Now()
	err := t.run(ctx, item, destDir)
	if err != nil {
		err = types.Classify(err, types.KindNetwork)
		item.Fail(err)
		utils.Debug("Transfer %s failed after %v: %v", item.SourceURL, time.Since(start), err)
		return err
	}

	if item.TotalSize >= 0 {
		item.ProgressPercent = 100
	}
	item.Transition(types.StateSucceeded)
	utils.Debug("Transfer %s completed in %v (%d bytes)", item.SourceURL, time.Since(start), item.Downloaded)
	return nil
}

func (t *Transfer) run(ctx context.Context, item *types.DownloadItem, destDir string) error {
	if err := ctx.Err(); err != nil {
		return types.NewTransferError(types.KindCancelled, err)
	}

	direct, err := resolve.ResolveWithTimeout(ctx, t.resolver, item.SourceURL, t.runtime.GetResolveTimeout())
	if err != nil {
		return err
	}
	item.DirectURL = direct
	filename := utils.FilenameFromURL(direct)

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	idle := newIdleWatch(t.runtime.GetIdleTimeout(), cancel)
	defer idle.Stop()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, direct, nil)
	if err != nil {
		return types.NewTransferError(types.KindResolutionFailed, fmt.Errorf("invalid direct link %q: %w", direct, err))
	}
	req.Header.Set("User-Agent", t.runtime.GetUserAgent())

	resp, err := t.client.Do(req)
	if err != nil {
		return streamError(ctx, idle, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return types.StatusError(resp.StatusCode)
	}
	idle.Touch()

	item.TotalSize = resp.ContentLength
	tracker := speed.NewTracker(time.Now(), t.runtime.GetSpeedSampleInterval())
	buf := make([]byte, t.runtime.GetChunkSize())

	// The first chunk decides the extension of extension-less names
	n, rerr := resp.Body.Read(buf)
	filename = utils.WithSniffedExtension(filename, buf[:n])
	item.DestPath = filepath.Join(destDir, filename)

	file, err := os.Create(item.DestPath)
	if err != nil {
		return types.NewTransferError(types.KindIO, err)
	}
	defer file.Close()

	item.Transition(types.StateDownloading)
	t.changed(item)
	utils.Debug("Streaming %s -> %s (size %d)", direct, item.DestPath, item.TotalSize)

	var downloaded int64
	for {
		if n > 0 {
			// Chunk boundary: never write a chunk after cancellation
			if err := ctx.Err(); err != nil {
				return types.NewTransferError(types.KindCancelled, err)
			}
			if _, err := file.Write(buf[:n]); err != nil {
				return types.NewTransferError(types.KindIO, err)
			}
			idle.Touch()
			downloaded += int64(n)

			prev := item.ProgressPercent
			item.SetProgress(downloaded)
			emit := item.ProgressPercent != prev
			if s, ok := tracker.Sample(time.Now(), downloaded); ok {
				item.CurrentSpeed = s
				t.speed(item.ID, s)
				emit = true
			}
			if emit {
				t.changed(item)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return streamError(ctx, idle, rerr)
		}
		n, rerr = resp.Body.Read(buf)
	}

	if item.TotalSize > 0 && downloaded < item.TotalSize {
		return types.NewTransferError(types.KindProtocol,
			fmt.Errorf("%w: got %d of %d bytes", types.ErrTruncated, downloaded, item.TotalSize))
	}
	if err := file.Close(); err != nil {
		return types.NewTransferError(types.KindIO, err)
	}
	return nil
}

// streamError classifies a failure of the request or a body read.
func streamError(ctx context.Context, idle *idleWatch, err error) error {
	if ctx.Err() != nil {
		return types.NewTransferError(types.KindCancelled, ctx.Err())
	}
	if idle.Stalled() {
		return types.NewTransferError(types.KindNetwork, types.ErrStalled)
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return types.NewTransferError(types.KindProtocol, fmt.Errorf("%w: %v", types.ErrTruncated, err))
	}
	return types.Classify(err, types.KindNetwork)
}

func (t *Transfer) changed(item *types.DownloadItem) {
	if t.observer != nil {
		t.observer.ItemChanged(*item)
	}
}

func (t *Transfer) speed(id string, s float64) {
	if t.observer != nil {
		t.observer.ItemSpeed(id, s)
	}
}
