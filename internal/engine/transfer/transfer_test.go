package transfer

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostfetch/hostfetch/internal/engine/resolve"
	"github.com/hostfetch/hostfetch/internal/engine/types"
)

type recorder struct {
	mu     sync.Mutex
	items  []types.DownloadItem
	speeds []float64
}

func (r *recorder) ItemChanged(item types.DownloadItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, item)
}

func (r *recorder) ItemSpeed(id string, s float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.speeds = append(r.speeds, s)
}

func (r *recorder) percents() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it.ProgressPercent)
	}
	return out
}

// fileServer serves payload at any path; known controls Content-Length.
func fileServer(t *testing.T, payload []byte, known bool) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if known {
			w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		}
		w.WriteHeader(http.StatusOK)
		if !known {
			w.(http.Flusher).Flush()
		}
		w.Write(payload)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTransfer(obs Observer, rc *types.RuntimeConfig) *Transfer {
	if rc == nil {
		rc = &types.RuntimeConfig{ChunkSize: 1024, SpeedSampleInterval: time.Millisecond}
	}
	return New(resolve.DirectResolver{}, nil, rc, obs)
}

func TestRun_KnownLength(t *testing.T) {
	payload := bytes.Repeat([]byte("a"), 10*1024)
	server := fileServer(t, payload, true)
	dir := t.TempDir()
	rec := &recorder{}

	item := types.NewDownloadItem(server.URL + "/files/data.txt?token=abc")
	err := newTransfer(rec, nil).Run(context.Background(), &item, dir)
	require.NoError(t, err)

	assert.Equal(t, types.StateSucceeded, item.State)
	assert.Equal(t, 100, item.ProgressPercent)
	assert.Equal(t, int64(len(payload)), item.Downloaded)
	assert.Equal(t, filepath.Join(dir, "data.txt"), item.DestPath)
	assert.Zero(t, item.CurrentSpeed)

	got, err := os.ReadFile(item.DestPath)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	pcts := rec.percents()
	require.NotEmpty(t, pcts)
	for i := 1; i < len(pcts); i++ {
		assert.GreaterOrEqual(t, pcts[i], pcts[i-1], "percent went backwards: %v", pcts)
	}
	assert.Equal(t, 100, pcts[len(pcts)-1])
	assert.Equal(t, types.StateDownloading, rec.items[0].State)
}

func TestRun_UnknownLengthStaysAtZero(t *testing.T) {
	payload := bytes.Repeat([]byte("b"), 3000)
	server := fileServer(t, payload, false)
	rec := &recorder{}

	item := types.NewDownloadItem(server.URL + "/blob.bin")
	err := newTransfer(rec, nil).Run(context.Background(), &item, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, types.StateSucceeded, item.State)
	assert.Equal(t, 0, item.ProgressPercent)
	assert.Equal(t, int64(-1), item.TotalSize)
	assert.Equal(t, int64(3000), item.Downloaded)
	for _, p := range rec.percents() {
		assert.Equal(t, 0, p)
	}
}

func TestRun_UnchangedChunksAreNotReported(t *testing.T) {
	payload := bytes.Repeat([]byte("q"), 64*1024)
	server := fileServer(t, payload, false)
	rec := &recorder{}

	rc := &types.RuntimeConfig{ChunkSize: 1024, SpeedSampleInterval: time.Hour}
	item := types.NewDownloadItem(server.URL + "/quiet.bin")
	err := newTransfer(rec, rc).Run(context.Background(), &item, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), item.Downloaded)

	// 64 chunks, but only the start and at most one speed sample are reported
	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.LessOrEqual(t, len(rec.items), 2)
	assert.LessOrEqual(t, len(rec.speeds), 1)
}

func TestRun_EmptyBodyUnknownLength(t *testing.T) {
	server := fileServer(t, nil, false)

	item := types.NewDownloadItem(server.URL + "/empty.dat")
	err := newTransfer(nil, nil).Run(context.Background(), &item, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, types.StateSucceeded, item.State)
	assert.Equal(t, 0, item.ProgressPercent)
	info, err := os.Stat(item.DestPath)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestRun_SniffsMissingExtension(t *testing.T) {
	payload := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 100)...)
	server := fileServer(t, payload, true)
	dir := t.TempDir()

	item := types.NewDownloadItem(server.URL + "/get-file")
	require.NoError(t, newTransfer(nil, nil).Run(context.Background(), &item, dir))
	assert.Equal(t, filepath.Join(dir, "get-file.pdf"), item.DestPath)
}

func TestRun_HTTPStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	item := types.NewDownloadItem(server.URL + "/file.zip")
	err := newTransfer(nil, nil).Run(context.Background(), &item, t.TempDir())
	require.Error(t, err)

	assert.Equal(t, types.KindHTTPStatus, types.KindOf(err))
	assert.Equal(t, types.StateFailed, item.State)
	assert.Contains(t, item.ErrorMessage, "403")
	assert.Empty(t, item.DestPath)
}

func TestRun_ResolverFailure(t *testing.T) {
	r := resolve.Func(func(ctx context.Context, pageURL string) (string, error) {
		return "", resolve.ErrNotFound
	})
	item := types.NewDownloadItem("https://host.example/file/abc")
	err := New(r, nil, nil, nil).Run(context.Background(), &item, t.TempDir())

	assert.Equal(t, types.KindResolutionFailed, types.KindOf(err))
	assert.Equal(t, types.StateFailed, item.State)
	assert.NotEmpty(t, item.ErrorMessage)
}

func TestRun_ResolverTimeout(t *testing.T) {
	r := resolve.Func(func(ctx context.Context, pageURL string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	rc := &types.RuntimeConfig{ResolveTimeout: 30 * time.Millisecond}
	item := types.NewDownloadItem("https://host.example/file/abc")
	err := New(r, nil, rc, nil).Run(context.Background(), &item, t.TempDir())

	assert.Equal(t, types.KindResolutionTimeout, types.KindOf(err))
	assert.Contains(t, item.ErrorMessage, "timeout")
}

func TestRun_MidStreamFailureLeavesPartialFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "10000")
		w.WriteHeader(http.StatusOK)
		w.Write(bytes.Repeat([]byte("c"), 4000))
		w.(http.Flusher).Flush()
		panic(http.ErrAbortHandler)
	}))
	defer server.Close()

	item := types.NewDownloadItem(server.URL + "/partial.bin")
	err := newTransfer(nil, nil).Run(context.Background(), &item, t.TempDir())
	require.Error(t, err)

	assert.Equal(t, types.StateFailed, item.State)
	kind := types.KindOf(err)
	assert.True(t, kind == types.KindProtocol || kind == types.KindNetwork, "kind = %v", kind)

	info, statErr := os.Stat(item.DestPath)
	require.NoError(t, statErr)
	assert.Equal(t, int64(4000), info.Size())
	assert.Less(t, item.ProgressPercent, 100)
}

func TestRun_IdleTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "10000")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("first bytes"))
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	rc := &types.RuntimeConfig{IdleTimeout: 100 * time.Millisecond}
	item := types.NewDownloadItem(server.URL + "/stall.bin")

	start := time.Now()
	err := newTransfer(nil, rc).Run(context.Background(), &item, t.TempDir())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 4*time.Second)
	assert.ErrorIs(t, err, types.ErrStalled)
	assert.Equal(t, types.KindNetwork, types.KindOf(err))
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	item := types.NewDownloadItem("https://host.example/file.zip")
	err := newTransfer(nil, nil).Run(ctx, &item, t.TempDir())
	assert.Equal(t, types.KindCancelled, types.KindOf(err))
	assert.Equal(t, types.StateFailed, item.State)
}

func TestRun_UnwritableDestination(t *testing.T) {
	server := fileServer(t, []byte("data"), true)
	missing := filepath.Join(t.TempDir(), "does", "not", "exist")

	item := types.NewDownloadItem(server.URL + "/x.txt")
	err := newTransfer(nil, nil).Run(context.Background(), &item, missing)
	assert.Equal(t, types.KindIO, types.KindOf(err))
}

func TestRun_ReportsSpeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", fmt.Sprint(4*1024))
		for i := 0; i < 4; i++ {
			w.Write(bytes.Repeat([]byte("d"), 1024))
			w.(http.Flusher).Flush()
			time.Sleep(20 * time.Millisecond)
		}
	}))
	defer server.Close()

	rec := &recorder{}
	item := types.NewDownloadItem(server.URL + "/slow.bin")
	require.NoError(t, newTransfer(rec, nil).Run(context.Background(), &item, t.TempDir()))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.NotEmpty(t, rec.speeds)
	for _, s := range rec.speeds {
		assert.Greater(t, s, 0.0)
	}
}
