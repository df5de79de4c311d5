package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hostfetch/hostfetch/internal/clipboard"
	"github.com/hostfetch/hostfetch/internal/config"
	"github.com/hostfetch/hostfetch/internal/download"
	"github.com/hostfetch/hostfetch/internal/engine/events"
	"github.com/hostfetch/hostfetch/internal/engine/resolve"
	"github.com/hostfetch/hostfetch/internal/engine/types"
	"github.com/hostfetch/hostfetch/internal/tui"
	"github.com/hostfetch/hostfetch/internal/utils"
)

// batchOptions is everything one run needs, after settings and flags are merged.
type batchOptions struct {
	URLs        []string
	DestDir     string
	Concurrency int
	Headless    bool
	Direct      bool
	Stay        bool
	Runtime     *types.RuntimeConfig
}

// readBatchOptions merges settings.yaml with the command line.
func readBatchOptions(cmd *cobra.Command, args []string) (*batchOptions, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()

	if v, _ := flags.GetString("output"); v != "" {
		settings.General.DownloadDir = v
	}
	if v, _ := flags.GetInt("concurrency"); v != 0 {
		if v < 1 || v > types.MaxConcurrentLimit {
			return nil, fmt.Errorf("--concurrency must be between 1 and %d, got %d", types.MaxConcurrentLimit, v)
		}
		settings.General.MaxConcurrent = v
	}
	if v, _ := flags.GetDuration("resolve-timeout"); v > 0 {
		settings.Transfer.ResolveTimeout = v
	}
	if v, _ := flags.GetDuration("idle-timeout"); v > 0 {
		settings.Transfer.IdleTimeout = v
	}
	settings.Normalize()

	urls := append([]string(nil), args...)
	if path, _ := flags.GetString("batch"); path != "" {
		fromFile, err := readURLsFromFile(path)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fromFile...)
	}
	if useClipboard, _ := flags.GetBool("clipboard"); useClipboard {
		fromClipboard, err := clipboard.ReadURLs()
		if err != nil {
			return nil, fmt.Errorf("failed to read clipboard: %w", err)
		}
		urls = append(urls, fromClipboard...)
	}
	urls = validURLs(cmd.ErrOrStderr(), urls)
	if len(urls) == 0 {
		return nil, errors.New("no URLs given: pass them as arguments, with --batch or with --clipboard")
	}

	opts := &batchOptions{
		URLs:        urls,
		DestDir:     settings.General.DownloadDir,
		Concurrency: settings.General.MaxConcurrent,
		Runtime:     settings.ToRuntimeConfig(),
	}
	opts.Headless, _ = flags.GetBool("headless")
	opts.Direct, _ = flags.GetBool("direct")
	opts.Stay, _ = flags.GetBool("stay")
	return opts, nil
}

// readURLsFromFile reads URLs from a file, one per line
func readURLsFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var urls []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			urls = append(urls, line)
		}
	}
	return urls, scanner.Err()
}

// validURLs keeps the http(s) links in order and reports the rest.
func validURLs(w io.Writer, urls []string) []string {
	v := clipboard.NewValidator()
	valid := make([]string, 0, len(urls))
	for _, u := range urls {
		if clean := v.ExtractURL(u); clean != "" {
			valid = append(valid, clean)
			continue
		}
		fmt.Fprintf(w, "Skipping invalid URL: %q\n", u)
	}
	return valid
}

func newResolver(opts *batchOptions) (resolve.LinkResolver, error) {
	if opts.Direct {
		return resolve.DirectResolver{}, nil
	}
	return resolve.NewHTMLResolver(opts.Runtime)
}

// batchFailedError reports a finished batch with failed items.
type batchFailedError struct {
	failed, total int
}

func (e *batchFailedError) Error() string {
	return fmt.Sprintf("%d of %d downloads failed", e.failed, e.total)
}

// runBatch downloads opts.URLs into opts.DestDir and returns an error when
// any of them failed.
func runBatch(ctx context.Context, opts *batchOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := os.MkdirAll(opts.DestDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", opts.DestDir, err)
	}

	locked, err := AcquireLock(opts.DestDir)
	if err != nil {
		return err
	}
	if !locked {
		return fmt.Errorf("another hostfetch is already downloading into %s", opts.DestDir)
	}
	defer ReleaseLock()

	resolver, err := newResolver(opts)
	if err != nil {
		return err
	}

	progressCh := make(chan any, types.ProgressChannelBuffer)
	pool := download.NewWorkerPool(progressCh, resolver, nil, opts.Runtime)
	recorder := newHistoryRecorder()

	var results []types.DownloadItem
	if opts.Headless {
		results, err = runHeadless(ctx, pool, progressCh, recorder, opts)
	} else {
		results, err = runTUI(pool, progressCh, recorder, opts)
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, it := range results {
		if it.State == types.StateFailed {
			failed++
		}
	}
	if failed > 0 {
		return &batchFailedError{failed: failed, total: len(results)}
	}
	return nil
}

func runHeadless(ctx context.Context, pool *download.WorkerPool, progressCh chan any, recorder *historyRecorder, opts *batchOptions) ([]types.DownloadItem, error) {
	sink := newHeadlessSink(os.Stdout)
	consumed := make(chan struct{})
	go func() {
		defer close(consumed)
		for msg := range progressCh {
			recorder.Observe(msg)
			events.Dispatch(msg, sink)
		}
	}()

	session, err := pool.SubmitBatch(opts.URLs, opts.Concurrency, opts.DestDir)
	if err != nil {
		close(progressCh)
		<-consumed
		return nil, err
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-session.Done():
	case <-sigCtx.Done():
		fmt.Fprintln(os.Stderr, "\nCancelling...")
		utils.Debug("Headless: interrupted, shutting down pool")
	}
	pool.Shutdown()

	close(progressCh)
	<-consumed
	return session.Results(), nil
}

// submitResult carries SubmitBatch's outcome out of its goroutine.
type submitResult struct {
	session *download.Session
	err     error
}

func runTUI(pool *download.WorkerPool, progressCh chan any, recorder *historyRecorder, opts *batchOptions, progOpts ...tea.ProgramOption) ([]types.DownloadItem, error) {
	m := tui.NewRootModel(nil)
	m.QuitWhenDone = !opts.Stay
	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithAltScreen()}, progOpts...)...)

	// Background listener for progress events
	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		for msg := range progressCh {
			recorder.Observe(msg)
			p.Send(msg)
		}
	}()

	// p.Send blocks until the program runs, and SubmitBatch emits one event
	// per item, so submission must not happen before p.Run.
	submitted := make(chan submitResult, 1)
	go func() {
		session, err := pool.SubmitBatch(opts.URLs, opts.Concurrency, opts.DestDir)
		submitted <- submitResult{session: session, err: err}
		if err != nil {
			p.Quit()
		}
	}()

	start := time.Now()
	_, runErr := p.Run()
	sub := <-submitted

	// Quitting early cancels whatever is still running
	pool.Shutdown()
	close(progressCh)
	<-forwarded

	if sub.err != nil {
		return nil, sub.err
	}
	if runErr != nil {
		return nil, fmt.Errorf("error running TUI: %w", runErr)
	}

	results := sub.session.Results()
	succeeded, failed := sub.session.Counts()
	fmt.Printf("%d succeeded, %d failed in %s -> %s\n", succeeded, failed, time.Since(start).Round(time.Millisecond), opts.DestDir)
	for _, it := range results {
		if it.State == types.StateFailed {
			fmt.Printf("  %s: %s\n", it.SourceURL, it.ErrorMessage)
		}
	}
	return results, nil
}
