package resolve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hostfetch/hostfetch/internal/engine/types"
)

// ErrNotFound is returned when a page carries no direct link.
var ErrNotFound = errors.New("direct link not found")

// LinkResolver turns a hosted-file page URL into a direct byte-stream URL.
// Implementations may block for a long time and should honour ctx.
type LinkResolver interface {
	Resolve(ctx context.Context, pageURL string) (string, error)
}

// Func adapts a plain function to LinkResolver.
type Func func(ctx context.Context, pageURL string) (string, error)

func (f Func) Resolve(ctx context.Context, pageURL string) (string, error) {
	return f(ctx, pageURL)
}

// DirectResolver treats every page URL as already direct.
type DirectResolver struct{}

func (DirectResolver) Resolve(_ context.Context, pageURL string) (string, error) {
	return pageURL, nil
}

type result struct {
	url string
	err error
}

// ResolveWithTimeout runs r with an upper bound of timeout. A resolver that
// ignores its context still releases the caller once the timeout fires.
// Errors are TransferErrors of kind ResolutionTimeout, ResolutionFailed,
// NetworkError or Cancelled.
func ResolveWithTimeout(ctx context.Context, r LinkResolver, pageURL string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = types.DefaultResolveTimeout
	}
	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		u, err := r.Resolve(rctx, pageURL)
		done <- result{u, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return "", classify(ctx, rctx, res.err, timeout)
		}
		if res.url == "" {
			return "", types.NewTransferError(types.KindResolutionFailed, ErrNotFound)
		}
		return res.url, nil
	case <-rctx.Done():
		return "", classify(ctx, rctx, rctx.Err(), timeout)
	}
}

func classify(parent, rctx context.Context, err error, timeout time.Duration) error {
	if parent.Err() != nil {
		return types.NewTransferError(types.KindCancelled, parent.Err())
	}
	if errors.Is(rctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return types.NewTransferError(types.KindResolutionTimeout,
			fmt.Errorf("no direct link after %s", timeout))
	}
	var te *types.TransferError
	if errors.As(err, &te) {
		return err
	}
	if errors.Is(err, ErrNotFound) {
		return types.NewTransferError(types.KindResolutionFailed, err)
	}
	if types.KindOf(err) == types.KindNetwork {
		return types.NewTransferError(types.KindNetwork, err)
	}
	return types.NewTransferError(types.KindResolutionFailed, err)
}
