package types

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
)

// ErrorKind classifies why a transfer failed.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindResolutionTimeout
	KindResolutionFailed
	KindNetwork
	KindHTTPStatus
	KindIO
	KindProtocol
	KindCancelled
)

func (k ErrorKind) String() string {
	switch k {
	case KindResolutionTimeout:
		return "resolution timeout"
	case KindResolutionFailed:
		return "resolution failed"
	case KindNetwork:
		return "network error"
	case KindHTTPStatus:
		return "http status error"
	case KindIO:
		return "io error"
	case KindProtocol:
		return "protocol error"
	case KindCancelled:
		return "cancelled"
	default:
		return "error"
	}
}

// ErrStalled is reported when no bytes arrive within the idle timeout.
var ErrStalled = errors.New("connection stalled")

// ErrTruncated is reported when the body ends before Content-Length bytes.
var ErrTruncated = errors.New("unexpected end of stream")

// TransferError is the single error type a transfer hands back to the pool.
type TransferError struct {
	Kind       ErrorKind
	StatusCode int // only for KindHTTPStatus
	Err        error
}

func (e *TransferError) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("%s: unexpected status %d", e.Kind, e.StatusCode)
	}
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// NewTransferError wraps err with an explicit kind.
func NewTransferError(kind ErrorKind, err error) *TransferError {
	return &TransferError{Kind: kind, Err: err}
}

// StatusError builds a KindHTTPStatus error.
func StatusError(code int) *TransferError {
	return &TransferError{Kind: KindHTTPStatus, StatusCode: code}
}

// KindOf reports the kind of err. Errors that are not TransferErrors are
// classified by their shape.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var te *TransferError
	if errors.As(err, &te) {
		return te.Kind
	}
	switch {
	case errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.Is(err, ErrStalled):
		return KindNetwork
	case errors.Is(err, ErrTruncated), errors.Is(err, io.ErrUnexpectedEOF):
		return KindProtocol
	case errors.Is(err, os.ErrPermission), errors.Is(err, syscall.ENOSPC):
		return KindIO
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return KindIO
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetwork
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return KindNetwork
	}
	return KindUnknown
}

// Classify wraps err in a TransferError, keeping an existing one untouched.
// Unclassifiable errors get fallback.
func Classify(err error, fallback ErrorKind) error {
	if err == nil {
		return nil
	}
	var te *TransferError
	if errors.As(err, &te) {
		return err
	}
	kind := KindOf(err)
	if kind == KindUnknown {
		kind = fallback
	}
	return NewTransferError(kind, err)
}
