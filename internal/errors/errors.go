package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrMissingSizeInfo  = errors.New("missing size info")
	ErrChunkFetchFailed = errors.New("chunk fetch failed")
	ErrDownloadFailed   = errors.New("download failed")
	ErrWriteFailed      = errors.New("write failed")
)

// FailureKind tells apart the ways a single chunk fetch can fail.
type FailureKind string

const (
	FailureTransport FailureKind = "transport"
	FailureStatus    FailureKind = "status"
	FailureRead      FailureKind = "read"
)

// ChunkFetchError describes the failure of one ranged request.
type ChunkFetchError struct {
	Index      int
	Kind       FailureKind
	StatusCode int
	Err        error
}

func (e *ChunkFetchError) Error() string {
	if e.Kind == FailureStatus {
		return fmt.Sprintf("chunk %d: %s: unexpected status %d", e.Index, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("chunk %d: %s: %v", e.Index, e.Kind, e.Err)
}

func (e *ChunkFetchError) Unwrap() error { return e.Err }

func (e *ChunkFetchError) Is(target error) bool {
	return target == ErrChunkFetchFailed
}

// DownloadFailedError aggregates every chunk failure of one download.
// Failures are sorted by chunk index.
type DownloadFailedError struct {
	Failures []*ChunkFetchError
}

func (e *DownloadFailedError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}
	return fmt.Sprintf("download failed: %d chunk(s) failed: %s", len(e.Failures), strings.Join(msgs, "; "))
}

func (e *DownloadFailedError) Is(target error) bool {
	return target == ErrDownloadFailed
}

func (e *DownloadFailedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}

// Indices returns the indexes of the failed chunks in ascending order.
func (e *DownloadFailedError) Indices() []int {
	idx := make([]int, 0, len(e.Failures))
	for _, f := range e.Failures {
		idx = append(idx, f.Index)
	}
	return idx
}
