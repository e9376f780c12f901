package worker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/veranemoloko/range-downloader/internal/domain"
	errpkg "github.com/veranemoloko/range-downloader/internal/errors"
	"github.com/veranemoloko/range-downloader/internal/metrics"
)

// ChunkFetcher downloads single byte ranges of a remote resource.
type ChunkFetcher struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// NewChunkFetcher creates a ChunkFetcher that issues requests with the given client.
func NewChunkFetcher(httpClient *http.Client, userAgent string, logger *slog.Logger) *ChunkFetcher {
	return &ChunkFetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
		logger:     logger,
	}
}

// Fetch issues one ranged GET for r and reads the whole payload into memory.
// Failures are returned inside the ChunkResult as *errors.ChunkFetchError; there are no retries.
func (f *ChunkFetcher) Fetch(ctx context.Context, url string, r domain.ByteRange) domain.ChunkResult {
	metrics.ChunksInFlight.Inc()
	defer metrics.ChunksInFlight.Dec()

	start := time.Now()
	result := f.fetch(ctx, url, r)
	metrics.ChunkDuration.Observe(time.Since(start).Seconds())

	if result.Failed() {
		kind := errpkg.FailureTransport
		if cfe, ok := result.Err.(*errpkg.ChunkFetchError); ok {
			kind = cfe.Kind
		}
		metrics.ChunksFailed.WithLabelValues(string(kind)).Inc()
		f.logger.Error("chunk fetch failed",
			"url", url,
			"chunk", r.Index,
			"range", r.HeaderValue(),
			"error", result.Err,
		)
		return result
	}

	metrics.ChunksFetched.Inc()
	metrics.BytesFetched.Add(float64(len(result.Payload)))
	f.logger.Debug("chunk fetched",
		"chunk", r.Index,
		"range", r.HeaderValue(),
		"bytes", len(result.Payload),
		"duration", time.Since(start),
	)
	return result
}

func (f *ChunkFetcher) fetch(ctx context.Context, url string, r domain.ByteRange) domain.ChunkResult {
	result := domain.ChunkResult{Range: r}

	fail := func(kind errpkg.FailureKind, status int, err error) domain.ChunkResult {
		result.Err = &errpkg.ChunkFetchError{Index: r.Index, Kind: kind, StatusCode: status, Err: err}
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fail(errpkg.FailureTransport, 0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Range", r.HeaderValue())
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fail(errpkg.FailureTransport, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(errpkg.FailureStatus, resp.StatusCode, fmt.Errorf("bad status: %s", resp.Status))
	}

	if resp.StatusCode == http.StatusPartialContent {
		if err := checkContentRange(resp.Header.Get("Content-Range"), r); err != nil {
			return fail(errpkg.FailureRead, resp.StatusCode, err)
		}
	}

	payload, err := readPayload(ctx, resp.Body, r.Len())
	if err != nil {
		return fail(errpkg.FailureRead, resp.StatusCode, err)
	}

	result.Payload = payload
	return result
}

// readPayload reads exactly want bytes from src. A shorter or longer body is an error.
func readPayload(ctx context.Context, src io.Reader, want uint64) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(int(want))

	limited := io.LimitReader(src, int64(want)+1)
	chunk := make([]byte, 32*1024)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		nr, err := limited.Read(chunk)
		if nr > 0 {
			buf.Write(chunk[:nr])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	got := uint64(buf.Len())
	switch {
	case got < want:
		return nil, fmt.Errorf("short payload: got %d of %d bytes: %w", got, want, io.ErrUnexpectedEOF)
	case got > want:
		return nil, fmt.Errorf("payload exceeds requested range of %d bytes", want)
	}

	return buf.Bytes(), nil
}
