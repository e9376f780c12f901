package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/veranemoloko/range-downloader/internal/config"
	"github.com/veranemoloko/range-downloader/internal/domain"
	errpkg "github.com/veranemoloko/range-downloader/internal/errors"
	"github.com/veranemoloko/range-downloader/internal/metrics"
	"github.com/veranemoloko/range-downloader/internal/planner"
	"github.com/veranemoloko/range-downloader/internal/storage"
	"github.com/veranemoloko/range-downloader/internal/worker"
)

// Fetcher retrieves one byte range of a resource.
type Fetcher interface {
	Fetch(ctx context.Context, url string, r domain.ByteRange) domain.ChunkResult
}

// Prober discovers the size of a resource.
type Prober interface {
	Probe(ctx context.Context, url string) (domain.ResourceDescriptor, error)
}

// Progress observes a download. Every method must be safe for concurrent use.
type Progress interface {
	SetPlan(url string, totalSize uint64, totalChunks int)
	Start()
	ChunkStarted(index int)
	ChunkFinished(index int, n int, err error)
	BytesWritten(total uint64)
	Finish(err error)
}

// DownloadService splits a resource into ranges, fetches them concurrently
// and writes them in order to a single file.
type DownloadService struct {
	prober         Prober
	fetcher        Fetcher
	assembler      *storage.Assembler
	progress       Progress
	maxConcurrency int
	logger         *slog.Logger
}

// Option customizes a DownloadService.
type Option func(*DownloadService)

// WithFetcher replaces the HTTP chunk fetcher.
func WithFetcher(f Fetcher) Option {
	return func(s *DownloadService) { s.fetcher = f }
}

// WithProber replaces the HTTP size probe.
func WithProber(p Prober) Option {
	return func(s *DownloadService) { s.prober = p }
}

// WithProgress attaches a progress observer.
func WithProgress(p Progress) Option {
	return func(s *DownloadService) { s.progress = p }
}

// NewDownloadService wires the default HTTP prober, fetcher and file assembler from cfg.
func NewDownloadService(cfg *config.Config, logger *slog.Logger, opts ...Option) *DownloadService {
	fetchClient := &http.Client{Timeout: cfg.HTTPTimeout}
	probeClient := &http.Client{Timeout: cfg.ProbeTimeout}

	s := &DownloadService{
		prober:         worker.NewProber(probeClient, cfg.UserAgent, logger),
		fetcher:        worker.NewChunkFetcher(fetchClient, cfg.UserAgent, logger),
		assembler:      storage.NewAssembler(storage.NewFileStorage(), logger),
		maxConcurrency: cfg.MaxConcurrency,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Download probes url for its size and then runs the ranged download into dest.
func (s *DownloadService) Download(ctx context.Context, url string, partCount int, dest string) (*domain.DownloadOutcome, error) {
	if partCount <= 0 {
		return nil, fmt.Errorf("%w: part count must be positive: %d", errpkg.ErrInvalidInput, partCount)
	}

	desc, err := s.prober.Probe(ctx, url)
	if err != nil {
		s.finish(err)
		return nil, err
	}

	return s.Run(ctx, desc, partCount, dest)
}

// Run downloads desc in partCount ranges and writes it to dest.
//
// All fetches are launched together and Run waits for every one of them;
// a failed chunk does not cancel its siblings. If any chunk failed the
// result is a *errors.DownloadFailedError and dest is not touched.
func (s *DownloadService) Run(ctx context.Context, desc domain.ResourceDescriptor, partCount int, dest string) (*domain.DownloadOutcome, error) {
	ranges, err := planner.Plan(desc.TotalSize, partCount)
	if err != nil {
		s.finish(err)
		return nil, err
	}

	metrics.DownloadsTotal.Inc()
	startTime := time.Now()

	if s.progress != nil {
		s.progress.SetPlan(desc.URL, desc.TotalSize, len(ranges))
		s.progress.Start()
	}

	s.logger.Info("download started",
		"url", desc.URL,
		"size", desc.TotalSize,
		"parts", len(ranges),
		"max_concurrency", s.maxConcurrency,
	)

	results := s.fetchAll(ctx, desc.URL, ranges)

	if err := collectFailures(results); err != nil {
		metrics.DownloadsFailed.Inc()
		s.logger.Error("download failed", "url", desc.URL, "failed_parts", len(err.Failures), "error", err)
		s.finish(err)
		return nil, err
	}

	var onWrite storage.WriteFunc
	if s.progress != nil {
		onWrite = s.progress.BytesWritten
	}

	written, err := s.assembler.Assemble(results, dest, onWrite)
	if err != nil {
		metrics.DownloadsFailed.Inc()
		s.logger.Error("assembly failed", "url", desc.URL, "path", dest, "error", err)
		s.finish(err)
		return nil, err
	}

	duration := time.Since(startTime)
	metrics.DownloadsSuccess.Inc()
	metrics.DownloadDuration.Observe(duration.Seconds())
	s.finish(nil)

	s.logger.Info("download completed", "url", desc.URL, "path", dest, "bytes", written, "duration", duration)

	return &domain.DownloadOutcome{
		URL:          desc.URL,
		Path:         dest,
		BytesWritten: written,
		Parts:        len(ranges),
		Duration:     duration,
	}, nil
}

// fetchAll runs one fetch per range and returns the results indexed by range.
// Goroutines never return an error to the group so that no fetch is cancelled.
func (s *DownloadService) fetchAll(ctx context.Context, url string, ranges []domain.ByteRange) []domain.ChunkResult {
	results := make([]domain.ChunkResult, len(ranges))

	var g errgroup.Group
	if s.maxConcurrency > 0 {
		g.SetLimit(s.maxConcurrency)
	}

	for _, r := range ranges {
		g.Go(func() error {
			if s.progress != nil {
				s.progress.ChunkStarted(r.Index)
			}
			result := s.fetcher.Fetch(ctx, url, r)
			results[r.Index] = result
			if s.progress != nil {
				s.progress.ChunkFinished(r.Index, len(result.Payload), result.Err)
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

func (s *DownloadService) finish(err error) {
	if s.progress != nil {
		s.progress.Finish(err)
	}
}

// collectFailures returns nil when every chunk succeeded.
func collectFailures(results []domain.ChunkResult) *errpkg.DownloadFailedError {
	var failures []*errpkg.ChunkFetchError
	for _, res := range results {
		if !res.Failed() {
			continue
		}
		var cfe *errpkg.ChunkFetchError
		if !errors.As(res.Err, &cfe) {
			cfe = &errpkg.ChunkFetchError{Index: res.Range.Index, Kind: errpkg.FailureTransport, Err: res.Err}
		}
		failures = append(failures, cfe)
	}
	if len(failures) == 0 {
		return nil
	}
	return &errpkg.DownloadFailedError{Failures: failures}
}
