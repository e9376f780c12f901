package worker

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/veranemoloko/range-downloader/internal/domain"
	errpkg "github.com/veranemoloko/range-downloader/internal/errors"
)

// Prober discovers the size of a remote resource before it is planned.
type Prober struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

func NewProber(httpClient *http.Client, userAgent string, logger *slog.Logger) *Prober {
	return &Prober{
		httpClient: httpClient,
		userAgent:  userAgent,
		logger:     logger,
	}
}

// Probe sends a HEAD request and builds a ResourceDescriptor from its Content-Length.
// Any failure to obtain a positive size is reported as ErrMissingSizeInfo.
func (p *Prober) Probe(ctx context.Context, url string) (domain.ResourceDescriptor, error) {
	var desc domain.ResourceDescriptor

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return desc, fmt.Errorf("%w: create request: %w", errpkg.ErrMissingSizeInfo, err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return desc, fmt.Errorf("%w: head request: %w", errpkg.ErrMissingSizeInfo, err)
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return desc, fmt.Errorf("%w: bad status: %s", errpkg.ErrMissingSizeInfo, resp.Status)
	}

	raw := resp.Header.Get("Content-Length")
	if raw == "" {
		return desc, fmt.Errorf("%w: no content-length header", errpkg.ErrMissingSizeInfo)
	}

	size, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return desc, fmt.Errorf("%w: invalid content-length %q: %w", errpkg.ErrMissingSizeInfo, raw, err)
	}
	if size == 0 {
		return desc, fmt.Errorf("%w: content-length is zero", errpkg.ErrMissingSizeInfo)
	}

	desc = domain.ResourceDescriptor{
		URL:           url,
		TotalSize:     size,
		AcceptsRanges: resp.Header.Get("Accept-Ranges") == "bytes",
	}

	if !desc.AcceptsRanges {
		p.logger.Warn("server does not advertise range support", "url", url)
	}
	p.logger.Info("resource probed", "url", url, "size", size)

	return desc, nil
}
