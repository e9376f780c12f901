package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	adminhttp "github.com/veranemoloko/range-downloader/internal/api/http"
	cfgpkg "github.com/veranemoloko/range-downloader/internal/config"
	errpkg "github.com/veranemoloko/range-downloader/internal/errors"
	"github.com/veranemoloko/range-downloader/internal/progress"
	svc "github.com/veranemoloko/range-downloader/internal/service"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitInvalidArgs  = 2
	ExitSizeUnknown  = 3
	ExitChunkFailed  = 4
	ExitWriteFailed  = 5
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := cfgpkg.Load()
	if err != nil {
		fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return ExitGeneralError
	}

	logger := cfgpkg.SetupLogger(cfg)

	opts, err := parseArgs(args, cfg, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	reporter := progress.NewReporter(progress.Options{
		Output:         stdout,
		UpdateInterval: cfg.ProgressInterval,
		SourceURL:      opts.URL,
		Quiet:          cfg.NoProgress,
	})

	if cfg.AdminAddr != "" {
		admin, err := adminhttp.Listen(cfg.AdminAddr, reporter, logger)
		if err != nil {
			logger.Error("failed to start admin server", "address", cfg.AdminAddr, "error", err)
			return ExitGeneralError
		}
		admin.Serve()
		defer func() {
			if err := admin.Shutdown(cfg.ShutdownTimeout); err != nil {
				logger.Error("admin server shutdown failed", "error", err)
			}
		}()
	}

	downloadService := svc.NewDownloadService(cfg, logger, svc.WithProgress(reporter))

	outcome, err := downloadService.Download(ctx, opts.URL, opts.Parts, opts.Output)
	if err != nil {
		return reportFailure(stderr, err)
	}

	fmt.Fprintf(stdout, "Saved %s to %s\n", humanize.IBytes(outcome.BytesWritten), outcome.Path)
	return ExitSuccess
}

func reportFailure(stderr io.Writer, err error) int {
	var dfe *errpkg.DownloadFailedError
	switch {
	case errors.As(err, &dfe):
		fmt.Fprintf(stderr, "Some parts failed to download: %v\n", dfe.Indices())
		for _, f := range dfe.Failures {
			fmt.Fprintf(stderr, "  part %d: %v\n", f.Index, f)
		}
		return ExitChunkFailed
	case errors.Is(err, errpkg.ErrMissingSizeInfo):
		fmt.Fprintf(stderr, "Error: could not determine file size: %v\n", err)
		return ExitSizeUnknown
	case errors.Is(err, errpkg.ErrInvalidInput):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	case errors.Is(err, errpkg.ErrWriteFailed):
		fmt.Fprintf(stderr, "Error: could not write output: %v\n", err)
		return ExitWriteFailed
	default:
		slog.Error("download failed", "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitGeneralError
	}
}
