package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/veranemoloko/range-downloader/internal/config"
	errpkg "github.com/veranemoloko/range-downloader/internal/errors"
	"github.com/veranemoloko/range-downloader/internal/validation"
)

type options struct {
	URL    string
	Parts  int
	Output string
}

// parseArgs reads command line flags, falling back to cfg for defaults.
// It returns pflag.ErrHelp when usage was requested.
func parseArgs(args []string, cfg *config.Config, stderr io.Writer) (options, error) {
	fs := pflag.NewFlagSet("downloader", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: downloader --url URL [--parts N] [--output PATH]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Downloads a file concurrently in parts using HTTP range requests.")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	url := fs.StringP("url", "u", "", "URL of the file to download (required)")
	parts := fs.StringP("parts", "p", strconv.Itoa(cfg.DefaultParts), "number of parts to split the download into")
	output := fs.StringP("output", "o", cfg.Output, "path of the output file")

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return options{}, err
		}
		return options{}, fmt.Errorf("%w: %w", errpkg.ErrInvalidInput, err)
	}

	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("%w: unexpected arguments: %v", errpkg.ErrInvalidInput, fs.Args())
	}

	n, err := strconv.Atoi(*parts)
	if err != nil {
		return options{}, fmt.Errorf("%w: parts must be a positive integer: %q", errpkg.ErrInvalidInput, *parts)
	}

	opts := options{URL: *url, Parts: n, Output: *output}
	if err := validation.ValidateRequest(validation.Request{
		URL:    opts.URL,
		Parts:  opts.Parts,
		Output: opts.Output,
	}); err != nil {
		return options{}, err
	}

	return opts, nil
}
