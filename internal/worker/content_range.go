package worker

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/veranemoloko/range-downloader/internal/domain"
)

// parseContentRange parses a Content-Range value of the form
// "bytes start-end/total" or "bytes start-end/*".
func parseContentRange(header string) (start, end uint64, err error) {
	spec, ok := strings.CutPrefix(header, "bytes ")
	if !ok {
		return 0, 0, fmt.Errorf("invalid Content-Range unit: %q", header)
	}

	span, _, ok := strings.Cut(spec, "/")
	if !ok {
		return 0, 0, fmt.Errorf("invalid Content-Range format: %q", header)
	}

	first, last, ok := strings.Cut(span, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid Content-Range format: %q", header)
	}

	start, err = strconv.ParseUint(first, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start byte: %w", err)
	}
	end, err = strconv.ParseUint(last, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end byte: %w", err)
	}

	return start, end, nil
}

// checkContentRange verifies that a partial response covers exactly r.
// An empty header is accepted; the payload length is still checked by the caller.
func checkContentRange(header string, r domain.ByteRange) error {
	if header == "" {
		return nil
	}

	start, end, err := parseContentRange(header)
	if err != nil {
		return err
	}
	if start != r.Start || end != r.End {
		return fmt.Errorf("content range %d-%d does not match requested %d-%d", start, end, r.Start, r.End)
	}
	return nil
}
