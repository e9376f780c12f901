package planner

import (
	"fmt"

	"github.com/veranemoloko/range-downloader/internal/domain"
	errpkg "github.com/veranemoloko/range-downloader/internal/errors"
)

// Plan splits [0, totalSize-1] into partCount contiguous ranges.
// Every range but the last has totalSize/partCount bytes; the last one
// absorbs the remainder. When partCount exceeds totalSize it is clamped
// to totalSize so that no range is empty.
func Plan(totalSize uint64, partCount int) ([]domain.ByteRange, error) {
	if totalSize == 0 {
		return nil, fmt.Errorf("%w: total size must be positive", errpkg.ErrInvalidInput)
	}
	if partCount <= 0 {
		return nil, fmt.Errorf("%w: part count must be positive: %d", errpkg.ErrInvalidInput, partCount)
	}

	parts := uint64(partCount)
	if parts > totalSize {
		parts = totalSize
	}

	chunkSize := totalSize / parts
	ranges := make([]domain.ByteRange, parts)
	for i := uint64(0); i < parts; i++ {
		start := i * chunkSize
		end := start + chunkSize - 1
		if i == parts-1 {
			end = totalSize - 1
		}
		ranges[i] = domain.ByteRange{Index: int(i), Start: start, End: end}
	}

	return ranges, nil
}
