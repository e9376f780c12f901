package storage

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/veranemoloko/range-downloader/internal/domain"
	errpkg "github.com/veranemoloko/range-downloader/internal/errors"
	"github.com/veranemoloko/range-downloader/internal/metrics"
)

// WriteFunc is called after each chunk is written with the cumulative byte count.
type WriteFunc func(total uint64)

// Assembler concatenates fetched chunks into a single output file.
type Assembler struct {
	files  *FileStorage
	logger *slog.Logger
}

func NewAssembler(files *FileStorage, logger *slog.Logger) *Assembler {
	return &Assembler{files: files, logger: logger}
}

// Assemble writes the payloads of chunks, which must be successful and sorted
// by range index, to dest. The data goes to a staging file that replaces dest
// only after every chunk was written and synced; on failure dest is untouched.
func (a *Assembler) Assemble(chunks []domain.ChunkResult, dest string, onWrite WriteFunc) (uint64, error) {
	if err := checkOrder(chunks); err != nil {
		return 0, err
	}

	f, stagingPath, err := a.files.CreateStaging(dest)
	if err != nil {
		return 0, fmt.Errorf("%w: create %s: %w", errpkg.ErrWriteFailed, dest, err)
	}

	total, err := writeChunks(f, chunks, onWrite)
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = a.files.Commit(stagingPath, dest)
	}

	if err != nil {
		if rmErr := a.files.Discard(stagingPath); rmErr != nil {
			a.logger.Warn("failed to remove staging file", "path", stagingPath, "error", rmErr)
		}
		return total, fmt.Errorf("%w: %s: %w", errpkg.ErrWriteFailed, dest, err)
	}

	metrics.BytesWritten.Add(float64(total))
	a.logger.Debug("output assembled", "path", dest, "bytes", total, "chunks", len(chunks))
	return total, nil
}

func writeChunks(w io.Writer, chunks []domain.ChunkResult, onWrite WriteFunc) (uint64, error) {
	var total uint64
	for _, c := range chunks {
		n, err := w.Write(c.Payload)
		total += uint64(n)
		if err != nil {
			return total, fmt.Errorf("write chunk %d: %w", c.Range.Index, err)
		}
		if n != len(c.Payload) {
			return total, fmt.Errorf("write chunk %d: %w", c.Range.Index, io.ErrShortWrite)
		}
		if onWrite != nil {
			onWrite(total)
		}
	}
	return total, nil
}

func checkOrder(chunks []domain.ChunkResult) error {
	for i, c := range chunks {
		if c.Failed() {
			return fmt.Errorf("%w: chunk %d has no payload", errpkg.ErrInvalidInput, c.Range.Index)
		}
		if c.Range.Index != i {
			return fmt.Errorf("%w: chunk at position %d has index %d", errpkg.ErrInvalidInput, i, c.Range.Index)
		}
	}
	return nil
}
