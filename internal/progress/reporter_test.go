package progress

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer shared with the update loop.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestReporterChunkTracking(t *testing.T) {
	reporter := NewReporter(Options{TotalSize: 100, TotalChunks: 4, Quiet: true})

	reporter.ChunkStarted(0)
	reporter.ChunkStarted(1)
	reporter.ChunkStarted(2)
	if got := reporter.Snapshot().InProgress; got != 3 {
		t.Errorf("expected 3 in-progress, got %d", got)
	}

	reporter.ChunkFinished(0, 25, nil)
	reporter.ChunkFinished(1, 0, errors.New("boom"))

	s := reporter.Snapshot()
	if s.InProgress != 1 {
		t.Errorf("expected 1 in-progress, got %d", s.InProgress)
	}
	if s.CompletedChunks != 1 {
		t.Errorf("expected 1 completed, got %d", s.CompletedChunks)
	}
	if s.FailedChunks != 1 {
		t.Errorf("expected 1 failed, got %d", s.FailedChunks)
	}
	if s.FetchedBytes != 25 {
		t.Errorf("expected 25 fetched bytes, got %d", s.FetchedBytes)
	}
	if s.Percent != 25 {
		t.Errorf("expected 25%%, got %.1f", s.Percent)
	}
}

func TestReporterSetPlan(t *testing.T) {
	reporter := NewReporter(Options{Quiet: true})
	reporter.SetPlan("http://example.com/a", 2048, 8)

	s := reporter.Snapshot()
	if s.URL != "http://example.com/a" || s.TotalSize != 2048 || s.TotalChunks != 8 {
		t.Errorf("unexpected snapshot after SetPlan: %+v", s)
	}
}

func TestReporterOutputCompleted(t *testing.T) {
	var out syncBuffer
	reporter := NewReporter(Options{
		TotalSize:      2048,
		TotalChunks:    2,
		SourceURL:      "http://example.com/file",
		Output:         &out,
		UpdateInterval: 10 * time.Millisecond,
	})

	reporter.Start()
	reporter.ChunkStarted(0)
	reporter.ChunkFinished(0, 2048, nil)
	reporter.BytesWritten(2048)
	time.Sleep(30 * time.Millisecond)
	reporter.Finish(nil)
	reporter.Finish(nil)

	got := out.String()
	for _, want := range []string{"Downloading: http://example.com/file", "2.0 KiB", "Download completed!"} {
		if !bytes.Contains([]byte(got), []byte(want)) {
			t.Errorf("expected output to contain %q, got %q", want, got)
		}
	}
	if !reporter.Snapshot().Finished {
		t.Errorf("expected snapshot to be finished")
	}
}

func TestReporterOutputFailed(t *testing.T) {
	var out syncBuffer
	reporter := NewReporter(Options{TotalSize: 10, TotalChunks: 2, Output: &out, UpdateInterval: time.Hour})

	reporter.Start()
	reporter.ChunkFinished(1, 0, errors.New("boom"))
	reporter.Finish(errors.New("download failed"))

	if !bytes.Contains([]byte(out.String()), []byte("Download failed")) {
		t.Errorf("expected failure message, got %q", out.String())
	}
	if reporter.Snapshot().Error != "download failed" {
		t.Errorf("expected error in snapshot, got %q", reporter.Snapshot().Error)
	}
}

func TestReporterFinishWithoutStart(t *testing.T) {
	reporter := NewReporter(Options{Output: &syncBuffer{}})
	done := make(chan struct{})
	go func() {
		reporter.Finish(nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Finish blocked without Start")
	}
}
