package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

// Options configures the progress reporter.
type Options struct {
	// TotalSize is the total size in bytes to download.
	TotalSize uint64

	// TotalChunks is the number of planned ranges.
	TotalChunks int

	// Output is where to write progress output.
	// Default: os.Stdout
	Output io.Writer

	// UpdateInterval is how often to redraw the progress line.
	// Default: 500ms
	UpdateInterval time.Duration

	// SourceURL is the URL being downloaded (for display).
	SourceURL string

	// Quiet disables all terminal output; counters are still tracked.
	Quiet bool
}

// Snapshot is a point-in-time view of download progress.
type Snapshot struct {
	URL             string  `json:"url"`
	TotalSize       uint64  `json:"total_size"`
	TotalChunks     int     `json:"total_chunks"`
	FetchedBytes    uint64  `json:"fetched_bytes"`
	WrittenBytes    uint64  `json:"written_bytes"`
	CompletedChunks int     `json:"completed_chunks"`
	FailedChunks    int     `json:"failed_chunks"`
	InProgress      int     `json:"in_progress"`
	Percent         float64 `json:"percent"`
	Finished        bool    `json:"finished"`
	Error           string  `json:"error,omitempty"`
}

// Reporter renders human-readable download progress.
type Reporter struct {
	opts Options

	fetchedBytes    atomic.Uint64
	writtenBytes    atomic.Uint64
	completedChunks atomic.Int32
	failedChunks    atomic.Int32
	inProgress      atomic.Int32

	mu        sync.Mutex
	startTime time.Time
	finished  bool
	finalErr  error
	stopCh    chan struct{}
	doneCh    chan struct{}
	started   bool
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.UpdateInterval <= 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}

	return &Reporter{
		opts:   opts,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// SetPlan records the resource size and chunk count once they are known.
// It must be called before Start.
func (r *Reporter) SetPlan(url string, totalSize uint64, totalChunks int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts.SourceURL = url
	r.opts.TotalSize = totalSize
	r.opts.TotalChunks = totalChunks
}

// Start prints the header and begins periodic updates.
func (r *Reporter) Start() {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.startTime = time.Now()
	opts := r.opts
	r.mu.Unlock()

	if opts.Quiet {
		close(r.doneCh)
		return
	}

	fmt.Fprintf(opts.Output, "Downloading: %s\n", opts.SourceURL)
	fmt.Fprintf(opts.Output, "Total size: %s | Parts: %d\n", humanize.IBytes(opts.TotalSize), opts.TotalChunks)

	go r.updateLoop()
}

// ChunkStarted marks a chunk as in flight.
func (r *Reporter) ChunkStarted(index int) {
	r.inProgress.Add(1)
}

// ChunkFinished marks a chunk as done. n is the payload size on success.
func (r *Reporter) ChunkFinished(index int, n int, err error) {
	r.inProgress.Add(-1)
	if err != nil {
		r.failedChunks.Add(1)
		return
	}
	r.completedChunks.Add(1)
	r.fetchedBytes.Add(uint64(n))
}

// BytesWritten records the cumulative number of bytes written to the output.
func (r *Reporter) BytesWritten(total uint64) {
	r.writtenBytes.Store(total)
}

// Finish stops periodic updates and prints the final status. It is safe to call more than once.
func (r *Reporter) Finish(err error) {
	r.mu.Lock()
	if r.finished {
		r.mu.Unlock()
		return
	}
	r.finished = true
	r.finalErr = err
	started := r.started
	r.mu.Unlock()

	close(r.stopCh)
	if started {
		<-r.doneCh
	}
}

// Snapshot returns the current counters.
func (r *Reporter) Snapshot() Snapshot {
	r.mu.Lock()
	opts := r.opts
	finished := r.finished
	finalErr := r.finalErr
	r.mu.Unlock()

	s := Snapshot{
		URL:             opts.SourceURL,
		TotalSize:       opts.TotalSize,
		TotalChunks:     opts.TotalChunks,
		FetchedBytes:    r.fetchedBytes.Load(),
		WrittenBytes:    r.writtenBytes.Load(),
		CompletedChunks: int(r.completedChunks.Load()),
		FailedChunks:    int(r.failedChunks.Load()),
		InProgress:      int(r.inProgress.Load()),
		Finished:        finished,
	}
	if opts.TotalSize > 0 {
		s.Percent = float64(s.FetchedBytes) / float64(opts.TotalSize) * 100
	}
	if finalErr != nil {
		s.Error = finalErr.Error()
	}
	return s
}

func (r *Reporter) updateLoop() {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			r.printFinalStatus()
			return
		case <-ticker.C:
			r.printProgress()
		}
	}
}

func (r *Reporter) printProgress() {
	s := r.Snapshot()
	fmt.Fprintf(r.opts.Output, "\rProgress: %5.1f%% | %s / %s | Parts: %d done, %d running, %d failed    ",
		s.Percent,
		humanize.IBytes(s.FetchedBytes),
		humanize.IBytes(s.TotalSize),
		s.CompletedChunks,
		s.InProgress,
		s.FailedChunks,
	)
}

func (r *Reporter) printFinalStatus() {
	s := r.Snapshot()
	elapsed := time.Since(r.startTime)

	if s.Error != "" {
		fmt.Fprintf(r.opts.Output, "\rDownload failed after %s: %d of %d parts failed    \n",
			elapsed.Round(time.Millisecond), s.FailedChunks, s.TotalChunks)
		return
	}

	speed := uint64(0)
	if secs := elapsed.Seconds(); secs > 0 {
		speed = uint64(float64(s.WrittenBytes) / secs)
	}
	fmt.Fprintf(r.opts.Output, "\rDownload completed! %s in %s (%s/s)    \n",
		humanize.IBytes(s.WrittenBytes),
		elapsed.Round(time.Millisecond),
		humanize.IBytes(speed),
	)
}
