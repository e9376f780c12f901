package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DownloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "range_downloader_downloads_total",
		Help: "Total number of download attempts",
	})

	DownloadsSuccess = promauto.NewCounter(prometheus.CounterOpts{
		Name: "range_downloader_downloads_success_total",
		Help: "Total number of successful downloads",
	})

	DownloadsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "range_downloader_downloads_failed_total",
		Help: "Total number of failed downloads",
	})

	DownloadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "range_downloader_download_duration_seconds",
		Help:    "Download duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	ChunksFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "range_downloader_chunks_fetched_total",
		Help: "Total number of chunks fetched successfully",
	})

	ChunksFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "range_downloader_chunks_failed_total",
		Help: "Total number of failed chunk fetches by failure kind",
	}, []string{"kind"})

	ChunksInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "range_downloader_chunks_in_flight",
		Help: "Number of chunk fetches currently running",
	})

	ChunkDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "range_downloader_chunk_duration_seconds",
		Help:    "Chunk fetch duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	BytesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "range_downloader_bytes_fetched_total",
		Help: "Total bytes received from range requests",
	})

	BytesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "range_downloader_bytes_written_total",
		Help: "Total bytes written to output files",
	})
)
