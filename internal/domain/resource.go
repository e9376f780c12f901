package domain

import (
	"fmt"
	"time"
)

// ResourceDescriptor identifies the remote resource and its size.
// It is obtained once by the size probe and not modified afterwards.
type ResourceDescriptor struct {
	URL           string `json:"url"`
	TotalSize     uint64 `json:"total_size"`
	AcceptsRanges bool   `json:"accepts_ranges"`
}

// ByteRange is an inclusive span of the resource.
type ByteRange struct {
	Index int    `json:"index"`
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}

// Len returns the number of bytes covered by the range.
func (r ByteRange) Len() uint64 {
	return r.End - r.Start + 1
}

// HeaderValue formats the range for the HTTP Range header.
func (r ByteRange) HeaderValue() string {
	return fmt.Sprintf("bytes=%d-%d", r.Start, r.End)
}

func (r ByteRange) String() string {
	return fmt.Sprintf("#%d [%d-%d]", r.Index, r.Start, r.End)
}

// DownloadOutcome summarizes a download whose output was fully written.
type DownloadOutcome struct {
	URL          string        `json:"url"`
	Path         string        `json:"path"`
	BytesWritten uint64        `json:"bytes_written"`
	Parts        int           `json:"parts"`
	Duration     time.Duration `json:"duration"`
}
