package domain

// ChunkResult is the outcome of fetching one ByteRange.
// Exactly one of Payload or Err is meaningful; a failed result carries
// a *errors.ChunkFetchError.
type ChunkResult struct {
	Range   ByteRange
	Payload []byte
	Err     error
}

func (c ChunkResult) Failed() bool {
	return c.Err != nil
}
