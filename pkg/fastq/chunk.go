// pkg/fastq/chunk.go

package fastq

// Chunk is a recyclable batch of input lines and produced output lines for
// both mates of a paired-end run, tagged with the 1-based line offset the
// batch starts at. A chunk is owned by exactly one pipeline stage at a time
// and is handed between stages by move, so no locking guards its contents.
type Chunk struct {
	// Offset is the 1-based line number of the first line of the batch,
	// set by the reader that filled it. It is the ordering key downstream.
	Offset int64

	// Mates holds the raw input lines per mate, line terminators stripped.
	// A zero-length batch is the end-of-stream sentinel for that mate.
	Mates [MateCount][]string

	// Output holds lines to write verbatim; any terminator must already be
	// embedded by the producer.
	Output [MateCount][]string
}

// Reset truncates all batches in place, keeping their storage so the chunk
// can be refilled without allocating.
func (c *Chunk) Reset() {
	c.Offset = 0
	for m := range c.Mates {
		c.Mates[m] = c.Mates[m][:0]
		c.Output[m] = c.Output[m][:0]
	}
}

// Empty reports whether no mate has any input lines. A chunk that is still
// empty after all readers ran is the pipeline's terminal sentinel.
func (c *Chunk) Empty() bool {
	for m := range c.Mates {
		if len(c.Mates[m]) > 0 {
			return false
		}
	}
	return true
}
