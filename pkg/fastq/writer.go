// pkg/fastq/writer.go

package fastq

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"SeqPipe/pkg/utils"
)

// Writer appends one mate's output batches to an already-provisioned output
// stream, verbatim and in original input order. The scheduler is responsible
// for delivering chunks in order; the writer checks the offset invariant and
// fails loudly on a violation instead of reordering silently.
type Writer struct {
	mate       Mate
	bw         *bufio.Writer
	timer      *utils.Timer
	lastOffset int64
	finalized  bool
}

// NewWriter wraps an open output stream for the given mate. With progress
// set the writer accounts records and bytes through a Timer and reports
// throughput on Finalize.
func NewWriter(w io.Writer, mate Mate, progress bool) (*Writer, error) {
	if !mate.Valid() {
		return nil, errors.Wrapf(ErrInvalidMate, "writer for %s", mate)
	}
	fw := &Writer{mate: mate, bw: bufio.NewWriterSize(w, 256<<10)}
	if progress {
		fw.timer = utils.NewTimer("write "+mate.String(), false)
	}
	return fw, nil
}

// Process writes c.Output[mate] as-is, line by line with no inserted
// terminators, then truncates the batch in place so the chunk can be
// recycled without leaking content into the next cycle.
func (w *Writer) Process(c *Chunk) error {
	if w.finalized {
		return errors.Errorf("writer %s: write after finalize", w.mate)
	}
	if c.Offset < w.lastOffset {
		return errors.Errorf("writer %s: chunk at offset %d arrived after offset %d; chunks must be written in input order",
			w.mate, c.Offset, w.lastOffset)
	}
	w.lastOffset = c.Offset

	out := c.Output[w.mate]
	var n int64
	for _, line := range out {
		nn, err := w.bw.WriteString(line)
		n += int64(nn)
		if err != nil {
			return &IOError{Mate: w.mate, Op: "write", Line: c.Offset, Err: err}
		}
	}
	c.Output[w.mate] = out[:0]
	if w.timer != nil {
		// 4-line FASTQ framing, for progress accounting only.
		w.timer.Increment(int64(len(out)/4), n)
	}
	return nil
}

// Finalize flushes buffered output and emits the throughput summary when
// progress reporting is enabled. It must be called exactly once, after the
// last chunk and before the stream is closed.
func (w *Writer) Finalize() error {
	if w.finalized {
		return errors.Errorf("writer %s: finalize called twice", w.mate)
	}
	w.finalized = true
	if err := w.bw.Flush(); err != nil {
		return &IOError{Mate: w.mate, Op: "write", Line: w.lastOffset, Err: err}
	}
	if w.timer != nil {
		w.timer.Finish()
	}
	return nil
}

// Close verifies the finalize contract. Closing without Finalize still
// flushes best-effort so no silently buffered data is lost, but reports the
// contract violation to the caller.
func (w *Writer) Close() error {
	if !w.finalized {
		_ = w.bw.Flush()
		return errors.Errorf("writer %s: closed before finalize", w.mate)
	}
	return nil
}
