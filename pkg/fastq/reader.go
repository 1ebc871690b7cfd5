// pkg/fastq/reader.go

package fastq

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// DefaultBatchLines is the number of lines a reader pulls per chunk
// (a multiple of 4 so whole FASTQ records never straddle a batch).
const DefaultBatchLines = 4096

// Reader exposes one already-open input stream as a sequence of fixed-size
// line batches. One instance exists per mate; each holds a private stream
// cursor, so calls on one instance must be sequential while the two mate
// instances may run in parallel.
type Reader struct {
	mate   Mate
	br     *bufio.Reader
	batch  int
	offset int64 // 1-based line number of the next unread line
	eof    bool
}

// NewReader wraps an open stream for the given mate. batchLines <= 0 selects
// DefaultBatchLines. A mate outside Mate1/Mate2 fails with ErrInvalidMate
// before the stream is touched.
func NewReader(r io.Reader, mate Mate, batchLines int) (*Reader, error) {
	if !mate.Valid() {
		return nil, errors.Wrapf(ErrInvalidMate, "reader for %s", mate)
	}
	if batchLines <= 0 {
		batchLines = DefaultBatchLines
	}
	return &Reader{
		mate:   mate,
		br:     bufio.NewReaderSize(r, 256<<10),
		batch:  batchLines,
		offset: 1,
	}, nil
}

// Process fills c.Mates[mate] with up to batch-size lines starting exactly
// where the previous call stopped, reusing the chunk's line storage. The
// chunk offset is set to the 1-based line number of the first line of the
// batch. At end of stream the batch is left empty, which is the sentinel;
// it is stable across further calls.
func (r *Reader) Process(c *Chunk) error {
	lines := c.Mates[r.mate][:0]
	c.Offset = r.offset
	for !r.eof && len(lines) < r.batch {
		line, err := r.br.ReadString('\n')
		if len(line) > 0 {
			lines = append(lines, trimEOL(line))
			r.offset++
		}
		if err == io.EOF {
			r.eof = true
			break
		}
		if err != nil {
			c.Mates[r.mate] = lines
			return &IOError{Mate: r.mate, Op: "read", Line: r.offset, Err: err}
		}
	}
	c.Mates[r.mate] = lines
	return nil
}

// Finalize implements the pipeline step contract; readers have nothing to
// flush.
func (r *Reader) Finalize() error { return nil }

// Offset returns the reader's 1-based cursor, i.e. 1 plus the number of
// lines consumed so far.
func (r *Reader) Offset() int64 { return r.offset }

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
