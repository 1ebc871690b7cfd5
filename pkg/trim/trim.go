// pkg/trim/trim.go

// Package trim is the transform stage between the paired readers and
// writers: it checks line framing and positional pairing, trims low-quality
// 3' tails, and produces the output batches the writers drain. The heavier
// adapter-detection algorithms are deliberately not part of this stage.
package trim

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"SeqPipe/pkg/fastq"
	"SeqPipe/pkg/utils"
)

var logger = utils.GetLogger("seqpipe")

// DefaultQualityCutoff matches the conventional minimum-quality default of
// read trimmers: bases with Phred quality <= 2 are considered uncalled.
const DefaultQualityCutoff = 2

const phredOffset = 33

// Options control the transform.
type Options struct {
	// Paired enables the pair-alignment check between the two mates.
	Paired bool
	// QualityCutoff is the Phred score at or below which 3' bases are
	// trimmed. Negative disables trimming.
	QualityCutoff int
}

// Stats are cumulative per-run counters. They are updated atomically because
// the step runs on several worker goroutines at once.
type Stats struct {
	Records  int64
	BasesIn  int64
	BasesOut int64
}

// Step implements sched.Step. It keeps no per-chunk state, so concurrent
// Process calls on distinct chunks are safe.
type Step struct {
	opts  Options
	stats Stats
}

func New(opts Options) *Step {
	return &Step{opts: opts}
}

// Process consumes c.Mates and fills c.Output with newline-terminated lines
// ready to write verbatim. The input batches are cleared after consumption
// so the chunk recycles clean.
func (s *Step) Process(c *fastq.Chunk) error {
	if s.opts.Paired {
		n1, n2 := len(c.Mates[fastq.Mate1]), len(c.Mates[fastq.Mate2])
		if n1 != n2 {
			return errors.Errorf("paired input out of sync at line %d: mate 1 has %d lines, mate 2 has %d; input files differ in length",
				c.Offset, n1, n2)
		}
	}
	for m := fastq.Mate1; m < fastq.MateCount; m++ {
		if err := s.processMate(c, m); err != nil {
			return err
		}
	}
	return nil
}

func (s *Step) processMate(c *fastq.Chunk, m fastq.Mate) error {
	lines := c.Mates[m]
	if len(lines) == 0 {
		return nil
	}
	if len(lines)%4 != 0 {
		return errors.Errorf("truncated FASTQ record in %s near line %d: batch of %d lines is not a whole number of records",
			m, c.Offset+int64(len(lines))-1, len(lines))
	}

	out := c.Output[m]
	var basesIn, basesOut int64
	for i := 0; i < len(lines); i += 4 {
		seq, qual := lines[i+1], lines[i+3]
		keep := utils.Min(len(seq), len(qual))
		basesIn += int64(len(seq))
		if s.opts.QualityCutoff >= 0 {
			for keep > 0 && int(qual[keep-1])-phredOffset <= s.opts.QualityCutoff {
				keep--
			}
		}
		basesOut += int64(keep)
		out = append(out,
			lines[i]+"\n",
			seq[:keep]+"\n",
			lines[i+2]+"\n",
			qual[:keep]+"\n")
	}
	c.Output[m] = out
	c.Mates[m] = lines[:0]

	atomic.AddInt64(&s.stats.Records, int64(len(lines)/4))
	atomic.AddInt64(&s.stats.BasesIn, basesIn)
	atomic.AddInt64(&s.stats.BasesOut, basesOut)
	return nil
}

// Finalize logs the per-run trimming summary.
func (s *Step) Finalize() error {
	st := s.Stats()
	logger.Infof("trimmed %d records: %d of %d bases removed",
		st.Records, st.BasesIn-st.BasesOut, st.BasesIn)
	return nil
}

// Stats returns a consistent snapshot of the counters.
func (s *Step) Stats() Stats {
	return Stats{
		Records:  atomic.LoadInt64(&s.stats.Records),
		BasesIn:  atomic.LoadInt64(&s.stats.BasesIn),
		BasesOut: atomic.LoadInt64(&s.stats.BasesOut),
	}
}
