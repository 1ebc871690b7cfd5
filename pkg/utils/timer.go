// pkg/utils/timer.go

package utils

import (
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
)

// Timer accumulates record/byte counts for one output stream and reports
// throughput when finished. It optionally drives a progress bar; with quiet
// set (or stderr not a terminal) only the final summary line is logged.
//
// Increment may be called from a single goroutine only; the counters are
// atomic so that Records/Bytes can be read concurrently for reporting.
type Timer struct {
	start    time.Time
	records  int64
	bytes    int64
	label    string
	progress *mpb.Progress
	bar      *mpb.Bar
}

// NewTimer starts throughput accounting for the stream named by label.
func NewTimer(label string, quiet bool) *Timer {
	t := &Timer{start: Now(), label: label}
	t.progress, t.bar = NewDynProgressBar(label, quiet)
	return t
}

// Increment records that n records totalling b bytes were written.
func (t *Timer) Increment(n, b int64) {
	atomic.AddInt64(&t.records, n)
	atomic.AddInt64(&t.bytes, b)
	if t.bar != nil {
		t.bar.IncrInt64(n)
		t.bar.SetTotal(atomic.LoadInt64(&t.records), false)
	}
}

// Records returns the number of records counted so far.
func (t *Timer) Records() int64 { return atomic.LoadInt64(&t.records) }

// Bytes returns the number of bytes counted so far.
func (t *Timer) Bytes() int64 { return atomic.LoadInt64(&t.bytes) }

// Elapsed returns the wall time since the timer was started.
func (t *Timer) Elapsed() time.Duration { return time.Since(t.start) }

// Finish completes the progress bar and logs a throughput summary.
// It must be called exactly once.
func (t *Timer) Finish() {
	if t.bar != nil {
		t.bar.SetTotal(atomic.LoadInt64(&t.records), true)
		t.progress.Wait()
		t.bar = nil
	}
	used := t.Elapsed()
	n, b := t.Records(), t.Bytes()
	rate := float64(n) / used.Seconds()
	logger.Infof("%s: wrote %d records (%d bytes) in %.1fs, %.0f records/s",
		t.label, n, b, used.Seconds(), rate)
}

var logger = GetLogger("seqpipe")
